package chat

import (
	"reflect"
	"testing"
	"time"
)

func testParser() Parser {
	return Parser{
		Rooms: []string{"R2.1", "R2.2", "R3.1", "R3.2", "R3.3", "R3.5"},
		Now:   func() time.Time { return time.Date(2025, 12, 9, 15, 0, 0, 0, time.UTC) },
	}
}

func TestParse(t *testing.T) {
	p := testParser()

	tests := []struct {
		name string
		text string
		want Command
	}{
		{
			name: "help",
			text: "<@UBOT> 회의실 도움말",
			want: Command{Kind: KindHelp},
		},
		{
			name: "question mark means help",
			text: "<@UBOT> 이거 뭐야?",
			want: Command{Kind: KindHelp},
		},
		{
			name: "check today",
			text: "<@UBOT> 회의실 오늘",
			want: Command{Kind: KindCheck, Date: "2025-12-09"},
		},
		{
			name: "check with time through tel link",
			text: "<@UBOT> 회의실 <tel:2512101000|251210 1000>",
			want: Command{Kind: KindCheck, Date: "2025-12-10", Time: "10:00"},
		},
		{
			name: "bare room keyword",
			text: "<@UBOT> 회의실",
			want: Command{Kind: KindCheck, Date: "2025-12-09"},
		},
		{
			name: "reserve minimal",
			text: "<@UBOT> 회의실 예약 251210 1000 r3.1 1",
			want: Command{Kind: KindReserve, Date: "2025-12-10", Time: "10:00", Room: "R3.1", Hours: 1},
		},
		{
			name: "reserve with title and attendees",
			text: `<@UBOT> 회의실 예약 251210 1430 R2.2 1.5 "팀 미팅" <@U1> <@U2>`,
			want: Command{Kind: KindReserve, Date: "2025-12-10", Time: "14:30", Room: "R2.2", Hours: 1.5, Title: "팀 미팅", Attendees: []string{"U1", "U2"}},
		},
		{
			name: "schedule",
			text: `<@UBOT> 일정 내일 0900 2 “주간 회의” <@U3>`,
			want: Command{Kind: KindSchedule, Date: "2025-12-10", Time: "09:00", Hours: 2, Title: "주간 회의", Attendees: []string{"U3"}},
		},
		{
			name: "notes default",
			text: "<@UBOT> 회의록",
			want: Command{Kind: KindNotes, NotesAction: NotesList},
		},
		{
			name: "notes list",
			text: "<@UBOT> 회의록 목록",
			want: Command{Kind: KindNotes, NotesAction: NotesList},
		},
		{
			name: "notes search",
			text: "<@UBOT> 회의록 검색 스프린트 회고",
			want: Command{Kind: KindNotes, NotesAction: NotesSearch, Query: "스프린트 회고"},
		},
		{
			name: "notes detail",
			text: "<@UBOT> 회의록 42",
			want: Command{Kind: KindNotes, NotesAction: NotesDetail, Query: "42"},
		},
		{
			name: "question",
			text: "<@UBOT> 연차 사용 규정 알려줘",
			want: Command{Kind: KindQuestion, Question: "연차 사용 규정 알려줘"},
		},
		{
			name: "schedule word inside a question",
			text: "<@UBOT> 다음 주 일정 공유해줘",
			want: Command{Kind: KindQuestion, Question: "다음 주 일정 공유해줘"},
		},
		{
			name: "empty mention",
			text: "<@UBOT>",
			want: Command{Kind: KindUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) =\n  %+v\nwant\n  %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	p := testParser()

	tests := []struct {
		name string
		text string
		kind Kind
	}{
		{"hours out of range", "<@UBOT> 회의실 예약 251210 1000 R3.1 9", KindReserve},
		{"hours not half steps", "<@UBOT> 회의실 예약 251210 1000 R3.1 1.25", KindReserve},
		{"unknown room", "<@UBOT> 회의실 예약 251210 1000 R9.9 1", KindReserve},
		{"reserve missing args", "<@UBOT> 회의실 예약", KindReserve},
		{"bad date", "<@UBOT> 회의실 12/10", KindCheck},
		{"schedule zero hours", `<@UBOT> 일정 251210 1000 0 "x"`, KindSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			if got.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.kind)
			}
			if got.Err == "" {
				t.Errorf("expected a parse error for %q", tt.text)
			}
		})
	}
}

func TestMentions(t *testing.T) {
	if got := Mentions("<@UBOT> hi"); got != nil {
		t.Errorf("bot-only mention should yield nil, got %v", got)
	}
	if got := Mentions("<@UBOT> <@UA> <@UB>"); !reflect.DeepEqual(got, []string{"UA", "UB"}) {
		t.Errorf("Mentions = %v", got)
	}
}
