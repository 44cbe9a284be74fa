package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/codemon-ai/make-meeting-room/internal/assistant"
	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// HelpText is the reply to a help command.
const HelpText = "*📖 회의실 봇 사용법*\n\n" +
	"*조회*\n" +
	"• `@봇 회의실 오늘` / `@봇 회의실 내일`\n" +
	"• `@봇 회의실 251210` (YYMMDD)\n" +
	"• `@봇 회의실 251210 1000` 특정 시간 기준\n\n" +
	"*예약* (캘린더 일정 포함)\n" +
	"• `@봇 회의실 예약 251210 1000 R3.1 1`\n" +
	"• `@봇 회의실 예약 251210 1000 R3.1 0.5 \"팀 미팅\" @참석자`\n" +
	"  러닝타임은 0.5~8시간, 30분 단위\n\n" +
	"*일정* (회의실 없이 캘린더만)\n" +
	"• `@봇 일정 251210 1000 1 \"주간 회의\" @참석자`\n\n" +
	"*회의록*\n" +
	"• `@봇 회의록 목록` / `@봇 회의록 검색 키워드` / `@봇 회의록 12`\n\n" +
	"그 밖의 질문은 RTB 문서 기반으로 답변합니다."

// roomLines renders one room's day as status lines.
func roomLines(ra models.RoomAvailability, window models.Interval) []string {
	if availability.FullyFree(ra, window) {
		return []string{"✅ 종일 가능"}
	}
	var lines []string
	for _, e := range availability.Timeline(ra) {
		if e.Free {
			lines = append(lines, fmt.Sprintf("✅ %s", e.Interval))
			continue
		}
		who := e.Reservation.Reserver
		if who == "" {
			who = "예약됨"
		}
		lines = append(lines, fmt.Sprintf("❌ %s _%s_", e.Interval, who))
	}
	if len(lines) == 0 {
		lines = append(lines, "❌ 예약 불가")
	}
	return lines
}

// AvailabilityText is the plain-text availability reply, also used as the
// notification fallback for the block layout.
func AvailabilityText(all []models.RoomAvailability, date, today string, window models.Interval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s 회의실 현황\n", utils.FormatDateDisplay(date, today))
	b.WriteString(strings.Repeat("─", 30))
	for _, ra := range all {
		fmt.Fprintf(&b, "\n\n🏢 %s", ra.Room.Label())
		for _, line := range roomLines(ra, window) {
			b.WriteString("\n  " + line)
		}
	}
	return b.String()
}

// AvailabilityBlocks is the Block Kit availability reply. Status entries
// are grouped three per line.
func AvailabilityBlocks(all []models.RoomAvailability, date, today, checkedAt string, window models.Interval) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("📅 %s 회의실 현황", utils.FormatDateDisplay(date, today)), true, false)),
		slack.NewDividerBlock(),
	}
	for _, ra := range all {
		parts := roomLines(ra, window)
		lines := []string{fmt.Sprintf("*🏢 %s*", ra.Room.Label())}
		for i := 0; i < len(parts); i += 3 {
			end := min(i+3, len(parts))
			lines = append(lines, strings.Join(parts[i:end], " | "))
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(lines, "\n"), false, false), nil, nil))
	}
	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.MarkdownType, "🔄 조회 시각: "+checkedAt, false, false)),
	)
	return blocks
}

// TimeFilterText lists which rooms are free for one slot starting at start.
func TimeFilterText(all []models.RoomAvailability, start models.Clock, slot int, window models.Interval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📍 기준 시간: %s", start)
	slotIv := models.Interval{Start: start, End: start + models.Clock(slot)}
	if !slotIv.Valid() {
		return b.String()
	}
	for _, ra := range all {
		d, err := availability.CheckRoom(slotIv, ra, window)
		if err != nil {
			continue
		}
		switch {
		case d.Available:
			fmt.Fprintf(&b, "\n• %s ✅ 사용 가능", ra.Room.Name)
		case d.Conflict != nil:
			fmt.Fprintf(&b, "\n• %s ❌ %s 예약 (%s)", ra.Room.Name, d.Conflict.Reserver, d.Conflict.Interval())
		default:
			fmt.Fprintf(&b, "\n• %s ❌ 예약 불가", ra.Room.Name)
		}
	}
	return b.String()
}

// ReservationSuccess describes a completed reservation.
func ReservationSuccess(res booking.BookResult, date, today string, iv models.Interval, title string, invited []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *회의실 예약 완료*\n\n")
	fmt.Fprintf(&b, "🏢 %s\n", res.Room.Label())
	fmt.Fprintf(&b, "📅 %s %s (%s)\n", utils.FormatDateDisplay(date, today), iv, utils.FormatDuration(iv.Duration()))
	fmt.Fprintf(&b, "📝 %s", title)

	switch {
	case res.Event != nil:
		b.WriteString("\n\n📅 Google Calendar 일정 생성 완료")
		if len(invited) > 0 {
			fmt.Fprintf(&b, "\n   초대: %s", strings.Join(invited, ", "))
		}
	case res.CalendarErr != nil:
		fmt.Fprintf(&b, "\n\n⚠️ 캘린더 일정 생성 실패: %v", res.CalendarErr)
	}
	return b.String()
}

// ReservationError describes a failed reservation.
func ReservationError(err error) string {
	var cerr *booking.ConflictError
	if errors.As(err, &cerr) {
		msg := "❌ *예약 실패*\n해당 시간에 이미 예약이 있습니다."
		if cerr.Reservation != nil {
			msg += fmt.Sprintf("\n   ❌ %s (%s)", cerr.Reservation.Interval(), cerr.Reservation.Reserver)
		}
		return msg
	}
	if errors.Is(err, booking.ErrRejected) {
		return fmt.Sprintf("❌ *예약 실패*\n그룹웨어가 예약을 거절했습니다: %v", err)
	}
	return fmt.Sprintf("❌ *예약 실패*\n%v", err)
}

// ScheduleSuccess describes a created calendar event.
func ScheduleSuccess(date, today string, iv models.Interval, title string, invited []string, link string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ *일정 생성 완료*\n\n")
	fmt.Fprintf(&b, "📅 %s %s\n", utils.FormatDateDisplay(date, today), iv)
	fmt.Fprintf(&b, "📝 %s", title)
	if len(invited) > 0 {
		fmt.Fprintf(&b, "\n👥 %s", strings.Join(invited, ", "))
	}
	if link != "" {
		fmt.Fprintf(&b, "\n🔗 <%s|캘린더에서 보기>", link)
	}
	return b.String()
}

// ScheduleError describes a failed calendar event.
func ScheduleError(err error) string {
	return fmt.Sprintf("❌ *일정 생성 실패*\n%v", err)
}

func titleOrDefault(title string) string {
	if strings.TrimSpace(title) == "" {
		return "제목 없음"
	}
	return title
}

// NotesListText renders up to ten recent notes.
func NotesListText(notes []assistant.Note) string {
	if len(notes) == 0 {
		return "📋 저장된 회의록이 없습니다."
	}
	var b strings.Builder
	b.WriteString("*📋 최근 회의록*\n\n")
	for i, n := range notes {
		if i == 10 {
			break
		}
		fmt.Fprintf(&b, "• *[%s]* %s (%s) - %s\n", n.ID, titleOrDefault(n.Title), n.Type, n.Date())
	}
	b.WriteString("\n💡 상세 조회: `@봇 회의록 [ID]`")
	return b.String()
}

// NotesSearchText renders up to five search hits.
func NotesSearchText(query string, hits []assistant.SearchHit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("🔍 %q에 대한 검색 결과가 없습니다.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*🔍 %q 검색 결과*\n\n", query)
	for i, h := range hits {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "• *[%s]* %s (유사도: %.1f%%)\n", h.Payload.ID, titleOrDefault(h.Payload.Title), h.Score*100)
		if h.Payload.Content != "" {
			content := []rune(h.Payload.Content)
			if len(content) > 100 {
				content = content[:100]
			}
			fmt.Fprintf(&b, "  _%s..._\n", string(content))
		}
	}
	b.WriteString("\n💡 상세 조회: `@봇 회의록 [ID]`")
	return b.String()
}

// NoteDetailText renders one note; nil means it was not found.
func NoteDetailText(id string, n *assistant.Note) string {
	if n == nil {
		return fmt.Sprintf("❌ ID %s번 회의록을 찾을 수 없습니다.", id)
	}
	content := n.Content
	if content == "" {
		content = "(내용 없음)"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "*📄 회의록 #%s*\n\n", n.ID)
	fmt.Fprintf(&b, "*제목:* %s\n", titleOrDefault(n.Title))
	fmt.Fprintf(&b, "*유형:* %s | *출처:* %s\n", n.Type, n.Source)
	fmt.Fprintf(&b, "*날짜:* %s\n\n", n.Date())
	fmt.Fprintf(&b, "*내용:*\n%s", content)
	return b.String()
}

// Split breaks text into chunks of at most limit characters, cutting at the
// last newline, else the last space, in the second half of the window, and
// hard-cutting otherwise.
func Split(text string, limit int) []string {
	if limit <= 0 {
		return []string{text}
	}
	rest := []rune(text)
	var chunks []string
	for len(rest) > 0 {
		if len(rest) <= limit {
			chunks = append(chunks, string(rest))
			break
		}
		cut := lastIndex(rest, '\n', limit)
		if cut < limit/2 {
			cut = lastIndex(rest, ' ', limit)
		}
		if cut < limit/2 || cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, strings.TrimSpace(string(rest[:cut])))
		rest = []rune(strings.TrimSpace(string(rest[cut:])))
	}
	if len(chunks) == 0 {
		chunks = []string{""}
	}
	return chunks
}

func lastIndex(rs []rune, r rune, from int) int {
	if from >= len(rs) {
		from = len(rs) - 1
	}
	for i := from; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}
