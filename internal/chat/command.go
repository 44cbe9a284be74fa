// Package chat implements the Slack bot: it parses mention text into
// commands, runs them against the booking service and the assistant, and
// formats the replies.
package chat

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// Kind is the kind of a parsed command.
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindCheck
	KindReserve
	KindSchedule
	KindNotes
	KindQuestion
)

func (k Kind) String() string {
	switch k {
	case KindHelp:
		return "help"
	case KindCheck:
		return "check"
	case KindReserve:
		return "reserve"
	case KindSchedule:
		return "schedule"
	case KindNotes:
		return "meeting_notes"
	case KindQuestion:
		return "question"
	default:
		return "unknown"
	}
}

// NotesAction selects a meeting-notes operation.
type NotesAction string

const (
	NotesList   NotesAction = "list"
	NotesSearch NotesAction = "search"
	NotesDetail NotesAction = "detail"
)

// Command is a parsed mention. Err holds a user-facing parse error.
type Command struct {
	Kind Kind
	Err  string

	Date  string
	Time  string
	Room  string
	Hours float64
	Title string
	// Attendees are Slack user ids mentioned after the bot.
	Attendees []string

	NotesAction NotesAction
	Query       string
	Question    string
}

var (
	mentionPattern  = regexp.MustCompile(`<@([A-Za-z0-9]+)>`)
	telLinkPattern  = regexp.MustCompile(`<tel:[^|>]+\|([^>]+)>`)
	schedulePattern = regexp.MustCompile(`일정\s+(\S+)\s+(\d{4})\s+([\d.]+)\s+["“”]([^"“”]+)["“”]`)
	scheduleLike    = regexp.MustCompile(`^일정\s+\S+\s+\d{4}`)
	notesList       = regexp.MustCompile(`회의록\s+목록`)
	notesSearch     = regexp.MustCompile(`회의록\s+검색\s+(.+)`)
	notesDetail     = regexp.MustCompile(`회의록\s+(\d+)`)
	reservePattern  = regexp.MustCompile(`(?i)회의실\s+예약\s+(\S+)\s+(\d{4})\s+(R\d\.\d)\s+([\d.]+)(?:\s+["“”]([^"“”]+)["“”])?`)
	checkPattern    = regexp.MustCompile(`회의실\s+(\S+)(?:\s+(\d{4}))?`)
)

// Parser turns mention text into a Command.
type Parser struct {
	// Rooms are the bookable room names.
	Rooms []string
	// Now anchors relative dates.
	Now func() time.Time
}

// Mentions returns the user ids mentioned in text, skipping the first one,
// which is the bot itself.
func Mentions(text string) []string {
	var ids []string
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		ids = append(ids, m[1])
	}
	if len(ids) <= 1 {
		return nil
	}
	return ids[1:]
}

// Clean strips user mentions and unwraps tel: links that Slack creates
// around digit runs.
func Clean(text string) string {
	text = mentionPattern.ReplaceAllString(text, "")
	text = telLinkPattern.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// Parse classifies text. Rules are tried in order: help, schedule, meeting
// notes, free-form question, reserve, check.
func (p Parser) Parse(text string) Command {
	attendees := Mentions(text)
	clean := Clean(text)
	lower := strings.ToLower(clean)

	if strings.Contains(clean, "도움말") || strings.Contains(clean, "사용법") ||
		strings.Contains(lower, "help") || strings.Contains(clean, "?") {
		return Command{Kind: KindHelp}
	}

	if m := schedulePattern.FindStringSubmatch(clean); m != nil {
		cmd := Command{Kind: KindSchedule, Title: m[4], Attendees: attendees}
		if err := p.fillWhen(&cmd, m[1], m[2], m[3]); err != nil {
			cmd.Err = err.Error()
		}
		return cmd
	}

	if strings.Contains(clean, "회의록") {
		if notesList.MatchString(clean) {
			return Command{Kind: KindNotes, NotesAction: NotesList}
		}
		if m := notesSearch.FindStringSubmatch(clean); m != nil {
			return Command{Kind: KindNotes, NotesAction: NotesSearch, Query: strings.TrimSpace(m[1])}
		}
		if m := notesDetail.FindStringSubmatch(clean); m != nil {
			return Command{Kind: KindNotes, NotesAction: NotesDetail, Query: m[1]}
		}
		return Command{Kind: KindNotes, NotesAction: NotesList}
	}

	if !strings.Contains(clean, "회의실") && !scheduleLike.MatchString(clean) {
		if clean == "" {
			return Command{Kind: KindUnknown}
		}
		return Command{Kind: KindQuestion, Question: clean}
	}

	if m := reservePattern.FindStringSubmatch(clean); m != nil {
		cmd := Command{Kind: KindReserve, Title: m[5], Attendees: attendees}
		if err := p.fillWhen(&cmd, m[1], m[2], m[4]); err != nil {
			cmd.Err = err.Error()
			return cmd
		}
		if math.Mod(cmd.Hours*2, 1) != 0 {
			cmd.Err = "러닝타임은 30분 단위로 입력하세요. (0.5, 1, 1.5, 2...)"
			return cmd
		}
		room, ok := p.room(m[3])
		if !ok {
			cmd.Err = fmt.Sprintf("회의실 %q을 찾을 수 없습니다. 가능한 회의실: %s", m[3], strings.Join(p.Rooms, ", "))
			return cmd
		}
		cmd.Room = room
		return cmd
	}

	if m := checkPattern.FindStringSubmatch(clean); m != nil {
		if m[1] == "예약" {
			return Command{Kind: KindReserve, Err: `예약 형식: @봇 회의실 예약 251210 1000 R3.1 1 "예약명"`}
		}
		cmd := Command{Kind: KindCheck}
		date, err := utils.ParseDateInput(m[1], p.now())
		if err != nil {
			cmd.Err = err.Error()
			return cmd
		}
		cmd.Date = date
		if m[2] != "" {
			t, err := utils.ParseShortTime(m[2])
			if err != nil {
				cmd.Err = err.Error()
				return cmd
			}
			cmd.Time = t
		}
		return cmd
	}

	date, _ := utils.ParseDateInput("today", p.now())
	return Command{Kind: KindCheck, Date: date}
}

func (p Parser) fillWhen(cmd *Command, dateIn, timeIn, hoursIn string) error {
	date, err := utils.ParseDateInput(dateIn, p.now())
	if err != nil {
		return err
	}
	start, err := utils.ParseShortTime(timeIn)
	if err != nil {
		return err
	}
	hours, err := strconv.ParseFloat(hoursIn, 64)
	if err != nil || hours < 0.5 || hours > 8 {
		return errors.New("러닝타임은 0.5~8시간 범위로 입력하세요.")
	}
	cmd.Date, cmd.Time, cmd.Hours = date, start, hours
	return nil
}

func (p Parser) room(name string) (string, bool) {
	for _, r := range p.Rooms {
		if strings.EqualFold(r, name) {
			return r, true
		}
	}
	return "", false
}

func (p Parser) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
