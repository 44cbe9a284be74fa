package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/slack-go/slack"

	"github.com/codemon-ai/make-meeting-room/internal/assistant"
	"github.com/codemon-ai/make-meeting-room/internal/booking"
	"github.com/codemon-ai/make-meeting-room/internal/calendar"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

// Mention is an app_mention event.
type Mention struct {
	Channel  string
	User     string
	Text     string
	TS       string
	ThreadTS string
}

// Profile is the part of a Slack user the bot uses.
type Profile struct {
	Name  string
	Email string
}

// Messenger posts and edits thread replies.
type Messenger interface {
	Post(ctx context.Context, channel, threadTS, text string, blocks ...slack.Block) (string, error)
	Update(ctx context.Context, channel, ts, text string, blocks ...slack.Block) error
	UserProfile(ctx context.Context, userID string) (Profile, error)
}

// Booker is the booking service as the bot uses it.
type Booker interface {
	Availability(ctx context.Context, date string) ([]models.RoomAvailability, error)
	Book(ctx context.Context, req booking.BookRequest) (booking.BookResult, error)
	Schedule(ctx context.Context, req booking.ScheduleRequest) (calendar.EventResult, error)
	KeepAlive(ctx context.Context) error
	Window() models.Interval
}

// Assistant answers free-form questions and serves meeting notes.
type Assistant interface {
	Ask(ctx context.Context, question string) (string, error)
	ListNotes(ctx context.Context) ([]assistant.Note, error)
	SearchNotes(ctx context.Context, query string) ([]assistant.SearchHit, error)
	NoteDetail(ctx context.Context, id string) (*assistant.Note, error)
}

// Config wires a Bot.
type Config struct {
	Messenger Messenger
	Booker    Booker
	Assistant Assistant
	Rooms     []string
	Timezone  string
	// SlotMin is the slot length used for the time-filtered check view.
	SlotMin int
	Now     func() time.Time
}

// Bot handles mentions.
type Bot struct {
	messenger Messenger
	booker    Booker
	assistant Assistant
	parser    Parser
	slotMin   int
	now       func() time.Time
}

// NewBot creates a Bot. An unknown timezone falls back to local time.
func NewBot(cfg Config) *Bot {
	loc, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local time", "timezone", cfg.Timezone, "error", err)
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	localNow := func() time.Time { return now().In(loc) }
	slot := cfg.SlotMin
	if slot <= 0 {
		slot = constants.DefaultSlotIntervalMin
	}
	return &Bot{
		messenger: cfg.Messenger,
		booker:    cfg.Booker,
		assistant: cfg.Assistant,
		parser:    Parser{Rooms: cfg.Rooms, Now: localNow},
		slotMin:   slot,
		now:       localNow,
	}
}

func (b *Bot) today() string {
	return b.now().Format(constants.DateFormat)
}

// HandleMention runs the command in m and replies in its thread.
func (b *Bot) HandleMention(ctx context.Context, m Mention) {
	thread := m.ThreadTS
	if thread == "" {
		thread = m.TS
	}
	cmd := b.parser.Parse(m.Text)
	logger.Debug("mention received", "channel", m.Channel, "user", m.User, "command", cmd.Kind)

	switch {
	case cmd.Kind == KindUnknown:
		return
	case cmd.Kind == KindHelp:
		b.post(ctx, m.Channel, thread, HelpText)
		return
	case cmd.Err != "":
		b.post(ctx, m.Channel, thread, "❌ "+cmd.Err)
		return
	}

	switch cmd.Kind {
	case KindCheck:
		b.handleCheck(ctx, m.Channel, thread, cmd)
	case KindReserve:
		b.handleReserve(ctx, m, thread, cmd)
	case KindSchedule:
		b.handleSchedule(ctx, m, thread, cmd)
	case KindNotes:
		b.handleNotes(ctx, m.Channel, thread, cmd)
	case KindQuestion:
		b.handleQuestion(ctx, m.Channel, thread, cmd.Question)
	}
}

func (b *Bot) post(ctx context.Context, channel, thread, text string, blocks ...slack.Block) string {
	ts, err := b.messenger.Post(ctx, channel, thread, text, blocks...)
	if err != nil {
		logger.Error("failed to post slack message", "channel", channel, "error", err)
	}
	return ts
}

// reply replaces the loading message with the first chunk of text and
// posts the rest as follow-ups.
func (b *Bot) reply(ctx context.Context, channel, thread, loadingTS, text string) {
	chunks := Split(text, constants.SlackMessageLimit)
	if loadingTS == "" {
		b.post(ctx, channel, thread, chunks[0])
	} else if err := b.messenger.Update(ctx, channel, loadingTS, chunks[0]); err != nil {
		logger.Error("failed to update slack message", "channel", channel, "error", err)
	}
	for _, c := range chunks[1:] {
		b.post(ctx, channel, thread, c)
	}
}

func (b *Bot) handleCheck(ctx context.Context, channel, thread string, cmd Command) {
	today := b.today()
	loading := b.post(ctx, channel, thread, fmt.Sprintf("🔍 %s 회의실 현황 조회 중...", utils.FormatDateDisplay(cmd.Date, today)))

	all, err := b.booker.Availability(ctx, cmd.Date)
	if err == nil && len(all) == 0 {
		err = errors.New("회의실 정보를 조회할 수 없습니다.")
	}
	if err != nil {
		logger.Error("availability check failed", "date", cmd.Date, "error", err)
		b.reply(ctx, channel, thread, loading, "❌ 조회 실패: "+err.Error())
		return
	}

	window := b.booker.Window()
	text := AvailabilityText(all, cmd.Date, today, window)
	blocks := AvailabilityBlocks(all, cmd.Date, today, b.now().Format("15:04:05"), window)
	if cmd.Time != "" {
		if start, err := models.ParseClock(cmd.Time); err == nil {
			filter := TimeFilterText(all, start, b.slotMin, window)
			text += "\n\n" + filter
			blocks = append(blocks, slack.NewSectionBlock(
				slack.NewTextBlockObject(slack.MarkdownType, filter, false, false), nil, nil))
		}
	}

	if loading == "" {
		b.post(ctx, channel, thread, text, blocks...)
		return
	}
	if err := b.messenger.Update(ctx, channel, loading, text, blocks...); err != nil {
		logger.Error("failed to update slack message", "channel", channel, "error", err)
	}
}

// requester looks up the mentioning user; failures fall back to a generic name.
func (b *Bot) requester(ctx context.Context, userID string) Profile {
	p := Profile{Name: "사용자"}
	if userID == "" {
		return p
	}
	got, err := b.messenger.UserProfile(ctx, userID)
	if err != nil {
		logger.Warn("slack user lookup failed", "user", userID, "error", err)
		return p
	}
	if got.Name != "" {
		p.Name = got.Name
	}
	p.Email = got.Email
	return p
}

func (b *Bot) attendeeEmails(ctx context.Context, ids []string) []string {
	var emails []string
	for _, id := range ids {
		p, err := b.messenger.UserProfile(ctx, id)
		if err != nil {
			logger.Warn("slack attendee lookup failed", "user", id, "error", err)
			continue
		}
		if p.Email != "" {
			emails = append(emails, p.Email)
		}
	}
	return emails
}

func (b *Bot) interval(cmd Command) (models.Interval, error) {
	start, err := models.ParseClock(cmd.Time)
	if err != nil {
		return models.Interval{}, err
	}
	end, err := utils.EndAfter(start, cmd.Hours)
	if err != nil {
		return models.Interval{}, err
	}
	return models.Interval{Start: start, End: end}, nil
}

func (b *Bot) handleReserve(ctx context.Context, m Mention, thread string, cmd Command) {
	iv, err := b.interval(cmd)
	if err != nil {
		b.post(ctx, m.Channel, thread, "❌ "+err.Error())
		return
	}
	user := b.requester(ctx, m.User)
	title := cmd.Title
	if title == "" {
		title = user.Name + " 미팅"
	}

	today := b.today()
	loading := b.post(ctx, m.Channel, thread, fmt.Sprintf("🔄 %s 예약 중... (%s %s)", cmd.Room, utils.FormatDateDisplay(cmd.Date, today), iv))

	var invited []string
	if user.Email != "" {
		invited = b.attendeeEmails(ctx, cmd.Attendees)
	}

	res, err := b.booker.Book(ctx, booking.BookRequest{
		Room:      cmd.Room,
		Date:      cmd.Date,
		Interval:  iv,
		Title:     title,
		Requester: user.Name,
		Organizer: user.Email,
		Attendees: invited,
		Source:    constants.BookingSourceBot,
	})
	if err != nil {
		logger.Warn("reservation failed", "room", cmd.Room, "date", cmd.Date, "time", iv, "error", err)
		b.reply(ctx, m.Channel, thread, loading, ReservationError(err))
		return
	}
	if res.Event == nil {
		invited = nil
	}
	b.reply(ctx, m.Channel, thread, loading, ReservationSuccess(res, cmd.Date, today, iv, title, invited))
}

func (b *Bot) handleSchedule(ctx context.Context, m Mention, thread string, cmd Command) {
	iv, err := b.interval(cmd)
	if err != nil {
		b.post(ctx, m.Channel, thread, "❌ "+err.Error())
		return
	}
	today := b.today()
	loading := b.post(ctx, m.Channel, thread, fmt.Sprintf("📅 일정 생성 중... (%s %s)", utils.FormatDateDisplay(cmd.Date, today), iv))

	user := b.requester(ctx, m.User)
	if user.Email == "" {
		b.reply(ctx, m.Channel, thread, loading, ScheduleError(errors.New("사용자 이메일을 조회할 수 없습니다.")))
		return
	}
	invited := b.attendeeEmails(ctx, cmd.Attendees)

	ev, err := b.booker.Schedule(ctx, booking.ScheduleRequest{
		Date:      cmd.Date,
		Interval:  iv,
		Title:     cmd.Title,
		Organizer: user.Email,
		Attendees: invited,
	})
	if err != nil {
		logger.Warn("schedule failed", "date", cmd.Date, "time", iv, "error", err)
		b.reply(ctx, m.Channel, thread, loading, ScheduleError(err))
		return
	}
	b.reply(ctx, m.Channel, thread, loading, ScheduleSuccess(cmd.Date, today, iv, cmd.Title, invited, ev.Link))
}

func (b *Bot) handleNotes(ctx context.Context, channel, thread string, cmd Command) {
	if b.assistant == nil {
		b.post(ctx, channel, thread, "❌ 회의록 기능이 설정되지 않았습니다.")
		return
	}
	loadingText := "📋 회의록 조회 중..."
	if cmd.NotesAction == NotesSearch {
		loadingText = fmt.Sprintf("🔍 %q 검색 중...", cmd.Query)
	}
	loading := b.post(ctx, channel, thread, loadingText)

	var text string
	var err error
	switch cmd.NotesAction {
	case NotesSearch:
		var hits []assistant.SearchHit
		if hits, err = b.assistant.SearchNotes(ctx, cmd.Query); err == nil {
			text = NotesSearchText(cmd.Query, hits)
		}
	case NotesDetail:
		var note *assistant.Note
		if note, err = b.assistant.NoteDetail(ctx, cmd.Query); err == nil {
			text = NoteDetailText(cmd.Query, note)
		}
	default:
		var notes []assistant.Note
		if notes, err = b.assistant.ListNotes(ctx); err == nil {
			text = NotesListText(notes)
		}
	}
	if err != nil {
		logger.Error("meeting notes request failed", "action", cmd.NotesAction, "error", err)
		text = "❌ 회의록 조회 실패" + statusSuffix(err)
	}
	b.reply(ctx, channel, thread, loading, text)
}

func (b *Bot) handleQuestion(ctx context.Context, channel, thread, question string) {
	if b.assistant == nil {
		return
	}
	loading := b.post(ctx, channel, thread, "🔍 RTB 문서에서 답변 생성 중...")

	answer, err := b.assistant.Ask(ctx, question)
	if err != nil {
		logger.Error("assistant request failed", "error", err)
		answer = "❌ RTB 답변 생성 실패" + statusSuffix(err)
	}
	b.reply(ctx, channel, thread, loading, answer)
}

func statusSuffix(err error) string {
	var se *assistant.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf(" (%d)", se.Code)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return " (timeout)"
	}
	return ""
}

// KeepAlive re-authenticates the portal session every interval until ctx
// is done.
func (b *Bot) KeepAlive(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := b.booker.KeepAlive(ctx); err != nil {
				logger.Warn("session keep-alive failed", "error", err)
			}
		}
	}
}
