package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/models"
	"github.com/codemon-ai/make-meeting-room/internal/tui/components/board"
)

// Source supplies availability for the board. Every fetch goes to the portal.
type Source interface {
	Availability(ctx context.Context, date string) ([]models.RoomAvailability, error)
	Window() models.Interval
}

type availabilityMsg struct {
	date  string
	rooms []models.RoomAvailability
	err   error
}

type Model struct {
	src     Source
	timeout time.Duration
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	board   board.Model

	today   string
	date    string
	loading bool
	err     error

	quitting bool
	width    int
	height   int
}

// NewModel starts the board on date; today marks the "today" jump target.
func NewModel(src Source, date, today string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		src:     src,
		timeout: constants.PortalRequestTimeout,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		board:   board.New(0, 0),
		today:   today,
		date:    date,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.date))
}

// Date returns the date currently shown.
func (m Model) Date() string {
	return m.date
}

func (m Model) fetch(date string) tea.Cmd {
	src, timeout := m.src, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		rooms, err := src.Availability(ctx, date)
		return availabilityMsg{date: date, rooms: rooms, err: err}
	}
}

func (m *Model) load(date string) tea.Cmd {
	m.date = date
	m.loading = true
	m.err = nil
	return tea.Batch(m.spinner.Tick, m.fetch(date))
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(constants.DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(constants.DateFormat)
}
