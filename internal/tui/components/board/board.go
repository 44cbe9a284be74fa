package board

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/codemon-ai/make-meeting-room/internal/availability"
	"github.com/codemon-ai/make-meeting-room/internal/models"
)

const cardWidth = 30

var (
	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	busyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Width(cardWidth)
)

// Model shows one card per room inside a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Rooms    []models.RoomAvailability
	Window   models.Interval
	loaded   bool
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.loaded {
		return statusStyle.Render("No data loaded.")
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetRooms(rooms []models.RoomAvailability, window models.Interval) {
	m.Rooms = rooms
	m.Window = window
	m.loaded = true
	m.viewport.GotoTop()
	m.Render()
}

// Render lays the room cards out in as many columns as the width allows.
func (m *Model) Render() {
	if !m.loaded {
		m.viewport.SetContent("")
		return
	}
	if len(m.Rooms) == 0 {
		m.viewport.SetContent(statusStyle.Render("No rooms."))
		return
	}

	perRow := m.width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}

	var rows []string
	for i := 0; i < len(m.Rooms); i += perRow {
		end := min(i+perRow, len(m.Rooms))
		cards := make([]string, 0, end-i)
		for _, ra := range m.Rooms[i:end] {
			cards = append(cards, Card(ra, m.Window))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Card renders one room's timeline.
func Card(ra models.RoomAvailability, window models.Interval) string {
	var b strings.Builder
	b.WriteString(roomStyle.Render(ra.Room.Label()))
	b.WriteString("\n")

	if availability.FullyFree(ra, window) {
		b.WriteString(freeStyle.Render("종일 가능"))
		return cardStyle.Render(b.String())
	}

	for _, e := range availability.Timeline(ra) {
		b.WriteString(timeStyle.Render(e.Interval.String()))
		if e.Free {
			b.WriteString(freeStyle.Render("free"))
		} else {
			who := e.Reservation.Reserver
			if who == "" {
				who = "reserved"
			}
			b.WriteString(busyStyle.Render(who))
		}
		b.WriteString("\n")
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}
