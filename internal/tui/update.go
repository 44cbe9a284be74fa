package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// reserved rows: header, status line and help
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.board.SetSize(msg.Width-2, max(msg.Height-chromeHeight, 1))
		return m, nil

	case availabilityMsg:
		// a slower response for a date we already navigated away from
		if msg.date != m.date {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.board.SetRooms(msg.rooms, m.src.Window())
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			return m, m.load(shiftDate(m.date, -1))
		case key.Matches(msg, m.keys.Next):
			return m, m.load(shiftDate(m.date, 1))
		case key.Matches(msg, m.keys.Today):
			return m, m.load(m.today)
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load(m.date)
		}
	}

	var cmd tea.Cmd
	m.board, cmd = m.board.Update(msg)
	return m, cmd
}
