package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/codemon-ai/make-meeting-room/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var status string
	switch {
	case m.loading:
		status = subtleStyle.Render(m.spinner.View() + " 불러오는 중...")
	case m.err != nil:
		status = dangerStyle.Render(fmt.Sprintf("조회 실패: %v", m.err))
	default:
		status = subtleStyle.Render("업무시간 " + m.src.Window().String())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render("회의실 현황 "+utils.FormatDateDisplay(m.date, m.today)),
		status,
		docStyle.Render(m.board.View()),
		m.help.View(m.keys),
	)
}
