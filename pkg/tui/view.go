package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	st := m.store.Stats()
	hud := hudStyle.Render(fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("CHRONOGRAPH"),
		special.Render(fmt.Sprintf("t = %d", m.at)),
		subtle.Render(st.String()),
	))

	var body string
	switch m.state {
	case ViewStateTimeline:
		body = m.viewTimeline()
	case ViewStateJump:
		body = lipgloss.JoinVertical(lipgloss.Left, m.viewList(), "", m.input.View())
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewList(), "  ", m.viewDetails())
	}

	parts := []string{hud, body}
	if m.err != nil {
		parts = append(parts, danger.Render(m.err.Error()))
	}
	parts = append(parts, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
