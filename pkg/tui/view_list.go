package tui

import (
	"fmt"
	"strings"
)

func (m Model) viewList() string {
	s := strings.Builder{}

	if len(m.nodes) == 0 {
		return "\n   " + subtle.Render("Empty graph. Nothing to explore.")
	}

	start, end := m.calculateWindow(len(m.nodes))

	s.WriteString(dimStyle.Render(fmt.Sprintf("  %-12s | %-5s | %-5s", "NODE", "OUT", "IN")) + "\n")
	s.WriteString(dimStyle.Render("  "+strings.Repeat("─", 28)) + "\n")

	for i := start; i < end; i++ {
		id := m.nodes[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + fmt.Sprintf("%-12d | %-5d | %-5d", id, m.store.OutDegree(id), m.store.InDegree(id))
		if i == m.cursor {
			s.WriteString(listSelectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(listNormalStyle.Render(line) + "\n")
		}
	}

	return s.String()
}

func (m Model) calculateWindow(total int) (int, int) {
	windowSize := m.height - 8 // HUD + help
	if windowSize < 5 {
		windowSize = 5
	}

	start := m.cursor - (windowSize / 2)
	if start < 0 {
		start = 0
	}

	end := start + windowSize
	if end > total {
		end = total
		start = end - windowSize
		if start < 0 {
			start = 0
		}
	}
	return start, end
}
