package tui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/graph"
)

// viewTimeline lists every outgoing edge of the selected node by timestamp,
// marking the ones visible at the current time.
func (m Model) viewTimeline() string {
	id, ok := m.Selected()
	if !ok {
		return "No Node Selected"
	}

	s := strings.Builder{}
	s.WriteString(dimStyle.Render(fmt.Sprintf("   TIMELINE OF NODE %d  %-8s | %s", id, "AT", "DST")) + "\n")
	s.WriteString(dimStyle.Render("   "+strings.Repeat("─", 40)) + "\n")

	adj := slices.Clone(m.store.Adjacency(id))
	if len(adj) == 0 {
		return s.String() + "   " + subtle.Render("No outgoing edges.")
	}
	slices.SortStableFunc(adj, func(a, b graph.Neighbor) int {
		return cmp.Compare(a.At, b.At)
	})

	for _, n := range adj {
		line := fmt.Sprintf("%-8d | %d", n.At, n.Dst)
		if n.At <= m.at {
			s.WriteString("   " + special.Render("● "+line) + "\n")
		} else {
			s.WriteString("   " + subtle.Render("○ "+line) + "\n")
		}
	}
	return s.String()
}
