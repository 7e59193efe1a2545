package tui

import (
	"fmt"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/charmbracelet/lipgloss"
)

// maxListed caps the neighbors printed in the details pane.
const maxListed = 12

func (m Model) viewDetails() string {
	id, ok := m.Selected()
	if !ok {
		return "No Node Selected"
	}

	header := detailsHeaderStyle.Render(fmt.Sprintf("NODE %d", id))

	active := special.Render(fmt.Sprintf("ACTIVE AT %d:  %d", m.at, len(m.neighbors)))
	if len(m.neighbors) == 0 {
		active = warning.Render(fmt.Sprintf("ACTIVE AT %d:  none", m.at))
	}

	var listed []string
	for i, dst := range m.neighbors {
		if i == maxListed {
			listed = append(listed, subtle.Render(fmt.Sprintf("... %d more", len(m.neighbors)-maxListed)))
			break
		}
		listed = append(listed, fmt.Sprintf("-> %d", dst))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		active,
		dimStyle.Render(fmt.Sprintf("OUT DEGREE:   %d", m.store.OutDegree(id))),
		dimStyle.Render(fmt.Sprintf("IN DEGREE:    %d", m.store.InDegree(id))),
		highlight.Render("EDGE TIMES:   ")+renderSparkline(histogram(m.store.Adjacency(id), m.maxAt, timeSteps)),
		"",
		strings.Join(listed, "\n"),
	)
	return detailsBoxStyle.Render(content)
}

// histogram buckets adjacency timestamps over [0, maxAt] into n bins.
func histogram(adj []graph.Neighbor, maxAt graph.Timestamp, n int) []float64 {
	if len(adj) == 0 {
		return nil
	}
	bins := make([]float64, n)
	for _, nb := range adj {
		idx := n - 1
		if maxAt > 0 {
			idx = int(float64(nb.At) / float64(maxAt) * float64(n-1))
		}
		bins[min(idx, n-1)]++
	}
	return bins
}

func renderSparkline(data []float64) string {
	if len(data) == 0 {
		return "[NO DATA]"
	}
	bars := []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	top := 0.0
	for _, v := range data {
		top = max(top, v)
	}

	var s strings.Builder
	s.WriteString("[")
	for _, v := range data {
		if top == 0 {
			s.WriteString(bars[0])
			continue
		}
		idx := int((v / top) * float64(len(bars)-1))
		s.WriteString(bars[min(idx, len(bars)-1)])
	}
	s.WriteString("]")
	return s.String()
}
