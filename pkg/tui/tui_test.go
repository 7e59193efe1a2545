package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/query"
	tea "github.com/charmbracelet/bubbletea"
)

func sampleModel(t *testing.T, at graph.Timestamp) Model {
	t.Helper()
	s := graph.NewTemporalStore()
	for _, id := range []graph.NodeID{1, 2, 3} {
		s.AddNode(id)
	}
	for _, e := range []graph.Edge{{Src: 1, Dst: 2, At: 5}, {Src: 1, Dst: 3, At: 10}, {Src: 2, Dst: 3, At: 15}} {
		if err := s.AddEdge(e.Src, e.Dst, e.At); err != nil {
			t.Fatalf("AddEdge(%s): %v", e, err)
		}
	}
	return NewModel(context.Background(), s, query.NewSequential(s), at)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(k)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTUI_Rendering(t *testing.T) {
	tests := []struct {
		name     string
		at       graph.Timestamp
		want     []string
		dontWant []string
	}{
		{
			name: "before any edge",
			at:   4,
			want: []string{"t = 4", "NODE 1", "none"},
		},
		{
			name:     "first edge only",
			at:       7,
			want:     []string{"t = 7", "ACTIVE AT 7:  1", "-> 2"},
			dontWant: []string{"-> 3"},
		},
		{
			name: "both edges",
			at:   10,
			want: []string{"-> 2", "-> 3", "Nodes: 3 | Edges: 3"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			view := sampleModel(t, tc.at).View()

			for _, w := range tc.want {
				if !strings.Contains(view, w) {
					t.Errorf("[%s] FAIL: Expected view to contain '%s'.\nGot:\n%s", tc.name, w, view)
				}
			}
			for _, dw := range tc.dontWant {
				if strings.Contains(view, dw) {
					t.Errorf("[%s] FAIL: Expected view NOT to contain '%s'.\nGot:\n%s", tc.name, dw, view)
				}
			}
		})
	}
}

func TestTUI_Navigation(t *testing.T) {
	m := sampleModel(t, 10)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if id, _ := m.Selected(); id != 2 {
		t.Fatalf("Expected node 2 selected, got %d", id)
	}
	if got := m.neighbors; len(got) != 0 {
		t.Errorf("Node 2 has no edges at 10, got %v", got)
	}

	// Step of 15/20 rounds to 1.
	m = press(t, m, runes("l"), runes("l"), runes("l"), runes("l"), runes("l"))
	if m.At() != 15 {
		t.Fatalf("Expected t=15, got %d", m.At())
	}
	if len(m.neighbors) != 1 || m.neighbors[0] != 3 {
		t.Errorf("Expected [3] at 15, got %v", m.neighbors)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if id, _ := m.Selected(); id != 1 {
		t.Errorf("Cursor should stop at the first node, got %d", id)
	}
}

func TestTUI_JumpToTime(t *testing.T) {
	m := sampleModel(t, 0)

	m = press(t, m, runes("t"))
	if m.state != ViewStateJump {
		t.Fatalf("Expected jump state, got %v", m.state)
	}
	m = press(t, m, runes("1"), runes("2"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != ViewStateList || m.At() != 12 {
		t.Fatalf("Expected list state at 12, got state %v at %d", m.state, m.At())
	}
	if len(m.neighbors) != 2 {
		t.Errorf("Expected 2 neighbors at 12, got %v", m.neighbors)
	}

	m = press(t, m, runes("t"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.err == nil {
		t.Error("Expected an error for a non-numeric timestamp")
	}
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != ViewStateList || m.At() != 12 {
		t.Errorf("Escape should keep t=12, got %d", m.At())
	}
}

func TestTUI_Timeline(t *testing.T) {
	m := sampleModel(t, 7)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != ViewStateTimeline {
		t.Fatalf("Expected timeline state, got %v", m.state)
	}

	view := m.View()
	for _, w := range []string{"TIMELINE OF NODE 1", "● 5", "○ 10"} {
		if !strings.Contains(view, w) {
			t.Errorf("Expected timeline to contain %q.\nGot:\n%s", w, view)
		}
	}
}

func TestTUI_Quit(t *testing.T) {
	m := sampleModel(t, 0)
	updated, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if updated.(Model).View() != "" {
		t.Error("Quitting model should render nothing")
	}
}
