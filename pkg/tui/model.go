// Package tui is an interactive explorer that steps a point-in-time neighbor
// query through a loaded graph.
package tui

import (
	"context"
	"slices"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/query"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewState int

const (
	ViewStateList ViewState = iota
	ViewStateTimeline
	ViewStateJump
)

// timeSteps is how many presses of a time key cross the full timestamp range.
const timeSteps = 20

type Model struct {
	store *graph.TemporalStore
	q     query.Querier
	ctx   context.Context

	keys  keyMap
	help  help.Model
	input textinput.Model

	state    ViewState
	quitting bool
	err      error
	width    int
	height   int

	// data
	nodes     []graph.NodeID
	neighbors []graph.NodeID
	maxAt     graph.Timestamp
	step      graph.Timestamp

	// navigation
	cursor int
	at     graph.Timestamp
}

// NewModel builds an explorer over store answering queries with q, starting
// at time at. The store must not change while the program runs.
func NewModel(ctx context.Context, store *graph.TemporalStore, q query.Querier, at graph.Timestamp) Model {
	ti := textinput.New()
	ti.Placeholder = "timestamp"
	ti.CharLimit = 20
	ti.Prompt = "t = "

	m := Model{
		store: store,
		q:     q,
		ctx:   ctx,
		keys:  defaultKeys(),
		help:  help.New(),
		input: ti,
		state: ViewStateList,
		at:    at,
	}
	m.nodes = store.Nodes()
	slices.Sort(m.nodes)

	for _, id := range m.nodes {
		for _, n := range store.Adjacency(id) {
			m.maxAt = max(m.maxAt, n.At)
		}
	}
	m.step = max(m.maxAt/timeSteps, 1)

	m.refreshData()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Selected is the node under the cursor, if any.
func (m Model) Selected() (graph.NodeID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return 0, false
	}
	return m.nodes[m.cursor], true
}

// At is the current query time.
func (m Model) At() graph.Timestamp {
	return m.at
}

// refreshData reruns the query for the selected node.
func (m *Model) refreshData() {
	id, ok := m.Selected()
	if !ok {
		m.neighbors = nil
		return
	}
	m.neighbors = m.q.NeighborsAt(m.ctx, id, m.at)
	slices.Sort(m.neighbors)
}
