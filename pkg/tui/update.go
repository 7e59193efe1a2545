package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.state == ViewStateJump {
			return m.updateJump(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refreshData()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				m.refreshData()
			}
		case key.Matches(msg, m.keys.Earlier):
			if m.at >= m.step {
				m.at -= m.step
			} else {
				m.at = 0
			}
			m.refreshData()
		case key.Matches(msg, m.keys.Later):
			if m.at <= ^graph.Timestamp(0)-m.step {
				m.at += m.step
			}
			m.refreshData()
		case key.Matches(msg, m.keys.Jump):
			m.state = ViewStateJump
			m.err = nil
			m.input.SetValue("")
			cmd := m.input.Focus()
			return m, cmd
		case key.Matches(msg, m.keys.Timeline):
			if m.state == ViewStateTimeline {
				m.state = ViewStateList
			} else {
				m.state = ViewStateTimeline
			}
		case key.Matches(msg, m.keys.Cancel):
			m.state = ViewStateList
		}
	}
	return m, nil
}

func (m Model) updateJump(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.input.Blur()
		m.state = ViewStateList
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		v, err := strconv.ParseUint(strings.TrimSpace(m.input.Value()), 10, 64)
		if err != nil {
			m.err = fmt.Errorf("invalid timestamp %q", m.input.Value())
			return m, nil
		}
		m.at = graph.Timestamp(v)
		m.input.Blur()
		m.state = ViewStateList
		m.refreshData()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
