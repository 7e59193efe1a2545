package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Earlier  key.Binding
	Later    key.Binding
	Jump     key.Binding
	Timeline key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev node")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next node")),
		Earlier:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "earlier")),
		Later:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "later")),
		Jump:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "set time")),
		Timeline: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "timeline")),
		Confirm:  key.NewBinding(key.WithKeys("enter")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Earlier, k.Later, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Timeline, k.Cancel},
		{k.Earlier, k.Later, k.Jump},
		{k.Help, k.Quit},
	}
}
