package console

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left   key.Binding
	Right  key.Binding
	Drop   key.Binding
	Delete key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func (that keyMap) ShortHelp() []key.Binding {
	return []key.Binding{that.Left, that.Right, that.Drop, that.Reset, that.Quit}
}

func (that keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{that.Left, that.Right, that.Drop, that.Delete},
		{that.Reset, that.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Drop: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("1-9 enter", "drop"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "clear digit"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c", "ctrl+d"),
			key.WithHelp("q", "quit"),
		),
	}
}
