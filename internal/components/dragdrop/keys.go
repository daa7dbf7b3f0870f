package dragdrop

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the board key bindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Grab      key.Binding
	Cancel    key.Binding
}

// DefaultKeyMap returns the default key bindings. The move bindings accept
// ctrl or alt since many terminals swallow one of them.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "focus up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "focus down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "focus left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "focus right")),
		MoveUp:    key.NewBinding(key.WithKeys("ctrl+up", "alt+up", "K"), key.WithHelp("ctrl+↑", "move up")),
		MoveDown:  key.NewBinding(key.WithKeys("ctrl+down", "alt+down", "J"), key.WithHelp("ctrl+↓", "move down")),
		MoveLeft:  key.NewBinding(key.WithKeys("ctrl+left", "alt+left", "H"), key.WithHelp("ctrl+←", "move left")),
		MoveRight: key.NewBinding(key.WithKeys("ctrl+right", "alt+right", "L"), key.WithHelp("ctrl+→", "move right")),
		Grab:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("space", "pick up / drop")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
	}
}

// ShortHelp returns the bindings shown in a one-line help bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.MoveUp, k.MoveDown, k.Grab, k.Cancel}
}
