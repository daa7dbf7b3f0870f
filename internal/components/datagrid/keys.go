package datagrid

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid key bindings
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Top       key.Binding
	Bottom    key.Binding
	Left      key.Binding
	Right     key.Binding
	Sort      key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Filter    key.Binding
	Columns   key.Binding
	Export    key.Binding
	Accept    key.Binding
	Escape    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Top:       key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first row")),
		Bottom:    key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last row")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous column")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next column")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		Select:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Filter:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Columns:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "columns")),
		Export:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Accept:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		Escape:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns the bindings shown in a one-line help bar
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Select, k.SelectAll, k.Filter, k.Columns, k.Export}
}
