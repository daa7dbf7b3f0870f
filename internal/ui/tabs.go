package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/HamStudy/listkit/internal/ui/views"
)

// Tab identifies one screen of the demo
type Tab int

const (
	TabList Tab = iota
	TabFeed
	TabGrid
	TabBoard
	TabHelp
	tabCount
)

var tabTitles = [tabCount]string{"List", "Feed", "Grid", "Board", "Help"}

// String returns the tab title
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return "Unknown"
	}
	return tabTitles[t]
}

func (t Tab) next() Tab { return (t + 1) % tabCount }

func (t Tab) prev() Tab { return (t + tabCount - 1) % tabCount }

// KeyMap defines the application-wide key bindings
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous tab"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// helpSections groups the bindings of every tab for the help screen
func (a *App) helpSections() []views.HelpSection {
	lk := a.list.List().KeyMap()
	listKeys := []key.Binding{lk.LineUp, lk.LineDown, lk.PageUp, lk.PageDown, lk.Top, lk.Bottom}

	gk := a.grid.Grid().KeyMap()
	bk := a.board.Board().KeyMap()

	return []views.HelpSection{
		{
			Title:    "Global",
			Bindings: []key.Binding{a.keys.NextTab, a.keys.PrevTab, a.keys.Theme, a.keys.Help, a.keys.Quit},
		},
		{Title: "List", Bindings: listKeys},
		{Title: "Feed", Bindings: append(append([]key.Binding{}, listKeys...), a.feed.RefreshKey())},
		{
			Title: "Grid",
			Bindings: []key.Binding{
				gk.Up, gk.Down, gk.Left, gk.Right, gk.Sort, gk.Select, gk.SelectAll,
				gk.Filter, gk.Columns, gk.Export, gk.Accept, gk.Escape,
			},
		},
		{
			Title: "Board",
			Bindings: []key.Binding{
				bk.Up, bk.Down, bk.Left, bk.Right,
				bk.MoveUp, bk.MoveDown, bk.MoveLeft, bk.MoveRight, bk.Grab, bk.Cancel,
			},
		},
	}
}
