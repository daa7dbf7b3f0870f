// Package menu is a small key-driven picker. A menu either picks one
// option and closes, or toggles checkable options while staying open.
package menu

import (
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

var lastID int64

// Option is one menu entry
type Option struct {
	Label   string
	Value   string
	Checked bool
}

// Mode selects pick-one or checklist behaviour
type Mode int

const (
	PickOne Mode = iota
	Checklist
)

// Styles used when rendering
type Styles struct {
	Title      lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Border     lipgloss.Style
	Hint       lipgloss.Style
}

// DefaultStyles returns the default menu styles
func DefaultStyles() Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Selected:   lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("229")),
		Unselected: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Border:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")),
		Hint:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// KeyMap defines the menu key bindings
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Toggle key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "toggle"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Model is a menu
type Model struct {
	id      int64
	mode    Mode
	title   string
	options []Option
	cursor  int
	open    bool
	width   int
	height  int

	styles Styles
	keyMap KeyMap
}

// New creates a closed menu
func New(title string, mode Mode, options []Option) Model {
	return Model{
		id:      atomic.AddInt64(&lastID, 1),
		mode:    mode,
		title:   title,
		options: options,
		width:   30,
		height:  10,
		styles:  DefaultStyles(),
		keyMap:  DefaultKeyMap(),
	}
}

// ID identifies this menu in SelectedMsg and ToggledMsg
func (m Model) ID() int64 { return m.id }

// SetOptions replaces the options, keeping the cursor in range
func (m *Model) SetOptions(options []Option) {
	m.options = options
	if m.cursor >= len(options) {
		m.cursor = max(len(options)-1, 0)
	}
}

// Options returns the options
func (m Model) Options() []Option { return m.options }

// SetSize sets the box dimensions
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetStyles replaces the styles
func (m *Model) SetStyles(s Styles) { m.styles = s }

// Open shows the menu
func (m *Model) Open() { m.open = true }

// Close hides the menu
func (m *Model) Close() { m.open = false }

// IsOpen reports whether the menu is shown
func (m Model) IsOpen() bool { return m.open }

// Cursor returns the highlighted option index
func (m Model) Cursor() int { return m.cursor }

// Current returns the highlighted option
func (m Model) Current() Option {
	if m.cursor >= 0 && m.cursor < len(m.options) {
		return m.options[m.cursor]
	}
	return Option{}
}

// Update handles keys while open
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.open || len(m.options) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keyMap.Up):
		m.cursor = (m.cursor - 1 + len(m.options)) % len(m.options)

	case key.Matches(keyMsg, m.keyMap.Down):
		m.cursor = (m.cursor + 1) % len(m.options)

	case m.mode == Checklist && key.Matches(keyMsg, m.keyMap.Toggle, m.keyMap.Enter):
		opts := make([]Option, len(m.options))
		copy(opts, m.options)
		opts[m.cursor].Checked = !opts[m.cursor].Checked
		m.options = opts
		id, opt, idx := m.id, opts[m.cursor], m.cursor
		return m, func() tea.Msg {
			return ToggledMsg{MenuID: id, Option: opt, Index: idx}
		}

	case key.Matches(keyMsg, m.keyMap.Enter):
		m.open = false
		id, opt, idx := m.id, m.Current(), m.cursor
		return m, func() tea.Msg {
			return SelectedMsg{MenuID: id, Option: opt, Index: idx}
		}

	case key.Matches(keyMsg, m.keyMap.Escape):
		m.open = false
		id := m.id
		return m, func() tea.Msg {
			return CancelledMsg{MenuID: id}
		}
	}
	return m, nil
}

// View renders the open menu, or "" when closed
func (m Model) View() string {
	if !m.open {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Title.Render(m.title))
		b.WriteString("\n")
	}

	maxVisible := m.height - 2
	if m.title != "" {
		maxVisible--
	}
	maxVisible = max(maxVisible, 1)

	start, end := 0, len(m.options)
	if len(m.options) > maxVisible {
		start = min(max(m.cursor-maxVisible/2, 0), len(m.options)-maxVisible)
		end = start + maxVisible
	}

	inner := max(m.width-4, 1)
	for i := start; i < end; i++ {
		opt := m.options[i]
		line := opt.Label
		if m.mode == Checklist {
			mark := "[ ] "
			if opt.Checked {
				mark = "[x] "
			}
			line = mark + line
		}
		line = truncate.StringWithTail(line, uint(inner), "…")

		style := m.styles.Unselected
		if i == m.cursor {
			style = m.styles.Selected
		}
		b.WriteString(style.Width(inner).Render(line))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if start > 0 || end < len(m.options) {
		hint := ""
		if start > 0 {
			hint += "↑ "
		}
		if end < len(m.options) {
			hint += "↓"
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Hint.Render(hint))
	}

	return m.styles.Border.Width(m.width).Render(b.String())
}

// SelectedMsg is sent when a pick-one menu chooses an option
type SelectedMsg struct {
	MenuID int64
	Option Option
	Index  int
}

// ToggledMsg is sent when a checklist option flips
type ToggledMsg struct {
	MenuID int64
	Option Option
	Index  int
}

// CancelledMsg is sent when the menu is dismissed
type CancelledMsg struct {
	MenuID int64
}
