// Package style derives the lipgloss styles of every component from one
// color theme.
package style

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/HamStudy/listkit/internal/components/datagrid"
	"github.com/HamStudy/listkit/internal/components/dragdrop"
	"github.com/HamStudy/listkit/internal/components/menu"
	"github.com/HamStudy/listkit/internal/components/virtuallist"
)

// Manager hands out component styles for the current theme
type Manager struct {
	theme *Theme
	cache map[string]lipgloss.Style
	mu    sync.RWMutex
}

// NewManager creates a style manager with the default theme
func NewManager() *Manager {
	return &Manager{
		theme: DefaultTheme(),
		cache: make(map[string]lipgloss.Style),
	}
}

// SetTheme sets the current theme
func (m *Manager) SetTheme(theme *Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.theme = theme
	m.cache = make(map[string]lipgloss.Style)
}

// SetThemeByName switches to a built-in theme
func (m *Manager) SetThemeByName(name string) error {
	theme := ThemeByName(name)
	if theme == nil {
		return fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	m.SetTheme(theme)
	return nil
}

// Theme returns the current theme
func (m *Manager) Theme() *Theme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

// style returns the cached style for name, building it on first use
func (m *Manager) style(name string, build func(c *ColorScheme) lipgloss.Style) lipgloss.Style {
	m.mu.RLock()
	s, ok := m.cache[name]
	colors := m.theme.Colors
	m.mu.RUnlock()
	if ok {
		return s
	}

	s = build(colors)
	m.mu.Lock()
	m.cache[name] = s
	m.mu.Unlock()
	return s
}

// Title is the application title style
func (m *Manager) Title() lipgloss.Style {
	return m.style("title", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(c.UI.Accent)
	})
}

// Tab returns the style of a tab label
func (m *Manager) Tab(active bool) lipgloss.Style {
	if active {
		return m.style("tab_active", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).Bold(true).
				Background(c.Selection.Background).
				Foreground(c.Selection.Foreground)
		})
	}
	return m.style("tab", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Padding(0, 1).Foreground(c.Muted)
	})
}

// Help is the style of key hints and status lines
func (m *Manager) Help() lipgloss.Style {
	return m.style("help", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Muted)
	})
}

// Error is the style of error messages
func (m *Manager) Error() lipgloss.Style {
	return m.style("error", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Bold(true).Foreground(c.UI.Error)
	})
}

// Info is the style of status messages
func (m *Manager) Info() lipgloss.Style {
	return m.style("info", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.UI.Info)
	})
}

// Selected is the style of a focused list item
func (m *Manager) Selected() lipgloss.Style {
	return m.style("selected", func(c *ColorScheme) lipgloss.Style {
		return lipgloss.NewStyle().
			Background(c.Selection.Background).
			Foreground(c.Selection.Foreground)
	})
}

// List returns virtual list styles
func (m *Manager) List() virtuallist.Styles {
	return virtuallist.Styles{
		Placeholder: m.style("list_placeholder", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Italic(true).Foreground(c.UI.Error)
		}),
		ScrollbarThumb: m.style("list_thumb", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.UI.Header)
		}),
		ScrollbarTrack: m.style("list_track", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.UI.Border)
		}),
	}
}

// Menu returns option picker styles
func (m *Manager) Menu() menu.Styles {
	return menu.Styles{
		Title: m.style("menu_title", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Bold(true).Foreground(c.UI.Accent)
		}),
		Selected: m.Selected(),
		Unselected: m.style("menu_item", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.Foreground)
		}),
		Border: m.style("menu_border", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(c.UI.Border)
		}),
		Hint: m.Help(),
	}
}

// Grid returns data grid styles
func (m *Manager) Grid() datagrid.Styles {
	return datagrid.Styles{
		Header: m.style("grid_header", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Bold(true).Foreground(c.UI.Header)
		}),
		FocusedHeader: m.style("grid_header_focused", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Bold(true).Underline(true).Foreground(c.UI.Accent)
		}),
		Row: m.style("grid_row", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.Foreground)
		}),
		AltRow: m.style("grid_row_alt", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.Foreground).Background(c.AltRow)
		}),
		Cursor: m.Selected(),
		Filter: m.style("grid_filter", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Foreground(c.UI.Warning)
		}),
		FilterHint: m.Help(),
		Menu:       m.Menu(),
	}
}

// Board returns drag-and-drop board styles
func (m *Manager) Board() dragdrop.Styles {
	return dragdrop.Styles{
		Cell: m.style("board_cell", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).Foreground(c.Foreground).Background(c.Drag.Cell)
		}),
		Focused: m.style("board_focused", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).
				Foreground(c.Selection.Foreground).
				Background(c.Selection.Background)
		}),
		Dragged: m.style("board_dragged", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).Bold(true).
				Foreground(c.Background).
				Background(c.Drag.Dragged)
		}),
		Over: m.style("board_over", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).
				Foreground(c.Background).
				Background(c.Drag.Target)
		}),
		Disabled: m.style("board_disabled", func(c *ColorScheme) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).Strikethrough(true).
				Foreground(c.Muted).
				Background(c.Drag.Cell)
		}),
	}
}

// ColorText applies a color to text
func (m *Manager) ColorText(text string, color lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// ClearCache clears the style cache
func (m *Manager) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string]lipgloss.Style)
}
