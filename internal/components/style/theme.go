package style

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the palette every component style is derived from
type Theme struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Colors      *ColorScheme `yaml:"colors"`
}

// ColorScheme defines the color palette
type ColorScheme struct {
	// Base colors
	Background lipgloss.Color `yaml:"background"`
	Foreground lipgloss.Color `yaml:"foreground"`
	Muted      lipgloss.Color `yaml:"muted"`
	AltRow     lipgloss.Color `yaml:"altRow"`

	Selection *SelectionColors `yaml:"selection"`
	Drag      *DragColors      `yaml:"drag"`
	UI        *UIColors        `yaml:"ui"`
}

// SelectionColors for the cursor row and focused cells
type SelectionColors struct {
	Background lipgloss.Color `yaml:"background"`
	Foreground lipgloss.Color `yaml:"foreground"`
}

// DragColors for the board
type DragColors struct {
	Dragged lipgloss.Color `yaml:"dragged"`
	Target  lipgloss.Color `yaml:"target"`
	Cell    lipgloss.Color `yaml:"cell"`
}

// UIColors for interface elements
type UIColors struct {
	Border  lipgloss.Color `yaml:"border"`
	Header  lipgloss.Color `yaml:"header"`
	Accent  lipgloss.Color `yaml:"accent"`
	Info    lipgloss.Color `yaml:"info"`
	Warning lipgloss.Color `yaml:"warning"`
	Error   lipgloss.Color `yaml:"error"`
	Success lipgloss.Color `yaml:"success"`
}

var themes = map[string]func() *Theme{
	"default":       DefaultTheme,
	"light":         LightTheme,
	"high-contrast": HighContrastTheme,
}

// ThemeNames returns the names of the built-in themes
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName returns a built-in theme, or nil when name is unknown
func ThemeByName(name string) *Theme {
	if fn, ok := themes[name]; ok {
		return fn()
	}
	return nil
}

// DefaultTheme returns the default dark theme
func DefaultTheme() *Theme {
	return &Theme{
		Name:        "default",
		Description: "Default dark theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#1e1e1e"),
			Foreground: lipgloss.Color("#d4d4d4"),
			Muted:      lipgloss.Color("#808080"),
			AltRow:     lipgloss.Color("#262626"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#264f78"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			Drag: &DragColors{
				Dragged: lipgloss.Color("#dcdcaa"),
				Target:  lipgloss.Color("#4ec9b0"),
				Cell:    lipgloss.Color("#2d2d2d"),
			},
			UI: &UIColors{
				Border:  lipgloss.Color("#3c3c3c"),
				Header:  lipgloss.Color("#cccccc"),
				Accent:  lipgloss.Color("#569cd6"),
				Info:    lipgloss.Color("#569cd6"),
				Warning: lipgloss.Color("#dcdcaa"),
				Error:   lipgloss.Color("#f44747"),
				Success: lipgloss.Color("#4ec9b0"),
			},
		},
	}
}

// LightTheme returns a light theme
func LightTheme() *Theme {
	return &Theme{
		Name:        "light",
		Description: "Light theme",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#ffffff"),
			Foreground: lipgloss.Color("#000000"),
			Muted:      lipgloss.Color("#605e5c"),
			AltRow:     lipgloss.Color("#f3f2f1"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#0078d4"),
				Foreground: lipgloss.Color("#ffffff"),
			},
			Drag: &DragColors{
				Dragged: lipgloss.Color("#ffb900"),
				Target:  lipgloss.Color("#107c10"),
				Cell:    lipgloss.Color("#edebe9"),
			},
			UI: &UIColors{
				Border:  lipgloss.Color("#d1d1d1"),
				Header:  lipgloss.Color("#323130"),
				Accent:  lipgloss.Color("#0078d4"),
				Info:    lipgloss.Color("#0078d4"),
				Warning: lipgloss.Color("#ffb900"),
				Error:   lipgloss.Color("#d13438"),
				Success: lipgloss.Color("#107c10"),
			},
		},
	}
}

// HighContrastTheme returns a high contrast theme for accessibility
func HighContrastTheme() *Theme {
	return &Theme{
		Name:        "high-contrast",
		Description: "High contrast theme for accessibility",
		Colors: &ColorScheme{
			Background: lipgloss.Color("#000000"),
			Foreground: lipgloss.Color("#ffffff"),
			Muted:      lipgloss.Color("#c0c0c0"),
			AltRow:     lipgloss.Color("#000000"),
			Selection: &SelectionColors{
				Background: lipgloss.Color("#ffffff"),
				Foreground: lipgloss.Color("#000000"),
			},
			Drag: &DragColors{
				Dragged: lipgloss.Color("#ffff00"),
				Target:  lipgloss.Color("#00ff00"),
				Cell:    lipgloss.Color("#000000"),
			},
			UI: &UIColors{
				Border:  lipgloss.Color("#ffffff"),
				Header:  lipgloss.Color("#ffffff"),
				Accent:  lipgloss.Color("#00ffff"),
				Info:    lipgloss.Color("#00ffff"),
				Warning: lipgloss.Color("#ffff00"),
				Error:   lipgloss.Color("#ff0000"),
				Success: lipgloss.Color("#00ff00"),
			},
		},
	}
}
