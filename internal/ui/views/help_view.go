package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HamStudy/listkit/internal/components/style"
)

// HelpSection is a titled group of key bindings
type HelpSection struct {
	Title    string
	Bindings []key.Binding
}

// HelpView displays the key bindings of every tab
type HelpView struct {
	width    int
	height   int
	styles   *style.Manager
	sections []HelpSection
}

// NewHelpView creates a new help view
func NewHelpView(styles *style.Manager, sections ...HelpSection) *HelpView {
	return &HelpView{styles: styles, sections: sections}
}

// Init initializes the view
func (v *HelpView) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (v *HelpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetSize(msg.Width, msg.Height)
	}
	return v, nil
}

// SetSize sets the view dimensions
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the help screen
func (v *HelpView) View() string {
	titleStyle := v.styles.Title().MarginBottom(1)
	sectionStyle := v.styles.Info().Bold(true).MarginTop(1)
	keyStyle := v.styles.Selected().Bold(true)
	descStyle := v.styles.Help()

	var help strings.Builder
	help.WriteString(titleStyle.Render("listkit - Help"))
	help.WriteString("\n")

	for _, s := range v.sections {
		help.WriteString(sectionStyle.Render(s.Title))
		help.WriteString("\n")
		for _, b := range s.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			help.WriteString(keyStyle.Render(fmt.Sprintf(" %-8s", h.Key)))
			help.WriteString(descStyle.Render("  " + h.Desc))
			help.WriteString("\n")
		}
	}

	help.WriteString("\n")
	help.WriteString(descStyle.Render("Press ? to close help"))

	return lipgloss.Place(
		v.width,
		v.height,
		lipgloss.Center,
		lipgloss.Center,
		help.String(),
	)
}
