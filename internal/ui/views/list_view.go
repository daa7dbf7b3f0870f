package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/components/virtuallist"
	"github.com/HamStudy/listkit/internal/core"
	"github.com/HamStudy/listkit/internal/template"
)

// ListView shows the whole contact log in a variable height virtual list
type ListView struct {
	list     *virtuallist.Model[Contact]
	contacts []Contact
	styles   *style.Manager
	errors   int
}

// NewListView creates the list view over contacts
func NewListView(contacts []Contact, cfg *core.Config, styles *style.Manager, logger zerolog.Logger) (*ListView, error) {
	v := &ListView{contacts: contacts, styles: styles}

	opts := virtuallist.DefaultOptions[Contact]()
	opts.ItemHeightFunc = func(i int) (int, error) {
		if i >= len(v.contacts) {
			return 0, fmt.Errorf("no contact at %d", i)
		}
		return contactHeight(v.contacts[i]), nil
	}
	opts.RenderItem = func(c Contact, _ int) (string, error) { return renderContact(c), nil }
	if cfg.ListTemplate != "" {
		engine := template.NewEngine()
		if err := engine.LoadTemplate("contact", cfg.ListTemplate); err != nil {
			return nil, core.NewConfigurationError("list.template", "%v", err)
		}
		opts.RenderItem = func(c Contact, _ int) (string, error) {
			line, err := engine.ExecuteNamed("contact", c)
			if err != nil {
				return "", err
			}
			line, _, _ = strings.Cut(line, "\n")
			return withNotes(line, c), nil
		}
	}
	opts.GetItemKey = func(c Contact, _ int) string { return c.ID }
	opts.Height = 10
	opts.Overscan = cfg.Overscan
	opts.ShowScrollbar = cfg.ShowScrollbar
	opts.ScrollingQuiet = cfg.IsScrollingQuiet
	opts.OnError = func(error) { v.errors++ }
	opts.Logger = logger
	opts.Styles = styles.List()

	list, err := virtuallist.New(contacts, opts)
	if err != nil {
		return nil, err
	}
	v.list = list
	return v, nil
}

// SetSize sets the view dimensions, keeping one row for the status line
func (v *ListView) SetSize(width, height int) {
	v.list.SetSize(width, max(height-1, 1))
}

// Update forwards input to the list
func (v *ListView) Update(msg tea.Msg) tea.Cmd {
	return v.list.Update(msg)
}

// View renders the list and its status line
func (v *ListView) View() string {
	body := v.list.View()
	st := v.list.Stats()
	status := fmt.Sprintf("%d contacts · window %s · %d rendered · offset %d/%d",
		st.Items, st.Window, st.Materialized, v.list.Offset(), st.TotalHeight)
	if v.list.IsScrolling() {
		status += " · scrolling"
	}
	if v.errors > 0 {
		status += fmt.Sprintf(" · %d errors", v.errors)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, v.styles.Help().Render(status))
}

// List returns the underlying list
func (v *ListView) List() *virtuallist.Model[Contact] { return v.list }

// Close stops the list
func (v *ListView) Close() { v.list.Close() }

// ApplyTheme restyles the list from the current theme
func (v *ListView) ApplyTheme() { v.list.SetStyles(v.styles.List()) }
