package views

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/datagrid"
	"github.com/HamStudy/listkit/internal/components/selection"
	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/core"
)

// GridView owns the grid state and applies the intents the grid reports
type GridView struct {
	grid    *datagrid.Model[Contact]
	columns []datagrid.Column[Contact]
	data    []Contact
	state   datagrid.State
	styles  *style.Manager
	logger  zerolog.Logger

	// ExportDir receives exported files; defaults to the working directory
	ExportDir string
	status    string
}

// NewGridView creates the grid view over contacts
func NewGridView(contacts []Contact, cfg *core.Config, styles *style.Manager, logger zerolog.Logger) (*GridView, error) {
	v := &GridView{
		columns: ContactColumns(),
		data:    contacts,
		state:   datagrid.State{Hidden: map[string]bool{"notes": true}},
		styles:  styles,
		logger:  logger,
	}

	opts := datagrid.DefaultOptions[Contact]()
	opts.Columns = v.columns
	opts.RowKey = func(c Contact, _ int) string { return c.ID }
	opts.Selectable = cfg.GridSelectable
	opts.EnableGlobalFilter = cfg.GridGlobalFilter
	opts.Overscan = cfg.GridOverscan
	opts.Height = 12
	opts.Styles = styles.Grid()
	opts.Logger = logger

	opts.OnSort = func(colKey string, dir datagrid.Direction) {
		v.state.Sort = datagrid.SortState{Key: colKey, Direction: dir}
		v.apply()
	}
	opts.OnSelectionChange = func(s selection.Set) {
		v.state.Selection = s
		v.apply()
	}
	opts.OnFilterChange = func(q string) {
		v.state.Filter = q
		v.apply()
	}
	opts.OnColumnVisibilityChange = func(colKey string, visible bool) {
		hidden := make(map[string]bool, len(v.state.Hidden))
		for k, h := range v.state.Hidden {
			hidden[k] = h
		}
		hidden[colKey] = !visible
		v.state.Hidden = hidden
		v.apply()
	}
	opts.OnExport = func(format string) {
		path, err := v.export(format)
		if err != nil {
			v.status = "export failed: " + err.Error()
			return
		}
		v.status = "exported " + path
	}

	grid, err := datagrid.New(contacts, opts)
	if err != nil {
		return nil, err
	}
	v.grid = grid
	v.apply()
	return v, nil
}

// apply derives the displayed rows from the state and hands both to the grid
func (v *GridView) apply() {
	rows := datagrid.FilterRows(v.data, v.columns, v.state.Filter, v.state.Hidden)
	rows = datagrid.SortRows(rows, v.columns, v.state.Sort)
	v.grid.SetState(v.state)
	v.grid.SetData(rows)
}

func (v *GridView) export(format string) (string, error) {
	dir := v.ExportDir
	if dir == "" {
		dir = "."
	}
	id := ulid.Make()
	path := filepath.Join(dir, fmt.Sprintf("contacts-%s.%s", id, format))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := v.grid.Export(f, format); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	v.logger.Info().Str("path", path).Str("format", format).Msg("exported grid")
	return path, nil
}

// SetSize sets the view dimensions, keeping one row for the status line
func (v *GridView) SetSize(width, height int) {
	v.grid.SetSize(width, max(height-1, 3))
}

// Capturing reports whether the grid consumes every key
func (v *GridView) Capturing() bool {
	return v.grid.Filtering() || v.grid.MenuOpen()
}

// Update forwards input to the grid
func (v *GridView) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); ok {
		v.status = ""
	}
	return v.grid.Update(msg)
}

// View renders the grid and its status line
func (v *GridView) View() string {
	status := v.status
	if status == "" {
		status = fmt.Sprintf("%d of %d rows · %d selected · sort %s %s",
			len(v.grid.RowKeys()), len(v.data), v.selectedCount(),
			orDash(v.state.Sort.Key), v.state.Sort.Direction)
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.grid.View(), v.styles.Help().Render(status))
}

func (v *GridView) selectedCount() int {
	if v.state.Selection.AllSelected() {
		return len(v.grid.RowKeys())
	}
	return v.state.Selection.Len()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// State returns the view-owned grid state
func (v *GridView) State() datagrid.State { return v.state }

// Grid returns the underlying grid
func (v *GridView) Grid() *datagrid.Model[Contact] { return v.grid }

// ApplyTheme restyles the grid from the current theme
func (v *GridView) ApplyTheme() { v.grid.SetStyles(v.styles.Grid()) }
