// Package datagrid is a windowed table over caller data. Sort, selection,
// filter and column visibility are controlled state: the grid renders the
// State it is given and reports user intents through callbacks.
package datagrid

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/menu"
	"github.com/HamStudy/listkit/internal/components/selection"
	"github.com/HamStudy/listkit/internal/components/window"
	"github.com/HamStudy/listkit/internal/core"
)

const (
	wheelStep     = 3
	checkboxWidth = 4 // "[x] "
)

// State is the caller-owned grid state
type State struct {
	Sort      SortState
	Selection selection.Set
	Filter    string
	Hidden    map[string]bool
}

// Styles used by the grid
type Styles struct {
	Header        lipgloss.Style
	FocusedHeader lipgloss.Style
	Row           lipgloss.Style
	AltRow        lipgloss.Style
	Cursor        lipgloss.Style
	Filter        lipgloss.Style
	FilterHint    lipgloss.Style
	Menu          menu.Styles
}

// DefaultStyles returns the default grid styles
func DefaultStyles() Styles {
	return Styles{
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		FocusedHeader: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("33")),
		Row:           lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		AltRow:        lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235")),
		Cursor:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("33")),
		Filter:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		FilterHint:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Menu:          menu.DefaultStyles(),
	}
}

// Options configures a grid
type Options[T any] struct {
	Columns []Column[T]
	// RowKey returns a stable key per row; defaults to the row index
	RowKey func(row T, index int) string

	Selectable         bool
	EnableGlobalFilter bool

	Width    int
	Height   int
	Overscan int

	OnSort                   func(key string, dir Direction)
	OnSelectionChange        func(selection.Set)
	OnFilterChange           func(query string)
	OnColumnVisibilityChange func(key string, visible bool)
	OnExport                 func(format string)

	Styles Styles
	KeyMap KeyMap
	Logger zerolog.Logger
}

// DefaultOptions returns options with selection and filtering enabled
func DefaultOptions[T any]() Options[T] {
	return Options[T]{
		Selectable:         true,
		EnableGlobalFilter: true,
		Overscan:           window.DefaultOverscan,
		Styles:             DefaultStyles(),
		KeyMap:             DefaultKeyMap(),
		Logger:             zerolog.Nop(),
	}
}

// Model is a virtualized data grid
type Model[T any] struct {
	opts  Options[T]
	data  []T
	keys  []string
	state State

	focus     *selection.Tracker
	offset    int
	win       window.Window
	colCursor int

	filter    textinput.Model
	filtering bool

	columnsMenu menu.Model
	exportMenu  menu.Model
}

// New creates a grid over data
func New[T any](data []T, opts Options[T]) (*Model[T], error) {
	if len(opts.Columns) == 0 {
		return nil, core.NewConfigurationError("columns", "at least one column is required")
	}
	seen := make(map[string]bool, len(opts.Columns))
	for _, c := range opts.Columns {
		if c.Key == "" {
			return nil, core.NewConfigurationError("columns", "column %q has no key", c.Header)
		}
		if seen[c.Key] {
			return nil, core.NewConfigurationError("columns", "duplicate column key %q", c.Key)
		}
		seen[c.Key] = true
	}
	if opts.Overscan < 0 {
		return nil, core.NewConfigurationError("overscan", "must be >= 0, got %d", opts.Overscan)
	}
	if opts.Height <= headerLines(opts.EnableGlobalFilter) {
		return nil, core.NewConfigurationError("height", "must leave room for at least one row, got %d", opts.Height)
	}
	if len(opts.KeyMap.Up.Keys()) == 0 {
		opts.KeyMap = DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "Filter rows..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	m := &Model[T]{
		opts:   opts,
		focus:  selection.NewTracker(),
		state:  State{Hidden: map[string]bool{}},
		filter: ti,
	}

	m.columnsMenu = menu.New("Columns", menu.Checklist, nil)
	m.columnsMenu.SetStyles(opts.Styles.Menu)
	formats := make([]menu.Option, len(ExportFormats))
	for i, f := range ExportFormats {
		formats[i] = menu.Option{Label: strings.ToUpper(f), Value: f}
	}
	m.exportMenu = menu.New("Export as", menu.PickOne, formats)
	m.exportMenu.SetStyles(opts.Styles.Menu)

	m.SetData(data)
	return m, nil
}

func headerLines(filterBar bool) int {
	if filterBar {
		return 2
	}
	return 1
}

func (m *Model[T]) bodyHeight() int {
	return m.opts.Height - headerLines(m.opts.EnableGlobalFilter)
}

// SetData replaces the rows. Focus follows the previously focused row key.
func (m *Model[T]) SetData(data []T) {
	m.data = data
	m.keys = make([]string, len(data))
	for i, row := range data {
		m.keys[i] = m.rowKey(row, i)
	}
	m.focus.SetRows(m.keys)
	m.focus.Restore()
	m.ensureCursorVisible()
}

func (m *Model[T]) rowKey(row T, i int) string {
	if m.opts.RowKey != nil {
		return m.opts.RowKey(row, i)
	}
	return strconv.Itoa(i)
}

// SetState applies caller-owned state
func (m *Model[T]) SetState(s State) {
	if s.Hidden == nil {
		s.Hidden = map[string]bool{}
	}
	m.state = s
	m.colCursor = min(m.colCursor, max(len(m.visibleColumns())-1, 0))
	if !m.filtering {
		m.filter.SetValue(s.Filter)
	}
}

// State returns the applied state
func (m *Model[T]) State() State { return m.state }

// SetSize sets the grid dimensions
func (m *Model[T]) SetSize(width, height int) {
	m.opts.Width = width
	if height > headerLines(m.opts.EnableGlobalFilter) {
		m.opts.Height = height
	}
	m.filter.Width = max(width-4, 1)
	m.ensureCursorVisible()
}

// SetStyles replaces the grid and menu styles
func (m *Model[T]) SetStyles(s Styles) {
	m.opts.Styles = s
	m.columnsMenu.SetStyles(s.Menu)
	m.exportMenu.SetStyles(s.Menu)
}

// Cursor returns the focused row index
func (m *Model[T]) Cursor() int { return m.focus.Row() }

// CursorKey returns the focused row key
func (m *Model[T]) CursorKey() string { return m.focus.Key() }

// Offset returns the first displayed row
func (m *Model[T]) Offset() int { return m.offset }

// Window returns the materialized row range
func (m *Model[T]) Window() window.Window { return m.win }

// Filtering reports whether the filter input has focus
func (m *Model[T]) Filtering() bool { return m.filtering }

// MenuOpen reports whether a column or export menu is shown
func (m *Model[T]) MenuOpen() bool {
	return m.columnsMenu.IsOpen() || m.exportMenu.IsOpen()
}

// KeyMap returns the active key bindings
func (m *Model[T]) KeyMap() KeyMap { return m.opts.KeyMap }

// FocusedColumn returns the key of the focused column, or ""
func (m *Model[T]) FocusedColumn() string {
	cols := m.visibleColumns()
	if len(cols) == 0 {
		return ""
	}
	return cols[m.colCursor].Key
}

// RowKeys returns the keys of all rows in display order
func (m *Model[T]) RowKeys() []string { return m.keys }

// Export writes the current rows with the visible columns
func (m *Model[T]) Export(w io.Writer, format string) error {
	return Export(w, format, m.opts.Columns, m.data, m.state.Hidden)
}

func (m *Model[T]) visibleColumns() []Column[T] {
	var cols []Column[T]
	for _, c := range m.opts.Columns {
		if !c.Hidden && !m.state.Hidden[c.Key] {
			cols = append(cols, c)
		}
	}
	return cols
}

func (m *Model[T]) moveCursor(delta int) {
	m.focus.Move(delta)
	m.ensureCursorVisible()
}

func (m *Model[T]) ensureCursorVisible() {
	body := m.bodyHeight()
	cur := m.focus.Row()
	if cur < m.offset {
		m.offset = cur
	} else if cur >= m.offset+body {
		m.offset = cur - body + 1
	}
	m.offset = core.ClampOffset(m.offset, body, len(m.data))

	w, err := window.CalculateFixed(m.offset, body, len(m.data), 1, m.opts.Overscan)
	if err != nil {
		m.opts.Logger.Error().Err(err).Msg("grid window")
		return
	}
	m.win = w
}

// Update handles navigation and turns key presses into intents
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case menu.ToggledMsg:
		if msg.MenuID == m.columnsMenu.ID() {
			m.emitVisibility(msg.Option.Value, msg.Option.Checked)
		}
		return nil

	case menu.SelectedMsg:
		if msg.MenuID == m.exportMenu.ID() && m.opts.OnExport != nil {
			m.opts.Logger.Debug().Str("format", msg.Option.Value).Msg("export requested")
			m.opts.OnExport(msg.Option.Value)
		}
		return nil

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return nil
	}

	if m.filtering {
		return m.updateFilter(msg)
	}

	if m.columnsMenu.IsOpen() {
		var cmd tea.Cmd
		m.columnsMenu, cmd = m.columnsMenu.Update(msg)
		return cmd
	}
	if m.exportMenu.IsOpen() {
		var cmd tea.Cmd
		m.exportMenu, cmd = m.exportMenu.Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.moveCursor(wheelStep)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

func (m *Model[T]) handleKey(msg tea.KeyMsg) tea.Cmd {
	km := m.opts.KeyMap
	switch {
	case key.Matches(msg, km.Up):
		m.moveCursor(-1)
	case key.Matches(msg, km.Down):
		m.moveCursor(1)
	case key.Matches(msg, km.PageUp):
		m.moveCursor(-m.bodyHeight())
	case key.Matches(msg, km.PageDown):
		m.moveCursor(m.bodyHeight())
	case key.Matches(msg, km.Top):
		m.moveCursor(-len(m.data))
	case key.Matches(msg, km.Bottom):
		m.moveCursor(len(m.data))

	case key.Matches(msg, km.Left):
		m.colCursor = max(m.colCursor-1, 0)
	case key.Matches(msg, km.Right):
		m.colCursor = min(m.colCursor+1, max(len(m.visibleColumns())-1, 0))

	case key.Matches(msg, km.Sort):
		m.RequestSort(m.FocusedColumn())

	case key.Matches(msg, km.Select):
		if len(m.data) > 0 {
			m.RequestToggleRow(m.focus.Key())
		}

	case key.Matches(msg, km.SelectAll):
		m.RequestToggleAll()

	case key.Matches(msg, km.Filter):
		if m.opts.EnableGlobalFilter {
			m.filtering = true
			m.filter.SetValue(m.state.Filter)
			m.filter.CursorEnd()
			return m.filter.Focus()
		}

	case key.Matches(msg, km.Columns):
		opts := make([]menu.Option, 0, len(m.opts.Columns))
		for _, c := range m.opts.Columns {
			if c.Hidden {
				continue
			}
			opts = append(opts, menu.Option{Label: c.Header, Value: c.Key, Checked: !m.state.Hidden[c.Key]})
		}
		m.columnsMenu.SetOptions(opts)
		m.columnsMenu.Open()

	case key.Matches(msg, km.Export):
		m.exportMenu.Open()
	}
	return nil
}

func (m *Model[T]) updateFilter(msg tea.Msg) tea.Cmd {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, m.opts.KeyMap.Accept):
			m.filtering = false
			m.filter.Blur()
			return nil
		case key.Matches(k, m.opts.KeyMap.Escape):
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.emitFilter("")
			return nil
		}
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if v := m.filter.Value(); v != before {
		m.emitFilter(v)
	}
	return cmd
}

// RequestSort reports the sort that activating colKey would produce.
// Unsortable or unknown columns report nothing.
func (m *Model[T]) RequestSort(colKey string) {
	col, ok := findColumn(m.opts.Columns, colKey)
	if !ok || !col.Sortable || m.opts.OnSort == nil {
		return
	}
	next := m.state.Sort.Next(colKey)
	m.opts.Logger.Debug().Str("column", colKey).Str("direction", next.Direction.String()).Msg("sort requested")
	m.opts.OnSort(next.Key, next.Direction)
}

// RequestToggleRow reports the selection with row key flipped
func (m *Model[T]) RequestToggleRow(rowKey string) {
	if !m.opts.Selectable || m.opts.OnSelectionChange == nil {
		return
	}
	m.opts.OnSelectionChange(m.state.Selection.Toggle(rowKey))
}

// RequestToggleAll reports select-all, or clear when all rows are selected
func (m *Model[T]) RequestToggleAll() {
	if !m.opts.Selectable || m.opts.OnSelectionChange == nil {
		return
	}
	m.opts.OnSelectionChange(m.state.Selection.ToggleAll(m.keys))
}

func (m *Model[T]) emitFilter(q string) {
	if m.opts.OnFilterChange != nil {
		m.opts.OnFilterChange(q)
	}
}

func (m *Model[T]) emitVisibility(colKey string, visible bool) {
	if m.opts.OnColumnVisibilityChange != nil {
		m.opts.OnColumnVisibilityChange(colKey, visible)
	}
}

// View renders the filter bar, header and the displayed rows
func (m *Model[T]) View() string {
	if m.opts.Width <= 0 {
		return ""
	}

	if m.columnsMenu.IsOpen() {
		return lipgloss.Place(m.opts.Width, m.opts.Height, lipgloss.Center, lipgloss.Center, m.columnsMenu.View())
	}
	if m.exportMenu.IsOpen() {
		return lipgloss.Place(m.opts.Width, m.opts.Height, lipgloss.Center, lipgloss.Center, m.exportMenu.View())
	}

	cols := m.visibleColumns()
	widths := m.columnWidths(cols)
	lines := make([]string, 0, m.opts.Height)

	if m.opts.EnableGlobalFilter {
		lines = append(lines, m.filterBar())
	}
	lines = append(lines, m.header(cols, widths))

	body := m.bodyHeight()
	first := max(m.win.Start, m.offset)
	last := min(m.win.End, m.offset+body-1)
	for i := first; i <= last && !m.win.Empty(); i++ {
		lines = append(lines, m.row(i, cols, widths))
	}

	for len(lines) < m.opts.Height {
		lines = append(lines, strings.Repeat(" ", m.opts.Width))
	}
	return strings.Join(lines[:m.opts.Height], "\n")
}

func (m *Model[T]) columnWidths(cols []Column[T]) []int {
	lc := make([]layoutColumn, len(cols))
	for i, c := range cols {
		lc[i] = layoutColumn{width: c.Width, minWidth: c.MinWidth, maxWidth: c.MaxWidth, flex: c.Flex}
	}
	total := m.opts.Width
	if m.opts.Selectable {
		total -= checkboxWidth
	}
	return layoutWidths(lc, total)
}

func (m *Model[T]) filterBar() string {
	if m.filtering {
		return m.filter.View()
	}
	if m.state.Filter != "" {
		return m.opts.Styles.Filter.Render("/ " + m.state.Filter)
	}
	return m.opts.Styles.FilterHint.Render("/ to filter")
}

func (m *Model[T]) header(cols []Column[T], widths []int) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		title := c.Header
		if m.state.Sort.Key == c.Key {
			switch m.state.Sort.Direction {
			case Ascending:
				title += " ▲"
			case Descending:
				title += " ▼"
			}
		}
		cell := fitCell(title, widths[i], c.Align, "end")
		if i == m.colCursor {
			cell = m.opts.Styles.FocusedHeader.Render(cell)
		}
		cells[i] = cell
	}

	line := joinCells(cells)
	if m.opts.Selectable {
		line = m.state.Selection.State(m.keys).Checkbox() + " " + line
	}
	return m.opts.Styles.Header.Render(line)
}

func (m *Model[T]) row(i int, cols []Column[T], widths []int) string {
	data := m.data[i]
	cells := make([]string, len(cols))
	for j, c := range cols {
		cells[j] = fitCell(c.display(data), widths[j], c.Align, c.TruncateAt)
	}

	line := joinCells(cells)
	if m.opts.Selectable {
		box := "[ ]"
		if m.state.Selection.Has(m.keys[i]) {
			box = "[x]"
		}
		line = box + " " + line
	}

	style := m.opts.Styles.Row
	if i%2 == 1 {
		style = m.opts.Styles.AltRow
	}
	if i == m.focus.Row() {
		style = m.opts.Styles.Cursor
	}
	return style.Render(line)
}
