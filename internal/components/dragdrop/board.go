// Package dragdrop is a reorderable grid of items driven by mouse drags or
// the keyboard. A drop removes the dragged item and inserts it at the
// target index, then renumbers every item's Order.
package dragdrop

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/performance"
	"github.com/HamStudy/listkit/internal/components/window"
	"github.com/HamStudy/listkit/internal/core"
)

// Item is one reorderable cell
type Item struct {
	ID       string
	Content  string
	Disabled bool
	Order    int
}

// Axis restricts where a drop may land
type Axis int

const (
	AxisNone Axis = iota
	// AxisX keeps drops within the source row
	AxisX
	// AxisY keeps drops within the source column
	AxisY
)

// Phase is the drag phase
type Phase int

const (
	Idle Phase = iota
	Dragging
	Dropped
	Cancelled
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Dropped:
		return "dropped"
	case Cancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Styles used by the board
type Styles struct {
	Cell     lipgloss.Style
	Focused  lipgloss.Style
	Dragged  lipgloss.Style
	Over     lipgloss.Style
	Disabled lipgloss.Style
}

// DefaultStyles returns the default board styles
func DefaultStyles() Styles {
	base := lipgloss.NewStyle().Padding(0, 1)
	return Styles{
		Cell:     base.Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		Focused:  base.Foreground(lipgloss.Color("15")).Background(lipgloss.Color("33")),
		Dragged:  base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		Over:     base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("46")),
		Disabled: base.Foreground(lipgloss.Color("241")).Background(lipgloss.Color("234")).Strikethrough(true),
	}
}

// Options configures a board
type Options struct {
	Columns int

	OnReorder   func(items []Item)
	OnDragStart func(item Item)
	OnDragEnd   func(item Item)

	LockAxis                Axis
	AllowKeyboardNavigation bool

	AutoScroll bool
	// AutoScrollEdge is the depth in rows of the top and bottom zones
	AutoScrollEdge int
	// AutoScrollSpeed is the rows scrolled per frame
	AutoScrollSpeed int
	FrameInterval   time.Duration

	CellWidth  int
	CellHeight int
	// Height is the visible height in rows; 0 shows every row
	Height int
	// Viewport is the scroll container; when nil the board owns one
	Viewport core.Viewport

	Styles Styles
	KeyMap KeyMap
	Logger zerolog.Logger
}

// DefaultOptions returns single-column options with keyboard navigation
// and autoscroll enabled.
func DefaultOptions() Options {
	return Options{
		Columns:                 1,
		AllowKeyboardNavigation: true,
		AutoScroll:              true,
		AutoScrollEdge:          2,
		AutoScrollSpeed:         1,
		FrameInterval:           16 * time.Millisecond,
		CellWidth:               20,
		CellHeight:              1,
		Styles:                  DefaultStyles(),
		KeyMap:                  DefaultKeyMap(),
		Logger:                  zerolog.Nop(),
	}
}

// Model is a drag-and-drop grid
type Model struct {
	opts  Options
	items []Item

	drag  core.DragState
	phase Phase
	focus int
	// grabbed is set while a keyboard pick-up is in progress
	grabbed bool

	viewport core.Viewport
	owned    *core.MemoryViewport

	frames  *performance.FrameLoop
	originX int
	originY int
	// pointerY is relative to the top of the visible area
	pointerY int
}

// New creates a board. Items are copied and renumbered 0..n-1.
func New(items []Item, opts Options) (*Model, error) {
	if opts.Columns < 0 {
		return nil, core.NewConfigurationError("columns", "must be >= 1, got %d", opts.Columns)
	}
	if opts.Columns == 0 {
		opts.Columns = 1
	}
	if opts.AutoScrollEdge < 0 {
		return nil, core.NewConfigurationError("autoScrollEdge", "must be >= 0, got %d", opts.AutoScrollEdge)
	}
	if opts.AutoScrollSpeed < 0 {
		return nil, core.NewConfigurationError("autoScrollSpeed", "must be >= 0, got %d", opts.AutoScrollSpeed)
	}
	if opts.CellWidth <= 0 {
		opts.CellWidth = 20
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 1
	}
	if len(opts.KeyMap.Up.Keys()) == 0 {
		opts.KeyMap = DefaultKeyMap()
	}
	if err := checkIDs(items); err != nil {
		return nil, err
	}

	m := &Model{
		opts:   opts,
		frames: performance.NewFrameLoop(opts.FrameInterval),
	}
	if opts.Viewport != nil {
		m.viewport = opts.Viewport
	} else {
		m.owned = core.NewMemoryViewport(opts.Height, 0)
		m.viewport = m.owned
	}
	m.setItems(items)
	return m, nil
}

func checkIDs(items []Item) error {
	seen := make(map[string]bool, len(items))
	for i, it := range items {
		if it.ID == "" {
			return core.NewConfigurationError("items", "item %d has no id", i)
		}
		if seen[it.ID] {
			return core.NewConfigurationError("items", "duplicate id %q", it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}

// SetItems replaces the items. An active drag is cancelled.
func (m *Model) SetItems(items []Item) error {
	if err := checkIDs(items); err != nil {
		return err
	}
	if m.drag.IsDragging {
		m.Cancel()
	}
	m.setItems(items)
	return nil
}

func (m *Model) setItems(items []Item) {
	m.items = renumber(append([]Item(nil), items...))
	m.focus = min(m.focus, max(len(m.items)-1, 0))
	m.syncViewport()
}

func (m *Model) syncViewport() {
	if m.owned == nil {
		return
	}
	m.owned.Content = m.contentRows()
	if m.opts.Height <= 0 {
		m.owned.Height = m.owned.Content
	} else {
		m.owned.Height = m.opts.Height
	}
	m.owned.ScrollTo(m.owned.Offset)
}

func renumber(items []Item) []Item {
	for i := range items {
		items[i].Order = i
	}
	return items
}

// move removes the item at from and inserts it at to, returning a new
// renumbered slice
func move(items []Item, from, to int) []Item {
	out := make([]Item, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)
	moved := items[from]
	out = append(out[:to], append([]Item{moved}, out[to:]...)...)
	return renumber(out)
}

// Items returns a copy of the items in order
func (m *Model) Items() []Item {
	return append([]Item(nil), m.items...)
}

// DragState returns the current drag state
func (m *Model) DragState() core.DragState { return m.drag }

// Phase returns the drag phase
func (m *Model) Phase() Phase { return m.phase }

// Focus returns the focused index
func (m *Model) Focus() int { return m.focus }

// FocusedID returns the focused item id, or ""
func (m *Model) FocusedID() string {
	if m.focus < 0 || m.focus >= len(m.items) {
		return ""
	}
	return m.items[m.focus].ID
}

// SetFocus focuses index i, clamped
func (m *Model) SetFocus(i int) {
	if len(m.items) == 0 {
		m.focus = 0
		return
	}
	m.focus = min(max(i, 0), len(m.items)-1)
	m.revealFocus()
}

// Viewport returns the scroll container
func (m *Model) Viewport() core.Viewport { return m.viewport }

// Autoscrolling reports whether the autoscroll frame loop runs
func (m *Model) Autoscrolling() bool { return m.frames.Running() }

// KeyMap returns the active key bindings
func (m *Model) KeyMap() KeyMap { return m.opts.KeyMap }

// SetOrigin sets the screen position of the board's top-left cell so mouse
// coordinates can be mapped to cells.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// SetStyles replaces the cell styles
func (m *Model) SetStyles(s Styles) { m.opts.Styles = s }

// SetCellWidth changes the width of every cell
func (m *Model) SetCellWidth(w int) {
	if w > 0 {
		m.opts.CellWidth = w
	}
}

// SetHeight changes the visible height of an owned viewport
func (m *Model) SetHeight(h int) {
	m.opts.Height = h
	m.syncViewport()
}

func (m *Model) indexOf(id string) int {
	for i, it := range m.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) axisAllows(from, to int) bool {
	cols := m.opts.Columns
	switch m.opts.LockAxis {
	case AxisX:
		return from/cols == to/cols
	case AxisY:
		return from%cols == to%cols
	}
	return true
}

// DragStart begins dragging id. Unknown or disabled items are refused.
func (m *Model) DragStart(id string) bool {
	if m.drag.IsDragging {
		return false
	}
	i := m.indexOf(id)
	if i < 0 || m.items[i].Disabled {
		return false
	}

	m.drag.Begin(id)
	m.phase = Dragging
	m.opts.Logger.Debug().Str("id", id).Msg("drag start")
	if m.opts.OnDragStart != nil {
		m.opts.OnDragStart(m.items[i])
	}
	return true
}

// DragEnter marks id as the drop target when it can accept the drop
func (m *Model) DragEnter(id string) {
	if !m.drag.IsDragging {
		return
	}
	to := m.indexOf(id)
	if to < 0 || m.items[to].Disabled || !m.axisAllows(m.indexOf(m.drag.DraggedID), to) {
		return
	}
	m.drag.OverID = id
}

// Drop moves the dragged item to the index of id. Drops onto disabled,
// unknown or axis-locked targets, or onto the source index, change nothing
// and return false. The drag stays active until DragEnd.
func (m *Model) Drop(id string) bool {
	if !m.drag.IsDragging {
		return false
	}
	from := m.indexOf(m.drag.DraggedID)
	to := m.indexOf(id)
	if from < 0 || to < 0 || from == to || m.items[to].Disabled || !m.axisAllows(from, to) {
		return false
	}

	m.reorder(from, to)
	m.phase = Dropped
	return true
}

func (m *Model) reorder(from, to int) {
	m.items = move(m.items, from, to)
	m.opts.Logger.Debug().Str("id", m.items[to].ID).Int("from", from).Int("to", to).Msg("reordered")
	if m.opts.OnReorder != nil {
		m.opts.OnReorder(m.Items())
	}
}

// DragEnd clears the drag and reports the dragged item
func (m *Model) DragEnd() {
	if !m.drag.IsDragging {
		return
	}
	m.finish()
}

// Cancel abandons the drag without moving anything
func (m *Model) Cancel() {
	if !m.drag.IsDragging {
		return
	}
	m.phase = Cancelled
	m.finish()
}

func (m *Model) finish() {
	var item Item
	if i := m.indexOf(m.drag.DraggedID); i >= 0 {
		item = m.items[i]
		m.focus = i
	}
	m.opts.Logger.Debug().Str("id", item.ID).Str("phase", m.phase.String()).Msg("drag end")

	m.drag.Reset()
	m.phase = Idle
	m.grabbed = false
	m.frames.Stop()

	if m.opts.OnDragEnd != nil {
		m.opts.OnDragEnd(item)
	}
}

// Release drops onto id and ends the drag
func (m *Model) Release(id string) bool {
	ok := m.Drop(id)
	m.DragEnd()
	return ok
}

// MoveFocused reorders the focused item by delta positions using the same
// move as a drop. Focus follows the item.
func (m *Model) MoveFocused(delta int) bool {
	from := m.focus
	if from < 0 || from >= len(m.items) || m.items[from].Disabled {
		return false
	}
	to := from + delta
	if to < 0 || to >= len(m.items) || m.items[to].Disabled || !m.axisAllows(from, to) {
		return false
	}

	id := m.items[from].ID
	m.reorder(from, to)
	m.focus = m.indexOf(id)
	m.revealFocus()
	return true
}

// Update handles keys, mouse drags and autoscroll frames
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case performance.FrameMsg:
		if m.frames.Accept(msg) {
			return m.autoscrollStep()
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.opts.KeyMap.Cancel) {
			m.Cancel()
			return nil
		}
		if m.opts.AllowKeyboardNavigation {
			m.handleKey(msg)
		}
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	km := m.opts.KeyMap
	cols := m.opts.Columns

	switch {
	case key.Matches(msg, km.MoveUp):
		m.MoveFocused(-cols)
	case key.Matches(msg, km.MoveDown):
		m.MoveFocused(cols)
	case key.Matches(msg, km.MoveLeft):
		m.MoveFocused(-1)
	case key.Matches(msg, km.MoveRight):
		m.MoveFocused(1)

	case key.Matches(msg, km.Up):
		m.stepFocus(-cols)
	case key.Matches(msg, km.Down):
		m.stepFocus(cols)
	case key.Matches(msg, km.Left):
		m.stepFocus(-1)
	case key.Matches(msg, km.Right):
		m.stepFocus(1)

	case key.Matches(msg, km.Grab):
		id := m.FocusedID()
		if m.grabbed {
			m.Release(id)
			return
		}
		if m.DragStart(id) {
			m.grabbed = true
		}
	}
}

func (m *Model) stepFocus(delta int) {
	to := m.focus + delta
	if to < 0 || to >= len(m.items) {
		return
	}
	m.focus = to
	m.revealFocus()
	if m.grabbed {
		m.DragEnter(m.items[to].ID)
	}
}

// revealFocus scrolls so the focused cell's row is visible
func (m *Model) revealFocus() {
	h := m.opts.CellHeight
	top := (m.focus / m.opts.Columns) * h
	off, size := m.viewport.ScrollOffset(), m.viewport.Size()
	switch {
	case top < off:
		m.viewport.ScrollTo(top)
	case top+h > off+size:
		m.viewport.ScrollTo(top + h - size)
	}
}

// IndexAt maps a screen position to an item index, or -1
func (m *Model) IndexAt(x, y int) int {
	x -= m.originX
	y -= m.originY
	if x < 0 || y < 0 || y >= m.viewport.Size() {
		return -1
	}
	stride := m.opts.CellWidth + 1
	col := x / stride
	if x%stride == m.opts.CellWidth || col >= m.opts.Columns {
		return -1
	}
	row := (y + m.viewport.ScrollOffset()) / m.opts.CellHeight
	i := row*m.opts.Columns + col
	if i >= len(m.items) {
		return -1
	}
	return i
}

func (m *Model) idAt(x, y int) string {
	if i := m.IndexAt(x, y); i >= 0 {
		return m.items[i].ID
	}
	return ""
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if i := m.IndexAt(msg.X, msg.Y); i >= 0 {
			m.focus = i
			m.DragStart(m.items[i].ID)
		}

	case tea.MouseActionMotion:
		if !m.drag.IsDragging {
			return nil
		}
		m.pointerY = msg.Y - m.originY
		if id := m.idAt(msg.X, msg.Y); id != "" {
			m.DragEnter(id)
		}
		if m.edgeDirection() != 0 && m.opts.AutoScroll {
			return m.frames.Start()
		}

	case tea.MouseActionRelease:
		if !m.drag.IsDragging {
			return nil
		}
		if id := m.idAt(msg.X, msg.Y); id != "" {
			m.Drop(id)
		}
		m.DragEnd()
	}
	return nil
}

// edgeDirection is -1 in the top zone, 1 in the bottom zone, else 0
func (m *Model) edgeDirection() int {
	edge := m.opts.AutoScrollEdge
	if edge == 0 {
		return 0
	}
	switch {
	case m.pointerY < edge:
		return -1
	case m.pointerY >= m.viewport.Size()-edge:
		return 1
	}
	return 0
}

func (m *Model) autoscrollStep() tea.Cmd {
	dir := m.edgeDirection()
	if !m.drag.IsDragging || !m.opts.AutoScroll || dir == 0 {
		m.frames.Stop()
		return nil
	}
	m.viewport.ScrollTo(m.viewport.ScrollOffset() + dir*m.opts.AutoScrollSpeed)
	return m.frames.Next()
}

func (m *Model) rows() int {
	return (len(m.items) + m.opts.Columns - 1) / m.opts.Columns
}

func (m *Model) contentRows() int {
	return m.rows() * m.opts.CellHeight
}

// View renders the rows inside the viewport
func (m *Model) View() string {
	if len(m.items) == 0 {
		return ""
	}

	off, size := m.viewport.ScrollOffset(), m.viewport.Size()
	w, err := window.CalculateFixed(off, max(size, 1), m.rows(), m.opts.CellHeight, 0)
	if err != nil {
		m.opts.Logger.Error().Err(err).Msg("board window")
		return ""
	}

	var lines []string
	for r := w.Start; r <= w.End && !w.Empty(); r++ {
		cells := make([]string, 0, m.opts.Columns)
		for c := 0; c < m.opts.Columns; c++ {
			i := r*m.opts.Columns + c
			if i >= len(m.items) {
				break
			}
			cells = append(cells, m.cell(i))
		}
		block := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(cells, " ")...)
		lines = append(lines, strings.Split(block, "\n")...)
	}

	// Clip to the viewport.
	first := off - w.Start*m.opts.CellHeight
	if first > 0 && first < len(lines) {
		lines = lines[first:]
	}
	if size > 0 && len(lines) > size {
		lines = lines[:size]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) cell(i int) string {
	it := m.items[i]
	style := m.opts.Styles.Cell
	prefix := "  "
	switch {
	case it.Disabled:
		style = m.opts.Styles.Disabled
		prefix = "⊘ "
	case it.ID == m.drag.DraggedID:
		style = m.opts.Styles.Dragged
		prefix = "≡ "
	case it.ID == m.drag.OverID:
		style = m.opts.Styles.Over
		prefix = "▸ "
	case i == m.focus:
		style = m.opts.Styles.Focused
	}

	inner := max(m.opts.CellWidth-style.GetHorizontalFrameSize(), 1)
	text := truncate.StringWithTail(prefix+it.Content, uint(inner), "…")
	return style.
		Width(m.opts.CellWidth).
		Height(m.opts.CellHeight).
		MaxWidth(m.opts.CellWidth).
		MaxHeight(m.opts.CellHeight).
		Render(text)
}

func intersperse(cells []string, sep string) []string {
	out := make([]string, 0, len(cells)*2)
	for i, c := range cells {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, c)
	}
	return out
}
