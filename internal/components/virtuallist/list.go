// Package virtuallist renders a scrollable collection by materializing only
// the items inside the viewport window plus overscan. Items may have a fixed
// height or a per-index height; rendered output is cached by stable key.
package virtuallist

import (
	"fmt"
	"strconv"
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

// wheelStep is the number of rows one mouse wheel notch scrolls
const wheelStep = 3

const renderMetric = "virtuallist.render"

// Styles holds the lipgloss styles used by the list
type Styles struct {
	Placeholder    lipgloss.Style
	ScrollbarThumb lipgloss.Style
	ScrollbarTrack lipgloss.Style
}

// DefaultStyles returns plain styles
func DefaultStyles() Styles {
	return Styles{
		Placeholder:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Italic(true),
		ScrollbarThumb: lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		ScrollbarTrack: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Options configures a list. Exactly one of ItemHeight and ItemHeightFunc
// must be set.
type Options[T any] struct {
	ItemHeight     int
	ItemHeightFunc func(index int) (int, error)
	// EstimatedItemHeight substitutes for a failed height lookup before any
	// height is known. Defaults to 1.
	EstimatedItemHeight int

	Height int
	Width  int

	RenderItem func(item T, index int) (string, error)
	GetItemKey func(item T, index int) string

	Overscan      int
	ShowScrollbar bool
	// ScrollingQuiet is how long after the last scroll IsScrolling clears
	ScrollingQuiet time.Duration

	OnScroll func(offset int)
	OnError  func(error)

	Logger zerolog.Logger
	Styles Styles
	KeyMap KeyMap
}

// DefaultOptions returns options with the default overscan, key map and
// styles. Callers fill in heights, size and the render function.
func DefaultOptions[T any]() Options[T] {
	return Options[T]{
		EstimatedItemHeight: 1,
		Overscan:            window.DefaultOverscan,
		ShowScrollbar:       true,
		ScrollingQuiet:      150 * time.Millisecond,
		Logger:              zerolog.Nop(),
		Styles:              DefaultStyles(),
		KeyMap:              DefaultKeyMap(),
	}
}

// Placed is a visible item with its absolute position in the content.
type Placed[T any] struct {
	Index  int
	Key    string
	Offset int
	Height int
	Item   T
}

// Stats describes the current render state
type Stats struct {
	Items         int
	Materialized  int
	Window        window.Window
	TotalHeight   int
	CachedBlocks  int
	AverageRender time.Duration
}

// Model is a virtualized list of T
type Model[T any] struct {
	opts  Options[T]
	items []T

	geom window.Geometry
	// heights holds the resolved per-index heights when ItemHeightFunc is used
	heights []int

	scroll core.ScrollState
	win    window.Window

	cache   *performance.RenderCache
	monitor *performance.Monitor
	quiet   *performance.Debouncer

	closed bool
}

// New creates a list over items. Invalid options return a
// *core.ConfigurationError.
func New[T any](items []T, opts Options[T]) (*Model[T], error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if opts.EstimatedItemHeight <= 0 {
		opts.EstimatedItemHeight = 1
	}
	if opts.ScrollingQuiet <= 0 {
		opts.ScrollingQuiet = 150 * time.Millisecond
	}
	if len(opts.KeyMap.LineUp.Keys()) == 0 {
		opts.KeyMap = DefaultKeyMap()
	}

	m := &Model[T]{
		opts:    opts,
		items:   items,
		cache:   performance.NewRenderCache(0),
		monitor: performance.NewMonitor(),
		quiet:   performance.NewDebouncer(opts.ScrollingQuiet),
	}
	m.rebuildGeometry()
	m.recompute()
	return m, nil
}

func validate[T any](opts Options[T]) error {
	switch {
	case opts.ItemHeight < 0:
		return core.NewConfigurationError("itemHeight", "must be > 0, got %d", opts.ItemHeight)
	case opts.ItemHeight > 0 && opts.ItemHeightFunc != nil:
		return core.NewConfigurationError("itemHeight", "set either a fixed height or a height function, not both")
	case opts.ItemHeight == 0 && opts.ItemHeightFunc == nil:
		return core.NewConfigurationError("itemHeight", "a fixed height or a height function is required")
	case opts.Height <= 0:
		return core.NewConfigurationError("height", "must be > 0, got %d", opts.Height)
	case opts.Overscan < 0:
		return core.NewConfigurationError("overscan", "must be >= 0, got %d", opts.Overscan)
	case opts.RenderItem == nil:
		return core.NewConfigurationError("renderItem", "is required")
	}
	return nil
}

// rebuildGeometry resolves item heights for the whole collection
func (m *Model[T]) rebuildGeometry() {
	if m.opts.ItemHeight > 0 {
		g, err := window.Fixed(m.opts.ItemHeight, len(m.items))
		if err != nil {
			// validated in New
			m.opts.Logger.Error().Err(err).Msg("fixed geometry")
			return
		}
		m.geom = g
		m.heights = nil
		return
	}

	m.heights = m.resolveHeights(m.heights[:0], 0)
	m.setVariable()
}

// resolveHeights appends the heights of items[from:] to dst
func (m *Model[T]) resolveHeights(dst []int, from int) []int {
	lastGood := m.opts.EstimatedItemHeight
	if from > 0 && len(dst) > 0 {
		lastGood = dst[len(dst)-1]
	}
	for i := from; i < len(m.items); i++ {
		h, err := m.heightOf(i)
		if err != nil {
			m.report(&core.RenderCallbackError{Index: i, Key: m.keyOf(i), Err: err})
			h = lastGood
		} else {
			lastGood = h
		}
		dst = append(dst, h)
	}
	return dst
}

func (m *Model[T]) heightOf(i int) (h int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("height function panicked: %v", r)
		}
	}()
	h, err = m.opts.ItemHeightFunc(i)
	if err == nil && h <= 0 {
		err = fmt.Errorf("height must be > 0, got %d", h)
	}
	return h, err
}

func (m *Model[T]) setVariable() {
	g, err := window.Variable(m.heights)
	if err != nil {
		m.opts.Logger.Error().Err(err).Msg("variable geometry")
		return
	}
	m.geom = g
}

func (m *Model[T]) recompute() {
	w, err := window.Calculate(m.scroll.Offset, m.opts.Height, m.geom, m.opts.Overscan)
	if err != nil {
		m.opts.Logger.Error().Err(err).Msg("window calculation")
		return
	}
	m.win = w
}

func (m *Model[T]) report(err error) {
	m.opts.Logger.Warn().Err(err).Msg("item callback failed")
	if m.opts.OnError != nil {
		m.opts.OnError(err)
	}
}

func (m *Model[T]) keyOf(i int) string {
	if m.opts.GetItemKey != nil {
		return m.opts.GetItemKey(m.items[i], i)
	}
	return strconv.Itoa(i)
}

// ScrollTo moves the viewport to offset, clamped to the content. The
// returned command clears the scrolling flag after the quiet period.
func (m *Model[T]) ScrollTo(offset int) tea.Cmd {
	if m.closed {
		return nil
	}
	offset = core.ClampOffset(offset, m.opts.Height, m.TotalHeight())
	if offset == m.scroll.Offset {
		return nil
	}

	m.scroll.Offset = offset
	m.scroll.IsScrolling = true
	m.recompute()

	if m.opts.OnScroll != nil {
		m.opts.OnScroll(offset)
	}
	return m.quiet.Trigger()
}

// ScrollBy scrolls by delta rows
func (m *Model[T]) ScrollBy(delta int) tea.Cmd {
	return m.ScrollTo(m.scroll.Offset + delta)
}

// ScrollToIndex jumps so item i starts at the top of the viewport, or as
// close as the content allows.
func (m *Model[T]) ScrollToIndex(i int) tea.Cmd {
	if len(m.items) == 0 {
		return nil
	}
	i = min(max(i, 0), len(m.items)-1)
	return m.ScrollTo(m.geom.OffsetOf(i))
}

// Visible returns the materialized items in index order
func (m *Model[T]) Visible() []Placed[T] {
	if m.win.Empty() {
		return nil
	}
	placed := make([]Placed[T], 0, m.win.Len())
	for i := m.win.Start; i <= m.win.End; i++ {
		placed = append(placed, Placed[T]{
			Index:  i,
			Key:    m.keyOf(i),
			Offset: m.geom.OffsetOf(i),
			Height: m.geom.SizeOf(i),
			Item:   m.items[i],
		})
	}
	return placed
}

// Update handles scrolling input and the scrolling quiet period
func (m *Model[T]) Update(msg tea.Msg) tea.Cmd {
	if m.closed {
		return nil
	}

	switch msg := msg.(type) {
	case performance.DebounceMsg:
		if m.quiet.Settled(msg) {
			m.scroll.IsScrolling = false
		}

	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.ScrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			return m.ScrollBy(wheelStep)
		}

	case tea.KeyMsg:
		km := m.opts.KeyMap
		switch {
		case key.Matches(msg, km.LineUp):
			return m.ScrollBy(-1)
		case key.Matches(msg, km.LineDown):
			return m.ScrollBy(1)
		case key.Matches(msg, km.PageUp):
			return m.ScrollBy(-m.opts.Height)
		case key.Matches(msg, km.PageDown):
			return m.ScrollBy(m.opts.Height)
		case key.Matches(msg, km.Top):
			return m.ScrollTo(0)
		case key.Matches(msg, km.Bottom):
			return m.ScrollTo(m.TotalHeight())
		}
	}
	return nil
}

// View renders the materialized items at their absolute rows
func (m *Model[T]) View() string {
	defer m.monitor.StartTimer(renderMetric)()

	height := m.opts.Height
	width := m.contentWidth()
	rows := make([]string, height)

	visible := m.Visible()
	live := make(map[string]bool, len(visible))
	for _, p := range visible {
		live[p.Key] = true
	}

	for _, p := range visible {
		lines := m.block(p, width, live)
		top := p.Offset - m.scroll.Offset
		for j, line := range lines {
			row := top + j
			if row < 0 || row >= height {
				continue
			}
			rows[row] = line
		}
	}

	if width > 0 {
		for i, r := range rows {
			rows[i] = fit(r, width)
		}
	}
	body := strings.Join(rows, "\n")

	if !m.opts.ShowScrollbar {
		return body
	}
	bar := renderScrollbar(m.opts.Styles.ScrollbarThumb, m.opts.Styles.ScrollbarTrack,
		height, m.TotalHeight(), height, m.scroll.Offset)
	if bar == "" {
		return body
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
}

// block returns exactly p.Height lines for a placed item. A failed render
// caches its placeholder, so the failure is reported once per key and width.
func (m *Model[T]) block(p Placed[T], width int, live map[string]bool) []string {
	content, ok := m.cache.Get(p.Key, width)
	if !ok {
		var err error
		content, err = m.render(p.Item, p.Index)
		if err != nil {
			m.report(&core.RenderCallbackError{Index: p.Index, Key: p.Key, Err: err})
			content = m.opts.Styles.Placeholder.Render(fmt.Sprintf("<item %s unavailable>", p.Key))
		}
		m.cache.Put(p.Key, width, content, live)
	}

	lines := strings.Split(content, "\n")
	if len(lines) > p.Height {
		lines = lines[:p.Height]
	}
	for len(lines) < p.Height {
		lines = append(lines, "")
	}
	return lines
}

func (m *Model[T]) render(item T, index int) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()
	return m.opts.RenderItem(item, index)
}

func (m *Model[T]) contentWidth() int {
	w := m.opts.Width
	if m.opts.ShowScrollbar && m.TotalHeight() > m.opts.Height && w > 0 {
		w--
	}
	return w
}

// fit truncates or pads s to exactly width cells
func fit(s string, width int) string {
	if lipgloss.Width(s) > width {
		s = truncate.String(s, uint(width))
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// SetItems replaces the collection and resets scrolling to the top
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.scroll = core.ScrollState{}
	m.quiet.Cancel()
	m.cache.Clear()
	m.rebuildGeometry()
	m.recompute()
}

// AppendItems adds items at the end, keeping the scroll position
func (m *Model[T]) AppendItems(items ...T) {
	from := len(m.items)
	m.items = append(m.items, items...)
	if m.opts.ItemHeightFunc != nil {
		m.heights = m.resolveHeights(m.heights, from)
		m.setVariable()
	} else {
		m.rebuildGeometry()
	}
	m.recompute()
}

// SetSize updates the viewport dimensions
func (m *Model[T]) SetSize(width, height int) {
	if height > 0 {
		m.opts.Height = height
	}
	if width != m.opts.Width {
		m.opts.Width = width
		m.cache.Clear()
	}
	m.scroll.Offset = core.ClampOffset(m.scroll.Offset, m.opts.Height, m.TotalHeight())
	m.recompute()
}

// SetStyles replaces the styles and drops cached renders
func (m *Model[T]) SetStyles(s Styles) {
	m.opts.Styles = s
	m.cache.Clear()
}

// Invalidate drops the cached render for key
func (m *Model[T]) Invalidate(key string) {
	m.cache.Invalidate(key)
}

// Close stops pending timers. Later settle messages are ignored.
func (m *Model[T]) Close() {
	m.closed = true
	m.quiet.Cancel()
	m.scroll.IsScrolling = false
}

// Offset returns the current scroll offset
func (m *Model[T]) Offset() int { return m.scroll.Offset }

// IsScrolling reports whether a scroll happened within the quiet period
func (m *Model[T]) IsScrolling() bool { return m.scroll.IsScrolling }

// Window returns the materialized index range
func (m *Model[T]) Window() window.Window { return m.win }

// Len returns the number of items
func (m *Model[T]) Len() int { return len(m.items) }

// Items returns the collection
func (m *Model[T]) Items() []T { return m.items }

// Height returns the viewport height
func (m *Model[T]) Height() int { return m.opts.Height }

// TotalHeight returns the full content extent
func (m *Model[T]) TotalHeight() int {
	if m.geom == nil {
		return 0
	}
	return m.geom.Total()
}

// Monitor exposes render timings
func (m *Model[T]) Monitor() *performance.Monitor { return m.monitor }

// KeyMap returns the active key bindings
func (m *Model[T]) KeyMap() KeyMap { return m.opts.KeyMap }

// Stats returns a snapshot of the render state
func (m *Model[T]) Stats() Stats {
	s := Stats{
		Items:        len(m.items),
		Materialized: m.win.Len(),
		Window:       m.win,
		TotalHeight:  m.TotalHeight(),
		CachedBlocks: m.cache.Len(),
	}
	if metric := m.monitor.Metric(renderMetric); metric != nil {
		s.AverageRender = metric.AverageTime()
	}
	return s
}
