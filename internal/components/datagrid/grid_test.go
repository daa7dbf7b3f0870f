package datagrid

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamStudy/listkit/internal/components/menu"
	"github.com/HamStudy/listkit/internal/components/selection"
	"github.com/HamStudy/listkit/internal/core"
)

type station struct {
	Call string
	Band string
	Freq string
}

func stations(n int) []station {
	out := make([]station, n)
	for i := range out {
		out[i] = station{
			Call: fmt.Sprintf("K%03d", i),
			Band: []string{"20m", "40m", "80m"}[i%3],
			Freq: fmt.Sprintf("%d", 14000+i),
		}
	}
	return out
}

func stationColumns() []Column[station] {
	return []Column[station]{
		{Key: "call", Header: "Call", Width: 6, Sortable: true, Filterable: true, Value: func(s station) string { return s.Call }},
		{Key: "band", Header: "Band", Width: 5, Sortable: true, Filterable: true, Value: func(s station) string { return s.Band }},
		{Key: "freq", Header: "Freq", Flex: true, Value: func(s station) string { return s.Freq }},
	}
}

// recorder collects intents and feeds them back as controlled state
type recorder struct {
	grid    *Model[station]
	state   State
	sorts   []SortState
	sels    []selection.Set
	filters []string
	vis     map[string]bool
	exports []string
}

func newGrid(t *testing.T, data []station, mod func(o *Options[station])) *recorder {
	t.Helper()
	r := &recorder{vis: map[string]bool{}}
	opts := DefaultOptions[station]()
	opts.Columns = stationColumns()
	opts.RowKey = func(s station, _ int) string { return s.Call }
	opts.Width = 40
	opts.Height = 7
	opts.OnSort = func(key string, dir Direction) {
		r.sorts = append(r.sorts, SortState{Key: key, Direction: dir})
		r.state.Sort = SortState{Key: key, Direction: dir}
		r.grid.SetState(r.state)
	}
	opts.OnSelectionChange = func(s selection.Set) {
		r.sels = append(r.sels, s)
		r.state.Selection = s
		r.grid.SetState(r.state)
	}
	opts.OnFilterChange = func(q string) { r.filters = append(r.filters, q) }
	opts.OnColumnVisibilityChange = func(key string, visible bool) { r.vis[key] = visible }
	opts.OnExport = func(format string) { r.exports = append(r.exports, format) }
	if mod != nil {
		mod(&opts)
	}

	g, err := New(data, opts)
	require.NoError(t, err)
	r.grid = g
	return r
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	cols := stationColumns()
	tests := []struct {
		name string
		opts Options[station]
	}{
		{"no columns", Options[station]{Height: 10}},
		{"duplicate key", Options[station]{Columns: append(cols, cols[0]), Height: 10}},
		{"empty key", Options[station]{Columns: []Column[station]{{Header: "x"}}, Height: 10}},
		{"too short", Options[station]{Columns: cols, Height: 2, EnableGlobalFilter: true}},
		{"negative overscan", Options[station]{Columns: cols, Height: 10, Overscan: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(stations(3), tt.opts)
			var cfgErr *core.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestSortToggleSequence(t *testing.T) {
	r := newGrid(t, stations(5), nil)

	r.grid.Update(keyRunes("s"))
	r.grid.Update(keyRunes("s"))
	r.grid.Update(keyRunes("s"))
	r.grid.Update(tea.KeyMsg{Type: tea.KeyRight})
	r.grid.Update(keyRunes("s"))

	assert.Equal(t, []SortState{
		{Key: "call", Direction: Ascending},
		{Key: "call", Direction: Descending},
		{Key: "call", Direction: Ascending},
		{Key: "band", Direction: Ascending},
	}, r.sorts)
}

func TestUnsortableColumnReportsNothing(t *testing.T) {
	r := newGrid(t, stations(5), nil)
	r.grid.Update(tea.KeyMsg{Type: tea.KeyRight})
	r.grid.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "freq", r.grid.FocusedColumn())

	r.grid.Update(keyRunes("s"))
	assert.Empty(t, r.sorts)
}

func TestSortDoesNotMutateData(t *testing.T) {
	data := stations(5)
	r := newGrid(t, data, nil)
	r.grid.Update(keyRunes("s"))
	r.grid.Update(keyRunes("s"))

	assert.Equal(t, stations(5), data)
	assert.Equal(t, "K000", r.grid.RowKeys()[0])
	assert.Contains(t, r.grid.View(), "Call ▼")
}

func TestSelectionTriState(t *testing.T) {
	r := newGrid(t, stations(3), nil)
	header := func() string { return strings.Split(r.grid.View(), "\n")[1] }

	assert.True(t, strings.HasPrefix(header(), "[ ]"))

	r.grid.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, r.state.Selection.Has("K000"))
	assert.True(t, strings.HasPrefix(header(), "[-]"))

	r.grid.Update(keyRunes("a"))
	assert.True(t, strings.HasPrefix(header(), "[x]"))
	assert.True(t, r.state.Selection.AllSelected())

	// Toggling a row while all are selected clears the all flag.
	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	r.grid.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, r.state.Selection.AllSelected())
	assert.True(t, strings.HasPrefix(header(), "[-]"))
	assert.Equal(t, []string{"K000", "K002"}, r.state.Selection.Keys())

	r.grid.Update(keyRunes("a"))
	r.grid.Update(keyRunes("a"))
	assert.True(t, strings.HasPrefix(header(), "[ ]"))
	assert.Len(t, r.sels, 5)
}

func TestNotSelectableIgnoresSelectionKeys(t *testing.T) {
	r := newGrid(t, stations(3), func(o *Options[station]) { o.Selectable = false })
	r.grid.Update(tea.KeyMsg{Type: tea.KeySpace})
	r.grid.Update(keyRunes("a"))
	assert.Empty(t, r.sels)
	assert.NotContains(t, r.grid.View(), "[ ]")
}

func TestFilterReportsEachChange(t *testing.T) {
	r := newGrid(t, stations(3), nil)

	r.grid.Update(keyRunes("/"))
	require.True(t, r.grid.Filtering())
	r.grid.Update(keyRunes("4"))
	r.grid.Update(keyRunes("0"))
	r.grid.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, r.grid.Filtering())
	assert.Equal(t, []string{"4", "40"}, r.filters)

	r.grid.Update(keyRunes("/"))
	r.grid.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, "", r.filters[len(r.filters)-1])
}

func TestFilterDisabled(t *testing.T) {
	r := newGrid(t, stations(3), func(o *Options[station]) { o.EnableGlobalFilter = false })
	r.grid.Update(keyRunes("/"))
	assert.False(t, r.grid.Filtering())
	assert.Contains(t, strings.Split(r.grid.View(), "\n")[0], "Call")
}

func TestColumnVisibilityMenu(t *testing.T) {
	r := newGrid(t, stations(3), nil)

	r.grid.Update(keyRunes("c"))
	require.True(t, r.grid.MenuOpen())
	assert.Contains(t, r.grid.View(), "[x] Band")

	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	cmd := r.grid.Update(tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, cmd)
	r.grid.Update(cmd())

	assert.Equal(t, map[string]bool{"band": false}, r.vis)

	// The grid keeps showing the column until the caller hides it.
	r.grid.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, r.grid.View(), "Band")

	r.grid.SetState(State{Hidden: map[string]bool{"band": true}})
	assert.NotContains(t, r.grid.View(), "Band")
}

func TestExportMenuReportsFormat(t *testing.T) {
	r := newGrid(t, stations(3), nil)

	r.grid.Update(keyRunes("e"))
	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	cmd := r.grid.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, menu.SelectedMsg{}, msg)
	r.grid.Update(msg)

	assert.Equal(t, []string{"yaml"}, r.exports)
	assert.False(t, r.grid.MenuOpen())
}

func TestRowsAreWindowed(t *testing.T) {
	r := newGrid(t, stations(1000), nil)
	lines := strings.Split(r.grid.View(), "\n")
	require.Len(t, lines, 7)
	assert.Contains(t, lines[2], "K000")
	assert.Contains(t, lines[6], "K004")
	assert.Equal(t, 9, r.grid.Window().Len())

	r.grid.Update(keyRunes("G"))
	assert.Equal(t, 999, r.grid.Cursor())
	assert.Equal(t, 995, r.grid.Offset())
	assert.Equal(t, 999, r.grid.Window().End)
	lines = strings.Split(r.grid.View(), "\n")
	assert.Contains(t, lines[6], "K999")
}

func TestCursorFollowsRowAcrossDataChanges(t *testing.T) {
	r := newGrid(t, stations(10), nil)
	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	r.grid.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "K002", r.grid.CursorKey())

	sorted := SortRows(stations(10), stationColumns(), SortState{Key: "call", Direction: Descending})
	r.grid.SetData(sorted)
	assert.Equal(t, "K002", r.grid.CursorKey())
	assert.Equal(t, 7, r.grid.Cursor())
}

func TestMouseWheelMovesCursor(t *testing.T) {
	r := newGrid(t, stations(20), nil)
	r.grid.Update(tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 3, r.grid.Cursor())
}

func TestLayoutWidths(t *testing.T) {
	tests := []struct {
		name  string
		cols  []layoutColumn
		total int
		want  []int
	}{
		{"fixed only", []layoutColumn{{width: 5}, {width: 7}}, 40, []int{5, 7}},
		{"fixed clamped", []layoutColumn{{width: 50, maxWidth: 20}, {width: 2, minWidth: 4}}, 40, []int{20, 4}},
		{"default min", []layoutColumn{{}}, 40, []int{10}},
		{"flex fills", []layoutColumn{{width: 10}, {flex: true}}, 40, []int{10, 29}},
		{"flex split", []layoutColumn{{flex: true}, {flex: true}}, 21, []int{10, 10}},
		{"flex max", []layoutColumn{{flex: true, maxWidth: 5}, {flex: true}}, 31, []int{5, 25}},
		{"flex squeezed", []layoutColumn{{width: 30}, {flex: true, minWidth: 10}, {flex: true, minWidth: 10}}, 42, []int{30, 5, 5}},
		{"zero width", []layoutColumn{{flex: true}}, 0, []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, layoutWidths(tt.cols, tt.total))
		})
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abcd…", truncateText("abcdefghij", 5, "end"))
	assert.Equal(t, "ab…ij", truncateText("abcdefghij", 5, "middle"))
	assert.Equal(t, "…ghij", truncateText("abcdefghij", 5, "start"))
	assert.Equal(t, "…", truncateText("abcdefghij", 1, "start"))
}
