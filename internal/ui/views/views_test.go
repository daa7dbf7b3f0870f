package views

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/dragdrop"
	"github.com/HamStudy/listkit/internal/components/infinite"
	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/core"
)

type updater interface {
	Update(tea.Msg) tea.Cmd
}

// drive runs cmd and feeds every resulting message back into v, the way
// the Bubble Tea runtime would.
func drive(t *testing.T, v updater, cmd tea.Cmd) {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			t.Fatal("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, v.Update(msg))
		}
	}
}

func testConfig() *core.Config {
	cfg := core.DefaultConfig()
	cfg.IsScrollingQuiet = time.Millisecond
	cfg.FrameInterval = time.Millisecond
	return cfg
}

func TestGenerateContactsIsReproducible(t *testing.T) {
	a := GenerateContacts(50, 7)
	b := GenerateContacts(50, 7)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("contact %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	ids := make([]string, len(a))
	seen := map[string]bool{}
	for i, c := range a {
		if seen[c.ID] {
			t.Fatalf("duplicate id %s", c.ID)
		}
		seen[c.ID] = true
		ids[i] = c.ID
	}
	if !sort.StringsAreSorted(ids) {
		t.Error("ids should sort in creation order")
	}
}

func TestContactSourceContinues(t *testing.T) {
	src := NewContactSource(3)
	first := src.Generate(5)
	next := src.Generate(5)

	if src.Generated() != 10 {
		t.Errorf("Generated() = %d, want 10", src.Generated())
	}
	if !next[0].At.After(first[4].At) {
		t.Error("second page should continue after the first")
	}
}

func TestListViewRendersStatus(t *testing.T) {
	v, err := NewListView(GenerateContacts(100, 1), testConfig(), style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListView: %v", err)
	}
	v.SetSize(80, 11)

	lines := strings.Split(v.View(), "\n")
	if len(lines) != 11 {
		t.Fatalf("got %d lines, want 11", len(lines))
	}
	if !strings.Contains(lines[10], "100 contacts") {
		t.Errorf("status line = %q", lines[10])
	}

	drive(t, v, v.Update(tea.KeyMsg{Type: tea.KeyPgDown}))
	if v.List().Offset() != 10 {
		t.Errorf("offset = %d, want 10", v.List().Offset())
	}
	if v.List().IsScrolling() {
		t.Error("scrolling should settle")
	}
}

func TestListViewRowTemplate(t *testing.T) {
	contacts := GenerateContacts(20, 1)
	cfg := testConfig()
	cfg.ListTemplate = `<< {{ .Call }} on {{ mhz .FreqKHz }} >>`

	v, err := NewListView(contacts, cfg, style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListView: %v", err)
	}
	v.SetSize(80, 11)
	if !strings.Contains(v.View(), "<< "+contacts[0].Call+" on ") {
		t.Errorf("first row not rendered from the template:\n%s", v.View())
	}

	cfg.ListTemplate = `{{ .Call `
	_, err = NewListView(contacts, cfg, style.NewManager(), zerolog.Nop())
	var cfgErr *core.ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "list.template" {
		t.Fatalf("err = %v, want a list.template configuration error", err)
	}

	cfg.ListTemplate = `{{ .Grid }}`
	v, err = NewListView(contacts, cfg, style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewListView: %v", err)
	}
	v.SetSize(80, 11)
	if !strings.Contains(v.View(), "errors") {
		t.Error("status should count rows that failed to render")
	}
}

func newFeed(t *testing.T, limit int) *FeedView {
	t.Helper()
	v, err := NewFeedView(testConfig(), FeedOptions{Seed: 1, Limit: limit}, style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewFeedView: %v", err)
	}
	v.SetSize(80, 12)
	return v
}

func TestFeedLoadsPagesUntilExhausted(t *testing.T) {
	v := newFeed(t, 120)

	drive(t, v, v.Init())
	if got := v.List().Len(); got != 50 {
		t.Fatalf("after first page got %d items, want 50", got)
	}

	for range 3 {
		v.List().ScrollTo(v.List().TotalHeight())
		drive(t, v, v.checkScroll())
	}

	if got := v.List().Len(); got != 120 {
		t.Fatalf("got %d items, want 120", got)
	}
	if v.Engine().State().HasMore {
		t.Error("feed should be exhausted")
	}
	if !strings.Contains(v.View(), "No more items") {
		t.Error("view should show the end message")
	}
}

func TestFeedRefreshReplacesItems(t *testing.T) {
	v := newFeed(t, 500)
	drive(t, v, v.Init())
	before := v.List().Items()[0].ID

	v.List().ScrollTo(v.List().TotalHeight())
	drive(t, v, v.checkScroll())
	if v.List().Len() != 100 {
		t.Fatalf("got %d items, want 100", v.List().Len())
	}

	drive(t, v, v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}))

	if v.List().Len() != 50 {
		t.Errorf("after refresh got %d items, want 50", v.List().Len())
	}
	if v.List().Items()[0].ID == before {
		t.Error("refresh should load a new first page")
	}
	if v.Engine().Pull().Phase != core.PullIdle {
		t.Errorf("pull phase = %v, want idle", v.Engine().Pull().Phase)
	}
}

// settles runs cmd and collects the feed settle messages it produces
// without delivering them.
func settles(cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case infinite.LoadSettledMsg, infinite.RefreshSettledMsg:
			out = append(out, msg)
		}
	}
	return out
}

func TestFeedIgnoresSettlesFromClosedFeed(t *testing.T) {
	old := newFeed(t, 500)
	stale := settles(old.Init())
	if len(stale) != 1 {
		t.Fatalf("got %d settle messages from Init, want 1", len(stale))
	}
	old.Update(stale[0])
	stale = append(stale, settles(old.Refresh())...)
	if len(stale) != 2 {
		t.Fatalf("got %d settle messages, want a load and a refresh", len(stale))
	}
	old.Close()

	v := newFeed(t, 500)
	drive(t, v, v.Init())
	first := v.List().Items()[0].ID

	for _, msg := range stale {
		if cmd := v.Update(msg); cmd != nil {
			t.Errorf("stale %T returned a command", msg)
		}
	}
	if got := v.List().Len(); got != 50 {
		t.Errorf("after stale settles got %d items, want 50", got)
	}
	if v.List().Items()[0].ID != first {
		t.Error("stale refresh replaced the feed")
	}
}

func TestFeedRefreshWhenTopCrossesThreshold(t *testing.T) {
	v := newFeed(t, 500)

	// Nothing is loaded yet, so the empty feed sits past the load threshold.
	cmd := v.Refresh()
	if v.Engine().IsLoadingMore() {
		t.Fatal("refresh should not start a page load")
	}
	if v.Engine().Pull().Phase != core.PullRefreshing {
		t.Fatalf("pull phase = %v, want refreshing", v.Engine().Pull().Phase)
	}

	drive(t, v, cmd)
	if got := v.List().Len(); got != 50 {
		t.Errorf("after refresh got %d items, want 50", got)
	}
	if v.Engine().Pull().Phase != core.PullIdle {
		t.Errorf("pull phase = %v, want idle", v.Engine().Pull().Phase)
	}
}

func newGridView(t *testing.T, n int) *GridView {
	t.Helper()
	v, err := NewGridView(GenerateContacts(n, 2), testConfig(), style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewGridView: %v", err)
	}
	v.SetSize(140, 20)
	return v
}

func TestGridViewAppliesSort(t *testing.T) {
	v := newGridView(t, 40)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if s := v.State().Sort; s.Key != "call" || s.Direction.String() != "asc" {
		t.Fatalf("sort = %+v, want call asc", s)
	}

	keys := v.Grid().RowKeys()
	byID := map[string]Contact{}
	for _, c := range v.data {
		byID[c.ID] = c
	}
	for i := 1; i < len(keys); i++ {
		prev, cur := byID[keys[i-1]].Call, byID[keys[i]].Call
		if strings.ToLower(prev) > strings.ToLower(cur) {
			t.Fatalf("rows out of order at %d: %s > %s", i, prev, cur)
		}
	}
}

func TestGridViewFiltersAndSelects(t *testing.T) {
	v := newGridView(t, 60)

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Japan")})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if v.State().Filter != "Japan" {
		t.Fatalf("filter = %q", v.State().Filter)
	}
	for _, k := range v.Grid().RowKeys() {
		for _, c := range v.data {
			if c.ID == k && c.Country != "Japan" && !strings.Contains(c.Call+c.Name+c.Band+c.Mode, "Japan") {
				t.Fatalf("row %s (%s) does not match the filter", c.Call, c.Country)
			}
		}
	}

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if !v.State().Selection.AllSelected() {
		t.Error("select all should select every row")
	}
	if !strings.Contains(v.View(), "selected") {
		t.Error("status should report the selection")
	}
}

func TestGridViewExports(t *testing.T) {
	v := newGridView(t, 5)
	v.ExportDir = t.TempDir()

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("export menu should emit a selection")
	}
	v.Update(cmd())

	files, err := filepath.Glob(filepath.Join(v.ExportDir, "contacts-*.csv"))
	if err != nil || len(files) != 1 {
		t.Fatalf("export files = %v (%v)", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 6 {
		t.Errorf("csv has %d lines, want header + 5", len(lines))
	}
	if !strings.Contains(v.View(), "exported") {
		t.Error("status should report the export")
	}
}

func TestBoardViewKeyboardMove(t *testing.T) {
	cfg := testConfig()
	cfg.BoardColumns = 2
	v, err := NewBoardView(GenerateContacts(10, 4), cfg, style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBoardView: %v", err)
	}
	v.SetSize(60, 8)

	first := v.Board().Items()[0]
	v.Update(tea.KeyMsg{Type: tea.KeyCtrlRight})

	items := v.Board().Items()
	if items[1].ID != first.ID {
		t.Fatalf("card should move right, got order %v", items)
	}
	if !strings.Contains(v.View(), "moved "+first.Content+" to 2") {
		t.Errorf("status should report the move: %q", strings.Split(v.View(), "\n")[0])
	}
}

func TestBoardViewPinsCards(t *testing.T) {
	v, err := NewBoardView(GenerateContacts(14, 4), testConfig(), style.NewManager(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewBoardView: %v", err)
	}

	var pinned []dragdrop.Item
	for _, it := range v.Board().Items() {
		if it.Disabled {
			pinned = append(pinned, it)
		}
	}
	if len(pinned) != 2 {
		t.Fatalf("got %d pinned cards, want 2", len(pinned))
	}
	if v.Board().DragStart(pinned[0].ID) {
		t.Error("pinned cards cannot be dragged")
	}
}

func TestHelpViewListsBindings(t *testing.T) {
	v := NewHelpView(style.NewManager(), HelpSection{
		Title:    "Board",
		Bindings: dragdrop.DefaultKeyMap().ShortHelp(),
	})
	v.SetSize(80, 30)

	out := v.View()
	for _, want := range []string{"listkit - Help", "Board", "move up", "pick up / drop"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should contain %q", want)
		}
	}
}
