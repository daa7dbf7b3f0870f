package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HamStudy/listkit/internal/config"
	"github.com/HamStudy/listkit/internal/core"
)

func testConfig() *core.Config {
	cfg := core.DefaultConfig()
	cfg.ItemCount = 200
	cfg.IsScrollingQuiet = time.Millisecond
	cfg.FrameInterval = time.Millisecond
	return cfg
}

func newTestApp(t *testing.T, mod func(o *Options)) *App {
	t.Helper()
	opts := Options{Config: testConfig(), Seed: 1, ExportDir: t.TempDir()}
	if mod != nil {
		mod(&opts)
	}
	a, err := NewApp(opts)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(a.Close)
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return a
}

// drive runs cmd and feeds every resulting message back into the app
func drive(t *testing.T, a *App, cmd tea.Cmd) {
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
			_, next := a.Update(msg)
			queue = append(queue, next)
		}
	}
}

func press(a *App, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := a.Update(msg)
	return cmd
}

func TestNewApp(t *testing.T) {
	tests := []struct {
		name    string
		mod     func(cfg *core.Config)
		wantErr bool
	}{
		{name: "defaults"},
		{name: "unknown theme", mod: func(cfg *core.Config) { cfg.ColorScheme = "neon" }, wantErr: true},
		{name: "negative overscan", mod: func(cfg *core.Config) { cfg.Overscan = -1 }, wantErr: true},
		{name: "empty demo", mod: func(cfg *core.Config) { cfg.ItemCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.mod != nil {
				tt.mod(cfg)
			}
			a, err := NewApp(Options{Config: cfg})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewApp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if a != nil {
				a.Close()
			}
		})
	}
}

func TestViewBeforeSize(t *testing.T) {
	a, err := NewApp(Options{Config: testConfig()})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	if got := a.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
}

func TestTabNavigation(t *testing.T) {
	a := newTestApp(t, nil)

	want := []Tab{TabFeed, TabGrid, TabBoard, TabHelp, TabList}
	for _, w := range want {
		press(a, "tab")
		if a.Tab() != w {
			t.Fatalf("after tab got %v, want %v", a.Tab(), w)
		}
	}

	press(a, "shift+tab")
	if a.Tab() != TabHelp {
		t.Errorf("shift+tab from List got %v, want Help", a.Tab())
	}
}

func TestHelpToggleReturnsToLastTab(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "tab")
	press(a, "tab")

	press(a, "?")
	if a.Tab() != TabHelp {
		t.Fatalf("got %v, want Help", a.Tab())
	}
	view := a.View()
	for _, s := range []string{"Global", "Board", "cycle theme", "pick up / drop"} {
		if !strings.Contains(view, s) {
			t.Errorf("help view missing %q", s)
		}
	}

	press(a, "?")
	if a.Tab() != TabGrid {
		t.Errorf("got %v, want Grid", a.Tab())
	}
}

func TestQuit(t *testing.T) {
	a := newTestApp(t, nil)
	cmd := press(a, "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestGridCapturesKeys(t *testing.T) {
	a := newTestApp(t, nil)
	press(a, "tab")
	press(a, "tab")

	press(a, "/")
	if !a.grid.Capturing() {
		t.Fatal("filter should capture the keyboard")
	}
	press(a, "q")
	press(a, "tab")
	if a.Tab() != TabGrid {
		t.Fatalf("tab switched while filtering: %v", a.Tab())
	}
	press(a, "enter")

	if got := a.grid.State().Filter; got != "q" {
		t.Errorf("filter = %q, want %q", got, "q")
	}
}

func TestThemeCycle(t *testing.T) {
	a := newTestApp(t, nil)

	press(a, "t")
	if got := a.styles.Theme().Name; got != "high-contrast" {
		t.Fatalf("theme = %s, want high-contrast", got)
	}
	if !strings.Contains(a.View(), "theme: high-contrast") {
		t.Error("status should name the new theme")
	}

	press(a, "t")
	press(a, "t")
	if got := a.styles.Theme().Name; got != "default" {
		t.Errorf("theme = %s, want default after a full cycle", got)
	}
}

func TestFeedLoadsWhileAnotherTabIsActive(t *testing.T) {
	a := newTestApp(t, func(o *Options) { o.Feed.Limit = 80 })

	drive(t, a, a.Init())
	if a.Tab() != TabList {
		t.Fatalf("got %v, want List", a.Tab())
	}
	if got := a.feed.List().Len(); got != 50 {
		t.Errorf("feed has %d items, want the first page of 50", got)
	}
}

func TestConfigReload(t *testing.T) {
	events := make(chan config.Event, 1)
	a := newTestApp(t, func(o *Options) {
		o.Events = events
		o.Reload = func() (*core.Config, error) {
			cfg := testConfig()
			cfg.ColorScheme = "light"
			cfg.ItemCount = 10
			cfg.BoardColumns = 2
			return cfg, nil
		}
	})

	events <- config.Event{Path: "/tmp/config.yaml"}
	msg := a.waitForConfig()()
	changed, ok := msg.(configChangedMsg)
	if !ok || changed.Path != "/tmp/config.yaml" {
		t.Fatalf("waitForConfig() = %#v", msg)
	}

	a.Update(changed)
	if a.styles.Theme().Name != "light" {
		t.Errorf("theme = %s, want light", a.styles.Theme().Name)
	}
	if a.Config().ItemCount != 10 {
		t.Errorf("item count = %d, want 10", a.Config().ItemCount)
	}
	if a.list.List().Len() != 10 {
		t.Errorf("list has %d items, want 10", a.list.List().Len())
	}
	if !strings.Contains(a.View(), "configuration reloaded") {
		t.Error("status should report the reload")
	}
}

func TestConfigReloadFailureKeepsViews(t *testing.T) {
	a := newTestApp(t, func(o *Options) {
		o.Reload = func() (*core.Config, error) {
			return nil, errors.New("bad yaml")
		}
	})
	before := a.Config()

	a.Update(configChangedMsg{Path: "config.yaml"})
	if a.Config() != before {
		t.Error("failed reload should keep the current config")
	}
	if !strings.Contains(a.View(), "bad yaml") {
		t.Error("status should report the failure")
	}
}

func TestClosedEventsStopWaiting(t *testing.T) {
	events := make(chan config.Event)
	close(events)
	a := newTestApp(t, func(o *Options) { o.Events = events })

	if msg := a.waitForConfig()(); msg != nil {
		t.Errorf("closed channel should yield nil, got %#v", msg)
	}
}

func TestViewShowsTabs(t *testing.T) {
	a := newTestApp(t, nil)
	view := a.View()
	for _, title := range tabTitles {
		if !strings.Contains(view, title) {
			t.Errorf("tab bar missing %q", title)
		}
	}
	if !strings.Contains(view, "200 contacts") {
		t.Error("list tab should be rendered")
	}
}
