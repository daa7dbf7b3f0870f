package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/config"
	"github.com/HamStudy/listkit/internal/core"
	"github.com/HamStudy/listkit/internal/logging"
	"github.com/HamStudy/listkit/internal/ui/views"
)

// headerHeight is the tab bar plus the status line
const headerHeight = 2

// Options configures the demo application
type Options struct {
	Config *core.Config
	// Seed makes the generated contacts reproducible
	Seed      int64
	Feed      views.FeedOptions
	ExportDir string

	// Events delivers configuration file changes and Reload resolves the
	// configuration after one. Both are optional.
	Events <-chan config.Event
	Reload func() (*core.Config, error)
}

// configChangedMsg reports a change to the configuration file
type configChangedMsg struct {
	Path string
}

// App represents the main application model
type App struct {
	opts   Options
	config *core.Config
	styles *style.Manager
	logger zerolog.Logger
	keys   KeyMap

	// Views
	list  *views.ListView
	feed  *views.FeedView
	grid  *views.GridView
	board *views.BoardView
	help  *views.HelpView

	// UI state
	tab    Tab
	last   Tab
	width  int
	height int
	ready  bool
	status string
}

// NewApp creates a new application instance
func NewApp(opts Options) (*App, error) {
	if opts.Config == nil {
		opts.Config = core.DefaultConfig()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if opts.Feed.Limit <= 0 {
		opts.Feed.Limit = opts.Config.ItemCount
	}
	if opts.Feed.Seed == 0 {
		opts.Feed.Seed = opts.Seed
	}

	a := &App{
		opts:   opts,
		styles: style.NewManager(),
		logger: logging.Component("ui"),
		keys:   DefaultKeyMap(),
	}
	if err := a.styles.SetThemeByName(opts.Config.ColorScheme); err != nil {
		return nil, err
	}
	if err := a.build(opts.Config); err != nil {
		return nil, err
	}
	return a, nil
}

// build replaces every view with one configured from cfg. On error the
// current views are kept.
func (a *App) build(cfg *core.Config) error {
	contacts := views.GenerateContacts(cfg.ItemCount, a.opts.Seed)

	list, err := views.NewListView(contacts, cfg, a.styles, logging.Component("list"))
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	feed, err := views.NewFeedView(cfg, a.opts.Feed, a.styles, logging.Component("feed"))
	if err != nil {
		list.Close()
		return fmt.Errorf("feed: %w", err)
	}
	grid, err := views.NewGridView(contacts, cfg, a.styles, logging.Component("grid"))
	if err != nil {
		list.Close()
		feed.Close()
		return fmt.Errorf("grid: %w", err)
	}
	if a.opts.ExportDir != "" {
		grid.ExportDir = a.opts.ExportDir
	}
	board, err := views.NewBoardView(contacts, cfg, a.styles, logging.Component("board"))
	if err != nil {
		list.Close()
		feed.Close()
		return fmt.Errorf("board: %w", err)
	}

	if a.list != nil {
		a.list.Close()
	}
	if a.feed != nil {
		a.feed.Close()
	}
	a.config = cfg
	a.list, a.feed, a.grid, a.board = list, feed, grid, board
	a.help = views.NewHelpView(a.styles, a.helpSections()...)
	if a.ready {
		a.layout()
	}

	a.logger.Debug().
		Int("items", cfg.ItemCount).
		Str("theme", cfg.ColorScheme).
		Msg("views built")
	return nil
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.feed.Init(),
		a.waitForConfig(),
	)
}

// waitForConfig blocks on the next configuration change
func (a *App) waitForConfig() tea.Cmd {
	events := a.opts.Events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return configChangedMsg{Path: ev.Path}
	}
}

// reload applies the configuration after a file change
func (a *App) reload(path string) tea.Cmd {
	if a.opts.Reload == nil {
		return nil
	}
	cfg, err := a.opts.Reload()
	if err == nil {
		err = a.styles.SetThemeByName(cfg.ColorScheme)
	}
	if err == nil {
		err = a.build(cfg)
	}
	if err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("config reload failed")
		a.status = "config: " + err.Error()
		return nil
	}

	a.logger.Info().Str("path", path).Msg("config reloaded")
	a.status = "configuration reloaded"
	return a.feed.Init()
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.layout()
		return a, nil

	case configChangedMsg:
		return a, tea.Batch(a.reload(msg.Path), a.waitForConfig())

	case tea.KeyMsg:
		// The grid owns the keyboard while its filter or a menu is open
		if a.tab == TabGrid && a.grid.Capturing() {
			return a, a.grid.Update(msg)
		}

		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit

		case key.Matches(msg, a.keys.Help):
			if a.tab == TabHelp {
				a.setTab(a.last)
			} else {
				a.setTab(TabHelp)
			}
			return a, nil

		case key.Matches(msg, a.keys.NextTab):
			a.setTab(a.tab.next())
			return a, nil

		case key.Matches(msg, a.keys.PrevTab):
			a.setTab(a.tab.prev())
			return a, nil

		case key.Matches(msg, a.keys.Theme):
			a.cycleTheme()
			return a, nil
		}
		a.status = ""
		return a, a.updateActive(msg)

	case tea.MouseMsg:
		return a, a.updateActive(msg)
	}

	// Timers and load results go to every view; each ignores what it does
	// not own.
	return a, tea.Batch(
		a.list.Update(msg),
		a.feed.Update(msg),
		a.grid.Update(msg),
		a.board.Update(msg),
	)
}

func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	switch a.tab {
	case TabList:
		return a.list.Update(msg)
	case TabFeed:
		return a.feed.Update(msg)
	case TabGrid:
		return a.grid.Update(msg)
	case TabBoard:
		return a.board.Update(msg)
	case TabHelp:
		_, cmd := a.help.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) setTab(t Tab) {
	if t != TabHelp {
		a.last = t
	}
	a.tab = t
	a.status = ""
}

// cycleTheme switches to the next registered theme
func (a *App) cycleTheme() {
	names := style.ThemeNames()
	current := a.styles.Theme().Name
	next := names[0]
	for i, n := range names {
		if n == current {
			next = names[(i+1)%len(names)]
			break
		}
	}
	if err := a.styles.SetThemeByName(next); err != nil {
		a.status = err.Error()
		return
	}

	a.list.ApplyTheme()
	a.feed.ApplyTheme()
	a.grid.ApplyTheme()
	a.board.ApplyTheme()
	a.status = "theme: " + next
}

// layout sizes the views to the space below the header
func (a *App) layout() {
	body := a.height - headerHeight
	if body < 1 {
		body = 1
	}
	a.list.SetSize(a.width, body)
	a.feed.SetSize(a.width, body)
	a.grid.SetSize(a.width, body)
	a.board.SetSize(a.width, body)
	a.board.SetOrigin(headerHeight)
	a.help.SetSize(a.width, body)
}

// View renders the application
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	tabs := make([]string, 0, tabCount)
	for t := TabList; t < tabCount; t++ {
		tabs = append(tabs, a.styles.Tab(t == a.tab).Render(t.String()))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	status := a.status
	if status == "" {
		status = fmt.Sprintf("%s theme · %s", a.styles.Theme().Name, helpHint(a.keys))
	}

	var body string
	switch a.tab {
	case TabList:
		body = a.list.View()
	case TabFeed:
		body = a.feed.View()
	case TabGrid:
		body = a.grid.View()
	case TabBoard:
		body = a.board.View()
	case TabHelp:
		body = a.help.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().MaxWidth(a.width).Render(bar),
		a.styles.Help().MaxWidth(a.width).Render(status),
		body,
	)
}

func helpHint(k KeyMap) string {
	parts := make([]string, 0, 3)
	for _, b := range []key.Binding{k.NextTab, k.Help, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

// Tab returns the active tab
func (a *App) Tab() Tab { return a.tab }

// Config returns the configuration the views were built from
func (a *App) Config() *core.Config { return a.config }

// Close releases timers held by the views
func (a *App) Close() {
	a.list.Close()
	a.feed.Close()
}
