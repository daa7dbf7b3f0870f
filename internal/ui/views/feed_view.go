package views

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/components/infinite"
	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/components/virtuallist"
	"github.com/HamStudy/listkit/internal/core"
)

// feedSource produces pages of contacts off the event loop. Fetched pages
// wait in pending until the view drains them on a settle message.
type feedSource struct {
	mu      sync.Mutex
	seed    int64
	src     *ContactSource
	pending []Contact
	limit   int
	latency time.Duration
}

func newFeedSource(seed int64, limit int, latency time.Duration) *feedSource {
	return &feedSource{seed: seed, src: NewContactSource(seed), limit: limit, latency: latency}
}

func (f *feedSource) wait(ctx context.Context) error {
	if f.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(f.latency):
		return nil
	}
}

func (f *feedSource) fetch(ctx context.Context, n int) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	remaining := f.limit - f.src.Generated()
	if remaining > 0 {
		f.pending = append(f.pending, f.src.Generate(min(n, remaining))...)
	}
	return nil
}

func (f *feedSource) reset(ctx context.Context, n int) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	f.seed++
	f.src = NewContactSource(f.seed)
	f.pending = nil
	f.mu.Unlock()
	return f.fetch(ctx, n)
}

// take returns the pending contacts and whether more can be fetched
func (f *feedSource) take() ([]Contact, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.pending
	f.pending = nil
	return out, f.src.Generated() < f.limit
}

// FeedOptions configures the feed's simulated backend
type FeedOptions struct {
	Seed    int64
	Limit   int
	Latency time.Duration
}

// FeedView is an infinite scrolling feed with pull-to-refresh
type FeedView struct {
	list    *virtuallist.Model[Contact]
	engine  *infinite.Engine
	source  *feedSource
	styles  *style.Manager
	refresh key.Binding
	pull    int
	lastErr error
}

// NewFeedView creates a feed that loads cfg.PageSize contacts per page
func NewFeedView(cfg *core.Config, feed FeedOptions, styles *style.Manager, logger zerolog.Logger) (*FeedView, error) {
	v := &FeedView{
		source:  newFeedSource(feed.Seed, feed.Limit, feed.Latency),
		styles:  styles,
		pull:    cfg.PullRefreshThreshold,
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}

	lopts := virtuallist.DefaultOptions[Contact]()
	lopts.ItemHeight = 1
	lopts.Height = 10
	lopts.Overscan = cfg.Overscan
	lopts.ShowScrollbar = cfg.ShowScrollbar
	lopts.ScrollingQuiet = cfg.IsScrollingQuiet
	lopts.RenderItem = func(c Contact, _ int) (string, error) {
		return fmt.Sprintf("%s  %-9s %-4s %-5s %s", c.At.Format("15:04"), c.Call, c.Mode, c.Band, c.Name), nil
	}
	lopts.GetItemKey = func(c Contact, _ int) string { return c.ID }
	lopts.Logger = logger
	lopts.Styles = styles.List()

	list, err := virtuallist.New[Contact](nil, lopts)
	if err != nil {
		return nil, err
	}
	v.list = list

	eopts := infinite.DefaultOptions()
	eopts.Threshold = cfg.LoadThreshold
	eopts.LoadMore = func(ctx context.Context) error { return v.source.fetch(ctx, cfg.PageSize) }
	eopts.PullDownToRefresh = true
	eopts.PullDownToRefreshThreshold = cfg.PullRefreshThreshold
	eopts.RefreshFunction = func(ctx context.Context) error { return v.source.reset(ctx, cfg.PageSize) }
	eopts.OnError = func(err error) { v.lastErr = err }
	eopts.Logger = logger

	engine, err := infinite.New(eopts)
	if err != nil {
		return nil, err
	}
	v.engine = engine
	return v, nil
}

// Init loads the first page
func (v *FeedView) Init() tea.Cmd {
	return v.checkScroll()
}

// SetSize sets the view dimensions; two rows hold the indicator and status
func (v *FeedView) SetSize(width, height int) {
	v.list.SetSize(width, max(height-2, 1))
}

func (v *FeedView) metrics() infinite.ScrollMetrics {
	return infinite.ScrollMetrics{
		ScrollTop:    v.list.Offset(),
		ClientHeight: v.list.Height(),
		ScrollHeight: v.list.TotalHeight(),
	}
}

func (v *FeedView) checkScroll() tea.Cmd {
	return v.engine.OnScroll(v.metrics())
}

func (v *FeedView) drain(replace bool) {
	items, more := v.source.take()
	if replace {
		v.list.SetItems(items)
	} else if len(items) > 0 {
		v.list.AppendItems(items...)
	}
	v.engine.SetHasMore(more)
}

// Refresh runs the pull gesture from the top of the feed. The threshold
// check waits for the refresh to settle.
func (v *FeedView) Refresh() tea.Cmd {
	scroll := v.list.ScrollTo(0)
	v.engine.Observe(v.metrics())
	v.engine.TouchStart(0)
	v.engine.TouchMove(v.pull + 1)
	return tea.Batch(scroll, v.engine.TouchEnd())
}

// Update routes loads, pulls and scrolling
func (v *FeedView) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case infinite.LoadSettledMsg:
		if !v.engine.Accepts(msg) {
			return nil
		}
		cmd := v.engine.Update(msg)
		if msg.Err == nil {
			v.lastErr = nil
		}
		v.drain(false)
		return tea.Batch(cmd, v.checkScroll())

	case infinite.RefreshSettledMsg:
		if !v.engine.Accepts(msg) {
			return nil
		}
		cmd := v.engine.Update(msg)
		if msg.Err == nil {
			v.lastErr = nil
			v.drain(true)
		}
		return tea.Batch(cmd, v.checkScroll())

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			return tea.Batch(v.list.Update(msg), v.checkScroll())
		}
		return v.engine.Update(msg)

	case tea.KeyMsg:
		if key.Matches(msg, v.refresh) {
			return v.Refresh()
		}
		return tea.Batch(v.list.Update(msg), v.checkScroll())
	}
	return v.list.Update(msg)
}

// View renders the pull indicator, the feed and the load status
func (v *FeedView) View() string {
	var b strings.Builder

	top := ""
	if p := v.engine.Pull(); p.Phase != core.PullIdle {
		top = v.engine.Indicator()
		if p.Phase != core.PullRefreshing {
			top += " " + strings.Repeat("·", min(p.Distance, 20))
		}
	}
	b.WriteString(v.styles.Info().Render(top))
	b.WriteString("\n")
	b.WriteString(v.list.View())
	b.WriteString("\n")

	status := fmt.Sprintf("%d loaded", v.list.Len())
	if p := v.engine.Pull(); p.Phase == core.PullIdle {
		if s := v.engine.Indicator(); s != "" {
			status += " · " + s
		}
	}
	if v.lastErr != nil {
		b.WriteString(v.styles.Error().Render(status + " · " + v.lastErr.Error()))
	} else {
		b.WriteString(v.styles.Help().Render(status))
	}
	return b.String()
}

// Engine returns the infinite scroll engine
func (v *FeedView) Engine() *infinite.Engine { return v.engine }

// List returns the feed list
func (v *FeedView) List() *virtuallist.Model[Contact] { return v.list }

// Close cancels in-flight loads
func (v *FeedView) Close() {
	v.engine.Close()
	v.list.Close()
}

// ApplyTheme restyles the feed from the current theme
func (v *FeedView) ApplyTheme() { v.list.SetStyles(v.styles.List()) }

// RefreshKey returns the binding that reloads the feed from the first page
func (v *FeedView) RefreshKey() key.Binding { return v.refresh }
