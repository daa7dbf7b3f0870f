// Package infinite triggers incremental loads as a scroll region nears its
// end, and runs a pull-to-refresh gesture at the top. Loads run as Bubble
// Tea commands and report back through settle messages.
package infinite

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/HamStudy/listkit/internal/core"
)

// Defaults
const (
	DefaultThreshold     = 0.8
	DefaultPullThreshold = 100
)

var engineSeq atomic.Int64

// ScrollMetrics is one scroll observation of the host region
type ScrollMetrics struct {
	ScrollTop    int
	ClientHeight int
	ScrollHeight int
}

// Percentage returns how far through the content the viewport has
// travelled. Forward mode measures the bottom edge from the top; inverse
// mode measures the top edge from the bottom.
func (m ScrollMetrics) Percentage(inverse bool) float64 {
	if m.ScrollHeight <= 0 {
		return 1
	}
	h := float64(m.ScrollHeight)
	if inverse {
		return float64(m.ScrollHeight-m.ScrollTop) / h
	}
	return float64(m.ScrollTop+m.ClientHeight) / h
}

// LoadSettledMsg reports the outcome of a LoadMore call
type LoadSettledMsg struct {
	engine int64
	gen    int
	Err    error
}

// RefreshSettledMsg reports the outcome of a RefreshFunction call
type RefreshSettledMsg struct {
	engine int64
	gen    int
	Err    error
}

// Options configures an Engine
type Options struct {
	LoadMore func(ctx context.Context) error
	HasMore  bool
	// Loading is a caller-owned guard; while true no load is triggered.
	Loading   bool
	Threshold float64
	Inverse   bool

	PullDownToRefresh          bool
	RefreshFunction            func(ctx context.Context) error
	PullDownToRefreshThreshold int

	OnError func(error)
	Logger  zerolog.Logger

	// Indicator texts
	PullDownToRefreshContent string
	ReleaseToRefreshContent  string
	RefreshingContent        string
	LoaderContent            string
	EndMessage               string
}

// DefaultOptions returns options with default thresholds and texts
func DefaultOptions() Options {
	return Options{
		HasMore:                    true,
		Threshold:                  DefaultThreshold,
		PullDownToRefreshThreshold: DefaultPullThreshold,
		Logger:                     zerolog.Nop(),
		PullDownToRefreshContent:   "↓ Pull down to refresh",
		ReleaseToRefreshContent:    "↑ Release to refresh",
		RefreshingContent:          "Refreshing...",
		LoaderContent:              "Loading...",
		EndMessage:                 "No more items",
	}
}

// Engine is the infinite scroll state machine. All methods run on the
// event loop; only LoadMore and RefreshFunction run inside commands.
type Engine struct {
	opts Options
	id   int64
	gen  int

	ctx    context.Context
	cancel context.CancelFunc

	load    core.LoadState
	pull    core.PullState
	metrics ScrollMetrics
	closed  bool
}

// New creates an engine. Invalid options return a *core.ConfigurationError.
func New(opts Options) (*Engine, error) {
	if opts.LoadMore == nil {
		return nil, core.NewConfigurationError("loadMore", "is required")
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		return nil, core.NewConfigurationError("threshold", "must be in (0,1], got %v", opts.Threshold)
	}
	if opts.PullDownToRefresh {
		if opts.RefreshFunction == nil {
			return nil, core.NewConfigurationError("refreshFunction", "is required when pull down to refresh is enabled")
		}
		if opts.PullDownToRefreshThreshold <= 0 {
			return nil, core.NewConfigurationError("pullDownToRefreshThreshold", "must be > 0, got %d", opts.PullDownToRefreshThreshold)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		opts:   opts,
		id:     engineSeq.Add(1),
		ctx:    ctx,
		cancel: cancel,
		load:   core.LoadState{HasMore: opts.HasMore},
	}, nil
}

// OnScroll evaluates one scroll observation. It returns the load command
// when the threshold is crossed and no load is in flight.
func (e *Engine) OnScroll(m ScrollMetrics) tea.Cmd {
	if e.closed {
		return nil
	}
	e.Observe(m)

	if m.Percentage(e.opts.Inverse) < e.opts.Threshold {
		return nil
	}
	if !e.load.HasMore || e.opts.Loading || e.load.IsLoadingMore || e.pull.Phase == core.PullRefreshing {
		return nil
	}

	e.load.IsLoadingMore = true
	e.opts.Logger.Debug().
		Int("scrollTop", m.ScrollTop).
		Int("scrollHeight", m.ScrollHeight).
		Msg("loading more")
	return e.loadCmd()
}

func (e *Engine) loadCmd() tea.Cmd {
	ctx, id, gen, fn := e.ctx, e.id, e.gen, e.opts.LoadMore
	return func() tea.Msg {
		return LoadSettledMsg{engine: id, gen: gen, Err: call(ctx, fn)}
	}
}

func (e *Engine) refreshCmd() tea.Cmd {
	ctx, id, gen, fn := e.ctx, e.id, e.gen, e.opts.RefreshFunction
	return func() tea.Msg {
		return RefreshSettledMsg{engine: id, gen: gen, Err: call(ctx, fn)}
	}
}

func call(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}

// Update applies settle messages and maps mouse drags at the top of the
// region onto the pull gesture.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case LoadSettledMsg:
		if !e.current(msg.engine, msg.gen) {
			return nil
		}
		e.load.IsLoadingMore = false
		if msg.Err != nil {
			e.fail("loadMore", msg.Err)
		}

	case RefreshSettledMsg:
		if !e.current(msg.engine, msg.gen) {
			return nil
		}
		e.pull.Reset()
		if msg.Err != nil {
			e.fail("refresh", msg.Err)
		}

	case tea.MouseMsg:
		if !e.opts.PullDownToRefresh || msg.Button != tea.MouseButtonLeft && msg.Action != tea.MouseActionRelease {
			return nil
		}
		switch msg.Action {
		case tea.MouseActionPress:
			e.TouchStart(msg.Y)
		case tea.MouseActionMotion:
			e.TouchMove(msg.Y)
		case tea.MouseActionRelease:
			return e.TouchEnd()
		}
	}
	return nil
}

func (e *Engine) current(id int64, gen int) bool {
	return !e.closed && id == e.id && gen == e.gen
}

// Accepts reports whether msg is a settle message of this engine's current
// generation. Messages from other engines, or issued before Close, return
// false and must not touch caller state.
func (e *Engine) Accepts(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoadSettledMsg:
		return e.current(msg.engine, msg.gen)
	case RefreshSettledMsg:
		return e.current(msg.engine, msg.gen)
	}
	return false
}

// Observe records scroll metrics without evaluating the load threshold
func (e *Engine) Observe(m ScrollMetrics) { e.metrics = m }

func (e *Engine) fail(op string, err error) {
	failure := &core.LoadFailure{Op: op, Err: err}
	e.opts.Logger.Warn().Err(err).Str("op", op).Msg("load failed")
	if e.opts.OnError != nil {
		e.opts.OnError(failure)
	}
}

func (e *Engine) pullAllowed() bool {
	return e.opts.PullDownToRefresh && !e.closed &&
		e.metrics.ScrollTop == 0 && !e.load.IsLoadingMore &&
		e.pull.Phase != core.PullRefreshing
}

// TouchStart records the gesture origin
func (e *Engine) TouchStart(y int) {
	if !e.pullAllowed() {
		return
	}
	e.pull.StartY = y
	e.pull.Distance = 0
	e.pull.Phase = core.PullIdle
	e.pull.Tracking = true
}

// TouchMove updates the pull distance and phase
func (e *Engine) TouchMove(y int) {
	if !e.pull.Tracking || !e.pullAllowed() {
		return
	}

	d := y - e.pull.StartY
	switch {
	case d > e.opts.PullDownToRefreshThreshold:
		e.pull.Phase = core.PullReleasing
	case d > 0:
		e.pull.Phase = core.PullPulling
	default:
		e.pull.Phase = core.PullIdle
		d = 0
	}
	e.pull.Distance = d
}

// TouchEnd finishes the gesture. Releasing past the threshold starts a
// refresh and returns its command.
func (e *Engine) TouchEnd() tea.Cmd {
	if e.pull.Phase == core.PullRefreshing {
		return nil
	}
	if !e.pull.Tracking || e.pull.Phase != core.PullReleasing || e.closed {
		e.pull.Reset()
		return nil
	}

	e.pull.Tracking = false
	e.pull.Phase = core.PullRefreshing
	e.opts.Logger.Debug().Int("distance", e.pull.Distance).Msg("refreshing")
	return e.refreshCmd()
}

// Close cancels in-flight calls. Their settle messages are ignored.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.gen++
	e.cancel()
	e.load.IsLoadingMore = false
	e.pull.Reset()
}

// SetHasMore updates whether more content exists
func (e *Engine) SetHasMore(hasMore bool) { e.load.HasMore = hasMore }

// SetLoading updates the caller-owned loading guard
func (e *Engine) SetLoading(loading bool) { e.opts.Loading = loading }

// State returns the load state
func (e *Engine) State() core.LoadState { return e.load }

// Pull returns the pull gesture state
func (e *Engine) Pull() core.PullState { return e.pull }

// IsLoadingMore reports whether a load is in flight
func (e *Engine) IsLoadingMore() bool { return e.load.IsLoadingMore }

// Indicator returns the status text for the current state, or ""
func (e *Engine) Indicator() string {
	switch e.pull.Phase {
	case core.PullPulling:
		return e.opts.PullDownToRefreshContent
	case core.PullReleasing:
		return e.opts.ReleaseToRefreshContent
	case core.PullRefreshing:
		return e.opts.RefreshingContent
	}
	if e.load.IsLoadingMore {
		return e.opts.LoaderContent
	}
	if !e.load.HasMore {
		return e.opts.EndMessage
	}
	return ""
}
