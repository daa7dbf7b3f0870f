package performance

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// DebounceMsg fires when a debounce window elapses. It is only honoured by
// the Debouncer that produced it, and only for its latest trigger.
type DebounceMsg struct {
	id  int
	tag int
}

// Debouncer coalesces bursts of triggers into a single settle message
// delivered through the event loop. Each Trigger supersedes the previous
// one, so only the last tick in a burst settles.
type Debouncer struct {
	id      int
	tag     int
	delay   time.Duration
	pending bool
}

// NewDebouncer creates a new debouncer with the specified delay
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		id:    nextID(),
		delay: delay,
	}
}

// Trigger restarts the debounce window and returns the tick command
func (d *Debouncer) Trigger() tea.Cmd {
	d.tag++
	d.pending = true

	id, tag := d.id, d.tag
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return DebounceMsg{id: id, tag: tag}
	})
}

// Settled reports whether msg ends the current debounce window. Stale or
// foreign messages return false.
func (d *Debouncer) Settled(msg tea.Msg) bool {
	m, ok := msg.(DebounceMsg)
	if !ok || m.id != d.id || m.tag != d.tag || !d.pending {
		return false
	}
	d.pending = false
	return true
}

// Owns reports whether msg was produced by this debouncer, current or not
func (d *Debouncer) Owns(msg tea.Msg) bool {
	m, ok := msg.(DebounceMsg)
	return ok && m.id == d.id
}

// Cancel drops any pending window; in-flight ticks become stale
func (d *Debouncer) Cancel() {
	d.tag++
	d.pending = false
}

// IsPending returns whether a settle is pending
func (d *Debouncer) IsPending() bool {
	return d.pending
}

// FrameMsg is one step of a FrameLoop.
type FrameMsg struct {
	id  int
	gen int
	At  time.Time
}

// FrameLoop drives a cooperative per-frame step through the event loop.
// Stopping the loop invalidates every frame already scheduled.
type FrameLoop struct {
	id        int
	gen       int
	running   bool
	frameRate time.Duration
}

// NewFrameLoop creates a stopped frame loop ticking at frameRate
func NewFrameLoop(frameRate time.Duration) *FrameLoop {
	if frameRate <= 0 {
		frameRate = 16 * time.Millisecond // ~60fps
	}
	return &FrameLoop{id: nextID(), frameRate: frameRate}
}

// Start begins the loop. Starting a running loop is a no-op that returns nil.
func (f *FrameLoop) Start() tea.Cmd {
	if f.running {
		return nil
	}
	f.running = true
	f.gen++
	return f.tick()
}

// Stop halts the loop
func (f *FrameLoop) Stop() {
	if !f.running {
		return
	}
	f.running = false
	f.gen++
}

// Running reports whether frames are being scheduled
func (f *FrameLoop) Running() bool {
	return f.running
}

// Accept reports whether msg is a live frame of this loop. The caller
// performs its step and then calls Next to schedule the following frame.
func (f *FrameLoop) Accept(msg tea.Msg) bool {
	m, ok := msg.(FrameMsg)
	return ok && f.running && m.id == f.id && m.gen == f.gen
}

// Next schedules the following frame while the loop runs
func (f *FrameLoop) Next() tea.Cmd {
	if !f.running {
		return nil
	}
	return f.tick()
}

func (f *FrameLoop) tick() tea.Cmd {
	id, gen := f.id, f.gen
	return tea.Tick(f.frameRate, func(t time.Time) tea.Msg {
		return FrameMsg{id: id, gen: gen, At: t}
	})
}
