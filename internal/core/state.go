package core

// ScrollState is the scroll position owned by a windowed component.
type ScrollState struct {
	Offset int
	// IsScrolling stays true while offsets change and for a quiet period after.
	IsScrolling bool
}

// LoadState tracks incremental loading for an infinite scroll region
type LoadState struct {
	HasMore       bool
	IsLoadingMore bool
}

// PullPhase is the pull-to-refresh phase
type PullPhase int

const (
	PullIdle PullPhase = iota
	PullPulling
	PullReleasing
	PullRefreshing
)

// String returns the phase name
func (p PullPhase) String() string {
	switch p {
	case PullIdle:
		return "idle"
	case PullPulling:
		return "pulling"
	case PullReleasing:
		return "releasing"
	case PullRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// PullState holds the pull-to-refresh gesture
type PullState struct {
	Phase    PullPhase
	StartY   int
	Distance int
	// Tracking is set between touch start and touch end.
	Tracking bool
}

// Reset returns the gesture to idle with zero distance.
func (p *PullState) Reset() {
	p.Phase = PullIdle
	p.StartY = 0
	p.Distance = 0
	p.Tracking = false
}

// DragState tracks the item being dragged and the current drop target.
// IsDragging is true iff DraggedID is non-empty.
type DragState struct {
	DraggedID  string
	OverID     string
	IsDragging bool
}

// Begin starts dragging id.
func (d *DragState) Begin(id string) {
	d.DraggedID = id
	d.OverID = ""
	d.IsDragging = id != ""
}

// Reset clears the drag state.
func (d *DragState) Reset() {
	d.DraggedID = ""
	d.OverID = ""
	d.IsDragging = false
}
