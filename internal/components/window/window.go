// Package window computes which items of an ordered collection must be
// materialized for a given scroll offset and container size.
package window

import (
	"fmt"

	"github.com/HamStudy/listkit/internal/core"
)

// DefaultOverscan is the number of extra items rendered on each side of the
// visible range.
const DefaultOverscan = 3

// Window is an inclusive index range. An empty window has End < Start.
type Window struct {
	Start int
	End   int
}

// EmptyWindow is returned for empty collections
var EmptyWindow = Window{Start: 0, End: -1}

// Empty reports whether the window holds no items
func (w Window) Empty() bool {
	return w.End < w.Start
}

// Len returns the number of items in the window
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start + 1
}

// Contains reports whether index i is inside the window
func (w Window) Contains(i int) bool {
	return !w.Empty() && i >= w.Start && i <= w.End
}

func (w Window) String() string {
	if w.Empty() {
		return "[]"
	}
	return fmt.Sprintf("[%d..%d]", w.Start, w.End)
}

// Calculate returns the items intersecting [offset, offset+containerSize],
// expanded by overscan on both ends and clamped to the collection.
func Calculate(offset, containerSize int, geom Geometry, overscan int) (Window, error) {
	if containerSize <= 0 {
		return EmptyWindow, core.NewConfigurationError("containerSize", "must be > 0, got %d", containerSize)
	}
	if overscan < 0 {
		return EmptyWindow, core.NewConfigurationError("overscan", "must be >= 0, got %d", overscan)
	}
	if geom == nil || geom.Count() == 0 {
		return EmptyWindow, nil
	}
	if offset < 0 {
		offset = 0
	}

	count := geom.Count()
	start := geom.IndexAt(offset) - overscan
	end := geom.FirstAtOrAfter(offset+containerSize) + overscan

	return Window{
		Start: clamp(start, 0, count-1),
		End:   clamp(end, 0, count-1),
	}, nil
}

// CalculateFixed is Calculate for count items of a single size
func CalculateFixed(offset, containerSize, count, itemSize, overscan int) (Window, error) {
	geom, err := Fixed(itemSize, count)
	if err != nil {
		return EmptyWindow, err
	}
	return Calculate(offset, containerSize, geom, overscan)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
