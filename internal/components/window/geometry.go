package window

import (
	"sort"

	"github.com/HamStudy/listkit/internal/core"
)

// Geometry describes item extents along the scroll axis. Offsets are the
// exclusive prefix sum of item sizes.
type Geometry interface {
	// Count returns the number of items
	Count() int
	// SizeOf returns the extent of item i
	SizeOf(i int) int
	// OffsetOf returns the start of item i
	OffsetOf(i int) int
	// Total returns the full extent of all items
	Total() int
	// IndexAt returns the largest index whose offset is <= offset, or -1
	// when there are no items.
	IndexAt(offset int) int
	// FirstAtOrAfter returns the smallest index whose offset is >= offset,
	// or Count() when no item starts at or after offset.
	FirstAtOrAfter(offset int) int
}

// FixedGeometry gives every item the same size.
type FixedGeometry struct {
	size  int
	count int
}

// Fixed returns a geometry of count items each size rows tall
func Fixed(size, count int) (*FixedGeometry, error) {
	if size <= 0 {
		return nil, core.NewConfigurationError("itemHeight", "must be > 0, got %d", size)
	}
	if count < 0 {
		return nil, core.NewConfigurationError("itemCount", "must be >= 0, got %d", count)
	}
	return &FixedGeometry{size: size, count: count}, nil
}

func (g *FixedGeometry) Count() int         { return g.count }
func (g *FixedGeometry) SizeOf(int) int     { return g.size }
func (g *FixedGeometry) OffsetOf(i int) int { return i * g.size }
func (g *FixedGeometry) Total() int         { return g.count * g.size }

func (g *FixedGeometry) IndexAt(offset int) int {
	if g.count == 0 {
		return -1
	}
	if offset < 0 {
		return 0
	}
	return min(offset/g.size, g.count-1)
}

func (g *FixedGeometry) FirstAtOrAfter(offset int) int {
	if offset <= 0 {
		return 0
	}
	// ceil(offset / size)
	return min((offset+g.size-1)/g.size, g.count)
}

// VariableGeometry holds a prefix-sum table over per-item sizes. It is
// built once per size source and answers lookups in O(1) or O(log n).
type VariableGeometry struct {
	sizes   []int
	offsets []int
	total   int
}

// Variable builds a geometry from explicit item sizes. Negative sizes are a
// configuration error.
func Variable(sizes []int) (*VariableGeometry, error) {
	g := &VariableGeometry{}
	if err := g.Reset(sizes); err != nil {
		return nil, err
	}
	return g, nil
}

// VariableFunc builds a geometry by asking sizeOf for each of count items
func VariableFunc(count int, sizeOf func(i int) int) (*VariableGeometry, error) {
	if count < 0 {
		return nil, core.NewConfigurationError("itemCount", "must be >= 0, got %d", count)
	}
	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = sizeOf(i)
	}
	return Variable(sizes)
}

// Reset rebuilds the prefix-sum table. Callers invoke it only when the
// collection or its size source changes.
func (g *VariableGeometry) Reset(sizes []int) error {
	offsets := make([]int, len(sizes))
	total := 0
	for i, s := range sizes {
		if s < 0 {
			return core.NewConfigurationError("itemHeight", "size of item %d is negative (%d)", i, s)
		}
		offsets[i] = total
		total += s
	}
	g.sizes = append(g.sizes[:0], sizes...)
	g.offsets = offsets
	g.total = total
	return nil
}

func (g *VariableGeometry) Count() int         { return len(g.sizes) }
func (g *VariableGeometry) SizeOf(i int) int   { return g.sizes[i] }
func (g *VariableGeometry) OffsetOf(i int) int { return g.offsets[i] }
func (g *VariableGeometry) Total() int         { return g.total }

func (g *VariableGeometry) IndexAt(offset int) int {
	if len(g.offsets) == 0 {
		return -1
	}
	i := sort.Search(len(g.offsets), func(i int) bool { return g.offsets[i] > offset }) - 1
	return max(i, 0)
}

func (g *VariableGeometry) FirstAtOrAfter(offset int) int {
	return sort.Search(len(g.offsets), func(i int) bool { return g.offsets[i] >= offset })
}
