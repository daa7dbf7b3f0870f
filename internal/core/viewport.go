package core

// Viewport is the host scroll container. Components read its size and
// position and only write through ScrollTo.
type Viewport interface {
	ScrollOffset() int
	Size() int
	ContentSize() int
	ScrollTo(offset int)
}

// MemoryViewport is a Viewport backed by plain fields. It clamps writes to
// [0, ContentSize-Size].
type MemoryViewport struct {
	Offset  int
	Height  int
	Content int
}

// NewMemoryViewport creates a viewport of the given height over content rows
func NewMemoryViewport(height, content int) *MemoryViewport {
	return &MemoryViewport{Height: height, Content: content}
}

func (v *MemoryViewport) ScrollOffset() int { return v.Offset }
func (v *MemoryViewport) Size() int         { return v.Height }
func (v *MemoryViewport) ContentSize() int  { return v.Content }

// ScrollTo moves the viewport, clamped to the scrollable range
func (v *MemoryViewport) ScrollTo(offset int) {
	v.Offset = ClampOffset(offset, v.Height, v.Content)
}

// MaxOffset returns the largest valid scroll offset for a container of size
// over content of the given extent.
func MaxOffset(size, content int) int {
	if content <= size {
		return 0
	}
	return content - size
}

// ClampOffset clamps offset into [0, MaxOffset(size, content)]
func ClampOffset(offset, size, content int) int {
	if offset < 0 {
		return 0
	}
	if m := MaxOffset(size, content); offset > m {
		return m
	}
	return offset
}
