package virtuallist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderScrollbar returns a vertical track of height rows whose thumb is
// proportional to visible/total and positioned by offset. It returns ""
// when everything fits.
func renderScrollbar(thumb, track lipgloss.Style, height, total, visible, offset int) string {
	if total <= visible || height < 1 {
		return ""
	}

	thumbSize := max(height*visible/total, 1)
	thumbSize = min(thumbSize, height)

	maxOffset := height - thumbSize
	scrollable := total - visible
	thumbStart := 0
	if scrollable > 0 {
		thumbStart = offset * maxOffset / scrollable
	}
	thumbStart = min(max(thumbStart, 0), maxOffset)

	var b strings.Builder
	b.Grow(height * 4)
	for i := 0; i < height; i++ {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i >= thumbStart && i < thumbStart+thumbSize {
			b.WriteString(thumb.Render("█"))
		} else {
			b.WriteString(track.Render("░"))
		}
	}
	return b.String()
}
