package datagrid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// defaultMinWidth is used for non-flex columns without a width
const defaultMinWidth = 10

// Column describes one grid column over rows of T
type Column[T any] struct {
	Key    string
	Header string

	Width    int
	MinWidth int
	MaxWidth int
	// Flex columns share the space left after fixed columns
	Flex  bool
	Align lipgloss.Position
	// TruncateAt is "end" (default), "middle" or "start"
	TruncateAt string

	Sortable   bool
	Filterable bool
	Hidden     bool

	// Value returns the cell's plain value, used for sorting, filtering
	// and export.
	Value func(T) string
	// Render optionally overrides how the cell is displayed.
	Render func(T) string
}

func (c Column[T]) value(row T) string {
	if c.Value == nil {
		return ""
	}
	return c.Value(row)
}

func (c Column[T]) display(row T) string {
	if c.Render != nil {
		return c.Render(row)
	}
	return c.value(row)
}

// layoutColumn is the subset of a column that width layout needs
type layoutColumn struct {
	width, minWidth, maxWidth int
	flex                      bool
}

// layoutWidths distributes total across columns. Fixed columns keep their
// clamped width, other non-flex columns their minimum, and flex columns
// split what remains after one separator between each pair.
func layoutWidths(cols []layoutColumn, total int) []int {
	widths := make([]int, len(cols))
	if len(cols) == 0 || total <= 0 {
		return widths
	}

	fixed, flexCount := 0, 0
	for i, c := range cols {
		switch {
		case c.width > 0:
			w := c.width
			if c.maxWidth > 0 {
				w = min(w, c.maxWidth)
			}
			w = max(w, c.minWidth)
			widths[i] = w
			fixed += w
		case c.flex:
			flexCount++
		default:
			w := c.minWidth
			if w == 0 {
				w = defaultMinWidth
			}
			widths[i] = w
			fixed += w
		}
	}
	if flexCount == 0 {
		return widths
	}

	available := total - fixed - (len(cols) - 1)

	minTotal := 0
	for i, c := range cols {
		if c.flex && c.width == 0 {
			widths[i] = max(c.minWidth, 1)
			minTotal += widths[i]
		}
	}

	switch {
	case available > minTotal:
		remaining := available - minTotal
		open := flexCount
		for pass := 0; pass < flexCount && remaining > 0 && open > 0; pass++ {
			share, extra := remaining/open, remaining%open
			for i, c := range cols {
				if !c.flex || c.width != 0 || remaining <= 0 {
					continue
				}
				if c.maxWidth > 0 && widths[i] >= c.maxWidth {
					continue
				}
				add := share
				if extra > 0 {
					add++
					extra--
				}
				next := widths[i] + add
				if c.maxWidth > 0 && next > c.maxWidth {
					add = c.maxWidth - widths[i]
					next = c.maxWidth
					open--
				}
				widths[i] = next
				remaining -= add
			}
		}
	case available < minTotal:
		for i, c := range cols {
			if !c.flex || c.width != 0 {
				continue
			}
			if available <= 0 {
				widths[i] = 1
				continue
			}
			widths[i] = max(widths[i]*available/minTotal, 1)
		}
	}
	return widths
}

// fitCell truncates text to width and aligns it
func fitCell(text string, width int, align lipgloss.Position, truncateAt string) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(text) > width {
		text = truncateText(text, width, truncateAt)
	}
	return lipgloss.NewStyle().Width(width).MaxWidth(width).Align(align).Render(text)
}

func truncateText(text string, width int, at string) string {
	runes := []rune(text)
	switch at {
	case "middle":
		if width > 3 {
			keep := (width - 1) / 2
			return string(runes[:keep]) + "…" + string(runes[len(runes)-keep:])
		}
	case "start":
		if width == 1 {
			return "…"
		}
		if len(runes) >= width {
			return "…" + string(runes[len(runes)-width+1:])
		}
	}
	return truncate.StringWithTail(text, uint(width), "…")
}

// joinCells joins rendered cells with a single space separator
func joinCells(cells []string) string {
	return strings.Join(cells, " ")
}
