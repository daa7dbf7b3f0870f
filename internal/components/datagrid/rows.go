package datagrid

import (
	"sort"
	"strconv"
	"strings"
)

// Direction is a sort direction
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

// String returns "asc", "desc" or ""
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return ""
	}
}

// SortState is the controlled single-key sort
type SortState struct {
	Key       string
	Direction Direction
}

// Next returns the sort that results from activating key. The same key
// toggles ascending and descending; a different key starts ascending.
func (s SortState) Next(key string) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// SortRows returns a copy of rows ordered by the column named in s.
// Values that parse as numbers compare numerically. The sort is stable.
func SortRows[T any](rows []T, columns []Column[T], s SortState) []T {
	out := make([]T, len(rows))
	copy(out, rows)

	col, ok := findColumn(columns, s.Key)
	if !ok || s.Direction == Unsorted {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareValues(col.value(out[i]), col.value(out[j]))
		if s.Direction == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareValues(a, b string) int {
	af, aErr := strconv.ParseFloat(a, 64)
	bf, bErr := strconv.ParseFloat(b, 64)
	if aErr == nil && bErr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// FilterRows returns the rows where any filterable, visible column
// contains query, case-insensitively. An empty query keeps every row.
func FilterRows[T any](rows []T, columns []Column[T], query string, hidden map[string]bool) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]T, len(rows))
		copy(out, rows)
		return out
	}

	var out []T
	for _, row := range rows {
		for _, c := range columns {
			if !c.Filterable || c.Hidden || hidden[c.Key] {
				continue
			}
			if strings.Contains(strings.ToLower(c.value(row)), query) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

func findColumn[T any](columns []Column[T], key string) (Column[T], bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}
