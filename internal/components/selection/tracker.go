package selection

import "sync"

// Tracker remembers the focused row by key so focus survives sorting,
// filtering and reloads that move the row to another index.
type Tracker struct {
	key  string
	row  int
	keys []string
	mu   sync.RWMutex
}

// NewTracker creates an empty tracker focused on row 0
func NewTracker() *Tracker {
	return &Tracker{}
}

// SetRows replaces the row keys in display order
func (t *Tracker) SetRows(keys []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = append(t.keys[:0], keys...)
}

// Focus moves focus to row and records its key
func (t *Tracker) Focus(row int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focusLocked(row)
}

func (t *Tracker) focusLocked(row int) int {
	if len(t.keys) == 0 {
		t.row, t.key = 0, ""
		return 0
	}
	t.row = min(max(row, 0), len(t.keys)-1)
	t.key = t.keys[t.row]
	return t.row
}

// Move moves focus by delta rows, clamped
func (t *Tracker) Move(delta int) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focusLocked(t.row + delta)
}

// Restore finds the remembered key in the current rows. When the key is
// gone the previous index is kept if still valid, else the last row.
func (t *Tracker) Restore() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.key != "" {
		for i, k := range t.keys {
			if k == t.key {
				t.row = i
				return i
			}
		}
	}
	return t.focusLocked(t.row)
}

// Row returns the focused row index
func (t *Tracker) Row() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.row
}

// Key returns the focused row key, or "" when there are no rows
func (t *Tracker) Key() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.key
}

// Len returns the number of tracked rows
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.keys)
}
