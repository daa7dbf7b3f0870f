// Package selection holds row selection state keyed by stable row keys.
package selection

import "sort"

// Tri is the aggregate state of a selection over a set of rows
type Tri int

const (
	None Tri = iota
	Some
	All
)

// String returns the state name
func (t Tri) String() string {
	switch t {
	case Some:
		return "some"
	case All:
		return "all"
	default:
		return "none"
	}
}

// Checkbox renders the state as a header checkbox
func (t Tri) Checkbox() string {
	switch t {
	case Some:
		return "[-]"
	case All:
		return "[x]"
	default:
		return "[ ]"
	}
}

// Set is an immutable set of selected row keys. Every mutating method
// returns a new Set; the zero value is empty.
type Set struct {
	keys map[string]struct{}
	// all is set by SelectAll and cleared by any per-row change
	all bool
}

// NewSet returns a set containing keys
func NewSet(keys ...string) Set {
	s := Set{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

func (s Set) clone() Set {
	c := Set{keys: make(map[string]struct{}, len(s.keys))}
	for k := range s.keys {
		c.keys[k] = struct{}{}
	}
	return c
}

// Has reports whether key is selected
func (s Set) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of selected keys
func (s Set) Len() int { return len(s.keys) }

// AllSelected reports whether the set came from SelectAll unchanged
func (s Set) AllSelected() bool { return s.all }

// Keys returns the selected keys sorted
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for k := range s.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Toggle flips key
func (s Set) Toggle(key string) Set {
	if s.Has(key) {
		return s.Deselect(key)
	}
	return s.Select(key)
}

// Select adds key
func (s Set) Select(key string) Set {
	c := s.clone()
	c.keys[key] = struct{}{}
	return c
}

// Deselect removes key
func (s Set) Deselect(key string) Set {
	c := s.clone()
	delete(c.keys, key)
	return c
}

// SelectAll selects exactly keys and sets the all flag
func (s Set) SelectAll(keys []string) Set {
	c := NewSet(keys...)
	c.all = true
	return c
}

// ToggleAll clears the selection when every key is selected, otherwise
// selects all of them.
func (s Set) ToggleAll(keys []string) Set {
	if s.State(keys) == All {
		return s.Clear()
	}
	return s.SelectAll(keys)
}

// Clear returns an empty set
func (s Set) Clear() Set {
	return Set{}
}

// State reports how many of keys are selected
func (s Set) State(keys []string) Tri {
	if len(keys) == 0 {
		return None
	}
	n := 0
	for _, k := range keys {
		if s.Has(k) {
			n++
		}
	}
	switch n {
	case 0:
		return None
	case len(keys):
		return All
	default:
		return Some
	}
}
