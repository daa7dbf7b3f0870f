package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetIsImmutable(t *testing.T) {
	base := NewSet("a")
	next := base.Select("b")

	assert.False(t, base.Has("b"))
	assert.True(t, next.Has("a"))
	assert.True(t, next.Has("b"))
	assert.Equal(t, []string{"a", "b"}, next.Keys())
}

func TestZeroValueSet(t *testing.T) {
	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("x"))
	assert.Equal(t, None, s.State([]string{"x"}))
	assert.True(t, s.Toggle("x").Has("x"))
}

func TestTriState(t *testing.T) {
	rows := []string{"r1", "r2", "r3"}

	tests := []struct {
		name     string
		set      Set
		want     Tri
		checkbox string
	}{
		{"none", NewSet(), None, "[ ]"},
		{"some", NewSet("r2"), Some, "[-]"},
		{"all explicit", NewSet("r1", "r2", "r3"), All, "[x]"},
		{"select all", Set{}.SelectAll(rows), All, "[x]"},
		{"unrelated keys", NewSet("zz"), None, "[ ]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.set.State(rows)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.checkbox, got.Checkbox())
		})
	}

	assert.Equal(t, None, NewSet("a").State(nil))
}

func TestToggleWhileAllSelectedClearsAllFlag(t *testing.T) {
	rows := []string{"r1", "r2", "r3"}
	all := Set{}.SelectAll(rows)
	assert.True(t, all.AllSelected())

	s := all.Toggle("r2")
	assert.False(t, s.AllSelected())
	assert.Equal(t, Some, s.State(rows))
	assert.Equal(t, []string{"r1", "r3"}, s.Keys())

	s = s.Toggle("r2")
	assert.Equal(t, All, s.State(rows))
	assert.False(t, s.AllSelected())
}

func TestToggleAll(t *testing.T) {
	rows := []string{"r1", "r2"}

	s := NewSet("r1").ToggleAll(rows)
	assert.Equal(t, All, s.State(rows))

	s = s.ToggleAll(rows)
	assert.Equal(t, None, s.State(rows))
	assert.Equal(t, 0, s.Len())
}
