package selection

import "testing"

func TestTrackerFocusAndMove(t *testing.T) {
	tr := NewTracker()
	tr.SetRows([]string{"a", "b", "c"})

	if got := tr.Focus(1); got != 1 || tr.Key() != "b" {
		t.Errorf("Focus(1) = %d key %q, want 1 key b", got, tr.Key())
	}
	if got := tr.Move(5); got != 2 {
		t.Errorf("Move(5) = %d, want 2", got)
	}
	if got := tr.Move(-10); got != 0 {
		t.Errorf("Move(-10) = %d, want 0", got)
	}
}

func TestTrackerRestoreFollowsKey(t *testing.T) {
	tr := NewTracker()
	tr.SetRows([]string{"a", "b", "c"})
	tr.Focus(1)

	tr.SetRows([]string{"b", "c", "a"})
	if got := tr.Restore(); got != 0 {
		t.Errorf("Restore() = %d, want 0", got)
	}
}

func TestTrackerRestoreMissingKey(t *testing.T) {
	tr := NewTracker()
	tr.SetRows([]string{"a", "b", "c"})
	tr.Focus(2)

	tr.SetRows([]string{"a", "b"})
	if got := tr.Restore(); got != 1 {
		t.Errorf("Restore() = %d, want 1 (clamped)", got)
	}
	if tr.Key() != "b" {
		t.Errorf("Key() = %q, want b", tr.Key())
	}

	tr.SetRows(nil)
	if got := tr.Restore(); got != 0 || tr.Key() != "" {
		t.Errorf("Restore() on empty = %d key %q", got, tr.Key())
	}
}
