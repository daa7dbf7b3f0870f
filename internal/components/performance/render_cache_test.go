package performance

import "testing"

func TestRenderCacheKeyedByWidth(t *testing.T) {
	c := NewRenderCache(10)
	c.Put("a", 40, "content a", nil)

	if got, ok := c.Get("a", 40); !ok || got != "content a" {
		t.Errorf("Expected cached content, got %q (ok=%v)", got, ok)
	}
	if _, ok := c.Get("a", 41); ok {
		t.Error("Expected width change to miss")
	}

	c.Invalidate("a")
	if _, ok := c.Get("a", 40); ok {
		t.Error("Expected invalidated key to miss")
	}
}

func TestRenderCacheEvictsDeadKeysFirst(t *testing.T) {
	c := NewRenderCache(3)
	live := map[string]bool{"a": true, "b": true}

	c.Put("a", 1, "a", live)
	c.Put("b", 1, "b", live)
	c.Put("c", 1, "c", live)
	c.Put("d", 1, "d", map[string]bool{"a": true, "b": true, "d": true})

	if c.Len() > 3 {
		t.Errorf("Expected at most 3 entries, got %d", c.Len())
	}
	if _, ok := c.Get("c", 1); ok {
		t.Error("Expected dead key c to be evicted")
	}
	for _, k := range []string{"a", "b", "d"} {
		if _, ok := c.Get(k, 1); !ok {
			t.Errorf("Expected live key %s to survive", k)
		}
	}

	c.Clear()
	if c.Len() != 0 {
		t.Error("Expected Clear to empty the cache")
	}
}
