package performance

// RenderCache keeps rendered item output keyed by the item's stable key, so
// output survives reorders and window shifts. Entries are tagged with the
// width they were rendered at.
type RenderCache struct {
	entries  map[string]cacheEntry
	capacity int
}

type cacheEntry struct {
	content string
	width   int
}

// NewRenderCache creates a cache holding up to capacity entries
func NewRenderCache(capacity int) *RenderCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &RenderCache{
		entries:  make(map[string]cacheEntry),
		capacity: capacity,
	}
}

// Get returns the cached content for key if it was rendered at width
func (c *RenderCache) Get(key string, width int) (string, bool) {
	e, ok := c.entries[key]
	if !ok || e.width != width {
		return "", false
	}
	return e.content, true
}

// Put stores content for key. When full, entries not in live are evicted
// first; live is the set of keys currently materialized.
func (c *RenderCache) Put(key string, width int, content string, live map[string]bool) {
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evict(live)
	}
	c.entries[key] = cacheEntry{content: content, width: width}
}

func (c *RenderCache) evict(live map[string]bool) {
	for k := range c.entries {
		if !live[k] {
			delete(c.entries, k)
			if len(c.entries) < c.capacity {
				return
			}
		}
	}
	// Everything is live; drop an arbitrary entry.
	for k := range c.entries {
		delete(c.entries, k)
		return
	}
}

// Invalidate drops the entry for key
func (c *RenderCache) Invalidate(key string) {
	delete(c.entries, key)
}

// Clear drops every entry
func (c *RenderCache) Clear() {
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of cached entries
func (c *RenderCache) Len() int {
	return len(c.entries)
}
