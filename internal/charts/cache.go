package charts

import (
	"sync"

	"github.com/lox/bikedash/internal/bikeshare"
)

// Cache keeps rendered PNG charts in memory. The dataset never changes after
// load, so a chart is fully determined by its kind and date range.
type Cache struct {
	mu      sync.Mutex
	max     int
	entries map[string][]byte
	order   []string // insertion order, oldest first
}

// NewCache creates a cache holding at most max charts. Once full the oldest
// entry is dropped.
func NewCache(max int) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{max: max, entries: make(map[string][]byte)}
}

func cacheKey(kind Kind, r bikeshare.DateRange) string {
	return string(kind) + ":" + r.String()
}

// Get retrieves a cached chart.
func (c *Cache) Get(kind Kind, r bikeshare.DateRange) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[cacheKey(kind, r)]
	return data, ok
}

// Set stores a chart in the cache.
func (c *Cache) Set(kind Kind, r bikeshare.DateRange, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(kind, r)
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
	}
	c.entries[key] = data
	for len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

// Len returns the number of cached charts.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Render returns the cached chart for kind and r, rendering t on a miss.
func (c *Cache) Render(kind Kind, r bikeshare.DateRange, t *bikeshare.Table) ([]byte, error) {
	if data, ok := c.Get(kind, r); ok {
		return data, nil
	}
	data, err := PNG(kind, t)
	if err != nil {
		return nil, err
	}
	c.Set(kind, r, data)
	return data, nil
}
