package introspect

import (
	"container/list"
	"strings"
	"sync"
	"time"
)

// CacheStats reports cache activity.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Size      int
	MaxSize   int
	Evictions int64
}

// HitRate returns hits over lookups, 0 before the first lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// ColumnCache is an LRU cache of column name lists with a TTL.
type ColumnCache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	order   *list.List
	data    map[string]*list.Element
	stats   CacheStats
	now     func() time.Time
}

type cacheEntry struct {
	key       string
	names     []string
	expiresAt time.Time
}

// NewColumnCache creates a cache holding at most maxSize lists. A ttl of 0
// keeps entries until they are evicted or invalidated.
func NewColumnCache(maxSize int, ttl time.Duration) *ColumnCache {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &ColumnCache{
		maxSize: maxSize,
		ttl:     ttl,
		order:   list.New(),
		data:    make(map[string]*list.Element),
		stats:   CacheStats{MaxSize: maxSize},
		now:     time.Now,
	}
}

// Get returns a copy of the cached list for key.
func (c *ColumnCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.data[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	entry := el.Value.(*cacheEntry)
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.remove(el)
		c.stats.Misses++
		return nil, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	return cloneNames(entry.names), true
}

// Set stores names under key, evicting the least recently used entry when full.
func (c *ColumnCache) Set(key string, names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	if el, ok := c.data[key]; ok {
		entry := el.Value.(*cacheEntry)
		entry.names = cloneNames(names)
		entry.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}

	if len(c.data) >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.remove(oldest)
			c.stats.Evictions++
		}
	}

	c.data[key] = c.order.PushFront(&cacheEntry{key: key, names: cloneNames(names), expiresAt: expiresAt})
	c.stats.Size = len(c.data)
}

// Invalidate drops every entry cached for table.
func (c *ColumnCache) Invalidate(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := tableKey(table)
	for key, el := range c.data {
		if strings.HasPrefix(key, prefix) {
			c.remove(el)
		}
	}
}

// Clear drops every entry.
func (c *ColumnCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.data = make(map[string]*list.Element)
	c.stats.Size = 0
}

// Stats returns a snapshot of cache statistics.
func (c *ColumnCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *ColumnCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.data, el.Value.(*cacheEntry).key)
	c.stats.Size = len(c.data)
}

// tableKey normalizes table to its schema qualified form followed by '|'.
func tableKey(table string) string {
	schema, name := SplitTable(table)
	return schema + "." + name + "|"
}

func cloneNames(names []string) []string {
	if names == nil {
		return nil
	}
	return append([]string(nil), names...)
}
