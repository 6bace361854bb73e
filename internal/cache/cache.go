// Package cache provides the list-response cache. Keys are derived from
// the full query string; any catalog mutation invalidates the whole
// cache, so entries never outlive the data they were computed from.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Stats holds cache counters for the info endpoint.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Size          int   `json:"size"`
	Capacity      int   `json:"capacity"`
	Evictions     int64 `json:"evictions"`
	Invalidations int64 `json:"invalidations"`
}

// Cache is a threadsafe LRU with per-entry TTL. Expired entries are
// dropped lazily on lookup.
type Cache struct {
	mu       sync.Mutex
	ll       *list.List
	items    map[string]*list.Element
	capacity int
	ttl      time.Duration
	stats    Stats
}

type entry struct {
	key     string
	value   any
	expires time.Time
}

const defaultCapacity = 256

// New returns a cache holding at most capacity entries. A ttl of 0
// disables expiry.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Cache{
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Get retrieves a value if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ele, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	ent := ele.Value.(*entry)
	if c.ttl > 0 && time.Now().After(ent.expires) {
		c.removeElement(ele)
		c.stats.Misses++
		return nil, false
	}
	c.ll.MoveToFront(ele)
	c.stats.Hits++
	return ent.value, true
}

// Set inserts or refreshes an entry, evicting the least recently used
// entry when at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.items[key]; ok {
		c.ll.MoveToFront(ele)
		ent := ele.Value.(*entry)
		ent.value = value
		if c.ttl > 0 {
			ent.expires = time.Now().Add(c.ttl)
		}
		return
	}

	if c.ll.Len() >= c.capacity {
		if oldest := c.ll.Back(); oldest != nil {
			c.removeElement(oldest)
			c.stats.Evictions++
		}
	}
	ent := &entry{key: key, value: value}
	if c.ttl > 0 {
		ent.expires = time.Now().Add(c.ttl)
	}
	c.items[key] = c.ll.PushFront(ent)
}

// Invalidate drops every entry. Called after uploads and deletes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = list.New()
	c.items = make(map[string]*list.Element)
	c.stats.Invalidations++
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.ll.Len()
	s.Capacity = c.capacity
	return s
}

func (c *Cache) removeElement(ele *list.Element) {
	c.ll.Remove(ele)
	delete(c.items, ele.Value.(*entry).key)
}
