// Package assistant wraps the hosted generative-AI API: a completion
// client with a bounded response cache, an embedding endpoint, and the
// prompt builders the canvas features use.
package assistant

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"
)

// Cache defaults, matching the client-side originals.
const (
	DefaultCacheCapacity = 50
	DefaultCacheTTL      = 5 * time.Minute
)

// Cache is a bounded TTL cache for assistant responses. It is an explicit
// object constructed once per session and passed to its callers; capacity
// and clock are injected so eviction is testable. Oldest entries are
// evicted first when the capacity is exceeded.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time

	entries map[string]cacheEntry
	order   []string
}

type cacheEntry struct {
	response string
	storedAt time.Time
}

// NewCache creates a cache. A nil clock uses time.Now; non-positive
// capacity or TTL fall back to the defaults.
func NewCache(capacity int, ttl time.Duration, now func() time.Time) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		now:      now,
		entries:  make(map[string]cacheEntry),
	}
}

// Get returns the cached response for key, expiring stale entries.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		c.remove(key)
		return "", false
	}
	return entry.response, true
}

// Put stores a response, evicting the oldest entry past capacity.
func (c *Cache) Put(key, response string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{response: response, storedAt: c.now()}

	for len(c.entries) > c.capacity {
		c.remove(c.order[0])
	}
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes key from both the map and the order list.
// Caller holds the lock.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// cacheKey hashes the request parameters that affect the response.
func cacheKey(prompt, systemInstruction string, maxTokens int) string {
	h := fnv.New32a()
	fmt.Fprintf(h, "%s-%s-%d", prompt, systemInstruction, maxTokens)
	return fmt.Sprintf("%d", h.Sum32())
}
