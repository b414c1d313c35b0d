// Package respcache provides an in-memory cache for generation results,
// keyed on the call type and its parameters. Entries expire after a TTL
// and the cache holds a bounded number of entries, evicting the
// oldest-inserted entry on overflow.
package respcache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a cached result stays valid.
	DefaultTTL = 30 * time.Minute

	// DefaultMaxEntries bounds the number of resident entries.
	DefaultMaxEntries = 200

	// keyParamLimit caps the serialized-params portion of a cache key.
	// Large parameter sets sharing a 100-char prefix collide; the cache
	// only short-circuits idempotent generation calls, so a collision
	// repeats content rather than corrupting state.
	keyParamLimit = 100
)

type entry struct {
	data      json.RawMessage
	timestamp time.Time
	callType  string
}

// Cache is a TTL + capacity bounded response cache.
// Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]entry
	order      []string // insertion order, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a Cache with the default TTL and capacity.
func New() *Cache {
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        DefaultTTL,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

// NewWithOptions creates a Cache with explicit TTL, capacity, and clock.
// A nil clock falls back to time.Now.
func NewWithOptions(ttl time.Duration, maxEntries int, clock func() time.Time) *Cache {
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		entries:    make(map[string]entry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        clock,
	}
}

// Key builds the cache key for a call type and parameter set.
func Key(callType string, params any) string {
	b, err := json.Marshal(params)
	if err != nil {
		// Unmarshalable params still need a stable key.
		return callType + ":unserializable"
	}
	p := strings.ToLower(string(b))
	if len(p) > keyParamLimit {
		p = p[:keyParamLimit]
	}
	return callType + ":" + p
}

// Get returns the cached result for (callType, params) if present and
// within TTL. Expired entries are deleted on lookup.
func (c *Cache) Get(callType string, params any) (json.RawMessage, bool) {
	key := Key(callType, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) >= c.ttl {
		c.remove(key)
		return nil, false
	}
	return e.data, true
}

// Set stores a result for (callType, params), evicting the
// oldest-inserted entry if the cache is full.
func (c *Cache) Set(callType string, params any, data json.RawMessage) {
	key := Key(callType, params)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxEntries && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = entry{
		data:      data,
		timestamp: c.now(),
		callType:  callType,
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.order = nil
}

// ClearType removes all entries of the given call type.
func (c *Cache) ClearType(callType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, key := range c.order {
		if e, ok := c.entries[key]; ok && e.callType == callType {
			delete(c.entries, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

// Len returns the number of resident entries, including any that have
// expired but not yet been swept by a lookup.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove deletes an entry and its insertion-order slot.
// Caller must hold c.mu.
func (c *Cache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
