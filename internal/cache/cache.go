// Package cache memoises expensive renders keyed by a hash of their inputs.
// The content store uses it so that unchanged posts are not re-rendered on
// every reload; its size and eviction strategy come from the content
// config.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// EvictionStrategy defines how entries are removed when the cache is full
type EvictionStrategy int

const (
	// LRU removes least recently used entries
	LRU EvictionStrategy = iota
	// LFU removes least frequently used entries
	LFU
	// FIFO removes oldest entries first
	FIFO
)

func (s EvictionStrategy) String() string {
	switch s {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case FIFO:
		return "fifo"
	}
	return fmt.Sprintf("EvictionStrategy(%d)", int(s))
}

// ParseStrategy maps "lru", "lfu" or "fifo" to a strategy
func ParseStrategy(name string) (EvictionStrategy, error) {
	switch strings.ToLower(name) {
	case "lru", "":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "fifo":
		return FIFO, nil
	}
	return LRU, fmt.Errorf("unknown eviction strategy %q", name)
}

// Config holds cache configuration
type Config struct {
	MaxEntries int              // Maximum number of entries (default: 512)
	MaxAge     time.Duration    // Maximum age for entries, 0 for no limit
	Strategy   EvictionStrategy // Eviction strategy (default: LRU)
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxEntries: 512,
		Strategy:   LRU,
	}
}

// Stats tracks cache performance
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
	EntryCount int   `json:"entry_count"`
}

type entry[V any] struct {
	value       V
	created     time.Time
	lastAccess  time.Time
	accessCount int
	seq         uint64 // insertion order
	touched     uint64 // access order
}

// Cache is a bounded in-memory map safe for concurrent use
type Cache[V any] struct {
	mu    sync.Mutex
	cfg   Config
	now   func() time.Time
	seq   uint64
	items map[string]*entry[V]
	stats Stats
}

// New creates a cache
func New[V any](cfg Config) *Cache[V] {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	return &Cache[V]{
		cfg:   cfg,
		now:   time.Now,
		items: make(map[string]*entry[V]),
	}
}

// Get retrieves a cached value
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	if c.expired(e) {
		delete(c.items, key)
		c.stats.Misses++
		c.stats.EntryCount = len(c.items)
		return zero, false
	}

	c.seq++
	e.touched = c.seq
	e.lastAccess = c.now()
	e.accessCount++
	c.stats.Hits++
	return e.value, true
}

// Put stores a value, evicting according to the strategy when full
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		e.created = c.now()
		return
	}

	for len(c.items) >= c.cfg.MaxEntries {
		if !c.evictOne() {
			break
		}
	}

	c.seq++
	now := c.now()
	c.items[key] = &entry[V]{value: value, created: now, lastAccess: now, seq: c.seq, touched: c.seq}
	c.stats.EntryCount = len(c.items)
}

// GetOrCompute returns the cached value for key, computing and storing it
// on a miss. Errors are returned and not cached.
func (c *Cache[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Put(key, v)
	return v, nil
}

// Delete removes an entry
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.stats.EntryCount = len(c.items)
}

// Retain drops every entry whose key is not in keep and returns how many
// were dropped
func (c *Cache[V]) Retain(keep map[string]bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.items {
		if !keep[key] {
			delete(c.items, key)
			n++
		}
	}
	c.stats.EntryCount = len(c.items)
	return n
}

// Clear removes all entries and resets statistics
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry[V])
	c.stats = Stats{}
}

// Len returns the number of entries
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// GetStats returns cache statistics
func (c *Cache[V]) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Key generates a cache key from inputs
func Key(inputs ...[]byte) string {
	h := sha256.New()
	for _, input := range inputs {
		h.Write(input)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache[V]) expired(e *entry[V]) bool {
	// If MaxAge is 0 or negative, entries never expire
	if c.cfg.MaxAge <= 0 {
		return false
	}
	return c.now().Sub(e.created) > c.cfg.MaxAge
}

func (c *Cache[V]) evictOne() bool {
	var (
		evictKey string
		victim   *entry[V]
	)

	for key, e := range c.items {
		if victim == nil {
			evictKey, victim = key, e
			continue
		}
		switch c.cfg.Strategy {
		case LRU:
			if e.touched < victim.touched {
				evictKey, victim = key, e
			}
		case LFU:
			if e.accessCount < victim.accessCount ||
				(e.accessCount == victim.accessCount && e.seq < victim.seq) {
				evictKey, victim = key, e
			}
		case FIFO:
			if e.seq < victim.seq {
				evictKey, victim = key, e
			}
		}
	}

	if victim == nil {
		return false
	}
	delete(c.items, evictKey)
	c.stats.Evictions++
	return true
}
