package lru

import (
	"context"
	"fmt"
	"log/slog"

	lruErrors "github.com/mirkobrombin/go-lru/v1/errors"
)

// Cache is a fixed-capacity key-value cache with a least-recently-used
// eviction policy. Lookup, insertion, update and eviction are O(1).
//
// Cache is not safe for concurrent use; wrap it in a single lock (see
// package cache) when it is shared between goroutines. Note that Get is not
// read-only: a hit makes the key the most recently used one, which changes
// what the next eviction removes.
type Cache[K comparable, V any] struct {
	capacity int
	index    map[K]handle
	seq      *sequence[K, V]

	onEvict func(K, V)
	logger  *slog.Logger
}

// Option configures a Cache.
type Option[K comparable, V any] func(*Cache[K, V])

// WithOnEvict registers fn to be called with every entry removed because the
// cache was full. It is not called by Clear.
func WithOnEvict[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = fn
	}
}

// WithLogger sets the logger used for debug events. A nil logger keeps
// slog.Default.
func WithLogger[K comparable, V any](l *slog.Logger) Option[K, V] {
	return func(c *Cache[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// ValidateCapacity returns an error wrapping ErrInvalidCapacity when New
// would reject capacity.
func ValidateCapacity(capacity int) error {
	if capacity <= 0 || capacity > maxCapacity {
		return fmt.Errorf("lru: capacity %d: %w", capacity, lruErrors.ErrInvalidCapacity)
	}
	return nil
}

// New returns an empty cache holding at most capacity entries.
// It fails with ErrInvalidCapacity when capacity is not positive or too
// large for the handle space.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if err := ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	c := &Cache[K, V]{
		capacity: capacity,
		index:    make(map[K]handle, min(capacity, preallocLimit)),
		seq:      newSequence[K, V](capacity),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value stored for key and marks key as the most recently
// used. The boolean is false on a miss, in which case nothing changes.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.seq.moveToFront(h)
	return c.seq.get(h).value, true
}

// Peek returns the value stored for key without updating its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	h, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.seq.get(h).value, true
}

// Put stores value for key and marks key as the most recently used.
//
// An existing key is updated in place and never causes an eviction. A new
// key inserted into a full cache first evicts the least recently used entry;
// the returned boolean reports whether that happened.
func (c *Cache[K, V]) Put(key K, value V) (evicted bool) {
	if h, ok := c.index[key]; ok {
		c.seq.get(h).value = value
		c.seq.moveToFront(h)
		return false
	}
	if len(c.index) >= c.capacity {
		c.evict()
		evicted = true
	}
	h := c.seq.alloc(key, value)
	c.seq.pushFront(h)
	c.index[key] = h
	return evicted
}

func (c *Cache[K, V]) evict() {
	h, ok := c.seq.evictBack()
	if !ok {
		panic(fmt.Sprintf("lru: cache reports %d entries but sequence is empty", len(c.index)))
	}
	e := c.seq.get(h)
	key, value := e.key, e.value
	delete(c.index, key)
	c.seq.release(h)

	if c.logger.Enabled(context.Background(), slog.LevelDebug) {
		c.logger.Debug("lru: evicted", "key", key, "capacity", c.capacity)
	}
	if c.onEvict != nil {
		c.onEvict(key, value)
	}
}

// Exists reports whether key is cached. It does not affect recency.
func (c *Cache[K, V]) Exists(key K) bool {
	_, ok := c.index[key]
	return ok
}

// Oldest returns the least recently used entry without touching it.
func (c *Cache[K, V]) Oldest() (key K, value V, ok bool) {
	h, ok := c.seq.back()
	if !ok {
		return key, value, false
	}
	e := c.seq.get(h)
	return e.key, e.value, true
}

// Keys returns the cached keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.index))
	c.seq.walk(func(e *entry[K, V]) bool {
		keys = append(keys, e.key)
		return true
	})
	return keys
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int { return len(c.index) }

// Cap returns the capacity fixed at construction.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Clear removes every entry. Eviction callbacks are not invoked.
func (c *Cache[K, V]) Clear() {
	n := len(c.index)
	clear(c.index)
	c.seq.reset()
	c.logger.Debug("lru: cleared", "entries", n)
}
