package cache

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	lruErrors "github.com/mirkobrombin/go-lru/v1/errors"
)

// RistrettoCache implements Cache using dgraph-io/ristretto.
//
// Every entry costs 1, so the capacity bounds the number of entries the
// same way it does for InMemoryCache. Ristretto may refuse to admit a new
// key it considers colder than the current ones.
type RistrettoCache[T any] struct {
	c        *ristretto.Cache
	capacity int
}

// RistrettoOption configures the underlying ristretto cache.
type RistrettoOption func(*ristretto.Config)

// WithRistretto applies a custom ristretto configuration. MaxCost and
// IgnoreInternalCost are always derived from the capacity.
//
// If cfg is nil, defaults are used.
func WithRistretto(cfg *ristretto.Config) RistrettoOption {
	return func(c *ristretto.Config) {
		if cfg == nil {
			return
		}
		*c = *cfg
	}
}

// NewRistretto returns a Cache backed by ristretto holding at most capacity
// entries.
func NewRistretto[T any](capacity int, opts ...RistrettoOption) (*RistrettoCache[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("ristretto: capacity %d: %w", capacity, lruErrors.ErrInvalidCapacity)
	}
	cfg := &ristretto.Config{
		NumCounters: int64(capacity) * 10, // track frequency of ten times the keys held.
		BufferItems: 64,                   // number of keys per Get buffer.
	}
	for _, opt := range opts {
		opt(cfg)
	}
	// entries count 1 each, without ristretto's per-item overhead
	cfg.MaxCost = int64(capacity)
	cfg.IgnoreInternalCost = true
	rc, err := ristretto.NewCache(cfg)
	if err != nil {
		return nil, err
	}
	return &RistrettoCache[T]{c: rc, capacity: capacity}, nil
}

// Get implements Cache.Get.
func (r *RistrettoCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}
	v, ok := r.c.Get(key)
	if !ok {
		return zero, false, nil
	}
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}
	val, _ := v.(T)
	return val, true, nil
}

// Set implements Cache.Set.
func (r *RistrettoCache[T]) Set(ctx context.Context, key string, value T) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	r.c.Set(key, value, 1)
	r.c.Wait()
	return nil
}

// Exists implements Cache.Exists. Ristretto has no lookup that leaves the
// access counters alone, so this counts as an access for admission.
func (r *RistrettoCache[T]) Exists(ctx context.Context, key string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	_, ok := r.c.Get(key)
	return ok, nil
}

// Clear implements Cache.Clear.
func (r *RistrettoCache[T]) Clear(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	r.c.Clear()
	return nil
}

// Cap returns the capacity fixed at construction.
func (r *RistrettoCache[T]) Cap() int { return r.capacity }

// Close releases resources held by the cache.
func (r *RistrettoCache[T]) Close() {
	r.c.Close()
}

var _ Cache[int] = (*RistrettoCache[int])(nil)
