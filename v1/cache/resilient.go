package cache

import (
	"context"
	"log/slog"
)

// ResilientCache wraps a Cache implementation and suppresses errors,
// logging them instead of returning them. A failing read (for example a
// canceled context or a closed cache) is reported as a miss and a failing
// write or clear as skipped.
type ResilientCache[T any] struct {
	inner  Cache[T]
	logger *slog.Logger
}

// NewResilient creates a new ResilientCache wrapper logging through
// slog.Default.
func NewResilient[T any](inner Cache[T]) *ResilientCache[T] {
	return &ResilientCache[T]{inner: inner, logger: slog.Default()}
}

// Get implements Cache.Get.
// If the inner cache fails, it logs the error and returns a cache miss.
func (r *ResilientCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	val, ok, err := r.inner.Get(ctx, key)
	if err != nil {
		r.logger.Warn("lru: cache get failed (resiliency active)", "key", key, "error", err)
		var zero T
		return zero, false, nil // Treat error as miss
	}
	return val, ok, nil
}

// Set implements Cache.Set.
// If the inner cache fails, it logs the error and returns nil (success).
func (r *ResilientCache[T]) Set(ctx context.Context, key string, value T) error {
	if err := r.inner.Set(ctx, key, value); err != nil {
		r.logger.Warn("lru: cache set failed (resiliency active)", "key", key, "error", err)
	}
	return nil
}

// Exists implements Cache.Exists.
// If the inner cache fails, it logs the error and reports the key as absent.
func (r *ResilientCache[T]) Exists(ctx context.Context, key string) (bool, error) {
	ok, err := r.inner.Exists(ctx, key)
	if err != nil {
		r.logger.Warn("lru: cache exists failed (resiliency active)", "key", key, "error", err)
		return false, nil
	}
	return ok, nil
}

// Clear implements Cache.Clear.
func (r *ResilientCache[T]) Clear(ctx context.Context) error {
	if err := r.inner.Clear(ctx); err != nil {
		r.logger.Warn("lru: cache clear failed (resiliency active)", "error", err)
	}
	return nil
}

// Close closes the wrapped cache.
func (r *ResilientCache[T]) Close() {
	Close(r.inner)
}

var _ Cache[int] = (*ResilientCache[int])(nil)
