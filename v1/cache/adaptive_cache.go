package cache

import (
	"context"
	"sync/atomic"
)

// AdaptiveCache switches between LRU and LFU strategies based on access patterns.
//
// It monitors hit/miss ratios and selects the strategy with more hits.
type AdaptiveCache[T any] struct {
	lru *InMemoryCache[T]
	lfu *LFUCache[T]

	useLFU atomic.Bool
	hits   atomic.Uint64
	misses atomic.Uint64

	switchEvery uint64
}

// defaultSwitchEvery is the number of reads between two strategy evaluations.
const defaultSwitchEvery = 100

// NewAdaptive creates a new AdaptiveCache whose halves each hold at most
// capacity entries.
//
// The cache starts with an LRU strategy and evaluates the hit/miss ratio
// every 100 reads, switching to LFU when misses dominate and back to
// LRU when hits dominate.
func NewAdaptive[T any](capacity int, opts ...InMemoryOption[T]) (*AdaptiveCache[T], error) {
	l, err := NewLRU[T](capacity, opts...)
	if err != nil {
		return nil, err
	}
	f, err := NewLFU[T](capacity)
	if err != nil {
		return nil, err
	}
	return &AdaptiveCache[T]{lru: l, lfu: f, switchEvery: defaultSwitchEvery}, nil
}

func (a *AdaptiveCache[T]) selectCache() Cache[T] {
	if a.useLFU.Load() {
		return a.lfu
	}
	return a.lru
}

// UsingLFU reports whether reads are currently served by the LFU half.
func (a *AdaptiveCache[T]) UsingLFU() bool { return a.useLFU.Load() }

func (a *AdaptiveCache[T]) adjust() {
	hits, misses := a.hits.Load(), a.misses.Load()
	if hits+misses < a.switchEvery {
		return
	}
	a.useLFU.Store(misses > hits)
	a.hits.Store(0)
	a.misses.Store(0)
}

// Get implements Cache.Get.
func (a *AdaptiveCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	v, ok, err := a.selectCache().Get(ctx, key)
	if err != nil {
		var zero T
		return zero, false, err
	}
	if ok {
		a.hits.Add(1)
	} else {
		a.misses.Add(1)
	}
	a.adjust()
	return v, ok, nil
}

// Set stores the key in both underlying caches.
func (a *AdaptiveCache[T]) Set(ctx context.Context, key string, value T) error {
	if err := a.lru.Set(ctx, key, value); err != nil {
		return err
	}
	return a.lfu.Set(ctx, key, value)
}

// Exists implements Cache.Exists using the active strategy.
func (a *AdaptiveCache[T]) Exists(ctx context.Context, key string) (bool, error) {
	return a.selectCache().Exists(ctx, key)
}

// Clear empties both caches.
func (a *AdaptiveCache[T]) Clear(ctx context.Context) error {
	if err := a.lru.Clear(ctx); err != nil {
		return err
	}
	return a.lfu.Clear(ctx)
}

// Close releases resources held by the underlying caches.
func (a *AdaptiveCache[T]) Close() {
	a.lru.Close()
	a.lfu.Close()
}

var _ Cache[int] = (*AdaptiveCache[int])(nil)
