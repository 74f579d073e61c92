// Package memo memoizes expensive computations in a bounded cache.
//
// Concurrent callers asking for the same missing key share a single
// computation. Errors are returned to every waiting caller and never cached.
package memo

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/mirkobrombin/go-lru/v1/cache"
)

// Func computes the value for a key on a cache miss.
type Func[T any] func(ctx context.Context) (T, error)

// Memo wraps a cache.Cache with compute-on-miss semantics.
type Memo[T any] struct {
	cache  cache.Cache[T]
	group  singleflight.Group
	logger *slog.Logger

	computeCounter prometheus.Counter
	sharedCounter  prometheus.Counter
}

// Option configures a Memo.
type Option[T any] func(*Memo[T])

// WithMetrics registers computation counters on reg.
func WithMetrics[T any](reg prometheus.Registerer) Option[T] {
	return func(m *Memo[T]) {
		m.computeCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lru_memo_computations_total",
			Help: "Total number of computations run on cache misses",
		})
		m.sharedCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lru_memo_shared_total",
			Help: "Total number of callers served by another caller's computation",
		})
		reg.MustRegister(m.computeCounter, m.sharedCounter)
	}
}

// WithLogger sets the logger used to report failed computations.
func WithLogger[T any](l *slog.Logger) Option[T] {
	return func(m *Memo[T]) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a Memo storing results in c.
func New[T any](c cache.Cache[T], opts ...Option[T]) *Memo[T] {
	m := &Memo[T]{cache: c, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do returns the cached value for key, or runs fn once for all concurrent
// callers of the same key and caches its result.
//
// The shared computation runs detached from the cancellation of whichever
// caller started it. Each caller stops waiting when its own ctx is done.
func (m *Memo[T]) Do(ctx context.Context, key string, fn Func[T]) (T, error) {
	var zero T
	if v, ok, err := m.cache.Get(ctx, key); err != nil {
		return zero, err
	} else if ok {
		return v, nil
	}

	fctx := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		// another flight may have stored the key while we were waiting
		if v, ok, err := m.cache.Get(fctx, key); err == nil && ok {
			return v, nil
		}
		if m.computeCounter != nil {
			m.computeCounter.Inc()
		}
		v, err := fn(fctx)
		if err != nil {
			m.logger.Debug("memo: computation failed", "key", key, "error", err)
			return nil, err
		}
		if err := m.cache.Set(fctx, key, v); err != nil {
			return nil, err
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Shared && m.sharedCounter != nil {
			m.sharedCounter.Inc()
		}
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// Forget makes the next Do for key start a new computation even if one is
// in flight. The cached value, if any, is kept.
func (m *Memo[T]) Forget(key string) {
	m.group.Forget(key)
}
