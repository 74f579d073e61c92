package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	lruErrors "github.com/mirkobrombin/go-lru/v1/errors"
	"github.com/mirkobrombin/go-lru/v1/lru"
	"github.com/mirkobrombin/go-lru/v1/metrics"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-lru/v1/cache")

// Cache defines the basic operations for a bounded cache.
//
// T represents the type of values stored in the cache.
type Cache[T any] interface {
	// Get retrieves a value for the given key. The boolean return
	// indicates whether the key was found. A hit may change which key is
	// evicted next.
	Get(ctx context.Context, key string) (T, bool, error)
	// Set stores the value for the given key, evicting an older entry if
	// the cache is full.
	Set(ctx context.Context, key string, value T) error
	// Exists reports whether the key is cached without refreshing it.
	Exists(ctx context.Context, key string) (bool, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
}

// InMemoryCache is a concurrency-safe LRU cache. Every call holds one mutex
// around an lru.Cache, since a Get reorders the same structures a Set
// evicts from.
type InMemoryCache[T any] struct {
	mu     sync.Mutex
	lru    *lru.Cache[string, T]
	closed bool
	hits   atomic.Uint64
	misses atomic.Uint64
	evicts atomic.Uint64
	logger *slog.Logger

	hitCounter      prometheus.Counter
	missCounter     prometheus.Counter
	evictionCounter prometheus.Counter
	latencyHist     prometheus.Histogram
	traceEnabled    bool
}

// InMemoryOption configures an InMemoryCache.
type InMemoryOption[T any] func(*InMemoryCache[T])

// WithMetrics enables Prometheus metrics collection using the provided registerer.
func WithMetrics[T any](reg prometheus.Registerer) InMemoryOption[T] {
	return func(c *InMemoryCache[T]) {
		c.hitCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lru_cache_hits_total",
			Help: "Total number of cache hits",
		})
		c.missCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lru_cache_misses_total",
			Help: "Total number of cache misses",
		})
		c.evictionCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lru_cache_evictions_total",
			Help: "Total number of cache evictions",
		})
		c.latencyHist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lru_cache_latency_seconds",
			Help:    "Latency of cache operations",
			Buckets: prometheus.DefBuckets,
		})
		reg.MustRegister(c.hitCounter, c.missCounter, c.evictionCounter, c.latencyHist)
	}
}

// WithTracing enables OpenTelemetry tracing for cache operations.
func WithTracing[T any]() InMemoryOption[T] {
	return func(c *InMemoryCache[T]) {
		c.traceEnabled = true
	}
}

// WithLogger sets the logger for cache events. Evictions are logged at
// debug level.
func WithLogger[T any](l *slog.Logger) InMemoryOption[T] {
	return func(c *InMemoryCache[T]) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewInMemory returns a new InMemoryCache holding at most capacity entries.
// It fails with ErrInvalidCapacity when capacity is not positive, before
// any option registers collectors.
func NewInMemory[T any](capacity int, opts ...InMemoryOption[T]) (*InMemoryCache[T], error) {
	if err := lru.ValidateCapacity(capacity); err != nil {
		return nil, err
	}
	c := &InMemoryCache[T]{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	l, err := lru.New[string, T](capacity,
		lru.WithLogger[string, T](c.logger),
		lru.WithOnEvict(func(string, T) {
			c.evicts.Add(1)
			if c.evictionCounter != nil {
				c.evictionCounter.Inc()
			}
		}),
	)
	if err != nil {
		return nil, err
	}
	c.lru = l
	return c, nil
}

// observe starts a span and a latency measurement for op when enabled. The
// returned function must be called when the operation ends.
func (c *InMemoryCache[T]) observe(ctx context.Context, op string) (context.Context, trace.Span, func()) {
	span := trace.SpanFromContext(ctx)
	if !c.traceEnabled && c.latencyHist == nil {
		return ctx, span, func() {}
	}
	if c.traceEnabled {
		ctx, span = tracer.Start(ctx, op)
	}
	start := time.Now()
	return ctx, span, func() {
		latency := time.Since(start)
		if c.traceEnabled {
			span.SetAttributes(attribute.Int64("lru.cache.latency_ms", latency.Milliseconds()))
			span.End()
		}
		if c.latencyHist != nil {
			c.latencyHist.Observe(latency.Seconds())
		}
	}
}

// Get implements Cache.Get. The context is only checked before the lookup;
// once the key has been promoted the value is returned.
func (c *InMemoryCache[T]) Get(ctx context.Context, key string) (T, bool, error) {
	ctx, span, done := c.observe(ctx, "Cache.Get")
	defer done()

	var zero T
	select {
	case <-ctx.Done():
		return zero, false, ctx.Err()
	default:
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, false, lruErrors.ErrClosed
	}
	metrics.GetCounter.Inc()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if !ok {
		c.misses.Add(1)
		if c.missCounter != nil {
			c.missCounter.Inc()
		}
		if c.traceEnabled {
			span.SetAttributes(attribute.String("lru.cache.result", "miss"))
		}
		return zero, false, nil
	}
	c.hits.Add(1)
	if c.hitCounter != nil {
		c.hitCounter.Inc()
	}
	if c.traceEnabled {
		span.SetAttributes(attribute.String("lru.cache.result", "hit"))
	}
	return v, true, nil
}

// Set implements Cache.Set.
func (c *InMemoryCache[T]) Set(ctx context.Context, key string, value T) error {
	ctx, span, done := c.observe(ctx, "Cache.Set")
	defer done()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if c.closed {
		return lruErrors.ErrClosed
	}
	metrics.SetCounter.Inc()
	before := c.lru.Len()
	evicted := c.lru.Put(key, value)
	metrics.EntriesGauge.Add(float64(c.lru.Len() - before))
	if c.traceEnabled {
		span.SetAttributes(attribute.Bool("lru.cache.evicted", evicted))
	}
	return nil
}

// Exists implements Cache.Exists.
func (c *InMemoryCache[T]) Exists(ctx context.Context, key string) (bool, error) {
	ctx, _, done := c.observe(ctx, "Cache.Exists")
	defer done()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, lruErrors.ErrClosed
	}
	return c.lru.Exists(key), nil
}

// Clear implements Cache.Clear.
func (c *InMemoryCache[T]) Clear(ctx context.Context) error {
	ctx, _, done := c.observe(ctx, "Cache.Clear")
	defer done()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return lruErrors.ErrClosed
	}
	metrics.ClearCounter.Inc()
	c.clearLocked()
	return nil
}

func (c *InMemoryCache[T]) clearLocked() {
	metrics.EntriesGauge.Sub(float64(c.lru.Len()))
	c.lru.Clear()
}

// Len returns the number of cached entries.
func (c *InMemoryCache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// Cap returns the capacity fixed at construction.
func (c *InMemoryCache[T]) Cap() int {
	// capacity is immutable, no lock needed
	return c.lru.Cap()
}

// Close drops every entry. Later calls fail with ErrClosed.
// Close is safe to call multiple times.
func (c *InMemoryCache[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.clearLocked()
}

// Stats reports basic metrics about cache usage.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
}

// Metrics returns current metrics for the cache.
func (c *InMemoryCache[T]) Metrics() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Size:      c.Len(),
		Capacity:  c.Cap(),
	}
}

var _ Cache[int] = (*InMemoryCache[int])(nil)
