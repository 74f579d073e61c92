package cache

// Strategy defines the cache eviction policy used by cache.New.
type Strategy int

const (
	// LRUStrategy uses a least-recently-used eviction policy.
	LRUStrategy Strategy = iota
	// LFUStrategy uses a least-frequently-used eviction policy.
	LFUStrategy
	// AdaptiveStrategy switches between LRU and LFU based on access patterns.
	AdaptiveStrategy
)

// String returns the flag name of the strategy.
func (s Strategy) String() string {
	switch s {
	case LFUStrategy:
		return "lfu"
	case AdaptiveStrategy:
		return "adaptive"
	default:
		return "lru"
	}
}

// ParseStrategy maps a flag name back to a Strategy.
func ParseStrategy(name string) (Strategy, bool) {
	for _, s := range []Strategy{LRUStrategy, LFUStrategy, AdaptiveStrategy} {
		if s.String() == name {
			return s, true
		}
	}
	return LRUStrategy, false
}

// Option configures cache.New.
type Option[T any] func(*factoryConfig[T])

type factoryConfig[T any] struct {
	strategy  Strategy
	inMemory  []InMemoryOption[T]
	resilient bool
}

// WithStrategy selects the eviction strategy to use. The default is LRUStrategy.
func WithStrategy[T any](s Strategy) Option[T] {
	return func(cfg *factoryConfig[T]) {
		cfg.strategy = s
	}
}

// WithInMemoryOptions forwards options to the LRU cache built by New, also
// when it is the LRU half of an adaptive cache.
func WithInMemoryOptions[T any](opts ...InMemoryOption[T]) Option[T] {
	return func(cfg *factoryConfig[T]) {
		cfg.inMemory = append(cfg.inMemory, opts...)
	}
}

// WithResilience wraps the cache in a ResilientCache.
func WithResilience[T any]() Option[T] {
	return func(cfg *factoryConfig[T]) {
		cfg.resilient = true
	}
}

// New returns a Cache holding at most capacity entries using the selected
// strategy.
//
// By default an LRU cache is created. LFU and Adaptive strategies can be
// requested via WithStrategy.
func New[T any](capacity int, opts ...Option[T]) (Cache[T], error) {
	cfg := factoryConfig[T]{strategy: LRUStrategy}
	for _, opt := range opts {
		opt(&cfg)
	}
	var (
		c   Cache[T]
		err error
	)
	switch cfg.strategy {
	case LFUStrategy:
		c, err = NewLFU[T](capacity)
	case AdaptiveStrategy:
		c, err = NewAdaptive[T](capacity, cfg.inMemory...)
	default:
		c, err = NewLRU[T](capacity, cfg.inMemory...)
	}
	if err != nil {
		return nil, err
	}
	if cfg.resilient {
		c = NewResilient[T](c)
	}
	return c, nil
}

// Close releases resources held by c if it holds any.
func Close[T any](c Cache[T]) {
	if cl, ok := c.(interface{ Close() }); ok {
		cl.Close()
	}
}
