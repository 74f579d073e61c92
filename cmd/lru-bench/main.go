package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-lru/v1/cache"
	"github.com/mirkobrombin/go-lru/v1/metrics"
)

var (
	concurrency = flag.Int("c", 8, "Number of concurrent clients")
	requests    = flag.Int("n", 100000, "Total number of requests")
	capacity    = flag.Int("capacity", 1024, "Cache capacity")
	keySpace    = flag.Int("keys", 2048, "Number of distinct hot keys")
	coldRatio   = flag.Float64("cold", 0.1, "Fraction of requests for never-seen keys")
	strategy    = flag.String("strategy", "lru", "Strategy: lru, lfu, adaptive")
	traceOut    = flag.Bool("trace", false, "Print spans of the lru strategy to stdout")
)

type result struct {
	ops     int64
	hits    int64
	elapsed time.Duration
}

func main() {
	flag.Parse()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, ok := cache.ParseStrategy(*strategy)
	if !ok {
		logger.Error("unknown strategy", "strategy", *strategy)
		os.Exit(2)
	}
	if err := validate(*concurrency, *requests, *keySpace, *coldRatio); err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(2)
	}

	ctx := context.Background()
	reg := metrics.NewRegistry()
	metrics.RegisterCoreMetrics(reg)

	inMemory := []cache.InMemoryOption[[]byte]{
		cache.WithMetrics[[]byte](reg),
		cache.WithLogger[[]byte](logger),
	}
	if *traceOut {
		exp, err := stdouttrace.New()
		if err != nil {
			logger.Error("stdouttrace", "error", err)
			os.Exit(1)
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
		defer func() { _ = tp.Shutdown(ctx) }()
		otel.SetTracerProvider(tp)
		inMemory = append(inMemory, cache.WithTracing[[]byte]())
	}

	c, err := cache.New[[]byte](*capacity,
		cache.WithStrategy[[]byte](s),
		cache.WithInMemoryOptions[[]byte](inMemory...),
	)
	if err != nil {
		logger.Error("create cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close(c)

	logger.Info("starting benchmark",
		"strategy", s, "requests", *requests, "concurrency", *concurrency,
		"capacity", *capacity, "keys", *keySpace)

	res, err := run(ctx, c, *concurrency, *requests, *keySpace, *coldRatio)
	if err != nil {
		logger.Error("benchmark failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("| %-10s | %-12s | %-12s | %-9s |\n", "Strategy", "Ops/sec", "Avg Latency", "Hit Ratio")
	fmt.Println("|:---|:---|:---|:---|")
	fmt.Printf("| %-10s | %-12.0f | %-12s | %-9.3f |\n",
		s,
		float64(res.ops)/res.elapsed.Seconds(),
		(res.elapsed / time.Duration(max(res.ops, 1))).String(),
		float64(res.hits)/float64(max(res.ops, 1)),
	)
}

func validate(workers, requests, keys int, cold float64) error {
	switch {
	case workers <= 0:
		return fmt.Errorf("-c must be positive, got %d", workers)
	case requests <= 0:
		return fmt.Errorf("-n must be positive, got %d", requests)
	case keys <= 0:
		return fmt.Errorf("-keys must be positive, got %d", keys)
	case cold < 0 || cold > 1:
		return fmt.Errorf("-cold must be within [0, 1], got %v", cold)
	}
	return nil
}

// run issues read-through requests from workers goroutines: a miss is
// followed by a Set, as a memoizing caller would do. Cold requests use a
// fresh random key and always miss.
func run(ctx context.Context, c cache.Cache[[]byte], workers, requests, keys int, cold float64) (result, error) {
	if err := validate(workers, requests, keys, cold); err != nil {
		return result{}, err
	}
	var ops, hits atomic.Int64
	payload := make([]byte, 64)

	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for w := 0; w < workers; w++ {
		seed := int64(w) + 1
		perWorker := requests / workers
		if w < requests%workers {
			perWorker++
		}
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < perWorker; i++ {
				var key string
				if rng.Float64() < cold {
					key = uuid.NewString()
				} else {
					key = fmt.Sprintf("key:%d", rng.Intn(keys))
				}
				_, ok, err := c.Get(ctx, key)
				if err != nil {
					return err
				}
				ops.Add(1)
				if ok {
					hits.Add(1)
					continue
				}
				if err := c.Set(ctx, key, payload); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result{}, err
	}
	return result{ops: ops.Load(), hits: hits.Load(), elapsed: time.Since(start)}, nil
}
