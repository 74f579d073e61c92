package cache

import (
	"context"
	"strconv"
	"testing"
)

// benchmarkSet measures Set performance for a cache under constant eviction.
func benchmarkSet(b *testing.B, c Cache[string]) {
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := c.Set(ctx, strconv.Itoa(i), "val"); err != nil {
			b.Fatalf("set failed: %v", err)
		}
	}
}

// benchmarkGet measures Get performance for a cache.
func benchmarkGet(b *testing.B, c Cache[string]) {
	ctx := context.Background()
	if err := c.Set(ctx, "key", "val"); err != nil {
		b.Fatalf("setup failed: %v", err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok, err := c.Get(ctx, "key"); err != nil || !ok {
			b.Fatalf("get failed: %v ok=%v", err, ok)
		}
	}
}

func benchCache(b *testing.B, s Strategy) Cache[string] {
	b.Helper()
	c, err := New[string](1024, WithStrategy[string](s))
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	b.Cleanup(func() { Close(c) })
	return c
}

func BenchmarkInMemoryCacheSet(b *testing.B) {
	benchmarkSet(b, benchCache(b, LRUStrategy))
}

func BenchmarkInMemoryCacheGet(b *testing.B) {
	benchmarkGet(b, benchCache(b, LRUStrategy))
}

func BenchmarkRistrettoCacheSet(b *testing.B) {
	benchmarkSet(b, benchCache(b, LFUStrategy))
}

func BenchmarkRistrettoCacheGet(b *testing.B) {
	benchmarkGet(b, benchCache(b, LFUStrategy))
}

func BenchmarkInMemoryCacheParallelGet(b *testing.B) {
	c := benchCache(b, LRUStrategy)
	ctx := context.Background()
	for i := 0; i < 1024; i++ {
		_ = c.Set(ctx, strconv.Itoa(i), "val")
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _, _ = c.Get(ctx, strconv.Itoa(i&1023))
			i++
		}
	})
}
