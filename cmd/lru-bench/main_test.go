package main

import (
	"context"
	"testing"

	"github.com/mirkobrombin/go-lru/v1/cache"
)

func TestRunReadThrough(t *testing.T) {
	c, err := cache.New[[]byte](64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cache.Close(c)

	res, err := run(context.Background(), c, 4, 4000, 32, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.ops != 4000 {
		t.Fatalf("expected 4000 ops, got %d", res.ops)
	}
	// 32 hot keys fit in 64 slots: only the first touch of each key misses
	if misses := res.ops - res.hits; misses > 32*4 {
		t.Fatalf("too many misses for a working set that fits: %d", misses)
	}
}

func TestRunColdKeysMiss(t *testing.T) {
	c, err := cache.New[[]byte](16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cache.Close(c)

	res, err := run(context.Background(), c, 2, 200, 8, 1)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.hits != 0 {
		t.Fatalf("expected cold keys to always miss, got %d hits", res.hits)
	}
}

func TestRunRejectsInvalidParameters(t *testing.T) {
	c, err := cache.New[[]byte](16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cache.Close(c)

	cases := []struct {
		name                    string
		workers, requests, keys int
		cold                    float64
	}{
		{"no workers", 0, 100, 8, 0},
		{"no requests", 2, 0, 8, 0},
		{"no keys", 2, 100, 0, 0},
		{"negative keys", 2, 100, -1, 0},
		{"cold above one", 2, 100, 8, 1.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := run(context.Background(), c, tc.workers, tc.requests, tc.keys, tc.cold); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRunSpreadsRemainderAcrossWorkers(t *testing.T) {
	c, err := cache.New[[]byte](16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cache.Close(c)

	res, err := run(context.Background(), c, 8, 3, 4, 0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.ops != 3 {
		t.Fatalf("expected 3 ops, got %d", res.ops)
	}
}
