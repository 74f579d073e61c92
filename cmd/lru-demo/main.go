package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mirkobrombin/go-lru/v1/lru"
)

var (
	capacity = flag.Int("capacity", 2, "Cache capacity")
	verbose  = flag.Bool("v", false, "Log evictions")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(os.Stdout, *capacity, logger); err != nil {
		logger.Error("lru-demo failed", "error", err)
		os.Exit(1)
	}
}

// run replays the reference scenario against a cache of the given capacity.
func run(w io.Writer, capacity int, logger *slog.Logger) error {
	c, err := lru.New[int, int](capacity, lru.WithLogger[int, int](logger))
	if err != nil {
		return err
	}

	get := func(k int) {
		v, ok := c.Get(k)
		if !ok {
			v = -1
		}
		fmt.Fprintf(w, "Get %d: %d\n", k, v)
	}

	fmt.Fprintln(w, "--- Starting LRU Cache Test ---")
	c.Put(1, 10)
	c.Put(2, 20)
	get(1)
	c.Put(3, 30)
	get(2)
	c.Put(4, 40)
	get(1)
	get(3)
	get(4)
	fmt.Fprintf(w, "Size: %d/%d Keys: %v\n", c.Len(), c.Cap(), c.Keys())
	return nil
}
