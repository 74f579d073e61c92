package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mirkobrombin/go-lru/v1/cache"
)

func newMemo(t *testing.T, capacity int, opts ...Option[int]) (*Memo[int], *cache.InMemoryCache[int]) {
	t.Helper()
	c, err := cache.NewInMemory[int](capacity)
	if err != nil {
		t.Fatalf("NewInMemory: %v", err)
	}
	t.Cleanup(c.Close)
	return New[int](c, opts...), c
}

func TestDoCachesResult(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemo(t, 4)
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}
	for i := 0; i < 3; i++ {
		v, err := m.Do(ctx, "answer", fn)
		if err != nil || v != 42 {
			t.Fatalf("expected 42, got %v err %v", v, err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected one computation, got %d", calls)
	}
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	m, c := newMemo(t, 4)
	boom := errors.New("boom")

	if _, err := m.Do(ctx, "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Fatal("failed computation must not be cached")
	}
	v, err := m.Do(ctx, "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("expected 7, got %v err %v", v, err)
	}
}

func TestDoRecomputesAfterEviction(t *testing.T) {
	ctx := context.Background()
	m, _ := newMemo(t, 1)
	var calls atomic.Int32
	fn := func(v int) Func[int] {
		return func(context.Context) (int, error) {
			calls.Add(1)
			return v, nil
		}
	}
	_, _ = m.Do(ctx, "a", fn(1))
	_, _ = m.Do(ctx, "b", fn(2)) // evicts a
	if v, _ := m.Do(ctx, "a", fn(3)); v != 3 {
		t.Fatalf("expected recomputed value 3, got %d", v)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 computations, got %d", calls.Load())
	}
}

func TestDoSharesConcurrentComputations(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m, _ := newMemo(t, 4, WithMetrics[int](reg))

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	var calls atomic.Int32
	fn := func(context.Context) (int, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return 5, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]int, callers)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = m.Do(ctx, "slow", fn)
	}()
	<-started
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Do(ctx, "slow", fn)
		}(i)
	}
	close(release)
	wg.Wait()

	for i, v := range results {
		if v != 5 {
			t.Fatalf("caller %d got %d", i, v)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one computation, got %d", calls.Load())
	}
	if got := testutil.ToFloat64(m.computeCounter); got != 1 {
		t.Fatalf("expected computation counter 1, got %v", got)
	}
}

func TestDoPropagatesCacheErrors(t *testing.T) {
	m, _ := newMemo(t, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := m.Do(ctx, "k", func(context.Context) (int, error) { return 1, nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestDoCanceledCallerDoesNotFailSharedComputation(t *testing.T) {
	m, c := newMemo(t, 4)

	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	var fnErr atomic.Value
	fn := func(ctx context.Context) (int, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			fnErr.Store(err)
			return 0, err
		}
		return 9, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := m.Do(ctxA, "k", fn)
		errA <- err
	}()
	<-started
	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled caller to get context canceled, got %v", err)
	}

	// the flight is still blocked, so this caller joins it or hits the cache
	resB := make(chan int, 1)
	errB := make(chan error, 1)
	go func() {
		v, err := m.Do(context.Background(), "k", fn)
		resB <- v
		errB <- err
	}()
	close(release)

	if v, err := <-resB, <-errB; err != nil || v != 9 {
		t.Fatalf("expected 9, got %v err %v", v, err)
	}
	if err, _ := fnErr.Load().(error); err != nil {
		t.Fatalf("computation saw a canceled context: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one computation, got %d", calls.Load())
	}
	if v, ok, err := c.Get(context.Background(), "k"); err != nil || !ok || v != 9 {
		t.Fatalf("expected cached 9, got %v ok=%v err=%v", v, ok, err)
	}
}
