package git

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

// TestPoolHighWaterMark drives many more workers than slots through the pool
// and checks the observed concurrency peaks at exactly the limit. Admitted
// workers park inside fn until limit of them have arrived, so the high-water
// mark is deterministic rather than timing-dependent.
func TestPoolHighWaterMark(t *testing.T) {
	const limit = 3
	const workers = 12
	pool := NewPool(limit)

	var inside atomic.Int32
	var peak atomic.Int32
	ready := make(chan struct{}, workers)
	gate := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			err := pool.Run(context.Background(), func() error {
				n := inside.Add(1)
				defer inside.Add(-1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				ready <- struct{}{}
				<-gate
				return nil
			})
			if err != nil {
				t.Errorf("pool.Run: %v", err)
			}
		}()
	}

	// Wait until the pool is saturated, then release everyone; the remaining
	// workers rotate through the freed slots.
	for range limit {
		<-ready
	}
	close(gate)
	wg.Wait()

	if p := peak.Load(); p != limit {
		t.Errorf("peak concurrency = %d, want exactly %d", p, limit)
	}
}

func TestPoolReturnsCtxErrWhileWaiting(t *testing.T) {
	pool := NewPool(1)

	hold := make(chan struct{})
	parked := make(chan struct{})
	go func() {
		_ = pool.Run(context.Background(), func() error {
			close(parked)
			<-hold
			return nil
		})
	}()
	<-parked

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Run(ctx, func() error {
		t.Error("fn must not run when acquisition fails")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}

	close(hold)
}

func TestPoolPropagatesFnError(t *testing.T) {
	pool := NewPool(2)
	want := errors.New("exec failed")

	if err := pool.Run(context.Background(), func() error { return want }); !errors.Is(err, want) {
		t.Errorf("expected fn error back, got %v", err)
	}
}

func TestPoolNilRunsUnbounded(t *testing.T) {
	var pool *Pool
	ran := false
	if err := pool.Run(context.Background(), func() error { ran = true; return nil }); err != nil {
		t.Fatalf("nil pool: %v", err)
	}
	if !ran {
		t.Fatal("nil pool must still run fn")
	}
}

func TestPoolClampsLimit(t *testing.T) {
	pool := NewPool(0)
	if err := pool.Run(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("limit 0 should clamp to 1, got error %v", err)
	}
}
