package workers

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsTasks(t *testing.T) {
	p := NewPool(4, 16)
	defer p.Shutdown()

	var count atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	wg.Wait()
	if count.Load() != 20 {
		t.Errorf("ran %d tasks, want 20", count.Load())
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const size = 3
	p := NewPool(size, 32)
	defer p.Shutdown()

	var inFlight, peak atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < 12; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			n := inFlight.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			inFlight.Add(-1)
		})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	wg.Wait()
	if got := peak.Load(); got > size {
		t.Errorf("observed %d simultaneous tasks, pool size is %d", got, size)
	}
}

func TestPoolShutdownDrains(t *testing.T) {
	p := NewPool(2, 8)

	var count atomic.Int64
	for i := 0; i < 8; i++ {
		if err := p.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	p.Shutdown()
	if count.Load() != 8 {
		t.Errorf("shutdown returned with %d of 8 tasks complete", count.Load())
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	p := NewPool(1, 1)
	p.Shutdown()

	if err := p.Submit(func() {}); err != ErrPoolClosed {
		t.Errorf("submit after shutdown = %v, want ErrPoolClosed", err)
	}

	// A second shutdown is a no-op, not a panic.
	p.Shutdown()
}
