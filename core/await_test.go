package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// TestAwait_DeliversValue verifies the parked-consumer path
// Given: A dispatched closure with an internal delay
// When: Await blocks the calling goroutine on the future
// Then: The worker's wakeup resumes it and the value comes back
func TestAwait_DeliversValue(t *testing.T) {
	pool := newTestThreadPool()
	pool.start()
	defer pool.stop()

	fut := Dispatch(pool, func(ctx context.Context) (string, error) {
		time.Sleep(20 * time.Millisecond)
		return "ready", nil
	})

	v, err := Await(context.Background(), fut)
	if err != nil {
		t.Fatalf("Await returned error: %v", err)
	}
	if v != "ready" {
		t.Fatalf("value = %q, want %q", v, "ready")
	}
}

// TestAwait_ContextCancelAbandonsWaitNotWork verifies cancellation semantics
// Given: A consumer awaiting a slow closure with a cancellable context
// When: The context is cancelled before the worker finishes
// Then: Await returns the context error while the worker still completes
func TestAwait_ContextCancelAbandonsWaitNotWork(t *testing.T) {
	pool := newTestThreadPool()
	pool.start()
	defer pool.stop()

	var finished atomic.Bool
	fut := Dispatch(pool, func(ctx context.Context) (int, error) {
		time.Sleep(60 * time.Millisecond)
		finished.Store(true)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := Await(ctx, fut)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}

	// The worker is not cancelled; it runs to completion regardless
	time.Sleep(100 * time.Millisecond)
	if !finished.Load() {
		t.Fatal("worker closure should run to completion after the wait was abandoned")
	}
}
