package core

import (
	"sync/atomic"
	"testing"
)

// newTestFuture wires a future directly to a slot, bypassing Dispatch, so
// tests can play the producer role by hand.
func newTestFuture[T any]() (*Future[T], *SlotSender[Outcome[T]], *futureState[T]) {
	sender, recv := NewCompletionSlot[Outcome[T]]()
	st := &futureState[T]{recv: recv}
	return &Future[T]{state: st}, sender, st
}

// TestFuture_PollBeforeSendIsPending verifies the suspension path
// Given: A future whose producer has not delivered yet
// When: Poll is called with a waker
// Then: It reports pending and registers the waker without invoking it
func TestFuture_PollBeforeSendIsPending(t *testing.T) {
	// Arrange
	fut, _, st := newTestFuture[int]()
	var woken atomic.Bool

	// Act
	_, ready := fut.Poll(func() { woken.Store(true) })

	// Assert
	if ready {
		t.Fatal("Poll reported ready before any value was sent")
	}
	if woken.Load() {
		t.Fatal("waker must not be invoked by Poll itself")
	}
	st.mu.Lock()
	registered := st.waker != nil
	st.mu.Unlock()
	if !registered {
		t.Fatal("pending Poll did not register the waker")
	}
}

// TestFuture_SendAfterPollInvokesWaker verifies the notify protocol
// Given: A consumer suspended with a registered waker
// When: The producer sends the outcome and signals completion
// Then: The waker fires exactly once and the next poll observes the value
func TestFuture_SendAfterPollInvokesWaker(t *testing.T) {
	fut, sender, st := newTestFuture[int]()

	var wakes atomic.Int32
	if _, ready := fut.Poll(func() { wakes.Add(1) }); ready {
		t.Fatal("future ready before send")
	}

	// Producer side: send happens-before waker-take, same as the dispatch runner
	sender.Send(Outcome[int]{Value: 9})
	st.wake()

	if got := wakes.Load(); got != 1 {
		t.Fatalf("waker invoked %d times, want 1", got)
	}

	out, ready := fut.Poll(func() {})
	if !ready {
		t.Fatal("future not ready after send and wake")
	}
	if out.Value != 9 || out.Err != nil {
		t.Fatalf("outcome = (%d, %v), want (9, nil)", out.Value, out.Err)
	}
}

// TestFuture_LatePollNeedsNoWaker verifies the no-wakeup-needed path
// Given: A producer that already delivered before anyone polled
// When: The consumer polls for the first time
// Then: It observes the value immediately and no waker is ever registered
func TestFuture_LatePollNeedsNoWaker(t *testing.T) {
	fut, sender, st := newTestFuture[string]()

	sender.Send(Outcome[string]{Value: "done"})
	st.wake() // no waker registered yet, must be a harmless no-op

	var woken atomic.Bool
	out, ready := fut.Poll(func() { woken.Store(true) })

	if !ready {
		t.Fatal("first poll after completion should be ready")
	}
	if out.Value != "done" {
		t.Fatalf("value = %q, want %q", out.Value, "done")
	}
	if woken.Load() {
		t.Fatal("waker should never fire on the late-poll path")
	}
	st.mu.Lock()
	registered := st.waker != nil
	st.mu.Unlock()
	if registered {
		t.Fatal("ready poll must not leave a waker registered")
	}
}

// TestFuture_NewerWakerReplacesOlder verifies waker replacement
// Given: A pending future polled twice with different wakers
// When: The producer completes
// Then: Only the most recently registered waker is invoked
func TestFuture_NewerWakerReplacesOlder(t *testing.T) {
	fut, sender, st := newTestFuture[int]()

	var oldWakes, newWakes atomic.Int32
	fut.Poll(func() { oldWakes.Add(1) })
	fut.Poll(func() { newWakes.Add(1) })

	sender.Send(Outcome[int]{Value: 1})
	st.wake()

	if oldWakes.Load() != 0 {
		t.Fatalf("stale waker invoked %d times, want 0", oldWakes.Load())
	}
	if newWakes.Load() != 1 {
		t.Fatalf("current waker invoked %d times, want 1", newWakes.Load())
	}
}

// TestFuture_ClosedSlotSurfacesError verifies the abandoned-producer path
// Given: A producer that went away without sending
// When: The consumer polls
// Then: The poll resolves with ErrResultLost instead of staying pending
func TestFuture_ClosedSlotSurfacesError(t *testing.T) {
	fut, sender, _ := newTestFuture[int]()

	sender.Abandon()

	out, ready := fut.Poll(func() {})
	if !ready {
		t.Fatal("poll on an abandoned slot must resolve, not hang")
	}
	if out.Err != ErrResultLost {
		t.Fatalf("err = %v, want ErrResultLost", out.Err)
	}
}

// TestFuture_PollAfterReadyPanics verifies the documented contract violation
// Given: A future that already resolved
// When: Poll is called again
// Then: It fails fast with a panic instead of undefined behavior
func TestFuture_PollAfterReadyPanics(t *testing.T) {
	fut, sender, _ := newTestFuture[int]()
	sender.Send(Outcome[int]{Value: 1})

	if _, ready := fut.Poll(func() {}); !ready {
		t.Fatal("future should be ready")
	}
	if !fut.Resolved() {
		t.Fatal("Resolved() = false after ready poll")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("poll after ready did not panic")
		}
	}()
	fut.Poll(func() {})
}
