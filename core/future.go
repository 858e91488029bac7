package core

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// Future: poll-based handle for a dispatched computation
// =============================================================================

// Waker is the opaque wake-handle an executor supplies when polling. Function
// values are freely copyable and implementations must tolerate being invoked
// more than once. A Waker is never invoked while the future's internal lock
// is held, so it may immediately re-poll without risking deadlock.
type Waker func()

// Outcome carries the closure's value or its failure. Err is non-nil when
// the closure returned an error, panicked (*PanicError) or the slot was
// abandoned (ErrResultLost).
type Outcome[T any] struct {
	Value T
	Err   error
}

// futureState is the record shared between the consumer (Future.Poll) and
// the producer (the dispatch runner). Both fields are only touched under mu;
// that single lock is what makes the wake protocol race-free: the runner's
// send-then-take-waker and the poller's check-then-register-waker are each
// atomic with respect to the other, so no interleaving loses a wakeup.
type futureState[T any] struct {
	mu    sync.Mutex
	recv  *SlotReceiver[Outcome[T]]
	waker Waker
}

// wake takes the registered waker, if any, and invokes it outside the lock.
// Called by the dispatch runner after the outcome has been sent (or the slot
// abandoned), which is what guarantees "send happens-before waker-take".
func (st *futureState[T]) wake() {
	st.mu.Lock()
	w := st.waker
	st.waker = nil
	st.mu.Unlock()

	if w != nil {
		w()
	}
}

// Future is the handle a cooperative consumer polls for the result of a
// dispatched closure. It holds shared ownership of the state record with the
// worker; dropping the handle does not stop the worker, whose result is then
// silently discarded.
//
// A Future transitions Pending -> Ready exactly once. Ready is terminal:
// polling again after Poll reported ready is a contract violation and panics.
type Future[T any] struct {
	state *futureState[T]
	done  atomic.Bool
}

// Poll attempts to resolve the future without blocking.
//
// If the outcome is already in the slot it is returned with ready == true —
// no wakeup is needed, which covers the "worker finished before anyone
// polled" path. Otherwise wake is registered (replacing any waker from an
// earlier poll, never accumulating) and Poll returns ready == false; the
// worker will invoke the registered waker right after it delivers the
// outcome.
func (f *Future[T]) Poll(wake Waker) (Outcome[T], bool) {
	if f.done.Load() {
		panic("poolfuture: Future polled after it resolved")
	}

	st := f.state
	st.mu.Lock()

	out, recvState := st.recv.TryReceive()
	switch recvState {
	case ReceiveReady:
		st.waker = nil
		st.mu.Unlock()
		f.done.Store(true)
		return out, true

	case ReceiveClosed:
		// The runner always sends an Outcome, even for a panicking closure.
		// Seeing the slot closed empty means that guarantee was broken;
		// surface it instead of staying Pending forever.
		st.waker = nil
		st.mu.Unlock()
		f.done.Store(true)
		return Outcome[T]{Err: ErrResultLost}, true

	default:
		st.waker = wake
		st.mu.Unlock()
		return Outcome[T]{}, false
	}
}

// Resolved reports whether a previous Poll already returned the outcome.
func (f *Future[T]) Resolved() bool {
	return f.done.Load()
}
