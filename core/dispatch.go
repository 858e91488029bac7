package core

import (
	"context"
	"runtime/debug"
	"time"
)

// =============================================================================
// Dispatch: bridge a closure onto the thread pool, hand back a Future
// =============================================================================

// Dispatch submits task to the pool and immediately returns a Pending future
// for its outcome. The calling goroutine never executes the closure and
// never blocks; the worker may not even have started when Dispatch returns.
//
// Each call builds its own completion slot and shared state, so concurrent
// dispatches are fully independent: completion or failure of one can never
// affect another's observable result.
func Dispatch[T any](pool ThreadPool, task TaskWithResult[T]) *Future[T] {
	return DispatchWithTraits(pool, task, DefaultTaskTraits())
}

// DispatchWithTraits is Dispatch with explicit scheduling traits, e.g.
// TraitsUserBlocking() when a cooperative task is suspended on the result.
func DispatchWithTraits[T any](pool ThreadPool, task TaskWithResult[T], traits TaskTraits) *Future[T] {
	fut, runner := newDispatch(task)
	pool.PostInternal(runner, traits)
	return fut
}

// DispatchAfter submits task after the given delay. The returned future
// stays Pending through the delay and the execution.
func DispatchAfter[T any](pool ThreadPool, task TaskWithResult[T], delay time.Duration) *Future[T] {
	return DispatchAfterWithTraits(pool, task, delay, DefaultTaskTraits())
}

func DispatchAfterWithTraits[T any](pool ThreadPool, task TaskWithResult[T], delay time.Duration, traits TaskTraits) *Future[T] {
	fut, runner := newDispatch(task)
	pool.PostDelayedInternal(runner, delay, traits)
	return fut
}

// newDispatch builds the slot, the shared state and the runner closure that
// ties them together on the worker side. The runner:
//  1. executes the closure with panic capture,
//  2. sends the outcome into the slot,
//  3. takes any registered waker under the state lock and invokes it after
//     unlocking.
// Step 2 always happens before step 3, and both poll and wake go through the
// same lock, so a consumer that registered a waker is always woken and a
// consumer that polls late finds the outcome directly.
func newDispatch[T any](task TaskWithResult[T]) (*Future[T], Task) {
	sender, recv := NewCompletionSlot[Outcome[T]]()
	st := &futureState[T]{recv: recv}
	fut := &Future[T]{state: st}

	runner := func(ctx context.Context) {
		defer func() {
			// Abandon is a no-op after Send; it only closes the slot if the
			// runner somehow unwound without sending, turning that into an
			// explicit ErrResultLost on the consumer side. The wakeup is
			// delivered on every path.
			sender.Abandon()
			st.wake()
		}()

		sender.Send(runGuarded(ctx, task))
	}

	return fut, runner
}

// runGuarded executes the closure, converting a panic into an Outcome that
// carries a *PanicError. The worker goroutine survives and the consumer gets
// an explicit failure instead of a forever-Pending future.
func runGuarded[T any](ctx context.Context, task TaskWithResult[T]) (out Outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome[T]{Err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()

	v, err := task(ctx)
	return Outcome[T]{Value: v, Err: err}
}
