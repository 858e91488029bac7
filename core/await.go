package core

import "context"

// Await drives a future to completion for callers that are not running on a
// cooperative executor. It polls with a channel-backed waker and parks the
// calling goroutine between polls, so the worker's wakeup (not a busy loop)
// triggers the re-poll.
//
// Cancelling ctx abandons the wait, not the work: the worker closure still
// runs to completion and its outcome is silently discarded, matching the
// drop semantics of the future handle itself.
func Await[T any](ctx context.Context, f *Future[T]) (T, error) {
	wake := make(chan struct{}, 1)
	waker := Waker(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	})

	for {
		out, ready := f.Poll(waker)
		if ready {
			return out.Value, out.Err
		}

		select {
		case <-wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
