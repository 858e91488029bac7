// Package poolfuture bridges two concurrency domains: a pool of worker
// goroutines that execute blocking or CPU-bound closures in parallel, and a
// cooperative, poll-driven consumer that must never block waiting for them.
//
// A dispatched closure runs on the thread pool; the caller immediately gets
// back a Future it can poll. While the result is not ready, each poll
// registers a wake-handle and returns control instead of blocking; when the
// worker delivers the result it invokes the most recently registered
// wake-handle. The registration and the delivery go through one shared lock,
// so a wakeup can never be lost regardless of poll timing.
//
// # Quick Start
//
// Initialize the global thread pool at application startup:
//
//	poolfuture.InitGlobalThreadPool(4) // 4 workers
//	defer poolfuture.ShutdownGlobalThreadPool()
//
// Dispatch blocking work and await the result:
//
//	fut := poolfuture.Dispatch(func(ctx context.Context) (int, error) {
//		return expensiveComputation(), nil
//	})
//	value, err := core.Await(context.Background(), fut)
//
// # Key Concepts
//
// Future: the handle for a dispatched computation. Poll it with a Waker, or
// use core.Await when the caller is an ordinary goroutine. A Future resolves
// exactly once; a panicking closure resolves to a *core.PanicError instead of
// hanging the consumer.
//
// Waker: an opaque wake-handle supplied at poll time. Invoking it asks the
// consumer's scheduler to re-poll. Wakers may be invoked more than once and
// are never called while internal locks are held.
//
// GoroutineThreadPool: the execution engine managing worker goroutines that
// pull and execute submitted closures, FIFO or priority ordered, with
// optional delayed submission.
//
// Executor: a minimal cooperative scheduler for callers that want to drive
// many futures from one goroutine without blocking it.
//
// # Thread Safety
//
// Every dispatch owns its own completion slot and shared state; concurrent
// dispatches are fully independent. Dropping a Future never cancels the
// worker; the closure runs to completion and an unobserved result is
// discarded.
//
// # Example
//
//	import (
//		"context"
//
//		poolfuture "github.com/Swind/go-pool-future"
//		"github.com/Swind/go-pool-future/core"
//	)
//
//	func main() {
//		poolfuture.InitGlobalThreadPool(4)
//		defer poolfuture.ShutdownGlobalThreadPool()
//
//		fut := poolfuture.Dispatch(func(ctx context.Context) (string, error) {
//			return fetchReport(ctx) // blocking IO, runs on a worker
//		})
//
//		report, err := core.Await(context.Background(), fut)
//		if err != nil {
//			panic(err)
//		}
//		println(report)
//	}
package poolfuture
