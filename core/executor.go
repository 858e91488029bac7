package core

import (
	"context"
	"sync"
	"sync/atomic"
)

// =============================================================================
// Executor: minimal cooperative, poll-driven scheduler
// =============================================================================

// Pollable is one unit of cooperative work. It must not block: either it
// completes (returns true) or it arranges to be re-polled by keeping the
// supplied Waker and returns false. Invoking the Waker schedules exactly one
// re-poll, no matter how many times it is called for the same suspension.
type Pollable func(wake Waker) bool

// Executor runs pollables on a single scheduling goroutine. A pollable runs
// only when freshly spawned or explicitly woken; between polls the executor
// parks on its signal channel and burns no CPU. This is the consumer-side
// counterpart of the thread pool: blocking work goes to the pool via
// Dispatch, and the returned futures are polled here.
type Executor struct {
	mu    sync.Mutex
	queue []Pollable

	signal chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	running   atomic.Bool
	spawned   atomic.Int64
	completed atomic.Int64

	logger Logger
}

// ExecutorStats represents runtime observability state for an executor.
type ExecutorStats struct {
	Queued    int
	Spawned   int64
	Completed int64
	Running   bool
}

func NewExecutor() *Executor {
	return NewExecutorWithLogger(NewNoOpLogger())
}

func NewExecutorWithLogger(logger Logger) *Executor {
	if logger == nil {
		logger = NewNoOpLogger()
	}
	ex := &Executor{
		signal: make(chan struct{}, 1),
		logger: logger,
	}
	ex.ctx, ex.cancel = context.WithCancel(context.Background())
	ex.running.Store(true)
	ex.wg.Add(1)
	go ex.loop()
	return ex
}

// Spawn schedules a pollable for its first poll. Safe to call from any
// goroutine, including from inside a running pollable.
func (ex *Executor) Spawn(p Pollable) {
	ex.spawned.Add(1)
	ex.enqueue(p)
}

// SpawnFuture spawns a cooperative task that polls f until it resolves, then
// hands the outcome to complete (which may be nil). The task registers the
// executor's waker on every Pending poll, so the dispatch worker's wakeup is
// what reschedules it.
func SpawnFuture[T any](ex *Executor, f *Future[T], complete func(Outcome[T])) {
	ex.Spawn(func(wake Waker) bool {
		out, ready := f.Poll(wake)
		if !ready {
			return false
		}
		if complete != nil {
			complete(out)
		}
		return true
	})
}

// Shutdown stops the scheduling goroutine and drops any queued pollables.
// Wakers handed out earlier stay safe to invoke; they just no longer cause
// a re-poll.
func (ex *Executor) Shutdown() {
	if !ex.running.CompareAndSwap(true, false) {
		return
	}
	ex.cancel()
	ex.wg.Wait()

	ex.mu.Lock()
	ex.queue = nil
	ex.mu.Unlock()

	ex.logger.Debug("executor stopped",
		F("spawned", ex.spawned.Load()),
		F("completed", ex.completed.Load()))
}

func (ex *Executor) IsRunning() bool {
	return ex.running.Load()
}

func (ex *Executor) Stats() ExecutorStats {
	ex.mu.Lock()
	queued := len(ex.queue)
	ex.mu.Unlock()

	return ExecutorStats{
		Queued:    queued,
		Spawned:   ex.spawned.Load(),
		Completed: ex.completed.Load(),
		Running:   ex.running.Load(),
	}
}

func (ex *Executor) enqueue(p Pollable) {
	if ex.ctx.Err() != nil {
		return
	}

	ex.mu.Lock()
	ex.queue = append(ex.queue, p)
	ex.mu.Unlock()

	select {
	case ex.signal <- struct{}{}:
	default:
		// Signal already pending; the loop drains the whole queue anyway.
	}
}

func (ex *Executor) dequeue() (Pollable, bool) {
	ex.mu.Lock()
	defer ex.mu.Unlock()

	if len(ex.queue) == 0 {
		return nil, false
	}
	p := ex.queue[0]
	ex.queue[0] = nil
	ex.queue = ex.queue[1:]
	return p, true
}

func (ex *Executor) loop() {
	defer ex.wg.Done()

	for {
		p, ok := ex.dequeue()
		if !ok {
			select {
			case <-ex.signal:
				continue
			case <-ex.ctx.Done():
				return
			}
		}

		ex.runOne(p)
	}
}

// runOne polls p once with a one-shot re-arm waker. The sync.Once collapses
// multiple invocations for the same suspension into a single re-poll, which
// keeps the "invoke-once-or-more-safe" waker contract cheap for producers.
func (ex *Executor) runOne(p Pollable) {
	var rearm sync.Once
	wake := Waker(func() {
		rearm.Do(func() { ex.enqueue(p) })
	})

	done := func() (done bool) {
		defer func() {
			if r := recover(); r != nil {
				ex.logger.Error("pollable panicked", F("panic", r))
				done = true
			}
		}()
		return p(wake)
	}()

	if done {
		ex.completed.Add(1)
	}
}
