package core

import (
	"fmt"
	"sync/atomic"
	"time"
)

// TaskScheduler is the work source workers pull from: a ready queue plus a
// signal channel, with delayed submissions parked in a DelayManager until
// they are due.
type TaskScheduler struct {
	poolID      string
	queue       TaskQueue
	signal      chan struct{}
	workerCount int

	delayManager *DelayManager

	metricQueued int32 // Waiting in ready queue
	metricActive int32 // Executing in Worker

	// Handlers and Metrics
	panicHandler        PanicHandler
	metrics             Metrics
	rejectedTaskHandler RejectedTaskHandler
	logger              Logger

	// Lifecycle
	shuttingDown int32 // atomic flag
}

func NewFIFOTaskScheduler(poolID string, workerCount int) *TaskScheduler {
	return NewFIFOTaskSchedulerWithConfig(poolID, workerCount, DefaultSchedulerConfig())
}

func NewFIFOTaskSchedulerWithConfig(poolID string, workerCount int, config *SchedulerConfig) *TaskScheduler {
	return newTaskScheduler(poolID, workerCount, NewFIFOTaskQueue(), config)
}

func NewPriorityTaskScheduler(poolID string, workerCount int) *TaskScheduler {
	return NewPriorityTaskSchedulerWithConfig(poolID, workerCount, DefaultSchedulerConfig())
}

func NewPriorityTaskSchedulerWithConfig(poolID string, workerCount int, config *SchedulerConfig) *TaskScheduler {
	return newTaskScheduler(poolID, workerCount, NewPriorityTaskQueue(), config)
}

func newTaskScheduler(poolID string, workerCount int, queue TaskQueue, config *SchedulerConfig) *TaskScheduler {
	s := &TaskScheduler{
		poolID:      poolID,
		queue:       queue,
		signal:      make(chan struct{}, workerCount*2),
		workerCount: workerCount,
	}
	s.delayManager = NewDelayManager(s.PostInternal)

	if config != nil {
		s.panicHandler = config.PanicHandler
		s.metrics = config.Metrics
		s.rejectedTaskHandler = config.RejectedTaskHandler
		s.logger = config.Logger
	}

	// Use defaults if not provided
	if s.panicHandler == nil {
		s.panicHandler = &LoggingPanicHandler{}
	}
	if s.metrics == nil {
		s.metrics = &NilMetrics{}
	}
	if s.rejectedTaskHandler == nil {
		s.rejectedTaskHandler = &LoggingRejectedTaskHandler{}
	}
	if s.logger == nil {
		s.logger = NewNoOpLogger()
	}

	return s
}

// PostInternal enqueues a task for execution.
func (s *TaskScheduler) PostInternal(task Task, traits TaskTraits) {
	if atomic.LoadInt32(&s.shuttingDown) == 1 {
		s.rejectedTaskHandler.HandleRejectedTask(s.poolID, "shutting down")
		s.metrics.RecordTaskRejected(s.poolID, "shutting down")
		return
	}

	s.queue.Push(task, traits)
	depth := atomic.AddInt32(&s.metricQueued, 1)
	s.metrics.RecordQueueDepth(s.poolID, int(depth))

	select {
	case s.signal <- struct{}{}:
	default:
		// Signal channel full, but the task is already queued;
		// a draining worker will find it.
	}
}

// PostDelayedInternal parks a task in the delay manager until it is due,
// then feeds it back through PostInternal.
func (s *TaskScheduler) PostDelayedInternal(task Task, delay time.Duration, traits TaskTraits) {
	if atomic.LoadInt32(&s.shuttingDown) == 1 {
		s.rejectedTaskHandler.HandleRejectedTask(s.poolID, "shutting down")
		s.metrics.RecordTaskRejected(s.poolID, "shutting down")
		return
	}
	s.delayManager.AddDelayedTask(task, delay, traits)
}

// GetWork blocks until a task is available or stopCh fires. Called by workers.
// The returned item carries the traits so callers can label their metrics.
func (s *TaskScheduler) GetWork(stopCh <-chan struct{}) (TaskItem, bool) {
	for {
		if item, ok := s.queue.Pop(); ok {
			depth := atomic.AddInt32(&s.metricQueued, -1)
			s.metrics.RecordQueueDepth(s.poolID, int(depth))
			return item, true
		}

		select {
		case <-s.signal:
			continue
		case <-stopCh:
			return TaskItem{}, false
		}
	}
}

func (s *TaskScheduler) Shutdown() {
	// 1. Mark as shutting down to stop accepting new tasks
	atomic.StoreInt32(&s.shuttingDown, 1)

	// 2. Stop DelayManager (no more new tasks generated)
	s.delayManager.Stop()

	// 3. Clear queue to release all task references
	s.queue.Clear()

	s.logger.Debug("scheduler shut down", F("pool", s.poolID))
}

// ShutdownGraceful waits for all queued and active tasks to complete.
// Returns error if timeout is exceeded before tasks complete.
func (s *TaskScheduler) ShutdownGraceful(timeout time.Duration) error {
	atomic.StoreInt32(&s.shuttingDown, 1)
	s.delayManager.Stop()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			// Timeout exceeded, force clear remaining queue
			s.queue.Clear()
			return fmt.Errorf("shutdown graceful timeout after %v, forced clearing", timeout)
		case <-ticker.C:
			if s.QueuedTaskCount() == 0 && s.ActiveTaskCount() == 0 {
				return nil
			}
		}
	}
}

// Metrics
func (s *TaskScheduler) PoolID() string       { return s.poolID }
func (s *TaskScheduler) WorkerCount() int     { return s.workerCount }
func (s *TaskScheduler) QueuedTaskCount() int { return int(atomic.LoadInt32(&s.metricQueued)) }
func (s *TaskScheduler) ActiveTaskCount() int { return int(atomic.LoadInt32(&s.metricActive)) }
func (s *TaskScheduler) DelayedTaskCount() int {
	return s.delayManager.TaskCount()
}

func (s *TaskScheduler) OnTaskStart() {
	atomic.AddInt32(&s.metricActive, 1)
}

func (s *TaskScheduler) OnTaskEnd() {
	atomic.AddInt32(&s.metricActive, -1)
}

// GetPanicHandler returns the panic handler for this scheduler
func (s *TaskScheduler) GetPanicHandler() PanicHandler {
	return s.panicHandler
}

// GetMetrics returns the metrics collector for this scheduler
func (s *TaskScheduler) GetMetrics() Metrics {
	return s.metrics
}
