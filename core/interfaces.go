package core

import (
	"context"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling worker panics
// =============================================================================

// PanicHandler is called when a plain (non-dispatch) task panics on a worker
// goroutine. Dispatched closures never reach it: their panics are captured
// and delivered through the completion slot as a *PanicError instead.
//
// Implementations should be thread-safe as they may be called concurrently.
type PanicHandler interface {
	// HandlePanic is called when a task panics.
	//
	// Parameters:
	// - ctx: The context of the panicked task
	// - poolID: The ID of the thread pool where the panic occurred
	// - workerID: The ID of the worker goroutine
	// - panicInfo: The panic value recovered from the task
	// - stackTrace: The stack trace at the time of panic
	HandlePanic(ctx context.Context, poolID string, workerID int, panicInfo any, stackTrace []byte)
}

// LoggingPanicHandler reports panics through a Logger.
type LoggingPanicHandler struct {
	Logger Logger
}

func (h *LoggingPanicHandler) HandlePanic(ctx context.Context, poolID string, workerID int, panicInfo any, stackTrace []byte) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Error("task panic",
		F("pool", poolID),
		F("worker", workerID),
		F("panic", panicInfo),
		F("stack", string(stackTrace)))
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution.
type Metrics interface {
	// RecordTaskDuration records how long a task ran on a worker goroutine.
	RecordTaskDuration(poolID string, priority TaskPriority, duration time.Duration)

	// RecordWorkerPanic records that a task panicked on a worker goroutine.
	RecordWorkerPanic(poolID string, panicInfo any)

	// RecordQueueDepth records the current ready-queue depth.
	RecordQueueDepth(poolID string, depth int)

	// RecordTaskRejected records that a submission was rejected
	// (e.g. during shutdown).
	RecordTaskRejected(poolID string, reason string)
}

// NilMetrics provides a no-op metrics implementation.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

func (m *NilMetrics) RecordTaskDuration(poolID string, priority TaskPriority, duration time.Duration) {
}
func (m *NilMetrics) RecordWorkerPanic(poolID string, panicInfo any) {}
func (m *NilMetrics) RecordQueueDepth(poolID string, depth int)     {}
func (m *NilMetrics) RecordTaskRejected(poolID string, reason string) {
}

// =============================================================================
// RejectedTaskHandler: Interface for handling rejected submissions
// =============================================================================

// RejectedTaskHandler is called when the scheduler refuses a submission,
// which currently only happens during shutdown.
//
// Implementations should be thread-safe as they may be called concurrently.
type RejectedTaskHandler interface {
	HandleRejectedTask(poolID string, reason string)
}

// LoggingRejectedTaskHandler reports rejections through a Logger.
type LoggingRejectedTaskHandler struct {
	Logger Logger
}

func (h *LoggingRejectedTaskHandler) HandleRejectedTask(poolID string, reason string) {
	logger := h.Logger
	if logger == nil {
		logger = NewDefaultLogger()
	}
	logger.Warn("task rejected", F("pool", poolID), F("reason", reason))
}

// =============================================================================
// SchedulerConfig: Configuration for TaskScheduler
// =============================================================================

// SchedulerConfig holds configuration options for TaskScheduler.
// All fields are optional; defaults are applied by the constructors.
type SchedulerConfig struct {
	// PanicHandler is called when a plain task panics. Defaults to LoggingPanicHandler.
	PanicHandler PanicHandler

	// Metrics records execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// RejectedTaskHandler is called when a submission is rejected.
	// Defaults to LoggingRejectedTaskHandler.
	RejectedTaskHandler RejectedTaskHandler

	// Logger receives scheduler lifecycle events. Defaults to NoOpLogger.
	Logger Logger
}

// DefaultSchedulerConfig returns a config with default handlers.
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		PanicHandler:        &LoggingPanicHandler{},
		Metrics:             &NilMetrics{},
		RejectedTaskHandler: &LoggingRejectedTaskHandler{},
		Logger:              NewNoOpLogger(),
	}
}
