package poolfuture

import "github.com/Swind/go-pool-future/core"

// Re-export commonly used types from core package for convenience.
// This allows users to import only the poolfuture package for most use cases.

// Task is the unit of work (Closure)
type Task = core.Task

// TaskTraits defines task attributes (priority, blocking behavior, etc.)
type TaskTraits = core.TaskTraits

// TaskPriority defines the priority levels for tasks
type TaskPriority = core.TaskPriority

// Waker is the opaque wake-handle supplied when polling a Future
type Waker = core.Waker

// Executor is the minimal cooperative poll-driven scheduler
type Executor = core.Executor

// ThreadPool is re-exported for type compatibility
type ThreadPool = core.ThreadPool

// PanicError carries the recovered value of a panicking worker closure
type PanicError = core.PanicError

// Generic aliases for the dispatch surface
type TaskWithResult[T any] = core.TaskWithResult[T]
type Future[T any] = core.Future[T]
type Outcome[T any] = core.Outcome[T]

// Priority constants
const (
	TaskPriorityBestEffort   TaskPriority = core.TaskPriorityBestEffort
	TaskPriorityUserVisible  TaskPriority = core.TaskPriorityUserVisible
	TaskPriorityUserBlocking TaskPriority = core.TaskPriorityUserBlocking
)

// Convenience functions for creating TaskTraits
var (
	DefaultTaskTraits  = core.DefaultTaskTraits
	TraitsUserBlocking = core.TraitsUserBlocking
	TraitsBestEffort   = core.TraitsBestEffort
	TraitsUserVisible  = core.TraitsUserVisible
)

// NewExecutor creates a cooperative executor for driving futures.
func NewExecutor() *Executor {
	return core.NewExecutor()
}
