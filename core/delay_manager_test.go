package core

import (
	"sync"
	"testing"
	"time"
)

// delaySink collects posted tasks with their arrival time.
type delaySink struct {
	mu      sync.Mutex
	arrived []string
	times   []time.Time
}

func (s *delaySink) post(task Task, traits TaskTraits) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arrived = append(s.arrived, traits.Category)
	s.times = append(s.times, time.Now())
}

func (s *delaySink) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.arrived...)
}

// TestDelayManager_FiresAfterDelay verifies basic delayed delivery
// Given: A task added with a 30ms delay
// When: The delay elapses
// Then: The task is posted to the sink, and not earlier
func TestDelayManager_FiresAfterDelay(t *testing.T) {
	// Arrange
	sink := &delaySink{}
	dm := NewDelayManager(sink.post)
	defer dm.Stop()

	start := time.Now()

	// Act
	dm.AddDelayedTask(noopTask, 30*time.Millisecond, TaskTraits{Category: "delayed"})

	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("task posted immediately, want it parked")
	}
	if dm.TaskCount() != 1 {
		t.Fatalf("TaskCount = %d, want 1", dm.TaskCount())
	}

	waitFor(t, func() bool { return len(sink.snapshot()) == 1 })

	// Assert
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Fatalf("task fired after %v, want >= 30ms", elapsed)
	}
	if dm.TaskCount() != 0 {
		t.Fatalf("TaskCount = %d after firing, want 0", dm.TaskCount())
	}
}

// TestDelayManager_ZeroDelayFiresImmediately verifies the already-due path
// Given: A task added with zero delay
// When: The manager's loop processes it
// Then: The task is posted promptly instead of parking behind the idle timer
func TestDelayManager_ZeroDelayFiresImmediately(t *testing.T) {
	sink := &delaySink{}
	dm := NewDelayManager(sink.post)
	defer dm.Stop()

	dm.AddDelayedTask(noopTask, 0, TaskTraits{Category: "due-now"})

	waitFor(t, func() bool { return len(sink.snapshot()) == 1 })

	if arrived := sink.snapshot(); arrived[0] != "due-now" {
		t.Fatalf("posted category = %q, want %q", arrived[0], "due-now")
	}
	if dm.TaskCount() != 0 {
		t.Fatalf("TaskCount = %d after firing, want 0", dm.TaskCount())
	}
}

// TestDelayManager_OrdersByDueTime verifies due-time ordering
// Given: Two tasks added out of order (longer delay first)
// When: Both fire
// Then: The shorter delay arrives first
func TestDelayManager_OrdersByDueTime(t *testing.T) {
	sink := &delaySink{}
	dm := NewDelayManager(sink.post)
	defer dm.Stop()

	dm.AddDelayedTask(noopTask, 60*time.Millisecond, TaskTraits{Category: "late"})
	dm.AddDelayedTask(noopTask, 15*time.Millisecond, TaskTraits{Category: "early"})

	waitFor(t, func() bool { return len(sink.snapshot()) == 2 })

	arrived := sink.snapshot()
	if arrived[0] != "early" || arrived[1] != "late" {
		t.Fatalf("arrival order = %v, want [early late]", arrived)
	}
}

// TestDelayManager_StopDropsPending verifies shutdown cleanup
// Given: A manager with a far-future task
// When: Stop is called
// Then: The pending task is dropped and never posted
func TestDelayManager_StopDropsPending(t *testing.T) {
	sink := &delaySink{}
	dm := NewDelayManager(sink.post)

	dm.AddDelayedTask(noopTask, 30*time.Millisecond, TaskTraits{Category: "doomed"})
	dm.Stop()

	if dm.TaskCount() != 0 {
		t.Fatalf("TaskCount = %d after Stop, want 0", dm.TaskCount())
	}

	time.Sleep(60 * time.Millisecond)
	if got := len(sink.snapshot()); got != 0 {
		t.Fatalf("%d tasks posted after Stop, want 0", got)
	}
}
