package core

import "sync/atomic"

// =============================================================================
// CompletionSlot: single-use, capacity-one transfer cell
// =============================================================================

// ReceiveState is the tri-state result of a non-blocking receive.
type ReceiveState int

const (
	// ReceiveEmpty: the producer has not sent yet.
	ReceiveEmpty ReceiveState = iota

	// ReceiveReady: a value was available and has been drained.
	ReceiveReady

	// ReceiveClosed: the producer went away without sending.
	ReceiveClosed
)

const (
	slotIdle int32 = iota
	slotSent
	slotAbandoned
)

// SlotSender is the producer half of a completion slot. Exactly one Send is
// allowed; a second Send is a programming error and panics.
type SlotSender[T any] struct {
	ch    chan T
	state atomic.Int32
}

// SlotReceiver is the consumer half of a completion slot. At most one
// TryReceive ever observes ReceiveReady.
type SlotReceiver[T any] struct {
	ch <-chan T
}

// NewCompletionSlot creates the two halves of a single-use transfer cell.
// The sender half is moved into the worker closure, the receiver half into
// the future's shared state; they are never accessed from more than one
// logical side each.
func NewCompletionSlot[T any]() (*SlotSender[T], *SlotReceiver[T]) {
	ch := make(chan T, 1)
	return &SlotSender[T]{ch: ch}, &SlotReceiver[T]{ch: ch}
}

// Send transfers the value into the slot. The channel has capacity one and
// carries at most one value, so this never blocks. The slot is closed right
// after so the consumer side can tell "sent and drained" from "never sent".
func (s *SlotSender[T]) Send(value T) {
	if !s.state.CompareAndSwap(slotIdle, slotSent) {
		panic("poolfuture: CompletionSlot.Send called twice")
	}
	s.ch <- value
	close(s.ch)
}

// Abandon closes the slot without sending. It is a no-op after a successful
// Send, which lets the dispatch runner defer it as a safety net: if the
// runner ever unwinds without sending, the consumer observes ReceiveClosed
// instead of waiting forever.
func (s *SlotSender[T]) Abandon() {
	if s.state.CompareAndSwap(slotIdle, slotAbandoned) {
		close(s.ch)
	}
}

// TryReceive drains the slot without blocking.
func (r *SlotReceiver[T]) TryReceive() (T, ReceiveState) {
	var zero T
	select {
	case v, ok := <-r.ch:
		if !ok {
			return zero, ReceiveClosed
		}
		return v, ReceiveReady
	default:
		return zero, ReceiveEmpty
	}
}
