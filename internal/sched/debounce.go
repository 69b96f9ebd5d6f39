// Package sched holds the small scheduling pieces of the animation loop:
// a resize debouncer and a self-rescheduling periodic task.
package sched

import "time"

// DefaultResizeWait is the quiet period before a resize is applied.
const DefaultResizeWait = 100 * time.Millisecond

// Debouncer coalesces a burst of signals into the last one, delivered once
// no new signal has arrived for wait. It has no goroutines; callers either
// poll it every frame or settle it from a timer message carrying the
// sequence number returned by Signal.
type Debouncer[T any] struct {
	wait     time.Duration
	seq      uint64
	pending  bool
	value    T
	deadline time.Time
}

func NewDebouncer[T any](wait time.Duration) *Debouncer[T] {
	if wait < 0 {
		wait = 0
	}
	return &Debouncer[T]{wait: wait}
}

func (d *Debouncer[T]) Wait() time.Duration { return d.wait }

// Signal records v as the latest value and restarts the quiet period.
func (d *Debouncer[T]) Signal(now time.Time, v T) uint64 {
	d.seq++
	d.value = v
	d.pending = true
	d.deadline = now.Add(d.wait)
	return d.seq
}

// Settle delivers the pending value if seq is still the latest signal.
func (d *Debouncer[T]) Settle(seq uint64) (T, bool) {
	var zero T
	if !d.pending || seq != d.seq {
		return zero, false
	}
	d.pending = false
	return d.value, true
}

// Poll delivers the pending value once its quiet period has passed.
func (d *Debouncer[T]) Poll(now time.Time) (T, bool) {
	var zero T
	if !d.pending || now.Before(d.deadline) {
		return zero, false
	}
	d.pending = false
	return d.value, true
}

func (d *Debouncer[T]) Pending() bool { return d.pending }
