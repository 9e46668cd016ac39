// Package scheduler provides the cooperative UI thread that widgets run on:
// per-frame callbacks, delayed callbacks and posted work, all revocable
// through the Task handle returned when they are scheduled.
package scheduler

import (
	"sync/atomic"
	"time"
)

// FrameFunc receives the timestamp of the frame it runs in
type FrameFunc func(now time.Time)

// Scheduler is what widgets need from their host. Implementations run every
// callback on a single goroutine, so widget state needs no locking.
type Scheduler interface {
	// Now returns the scheduler's current time
	Now() time.Time
	// RequestFrame runs fn once on the next frame
	RequestFrame(fn FrameFunc) *Task
	// After runs fn once after d has elapsed
	After(d time.Duration, fn func()) *Task
}

// Task is a handle to a scheduled callback
type Task struct {
	cancelled atomic.Bool
	fired     atomic.Bool
	stop      func()
}

// Cancel revokes the task. Cancelling a task that already ran or was
// already cancelled does nothing; a nil task is allowed.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	if t.cancelled.CompareAndSwap(false, true) && t.stop != nil {
		t.stop()
	}
}

// Cancelled reports whether Cancel was called before the task ran
func (t *Task) Cancelled() bool {
	return t != nil && t.cancelled.Load()
}

// Pending reports whether the task is still waiting to run
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled.Load() && !t.fired.Load()
}

// claim marks the task as running; false means it was cancelled or has run
func (t *Task) claim() bool {
	if t.cancelled.Load() {
		return false
	}
	return t.fired.CompareAndSwap(false, true)
}

type frameRequest struct {
	task *Task
	fn   FrameFunc
}
