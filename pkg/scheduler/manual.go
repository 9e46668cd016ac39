package scheduler

import (
	"sort"
	"time"
)

// DefaultFrameInterval is the frame spacing used by Manual
const DefaultFrameInterval = 16 * time.Millisecond

// Manual is a deterministic Scheduler driven by an explicit virtual clock.
// Nothing runs until Frame or Advance is called, and everything runs on the
// caller's goroutine.
type Manual struct {
	now      time.Time
	interval time.Duration
	frames   []frameRequest
	timers   []*manualTimer
	seq      int
}

type manualTimer struct {
	task *Task
	due  time.Time
	seq  int
	fn   func()
}

// NewManual creates a manual scheduler whose clock starts at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, interval: DefaultFrameInterval}
}

// SetFrameInterval changes the spacing between frames delivered by Advance
func (m *Manual) SetFrameInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Now implements Scheduler
func (m *Manual) Now() time.Time {
	return m.now
}

// RequestFrame implements Scheduler
func (m *Manual) RequestFrame(fn FrameFunc) *Task {
	task := &Task{}
	m.frames = append(m.frames, frameRequest{task: task, fn: fn})
	return task
}

// After implements Scheduler
func (m *Manual) After(d time.Duration, fn func()) *Task {
	task := &Task{}
	m.seq++
	m.timers = append(m.timers, &manualTimer{task: task, due: m.now.Add(d), seq: m.seq, fn: fn})
	return task
}

// Frame delivers the currently pending frames at the current time
func (m *Manual) Frame() {
	batch := m.frames
	m.frames = nil
	for _, req := range batch {
		if req.task.claim() {
			req.fn(m.now)
		}
	}
}

// Advance moves the clock forward by d. Timers fire at their exact due
// time; frames are delivered at every frame boundary crossed.
func (m *Manual) Advance(d time.Duration) {
	end := m.now.Add(d)
	for m.now.Before(end) {
		next := m.now.Add(m.interval)
		boundary := true
		if next.After(end) {
			next = end
			boundary = false
		}
		m.fireTimers(next)
		m.now = next
		if boundary {
			m.Frame()
		}
	}
	m.fireTimers(end)
}

// fireTimers runs every live timer due at or before t, in due order
func (m *Manual) fireTimers(t time.Time) {
	for {
		sort.SliceStable(m.timers, func(i, j int) bool {
			if m.timers[i].due.Equal(m.timers[j].due) {
				return m.timers[i].seq < m.timers[j].seq
			}
			return m.timers[i].due.Before(m.timers[j].due)
		})
		if len(m.timers) == 0 || m.timers[0].due.After(t) {
			return
		}
		timer := m.timers[0]
		m.timers = m.timers[1:]
		if timer.due.After(m.now) {
			m.now = timer.due
		}
		if timer.task.claim() {
			timer.fn()
		}
	}
}

// PendingFrames returns the number of frame requests not yet delivered
func (m *Manual) PendingFrames() int {
	n := 0
	for _, req := range m.frames {
		if req.task.Pending() {
			n++
		}
	}
	return n
}

// PendingTimers returns the number of delayed callbacks not yet run
func (m *Manual) PendingTimers() int {
	n := 0
	for _, timer := range m.timers {
		if timer.task.Pending() {
			n++
		}
	}
	return n
}
