package scheduler

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultFrameRate is used when a Loop is created with a non-positive rate
const DefaultFrameRate = 60

// Loop is a real-time Scheduler backed by one goroutine. Work reaches it
// through Post; frames are delivered on a ticker only while some are pending.
type Loop struct {
	work     chan func()
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	frames []frameRequest
	timers map[*Task]struct{}

	running  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	finished chan struct{}
}

// NewLoop creates a loop that delivers frames at frameRate per second
func NewLoop(frameRate int, logger *slog.Logger) *Loop {
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		work:     make(chan func(), 1024),
		interval: time.Second / time.Duration(frameRate),
		logger:   logger,
		timers:   make(map[*Task]struct{}),
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

// Start begins the loop goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		go l.run()
	}
}

// Stop cancels every pending frame and timer and ends the loop. Work posted
// afterwards is dropped.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		frames := l.frames
		l.frames = nil
		timers := l.timers
		l.timers = make(map[*Task]struct{})
		l.mu.Unlock()

		for _, req := range frames {
			req.task.Cancel()
		}
		for task := range timers {
			task.Cancel()
		}

		if l.running.Load() {
			<-l.finished
		}
	})
}

// Done is closed once Stop has been called
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Now returns the wall clock time
func (l *Loop) Now() time.Time {
	return time.Now()
}

// Post queues fn to run on the loop goroutine
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}
	select {
	case l.work <- fn:
	case <-l.done:
	}
}

// Call runs fn on the loop goroutine and waits for it to finish. It returns
// false if the loop stopped first.
func (l *Loop) Call(fn func()) bool {
	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// RequestFrame implements Scheduler
func (l *Loop) RequestFrame(fn FrameFunc) *Task {
	task := &Task{}
	l.mu.Lock()
	l.frames = append(l.frames, frameRequest{task: task, fn: fn})
	l.mu.Unlock()
	return task
}

// After implements Scheduler. The timer fires off-loop and posts fn back.
func (l *Loop) After(d time.Duration, fn func()) *Task {
	task := &Task{}
	timer := time.AfterFunc(d, func() {
		l.Post(func() {
			l.forget(task)
			if task.claim() {
				fn()
			}
		})
	})
	task.stop = func() {
		timer.Stop()
		l.forget(task)
	}

	l.mu.Lock()
	l.timers[task] = struct{}{}
	l.mu.Unlock()
	return task
}

func (l *Loop) forget(task *Task) {
	l.mu.Lock()
	delete(l.timers, task)
	l.mu.Unlock()
}

// PendingFrames returns the number of frame requests not yet delivered
func (l *Loop) PendingFrames() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, req := range l.frames {
		if req.task.Pending() {
			n++
		}
	}
	return n
}

// PendingTimers returns the number of delayed callbacks not yet run
func (l *Loop) PendingTimers() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) hasFrames() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames) > 0
}

// run is the main loop; every callback executes here
func (l *Loop) run() {
	defer close(l.finished)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		var tick <-chan time.Time
		if l.hasFrames() {
			tick = ticker.C
		}

		select {
		case fn := <-l.work:
			l.safely(fn)
		case now := <-tick:
			l.runFrames(now)
		case <-l.done:
			return
		}
	}
}

// runFrames delivers the frames requested before this tick; frames
// requested while running wait for the next one
func (l *Loop) runFrames(now time.Time) {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	for _, req := range batch {
		if req.task.claim() {
			fn := req.fn
			l.safely(func() { fn(now) })
		}
	}
}

// safely runs fn and logs a panic instead of killing the loop
func (l *Loop) safely(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("scheduler task panicked",
				"error", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}
