package kasync

import (
	"sync"
	"time"
)

// A Loop is the ambient single-threaded cooperative event loop that KAsync
// defers all suspension to (spec §1, §5). It is a microtask queue (for
// dispatching watcher callbacks once their Future finishes) plus a
// deadline-ordered timer queue (for [Wait]).
//
// One can create as many Loops as they like; Futures, Executors and
// Executions created against one Loop must not be touched from another.
//
// The zero value of Loop is ready to use.
type Loop struct {
	mu      sync.Mutex
	ready   []func()
	timers  timerqueue
	seq     uint64
	running bool
	autorun func()
	tracer  Tracer

	now func() time.Time // overridable for tests
}

// Autorun sets up a function to call the Run method automatically whenever
// a microtask is enqueued or a timer is scheduled while the Loop is not
// running. One must
// pass a function that calls Run. The Loop never calls the autorun function
// twice at the same time, following a single-flight Run/Autorun pattern:
// scheduling work wakes the loop if it's idle, and never re-enters it while
// it's already draining.
func (l *Loop) Autorun(f func()) {
	l.autorun = f
}

// Run drains the microtask queue and fires any due timers, repeating until
// both are empty. Run must not be called twice at the same time.
func (l *Loop) Run() {
	l.mu.Lock()
	l.running = true

	for {
		if f := l.popReady(); f != nil {
			l.mu.Unlock()
			f()
			l.mu.Lock()
			continue
		}

		if t := l.dueTimer(); t != nil {
			l.mu.Unlock()
			t.fire()
			l.mu.Lock()
			continue
		}

		if next := l.timers.Peek(); next != nil {
			wait := next.deadline.Sub(l.clock())
			l.mu.Unlock()
			if wait > 0 {
				time.Sleep(wait)
			}
			l.mu.Lock()
			continue
		}

		break
	}

	l.running = false
	l.mu.Unlock()
}

func (l *Loop) popReady() func() {
	if len(l.ready) == 0 {
		return nil
	}
	f := l.ready[0]
	l.ready = l.ready[1:]
	if len(l.ready) == 0 {
		l.ready = nil
	}
	return f
}

func (l *Loop) dueTimer() *timer {
	t := l.timers.Peek()
	if t == nil {
		return nil
	}
	if l.clock().Before(t.deadline) {
		return nil
	}
	return l.timers.Pop()
}

func (l *Loop) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// schedule enqueues f to run on a future turn of the loop, preserving
// registration order among everything else scheduled this way (spec §5,
// "watcher callbacks run in registration order").
func (l *Loop) schedule(f func()) {
	var autorun func()

	l.mu.Lock()
	l.ready = append(l.ready, f)
	if !l.running && l.autorun != nil {
		autorun = l.autorun
	}
	l.mu.Unlock()

	if autorun != nil {
		autorun()
	}
}

// scheduleAt schedules f to run once the loop's clock reaches deadline, and
// returns a function that cancels it if it hasn't fired yet.
func (l *Loop) scheduleAt(deadline time.Time, f func()) (cancel func()) {
	l.mu.Lock()
	l.seq++
	t := &timer{deadline: deadline, seq: l.seq, fire: f}
	l.timers.Push(t)
	var autorun func()
	if !l.running && l.autorun != nil {
		autorun = l.autorun
	}
	l.mu.Unlock()

	if autorun != nil {
		autorun()
	}

	return func() { t.fire = func() {} }
}
