package kasync

import "sync"

// Unit is KAsync's void/unit type: the Out of a Job that produces no
// meaningful value. A Future[Unit] carries no payload — only completion,
// errors and progress.
type Unit struct{}

// rawFuture is the type-erased engine state behind every Future[T]. The
// execution engine (node.go, execution.go) only ever touches rawFuture —
// type information is restored at the Job/Future public boundary. This is
// the usual type-erased-core-with-a-generic-facade split: storing closures
// and state as `any` in the engine, and letting callers supply the static
// types only at the edges they touch.
//
// Unlike the original's manual-refcounting rendition, rawFuture carries no
// back-pointer to its owning Execution: the Execution already holds an
// ordinary strong pointer to its Executor and predecessor Execution, and a
// scheduled watcher closure (see [Executor.exec]) keeps that chain
// reachable for as long as the run is in flight. The garbage collector
// reclaims the chain once nothing schedules against it anymore, which is
// the Go rendition of the teardown-on-watcher-fire the spec describes for
// languages without a collector (spec §9, "Execution keep-alive without a
// global registry").
type rawFuture struct {
	mu       sync.Mutex
	loop     *Loop
	finished bool
	value    any
	errs     []Error
	watchers []*watcherEntry
}

func newRawFuture(loop *Loop) *rawFuture {
	return &rawFuture{loop: loop}
}

// setValue records v without finishing. Only valid while pending.
func (f *rawFuture) setValue(v any) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		panic("kasync: Future.SetValue called after it finished")
	}
	f.value = v
	f.mu.Unlock()
}

// setFinished transitions f to finished, exactly once (spec §3.3), notifying
// every live watcher's ready callback on f's Loop.
func (f *rawFuture) setFinished() {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return
	}
	f.finished = true
	watchers := f.watchers
	f.watchers = nil
	f.mu.Unlock()

	for _, w := range watchers {
		w := w
		f.loop.schedule(func() {
			if !w.fired {
				w.fired = true
				w.ready()
			}
		})
	}
}

func (f *rawFuture) setResult(v any) {
	f.setValue(v)
	f.setFinished()
}

func (f *rawFuture) setError(e Error) {
	f.addError(e)
	f.setFinished()
}

func (f *rawFuture) addError(e Error) {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		panic("kasync: Future.AddError called after it finished")
	}
	f.errs = append(f.errs, e)
	f.mu.Unlock()
}

func (f *rawFuture) setProgress(fraction float64, done, total int) {
	f.mu.Lock()
	watchers := make([]*watcherEntry, len(f.watchers))
	copy(watchers, f.watchers)
	f.mu.Unlock()

	for _, w := range watchers {
		w := w
		if w.progress != nil {
			f.loop.schedule(func() { w.progress(fraction, done, total) })
		}
	}
}

func (f *rawFuture) isFinished() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

func (f *rawFuture) getValue() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *rawFuture) hasError() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs) != 0
}

func (f *rawFuture) getErrors() []Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Error(nil), f.errs...)
}

// watch registers a one-shot ready callback and an optional progress
// callback. If f is already finished, ready is scheduled immediately (on
// the next loop turn) rather than invoked inline, so callers never observe
// reentrant delivery.
func (f *rawFuture) watch(ready func(), progress func(fraction float64, done, total int)) *watcherEntry {
	entry := &watcherEntry{ready: ready, progress: progress}

	f.mu.Lock()
	finished := f.finished
	if !finished {
		f.watchers = append(f.watchers, entry)
	}
	f.mu.Unlock()

	if finished {
		f.loop.schedule(func() {
			if !entry.fired {
				entry.fired = true
				entry.ready()
			}
		})
	}

	return entry
}

func (f *rawFuture) removeWatcher(entry *watcherEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.watchers {
		if w == entry {
			f.watchers = append(f.watchers[:i], f.watchers[i+1:]...)
			return
		}
	}
}

// A Future[T] is the handle to an eventual result of type T (spec §4.1).
// It carries one of: pending, a value of T, or an ordered list of Errors.
// A Future holds no reference to the Execution that produces it (see
// rawFuture), and neither does a FutureWatcher: holding either keeps the
// result state reachable, not the Execution. A running Execution stays
// reachable through the callbacks it has scheduled, with or without these
// handles.
type Future[T any] struct {
	raw *rawFuture
}

func newFuture[T any](loop *Loop) Future[T] {
	return Future[T]{raw: newRawFuture(loop)}
}

// SetValue records v without finishing f. Only valid while f is pending.
func (f Future[T]) SetValue(v T) { f.raw.setValue(v) }

// SetFinished transitions f to finished. A no-op if f is already finished.
func (f Future[T]) SetFinished() { f.raw.setFinished() }

// SetResult is SetValue followed by SetFinished, atomically from the
// caller's point of view.
func (f Future[T]) SetResult(v T) { f.raw.setResult(v) }

// SetError appends e to f's error list and finishes f.
func (f Future[T]) SetError(e Error) { f.raw.setError(e) }

// AddError appends e to f's error list without finishing f. Used to
// aggregate per-element failures, e.g. in [Each].
func (f Future[T]) AddError(e Error) { f.raw.addError(e) }

// SetProgress reports a fractional progress notification to watchers.
// Progress is advisory and not required to be monotonic (spec §9).
func (f Future[T]) SetProgress(fraction float64) { f.raw.setProgress(fraction, 0, 0) }

// SetProgressCount reports a done-of-total progress notification to
// watchers.
func (f Future[T]) SetProgressCount(done, total int) { f.raw.setProgress(0, done, total) }

// IsFinished reports whether f has transitioned to finished.
func (f Future[T]) IsFinished() bool { return f.raw.isFinished() }

// Value returns f's value. The zero value of T if f never received one
// (e.g. it finished with only an error).
func (f Future[T]) Value() T {
	v, _ := f.raw.getValue().(T)
	return v
}

// HasError reports whether f carries at least one Error.
func (f Future[T]) HasError() bool { return f.raw.hasError() }

// ErrorCode returns the code of the first Error on f, or ErrCodeNone.
func (f Future[T]) ErrorCode() int {
	errs := f.raw.getErrors()
	if len(errs) == 0 {
		return ErrCodeNone
	}
	return errs[0].Code
}

// ErrorMessage returns the message of the first Error on f, or "".
func (f Future[T]) ErrorMessage() string {
	errs := f.raw.getErrors()
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}

// Errors returns every Error recorded on f, in the order they were added.
func (f Future[T]) Errors() []Error { return f.raw.getErrors() }

// Error formats every Error recorded on f into a single diagnostic string,
// suitable for logging a Future that failed through more than one
// aggregated error (e.g. one per failed element of an [Each]). Returns ""
// if f carries no error.
func (f Future[T]) Error() string { return joinErrors(f.raw.getErrors()) }

// Watch registers ready and progress callbacks on f and returns the
// FutureWatcher handle. ready may be nil. progress may be nil.
func (f Future[T]) Watch(ready func(Future[T]), progress func(fraction float64, done, total int)) *FutureWatcher[T] {
	readyFn := func() {}
	if ready != nil {
		readyFn = func() { ready(f) }
	}
	entry := f.raw.watch(readyFn, progress)
	return &FutureWatcher[T]{raw: f.raw, entry: entry}
}

// Wait blocks the calling goroutine by driving f's Loop until f finishes,
// then returns f's value. Not re-entrancy safe across unrelated pipelines
// sharing the same Loop (spec §4.1) — intended for top-level test or CLI
// code, not for use inside a continuation.
func (f Future[T]) Wait() T {
	for !f.IsFinished() {
		f.raw.loop.Run()
		if !f.IsFinished() {
			// Nothing ready and no timer pending: nothing will ever finish f.
			break
		}
	}
	return f.Value()
}
