package kasync

// watcherEntry is the type-erased, one-shot subscription record stored on a
// rawFuture. ready fires exactly once, when the Future transitions to
// finished, and is then marked fired so a watcher can never fire twice. progress
// may fire any number of times before that.
type watcherEntry struct {
	ready    func()
	progress func(fraction float64, done, total int)
	fired    bool
}

// A FutureWatcher subscribes to one Future[T], receiving a one-shot "ready"
// notification when it finishes, plus any number of "progress"
// notifications before that. Both fire on the [Loop] that is current when
// the Future transitions or reports progress (spec §4.1).
type FutureWatcher[T any] struct {
	raw   *rawFuture
	entry *watcherEntry
}

// Cancel detaches w from its Future. Safe to call more than once, and safe
// to call after w has already fired.
func (w *FutureWatcher[T]) Cancel() {
	if w == nil || w.entry == nil {
		return
	}
	w.raw.removeWatcher(w.entry)
	w.entry = nil
}
