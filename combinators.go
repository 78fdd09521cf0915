package kasync

import (
	"sync"
	"time"
)

// Wait returns a Job that finishes with Unit once d has elapsed on loop's
// clock (spec §4.4, "wait"). Scheduling goes through Loop.scheduleAt, so it
// participates in the same deadline-ordered timer queue as every other
// delayed callback, rather than blocking a goroutine on time.Sleep.
func Wait(loop *Loop, d time.Duration) Job[Unit] {
	return StartAsync(loop, func(_ Unit, out Future[Unit]) {
		loop.scheduleAt(loop.clock().Add(d), func() {
			out.SetResult(Unit{})
		})
	})
}

// WaitForCompletion returns a Job that finishes with Unit once every Future
// in futures has finished, aggregating their errors (spec §4.4,
// "wait_for_completion"). Follows a countdown-to-zero idiom, the same shape
// as a sync.WaitGroup, except the "counter" is driven by the cooperative
// loop's watcher callbacks instead of blocking a goroutine.
func WaitForCompletion[T any](loop *Loop, futures []Future[T]) Job[Unit] {
	return StartAsync(loop, func(_ Unit, out Future[Unit]) {
		if len(futures) == 0 {
			out.SetResult(Unit{})
			return
		}

		var mu sync.Mutex
		remaining := len(futures)

		for _, fut := range futures {
			fut := fut
			fut.Watch(func(finished Future[T]) {
				mu.Lock()
				if finished.HasError() {
					for _, e := range finished.Errors() {
						out.AddError(e)
					}
				}
				remaining--
				done := remaining == 0
				mu.Unlock()

				if done {
					out.SetResult(Unit{})
				}
			}, nil)
		}
	})
}
