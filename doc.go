// Package kasync is a library for composing asynchronous operations into
// pipelines.
//
// A [Job] describes a sequence of steps — synchronous functions, callbacks
// that complete later, or nested pipelines — without running any of them.
// Calling [Job.Exec] instantiates the pipeline against a [Loop] and returns
// a [Future] for its eventual result. Nothing happens concurrently in the
// Go sense: a Loop is a single-threaded, cooperative event loop, and a step
// is free to suspend (via the Async continuation shape) without blocking a
// goroutine, the same way a callback-based API suspends without blocking a
// thread.
//
// # Building a pipeline
//
// Start begins a pipeline with a synchronous step. Then appends another
// synchronous step, changing the value type along the way:
//
//	loop := &kasync.Loop{}
//	job := kasync.Then(
//		kasync.Start(loop, func(kasync.Unit) int { return 41 }),
//		func(n int) int { return n + 1 },
//	)
//	future := job.Exec()
//	loop.Run()
//	fmt.Println(future.Value()) // 42
//
// Because Go methods cannot add type parameters beyond their receiver's,
// every combinator that changes a pipeline's result type — Then, ThenErr,
// ThenAsync, ThenAsyncErr, ThenJob, ThenJobErr, Each, SerialEach — is a free
// function taking a Job and returning a new one, rather than a method.
// Combinators that keep the result type fixed (OnError, AddToContext,
// Guard, Named, Exec) remain methods on Job.
//
// # Use Case #1: Suspending Without Blocking
//
// ThenAsync appends a step that receives a [Future] to fill in later,
// instead of returning a value immediately:
//
//	job := kasync.ThenAsync(kasync.Null(loop), func(_ kasync.Unit, out kasync.Future[string]) {
//		go func() {
//			result := doSomeBlockingWork()
//			out.SetResult(result) // any goroutine may call this
//		}()
//	})
//
// SetResult, SetError and SetProgress may be called from any goroutine;
// they only ever enqueue work onto the owning Loop, never run a watcher
// callback inline.
//
// # Use Case #2: Error Propagation Without Manual Checks
//
// A step built with Then only runs while no earlier step has failed; one
// built with ThenErr always runs and receives the live error, if any. This
// mirrors the common "only handle the happy path, branch once at the end"
// shape without an if err != nil after every step:
//
//	job := kasync.ThenErr(risky, func(err kasync.Error, v int) int {
//		if !err.IsZero() {
//			return fallback
//		}
//		return v
//	})
//
// [Job.OnError] is sugar for a step that only runs when an error is live,
// observes it, and then lets later GoodOnly steps resume as if recovered.
//
// # Use Case #3: Fanning Out Over a Collection
//
// [Each] and [SerialEach] run one nested Job per element of a slice,
// concurrently or in order, collecting results or errors per element
// without aborting the rest of the collection on a single failure.
//
// # Use Case #4: Cooperative Cancellation
//
// A [Guard] is a sentinel with no explicit Cancel method: once nothing
// else keeps it alive and the garbage collector reclaims it, every step of
// a run of a Job carrying it — whether chained before or after the Guard
// call — short-circuits the next time the pipeline is driven. This mirrors a weak back-reference rather
// than an explicit cancellation token.
package kasync
