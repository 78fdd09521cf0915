package kasync

import "sync"

// An EachOption configures [ForEach] and [Each] (spec §4.4, "each");
// [SerialForEach] and [SerialEach] take none. WithConcurrency is, so far,
// the only knob.
type EachOption func(*eachConfig)

type eachConfig struct {
	concurrency int // 0 means unbounded
}

// WithConcurrency caps how many element jobs ForEach runs in flight at
// once, the same weighted-acquire idea a semaphore applies to limiting
// concurrent goroutines, applied here to limiting concurrent in-flight
// Executions instead.
func WithConcurrency(n int) EachOption {
	return func(c *eachConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

func resolveEachOptions(opts []EachOption) eachConfig {
	var c eachConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// limiter bounds how many callbacks run "at once" in the cooperative,
// single-threaded sense: at most n may be started before an earlier one
// reports done. It follows the usual acquire/release shape of a weighted
// semaphore, but instead of blocking a goroutine on acquire, it queues the
// continuation and resumes it from release, once a slot frees up on the
// Loop.
type limiter struct {
	max     int
	inUse   int
	pending []func()
}

func newLimiter(max int) *limiter {
	return &limiter{max: max}
}

func (l *limiter) run(f func()) {
	if l.max <= 0 || l.inUse < l.max {
		l.inUse++
		f()
		return
	}
	l.pending = append(l.pending, f)
}

func (l *limiter) release() {
	if l.max <= 0 {
		return
	}
	l.inUse--
	if len(l.pending) == 0 {
		return
	}
	next := l.pending[0]
	l.pending = l.pending[1:]
	l.inUse++
	next()
}

// ForEach runs inner once per element of elems, fanning out by re-executing
// inner's shared Executor chain via [ExecWith] for each element, and
// collects the results in element order (spec §4.4, "each(sub_job)"). A
// per-element error is recorded on the overall Future (via AddError) rather
// than aborting the remaining elements; the overall Future finishes only
// once every element has.
func ForEach[Elem, Out any](loop *Loop, elems []Elem, inner Job[Out], opts ...EachOption) Job[[]Out] {
	cfg := resolveEachOptions(opts)
	return StartAsync(loop, func(_ Unit, out Future[[]Out]) {
		runForEach(elems, inner, cfg, out)
	})
}

func runForEach[Elem, Out any](elems []Elem, inner Job[Out], cfg eachConfig, out Future[[]Out]) {
	n := len(elems)
	if n == 0 {
		out.SetResult(nil)
		return
	}

	results := make([]Out, n)
	var mu sync.Mutex
	remaining := n
	lim := newLimiter(cfg.concurrency)

	for i, elem := range elems {
		i, elem := i, elem
		lim.run(func() {
			step := ExecWith(inner, elem)
			step.Watch(func(stepResult Future[Out]) {
				mu.Lock()
				if stepResult.HasError() {
					out.AddError(Error{Code: stepResult.ErrorCode(), Message: stepResult.ErrorMessage()})
				} else {
					results[i] = stepResult.Value()
				}
				remaining--
				done := remaining == 0
				mu.Unlock()

				lim.release()

				if done {
					out.SetResult(results)
				}
			}, nil)
		})
	}
}

// SerialForEach is ForEach's sequential sibling: it runs inner against one
// element at a time, in order, only starting the next element once the
// previous one's Future has finished (spec §4.4, "serial_each"). Like
// ForEach, a per-element error is recorded but does not abort the loop.
func SerialForEach[Elem, Out any](loop *Loop, elems []Elem, inner Job[Out]) Job[[]Out] {
	return StartAsync(loop, func(_ Unit, out Future[[]Out]) {
		results := make([]Out, len(elems))
		runSerialForEach(elems, inner, results, 0, out)
	})
}

func runSerialForEach[Elem, Out any](elems []Elem, inner Job[Out], results []Out, idx int, out Future[[]Out]) {
	if idx >= len(elems) {
		out.SetResult(results)
		return
	}
	step := ExecWith(inner, elems[idx])
	step.Watch(func(stepResult Future[Out]) {
		if stepResult.HasError() {
			out.AddError(Error{Code: stepResult.ErrorCode(), Message: stepResult.ErrorMessage()})
		} else {
			results[idx] = stepResult.Value()
		}
		runSerialForEach(elems, inner, results, idx+1, out)
	}, nil)
}

// Each appends a step that fans the predecessor's slice value out across f,
// one call per element, run concurrently up to opts' concurrency cap (spec
// §4.4, "each(continuation)"). f is itself a Job-returning continuation, so
// a per-element step can suspend, run asynchronously, or be built from any
// other combinator in this package — it is not limited to a plain
// synchronous mapper.
func Each[Elem, Out any](j Job[[]Elem], f func(Elem) Job[Out], opts ...EachOption) Job[[]Out] {
	loop := j.Loop()
	inner := jobHead(loop, f)
	return ThenJob(j, func(elems []Elem) Job[[]Out] {
		return ForEach(loop, elems, inner, opts...)
	})
}

// SerialEach is Each's sequential sibling (spec §4.4, "serial_each").
func SerialEach[Elem, Out any](j Job[[]Elem], f func(Elem) Job[Out]) Job[[]Out] {
	loop := j.Loop()
	inner := jobHead(loop, f)
	return ThenJob(j, func(elems []Elem) Job[[]Out] {
		return SerialForEach(loop, elems, inner)
	})
}

// jobHead builds a head Job whose continuation is itself job-returning,
// the head-Executor counterpart to [ThenJob] for when there is no
// predecessor Job to append to yet.
func jobHead[In, Out any](loop *Loop, f func(In) Job[Out]) Job[Out] {
	head := newHeadExecutor(loop, kindJob, flagGoodOnly)
	head.jobFn = func(in any) rawJob { return f(softAssert[In](in)) }
	return Job[Out]{tail: head}
}
