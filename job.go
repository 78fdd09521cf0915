package kasync

// A Job[Out] is the public, typed, value-like handle wrapping the tail
// Executor of a pipeline (spec §3.1, §4.3). It is cheap to copy: the
// underlying Executor chain is shared, immutable, and built lazily —
// constructing a Job only builds Executors, no work runs until [Job.Exec]
// or [ExecWith].
//
// Because Go methods cannot introduce additional type parameters beyond
// their receiver's, combinators that change the pipeline's Out type (Then,
// its error/async/job-returning variants, Each, SerialEach) are free
// functions taking a Job[In] and returning a Job[Out], rather than methods
// — the standard idiom the Go generics ecosystem uses for this exact
// limitation. Combinators that preserve Out (OnError, AddToContext, Guard,
// Named, Exec) remain ordinary methods.
type Job[Out any] struct {
	tail *Executor
}

func (j Job[Out]) rawTail() *Executor { return j.tail }
func (j Job[Out]) rawLoop() *Loop     { return j.tail.loop }

// Loop returns the Loop this Job will run against.
func (j Job[Out]) Loop() *Loop { return j.tail.loop }

func softAssert[T any](v any) T {
	t, _ := v.(T)
	return t
}

// Start builds a Job[Out] whose head continuation consumes an In, produced
// by either [Job.Exec] (which feeds the zero value of In) or [ExecWith]
// (which feeds the supplied value). This is the free-function form of
// spec §6's start(continuation) for the Sync continuation shape.
func Start[In, Out any](loop *Loop, f func(In) Out) Job[Out] {
	head := newHeadExecutor(loop, kindSync, flagGoodOnly)
	head.syncFn = func(in any) any { return f(softAssert[In](in)) }
	return Job[Out]{tail: head}
}

// StartAsync is the Async-shape counterpart of Start (spec §3.2, shape 1).
func StartAsync[In, Out any](loop *Loop, f func(In, Future[Out])) Job[Out] {
	head := newHeadExecutor(loop, kindAsync, flagGoodOnly)
	head.asyncFn = func(in any, out *rawFuture) { f(softAssert[In](in), Future[Out]{raw: out}) }
	return Job[Out]{tail: head}
}

// Value returns a Job that finishes immediately with v (spec §4.4).
func Value[Out any](loop *Loop, v Out) Job[Out] {
	return Start[Unit, Out](loop, func(Unit) Out { return v })
}

// Null returns a Job that finishes immediately with the unit value (spec
// §4.4).
func Null(loop *Loop) Job[Unit] {
	return Value(loop, Unit{})
}

// ErrorJob returns a Job that finishes immediately with error e (spec
// §4.4).
func ErrorJob[Out any](loop *Loop, e Error) Job[Out] {
	head := newHeadExecutor(loop, kindAsync, flagGoodOnly)
	head.asyncFn = func(_ any, out *rawFuture) { out.setError(e) }
	return Job[Out]{tail: head}
}

// Then appends a Sync continuation (spec §3.2 shape 3): f(In) -> Out, run
// only while no upstream error is live.
func Then[In, Out any](j Job[In], f func(In) Out) Job[Out] {
	n := j.tail.child(kindSync, flagGoodOnly)
	n.syncFn = func(in any) any { return f(softAssert[In](in)) }
	return Job[Out]{tail: n}
}

// ThenErr appends a Sync-with-error continuation (spec §3.2 shape 4),
// always invoked, receiving the zero Error when there is no upstream error.
func ThenErr[In, Out any](j Job[In], f func(Error, In) Out) Job[Out] {
	n := j.tail.child(kindSyncErr, flagAlways)
	n.syncErrFn = func(e Error, in any) any { return f(e, softAssert[In](in)) }
	return Job[Out]{tail: n}
}

// ThenAsync appends an Async continuation (spec §3.2 shape 1): f writes to
// the provided output Future, possibly later.
func ThenAsync[In, Out any](j Job[In], f func(In, Future[Out])) Job[Out] {
	n := j.tail.child(kindAsync, flagGoodOnly)
	n.asyncFn = func(in any, out *rawFuture) { f(softAssert[In](in), Future[Out]{raw: out}) }
	return Job[Out]{tail: n}
}

// ThenAsyncErr appends an Async-with-error continuation (spec §3.2 shape
// 2), always invoked.
func ThenAsyncErr[In, Out any](j Job[In], f func(Error, In, Future[Out])) Job[Out] {
	n := j.tail.child(kindAsyncErr, flagAlways)
	n.asyncErrFn = func(e Error, in any, out *rawFuture) { f(e, softAssert[In](in), Future[Out]{raw: out}) }
	return Job[Out]{tail: n}
}

// ThenJob appends a Job-returning continuation (spec §3.2 shape 5): f
// produces a nested Job, which the engine runs, reparenting its result onto
// this step's Future (spec §4.2.1).
func ThenJob[In, Out any](j Job[In], f func(In) Job[Out]) Job[Out] {
	n := j.tail.child(kindJob, flagGoodOnly)
	n.jobFn = func(in any) rawJob { return f(softAssert[In](in)) }
	return Job[Out]{tail: n}
}

// ThenJobErr appends a Job-returning-with-error continuation (spec §3.2
// shape 6), always invoked.
func ThenJobErr[In, Out any](j Job[In], f func(Error, In) Job[Out]) Job[Out] {
	n := j.tail.child(kindJobErr, flagAlways)
	n.jobErrFn = func(e Error, in any) rawJob { return f(e, softAssert[In](in)) }
	return Job[Out]{tail: n}
}

// ThenJoin implements spec §4.3's then(other_job): it prepends j's Executor
// chain in front of other's head, returning a new Job handle on the
// composed chain without mutating either input (other's chain, from its
// tail back to its root, is cloned, and the clone's root is reparented onto
// j.tail — the same clone-don't-mutate approach [ExecWith] uses, since
// other's original chain may be shared by other Jobs).
func ThenJoin[A, B any](j Job[A], other Job[B]) Job[B] {
	return Job[B]{tail: rebaseChain(other.tail, j.tail)}
}

// rebaseChain returns a clone of the chain from tail back to its root, with
// the clone of that root's predecessor replaced by newRoot.
func rebaseChain(tail *Executor, newRoot *Executor) *Executor {
	if tail == nil {
		return newRoot
	}
	clone := *tail
	clone.predecessor = rebaseChain(tail.predecessor, newRoot)
	return &clone
}

// OnError appends a step whose execution flag is ErrorOnly (spec §4.2.2):
// it runs only when an upstream error is live, calls handler with that
// error, and forwards the predecessor's value, recovering the chain for any
// GoodOnly steps that follow (spec §7).
func (j Job[Out]) OnError(handler func(Error)) Job[Out] {
	n := j.tail.child(kindOnError, flagErrorOnly)
	n.onErrorFn = handler
	return Job[Out]{tail: n}
}

// AddToContext pushes v onto the tail Executor's context list. Its only
// role is to extend v's lifetime for as long as the pipeline runs; the
// engine never reads it back (spec §3.1, §4.3).
func (j Job[Out]) AddToContext(v any) Job[Out] {
	return Job[Out]{tail: j.tail.withContext(v)}
}

// Guard appends a weak reference to g on the tail Executor. Each run merges
// the guards of the whole chain before dispatching any step, so once g is
// garbage collected, every step of the run dispatched after that point
// short-circuits, including steps chained before this one (spec §5,
// "Cancellation").
func (j Job[Out]) Guard(g *Guard) Job[Out] {
	return Job[Out]{tail: j.tail.withGuard(g)}
}

// Named sets the tail Executor's display name, used only by a [Tracer].
func (j Job[Out]) Named(name string) Job[Out] {
	return Job[Out]{tail: j.tail.withName(name)}
}

// Exec starts a run of j (spec §4.3). The head continuation receives the
// zero value of its declared input type.
func (j Job[Out]) Exec() Future[Out] {
	ctx := &ExecutionContext{}
	execution := j.tail.exec(ctx)
	return Future[Out]{raw: execution.future}
}

// ExecWith starts a run of j, injecting a synthetic head Executor that
// produces initial as its value and feeds it to j's original head (spec
// §4.3). A fresh synthetic head is constructed per call rather than spliced
// into the shared chain, so concurrent ExecWith calls on the same Job are
// safe (spec §9, "faithful-port hazards").
func ExecWith[In, Out any](j Job[Out], initial In) Future[Out] {
	syntheticHead := newHeadExecutor(j.tail.loop, kindSync, flagGoodOnly)
	syntheticHead.syncFn = func(any) any { return initial }

	tail := rebaseChain(j.tail, syntheticHead)

	ctx := &ExecutionContext{}
	execution := tail.exec(ctx)
	return Future[Out]{raw: execution.future}
}
