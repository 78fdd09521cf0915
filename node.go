package kasync

import "weak"

// execFlag selects when an Executor's continuation runs, relative to
// whether the predecessor's Future carries an error (spec §3.2).
type execFlag int

const (
	flagGoodOnly  execFlag = iota // runs only if no upstream error is live
	flagErrorOnly                 // runs only if an upstream error is live
	flagAlways                    // runs regardless
)

// continuationKind tags which of the six continuation shapes (spec §3.2) an
// Executor holds, plus the built-in onError shape (spec §4.2.2). Dispatch on
// this tag replaces virtual calls (spec §9): there is exactly one kind of
// polymorphism here and it's a closed, six-plus-one-way switch.
type continuationKind int

const (
	kindAsync continuationKind = iota
	kindAsyncErr
	kindSync
	kindSyncErr
	kindJob
	kindJobErr
	kindOnError
)

// rawJob is the type-erased view of a Job[T] that node.go/execution.go need:
// just its tail Executor and owning Loop. Job[T] implements this so a
// job-returning continuation can hand back a nested pipeline without
// node.go knowing Job's type parameter.
type rawJob interface {
	rawTail() *Executor
	rawLoop() *Loop
}

// An Executor is one node of the immutable, lazily-built pipeline (spec
// §3.1, §4.2). Each Executor pairs exactly one continuation with a
// predecessor link and an execution flag. Constructing a chain of Executors
// (via Job's combinators) does no work; running it is [Job.Exec]'s job.
//
// The predecessor link is an ordinary Go pointer, not a reference-counted
// handle: multiple Jobs may share a predecessor chain (spec §9, "shared,
// acyclic pipeline graph") and the garbage collector, not manual
// bookkeeping, decides when a chain with no more references goes away.
type Executor struct {
	predecessor *Executor
	kind        continuationKind
	flag        execFlag
	name        string
	loop        *Loop

	context []any
	guards  []weak.Pointer[Guard]

	asyncFn    func(in any, out *rawFuture)
	asyncErrFn func(e Error, in any, out *rawFuture)
	syncFn     func(in any) any
	syncErrFn  func(e Error, in any) any
	jobFn      func(in any) rawJob
	jobErrFn   func(e Error, in any) rawJob
	onErrorFn  func(e Error)
}

func newHeadExecutor(loop *Loop, kind continuationKind, flag execFlag) *Executor {
	return &Executor{loop: loop, kind: kind, flag: flag}
}

func (e *Executor) child(kind continuationKind, flag execFlag) *Executor {
	return &Executor{predecessor: e, loop: e.loop, kind: kind, flag: flag}
}

// withGuard returns a shallow copy of e with an extra weakly-held guard.
// Guards accumulate on the tail Executor as [Job.Guard] is called; they are
// merged into the run's ExecutionContext while walking the chain in
// [Executor.exec].
func (e *Executor) withGuard(g *Guard) *Executor {
	n := *e
	n.guards = append(append([]weak.Pointer[Guard](nil), e.guards...), weak.Make(g))
	return &n
}

func (e *Executor) withContext(v any) *Executor {
	n := *e
	n.context = append(append([]any(nil), e.context...), v)
	return &n
}

func (e *Executor) withName(name string) *Executor {
	n := *e
	n.name = name
	return &n
}
