package kasync

// An Execution is the per-[Job.Exec] instantiation of one Executor (spec
// §3.1, §4.2). One Execution is created per Executor per run; the chain of
// Executions mirrors the chain of Executors and, by holding ordinary Go
// pointers to its Executor and predecessor Execution, keeps that part of
// the pipeline reachable for as long as the run is in flight — even if
// every user-visible Job and Future handle has been dropped (spec §3.3,
// §5 "Lifetime rules"). No explicit teardown bookkeeping is needed: once
// the tail Future finishes and nothing keeps scheduling callbacks that
// reference this chain, the garbage collector reclaims it, which is the Go
// rendition of the design note in spec §9 ("Execution keep-alive without a
// global registry").
type Execution struct {
	executor    *Executor
	predecessor *Execution
	future      *rawFuture
	tracer      Tracer
	traceID     int
}

// exec instantiates e and its predecessors, wiring each step's dispatch to
// run as soon as its predecessor's Future finishes (spec §4.2, steps 1-5).
func (e *Executor) exec(ctx *ExecutionContext) *Execution {
	execution := &Execution{executor: e}

	ctx.addGuards(e.guards)

	var prevExecution *Execution
	if e.predecessor != nil {
		prevExecution = e.predecessor.exec(ctx)
		execution.predecessor = prevExecution
	}

	execution.future = newRawFuture(e.loop)

	if tracer := e.loop.tracer; tracer != nil {
		execution.tracer = tracer
		execution.traceID = tracer.Start(e.name)
		execution.future.watch(func() { tracer.End(execution.traceID) }, nil)
	}

	if prevExecution == nil {
		execution.runExecution(nil, ctx)
		return execution
	}

	if prevExecution.future.isFinished() {
		execution.runExecution(prevExecution.future, ctx)
	} else {
		prevExecution.future.watch(func() {
			execution.runExecution(prevExecution.future, ctx)
		}, nil)
	}

	return execution
}

// runExecution applies the gating protocol (spec §4.2): guard short-circuit,
// then GoodOnly/ErrorOnly skip-and-forward, then dispatch.
func (execution *Execution) runExecution(prev *rawFuture, ctx *ExecutionContext) {
	if ctx.broken() {
		execution.future.setFinished()
		return
	}

	var errs []Error
	if prev != nil {
		errs = prev.getErrors()
	}
	hasError := len(errs) != 0

	switch execution.executor.flag {
	case flagGoodOnly:
		if hasError {
			execution.future.setError(errs[0])
			return
		}
	case flagErrorOnly:
		if !hasError {
			var v any
			if prev != nil {
				v = prev.getValue()
			}
			execution.future.setResult(v)
			return
		}
	}

	execution.run(errs, prev)
}

// run dispatches on the continuation variant (spec §4.2 "run(exec)").
func (execution *Execution) run(errs []Error, prev *rawFuture) {
	e := execution.executor
	out := execution.future

	var in any
	if prev != nil {
		in = prev.getValue()
	}

	switch e.kind {
	case kindAsync:
		if caught, panicked := tryRun(func() { e.asyncFn(in, out) }); panicked {
			out.setError(caught)
		}

	case kindAsyncErr:
		errVal := firstErrorOrZero(errs)
		if caught, panicked := tryRun(func() { e.asyncErrFn(errVal, in, out) }); panicked {
			out.setError(caught)
		}

	case kindSync:
		var result any
		caught, panicked := tryRun(func() { result = e.syncFn(in) })
		if panicked {
			out.setError(caught)
			return
		}
		out.setResult(result)

	case kindSyncErr:
		errVal := firstErrorOrZero(errs)
		var result any
		caught, panicked := tryRun(func() { result = e.syncErrFn(errVal, in) })
		if panicked {
			out.setError(caught)
			return
		}
		out.setResult(result)

	case kindJob, kindJobErr:
		var nested rawJob
		caught, panicked := tryRun(func() {
			if e.kind == kindJob {
				nested = e.jobFn(in)
			} else {
				nested = e.jobErrFn(firstErrorOrZero(errs), in)
			}
		})
		if panicked {
			out.setError(caught)
			return
		}
		innerCtx := &ExecutionContext{}
		innerExecution := nested.rawTail().exec(innerCtx)
		innerExecution.future.watch(func() { out.completeFrom(innerExecution.future) }, nil)

	case kindOnError:
		errVal := firstErrorOrZero(errs)
		caught, panicked := tryRun(func() { e.onErrorFn(errVal) })
		if panicked {
			out.setError(caught)
			return
		}
		var v any
		if prev != nil {
			v = prev.getValue()
		}
		out.setResult(v)
	}
}

// completeFrom finishes f with the same value-or-errors as other, which
// must already be finished. Used to thread a nested Job's completion onto
// the outer step's Future (spec §4.2.1).
func (f *rawFuture) completeFrom(other *rawFuture) {
	if other.hasError() {
		f.mu.Lock()
		f.errs = append(f.errs, other.getErrors()...)
		f.mu.Unlock()
		f.setFinished()
		return
	}
	f.setResult(other.getValue())
}
