package kasync

import "weak"

// A Guard is an opaque cancellation sentinel.
//
// Attaching a Guard to a Job (via [Job.Guard]) adds it to the context of
// every run of that Job: the guards of the whole chain are merged before any
// step is dispatched, and every step checks, at dispatch time, whether all of
// them are still reachable. Once every strong reference to a Guard is
// dropped and it is garbage collected, every step of the run dispatched
// after that point (including steps chained before the Guard call)
// short-circuits: it skips its continuation and finishes its output Future
// cleanly, with no value and no error (spec §5, "Cancellation").
//
// A Guard owns nothing and does no bookkeeping of its own; it only exists to
// be pointed at weakly. Callers typically keep a Guard alive for as long as
// some owning object (a connection, a view, a request) is alive, and let it
// be collected when that object goes away.
type Guard struct {
	// Non-zero size and pointer-holding on purpose: zero-size allocations
	// all share one address that is never collected, and small pointer-free
	// allocations may share a memory block with unrelated objects; either
	// would keep a weak pointer to the Guard from ever reporting it gone.
	_ *byte
}

// NewGuard creates a new, live Guard.
func NewGuard() *Guard {
	return new(Guard)
}

// ExecutionContext is the per-run shared state gathered while walking an
// Executor chain: the merged guard list. It is created when entering
// [Job.Exec] and lives for the duration of that run (spec §3.1).
type ExecutionContext struct {
	guards []weak.Pointer[Guard]
}

func (ctx *ExecutionContext) addGuards(gs []weak.Pointer[Guard]) {
	ctx.guards = append(ctx.guards, gs...)
}

// broken reports whether any guard merged into ctx so far has been
// collected. The check-and-act here is atomic because the engine is
// single-threaded (spec §5).
func (ctx *ExecutionContext) broken() bool {
	for _, g := range ctx.guards {
		if g.Value() == nil {
			return true
		}
	}
	return false
}
