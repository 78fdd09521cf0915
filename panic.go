package kasync

import (
	"fmt"
	"runtime/debug"
)

// tryRun invokes f, catching a panic and turning it into an Error of code
// ErrCodePanic instead of letting it cross the engine boundary and crash the
// ambient Loop. Its Message includes the stack trace captured at the panic
// site, following a stack-dump-in-the-message idiom.
//
// A continuation that panics therefore behaves, from downstream steps'
// point of view, exactly like one that called out.SetError: the step's
// Future finishes with the captured Error and gating proceeds normally
// (spec §7's "Always continuation ... recovers" rule still applies to
// whatever runs after it).
func tryRun(f func()) (caught Error, panicked bool) {
	defer func() {
		if v := recover(); v != nil {
			panicked = true
			caught = Error{
				Code:    ErrCodePanic,
				Message: fmt.Sprintf("panic: %v\n\n%s", v, debug.Stack()),
			}
		}
	}()
	f()
	return Error{}, false
}
