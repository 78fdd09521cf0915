package kasync

// ControlFlow is the value a do_while body returns to tell [DoWhile]
// whether to loop again (spec §4.4, "do_while").
type ControlFlow int

const (
	// Continue tells DoWhile to run body again.
	Continue ControlFlow = iota
	// Break tells DoWhile to finish cleanly.
	Break
)

// DoWhile repeatedly execs a fresh Job produced by body until body's result
// is Break or carries an error (spec §4.4). Only the ControlFlow form is
// implemented; KAsync's "stop on falsy value" form is not, since Go has no
// implicit truthiness and the spec itself prefers ControlFlow where the
// host language allows it.
func DoWhile(loop *Loop, body func() Job[ControlFlow]) Job[Unit] {
	return StartAsync(loop, func(_ Unit, out Future[Unit]) {
		runDoWhile(body, out)
	})
}

func runDoWhile(body func() Job[ControlFlow], out Future[Unit]) {
	step := body().Exec()
	step.Watch(func(stepResult Future[ControlFlow]) {
		if stepResult.HasError() {
			out.AddError(Error{Code: stepResult.ErrorCode(), Message: stepResult.ErrorMessage()})
			out.SetFinished()
			return
		}
		if stepResult.Value() == Break {
			out.SetResult(Unit{})
			return
		}
		runDoWhile(body, out)
	}, nil)
}
