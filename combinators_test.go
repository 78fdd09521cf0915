package kasync

import (
	"testing"
	"testing/synctest"
	"time"
)

func TestWaitFinishesAtDeadline(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		loop := &Loop{}

		f := Wait(loop, 5*time.Second).Exec()

		if f.IsFinished() {
			t.Fatal("Wait should not finish before its deadline")
		}

		loop.Run()

		if !f.IsFinished() {
			t.Fatal("Wait should finish once the clock reaches its deadline")
		}
	})
}

func TestWaitForCompletionAggregatesErrors(t *testing.T) {
	loop := &Loop{}

	a := Value(loop, 1).Exec()
	b := ErrorJob[int](loop, Error{Code: 5, Message: "bad"}).Exec()
	c := Value(loop, 3).Exec()

	job := WaitForCompletion(loop, []Future[int]{a, b, c})
	f := job.Exec()
	loop.Run()

	if !f.HasError() {
		t.Fatal("expected the aggregated error from b")
	}
	if f.ErrorCode() != 5 {
		t.Errorf("got code %d, want 5", f.ErrorCode())
	}
}

func TestWaitForCompletionEmpty(t *testing.T) {
	loop := &Loop{}

	f := WaitForCompletion[int](loop, nil).Exec()
	loop.Run()

	if !f.IsFinished() || f.HasError() {
		t.Fatal("empty input should finish cleanly")
	}
}
