package kasync

import "testing"

func TestFutureSetResult(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)

	if f.IsFinished() {
		t.Fatal("fresh Future should not be finished")
	}

	f.SetResult(42)
	loop.Run()

	if !f.IsFinished() {
		t.Fatal("Future should be finished after SetResult")
	}
	if got := f.Value(); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
}

func TestFutureSetErrorThenWatch(t *testing.T) {
	loop := &Loop{}
	f := newFuture[string](loop)

	f.SetError(Error{Code: 7, Message: "boom"})

	var got Future[string]
	f.Watch(func(done Future[string]) { got = done }, nil)
	loop.Run()

	if !got.HasError() {
		t.Fatal("watcher should observe the error")
	}
	if got.ErrorCode() != 7 || got.ErrorMessage() != "boom" {
		t.Errorf("got code %d message %q", got.ErrorCode(), got.ErrorMessage())
	}
}

func TestFutureErrorAggregatesMultipleErrors(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)

	f.AddError(Error{Message: "first"})
	f.AddError(Error{Message: "second"})
	f.SetFinished()

	want := "multiple errors:\n(1/2) first\n(2/2) second"
	if got := f.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFutureErrorEmptyWhenNoError(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)
	f.SetResult(1)

	if got := f.Error(); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestFutureWatchAfterFinishSchedulesNextTurn(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)
	f.SetResult(1)

	called := false
	f.Watch(func(Future[int]) { called = true }, nil)

	if called {
		t.Fatal("ready callback must not fire inline, even for an already-finished Future")
	}

	loop.Run()

	if !called {
		t.Fatal("ready callback should fire once the loop runs")
	}
}

func TestFutureWatcherCancel(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)

	called := false
	w := f.Watch(func(Future[int]) { called = true }, nil)
	w.Cancel()

	f.SetResult(1)
	loop.Run()

	if called {
		t.Fatal("cancelled watcher should not fire")
	}
}

func TestFutureProgress(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)

	var fractions []float64
	f.Watch(nil, func(fraction float64, done, total int) {
		fractions = append(fractions, fraction)
	})

	f.SetProgress(0.5)
	f.SetProgress(1)
	loop.Run()

	if len(fractions) != 2 || fractions[0] != 0.5 || fractions[1] != 1 {
		t.Errorf("got %v", fractions)
	}
}

func TestFutureWaitDrivesLoop(t *testing.T) {
	loop := &Loop{}
	f := newFuture[int](loop)
	f.SetResult(99)

	if got := f.Wait(); got != 99 {
		t.Errorf("got %d, want 99", got)
	}
}

func TestFutureSetValueAfterFinishPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()

	loop := &Loop{}
	f := newFuture[int](loop)
	f.SetResult(1)
	f.SetValue(2)
}
