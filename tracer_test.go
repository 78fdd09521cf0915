package kasync

import (
	"strings"
	"testing"
)

func TestIndentTracerNestingDepth(t *testing.T) {
	var b strings.Builder
	tracer := NewIndentTracer(&b)

	outer := tracer.Start("outer")
	inner := tracer.Start("inner")
	tracer.End(inner)
	tracer.End(outer)

	want := "-> outer\n  -> inner\n  <- inner\n<- outer\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIndentTracerAnonymous(t *testing.T) {
	var b strings.Builder
	tracer := NewIndentTracer(&b)

	id := tracer.Start("")
	tracer.End(id)

	want := "-> <anonymous>\n<- <anonymous>\n"
	if got := b.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLoopTracerObservesExecutions(t *testing.T) {
	loop := &Loop{}

	var b strings.Builder
	loop.SetTracer(NewIndentTracer(&b))

	job := Then(Start(loop, func(Unit) int { return 1 }), func(n int) int { return n + 1 }).Named("increment")

	job.Exec()
	loop.Run()

	got := b.String()
	if !strings.Contains(got, "increment") {
		t.Errorf("expected trace output to mention the named step, got %q", got)
	}
	if strings.Count(got, "->") != strings.Count(got, "<-") {
		t.Errorf("every Start should be paired with an End, got %q", got)
	}
}
