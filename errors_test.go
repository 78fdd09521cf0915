package kasync

import (
	"errors"
	"testing"
)

func TestErrorIsZero(t *testing.T) {
	if !(Error{}).IsZero() {
		t.Error("zero Error should report IsZero")
	}
	if (Error{Code: 1}).IsZero() {
		t.Error("non-zero code should not report IsZero")
	}
}

func TestErrorIs(t *testing.T) {
	const NotFound = 404

	err := error(Error{Code: NotFound, Message: "missing"})

	if !errors.Is(err, Error{Code: NotFound}) {
		t.Error("errors.Is should match by Code alone")
	}
	if errors.Is(err, Error{Code: 500}) {
		t.Error("errors.Is should not match a different Code")
	}
	if errors.Is(err, errors.New("boom")) {
		t.Error("errors.Is should not match a foreign error type")
	}
}

func TestErrorString(t *testing.T) {
	if got := (Error{Code: 7}).Error(); got != "kasync: error 7" {
		t.Errorf("got %q", got)
	}
	if got := (Error{Message: "boom"}).Error(); got != "boom" {
		t.Errorf("got %q", got)
	}
}

func TestJoinErrors(t *testing.T) {
	if got := joinErrors(nil); got != "" {
		t.Errorf("got %q", got)
	}
	one := []Error{{Message: "a"}}
	if got := joinErrors(one); got != "a" {
		t.Errorf("got %q", got)
	}
	many := []Error{{Message: "a"}, {Message: "b"}}
	got := joinErrors(many)
	want := "multiple errors:\n(1/2) a\n(2/2) b"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
