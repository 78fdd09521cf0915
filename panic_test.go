package kasync

import (
	"strings"
	"testing"
)

func TestTryRunNoPanic(t *testing.T) {
	ran := false
	caught, panicked := tryRun(func() { ran = true })
	if panicked {
		t.Fatal("tryRun should not report a panic")
	}
	if !caught.IsZero() {
		t.Fatal("tryRun should return the zero Error when nothing panicked")
	}
	if !ran {
		t.Fatal("f should have run")
	}
}

func TestTryRunCapturesPanic(t *testing.T) {
	caught, panicked := tryRun(func() { panic("kaboom") })
	if !panicked {
		t.Fatal("tryRun should report the panic")
	}
	if caught.Code != ErrCodePanic {
		t.Errorf("got code %d, want %d", caught.Code, ErrCodePanic)
	}
	if !strings.Contains(caught.Message, "kaboom") {
		t.Errorf("message %q should mention the panic value", caught.Message)
	}
}
