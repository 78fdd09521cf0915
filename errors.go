package kasync

import (
	"strconv"
	"strings"
)

// ErrCodeNone is the zero value of Error.Code. An Error with this code
// means "no error" (see [Error.IsZero]). Future does not filter on it: an
// Error with this code that is added to a Future is recorded and reported
// like any other.
const ErrCodeNone = 0

// ErrCodePanic is the code used for an Error synthesized from a continuation
// that panicked instead of returning or finishing its Future normally.
// See panic.go.
const ErrCodePanic = -1

// Error is the only failure representation the engine knows about: a
// numeric code plus a human-readable message. Code spaces are owned by
// callers; KAsync reserves ErrCodeNone and ErrCodePanic.
type Error struct {
	Code    int
	Message string
}

// Error implements the standard error interface so an Error composes with
// fmt, errors.Is and errors.As like any other Go error, even though the
// engine itself never returns one through a func() error channel.
func (e Error) Error() string {
	if e.Message == "" {
		return "kasync: error " + strconv.Itoa(e.Code)
	}
	return e.Message
}

// Is reports whether target is an Error with the same Code, so callers can
// write errors.Is(err, kasync.Error{Code: NotFound}) against sentinel codes
// without comparing Message text.
func (e Error) Is(target error) bool {
	other, ok := target.(Error)
	if !ok {
		return false
	}
	return other.Code == e.Code
}

// IsZero reports whether e is the "no error" value.
func (e Error) IsZero() bool {
	return e.Code == ErrCodeNone
}

// firstErrorOrZero returns the first error in errs, or the zero Error if
// errs is empty. Error-aware continuations receive this value as their
// leading argument when there is no upstream error (spec §3.2).
func firstErrorOrZero(errs []Error) Error {
	if len(errs) == 0 {
		return Error{}
	}
	return errs[0]
}

// joinErrors formats a list of Errors for diagnostic purposes, numbering
// and separating each one when there is more than one, so a caller logging
// a Future that failed through several aggregated errors (e.g. one per
// failed element of an [Each]) gets a single readable message instead of
// having to format the list itself.
func joinErrors(errs []Error) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}
	var b strings.Builder
	b.WriteString("multiple errors:")
	for i, e := range errs {
		b.WriteString("\n(")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString("/")
		b.WriteString(strconv.Itoa(len(errs)))
		b.WriteString(") ")
		b.WriteString(e.Error())
	}
	return b.String()
}
