// Package serrors provides semantic error kinds shared by the enrichment
// components. A kind classifies a failure (bad input, upstream refused the
// request, provider not configured, ...) independently of the concrete cause,
// so callers can branch with errors.Is without knowing which provider failed.
package serrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure. Only NewKind produces values of it.
type Kind interface {
	error
	isKind()
}

type kind struct{ s string }

func (k kind) Error() string { return k.s }
func (k kind) isKind()       {}

// NewKind returns a comparable sentinel that an *Error matches through
// errors.Is and errors.As.
func NewKind(name string) Kind { return kind{s: name} }

var (
	// ErrBadRequest indicates the caller supplied invalid input (e.g. a blank domain).
	ErrBadRequest = NewKind("BAD_REQUEST")
	// ErrNotConfigured indicates a component is missing its credentials and was skipped.
	ErrNotConfigured = NewKind("NOT_CONFIGURED")
	// ErrUpstream indicates the transport succeeded but the provider reported a failure,
	// either through a non-success status code or a payload-level status flag.
	ErrUpstream = NewKind("UPSTREAM")
	// ErrUnauthorized indicates the provider rejected our credentials.
	ErrUnauthorized = NewKind("UNAUTHORIZED")
	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = NewKind("RATE_LIMITED")
	// ErrTimeout indicates the operation did not complete in time.
	ErrTimeout = NewKind("TIMEOUT")
	// ErrUnavailable indicates the remote end could not be reached.
	ErrUnavailable = NewKind("UNAVAILABLE")
	// ErrInternal indicates an unexpected failure on our side.
	ErrInternal = NewKind("INTERNAL")
)

// Error pairs a Kind with a message and an optional cause. Its text is
// "msg: cause", falling back to whichever part is set and finally to the
// kind's name.
type Error struct {
	kind Kind
	err  error
	msg  string
}

// With constructs a semantic error with a formatted message.
func With(k Kind, msgFmt string, args ...any) *Error {
	return &Error{kind: k, msg: fmt.Sprintf(msgFmt, args...)}
}

// Wrap constructs a semantic error wrapping cause with a formatted message.
func Wrap(k Kind, cause error, msgFmt string, args ...any) *Error {
	return &Error{kind: k, err: cause, msg: fmt.Sprintf(msgFmt, args...)}
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.msg != "" && e.err != nil:
		return e.msg + ": " + e.err.Error()
	case e.msg != "":
		return e.msg
	case e.err != nil:
		return e.err.Error()
	case e.kind != nil:
		return e.kind.Error()
	default:
		return "unknown error"
	}
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error { return e.err }

// Is matches either the kind sentinel or anything in the wrapped chain.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return e == nil && target == nil
	}
	if e.kind != nil && errors.Is(e.kind, target) {
		return true
	}

	return e.err != nil && errors.Is(e.err, target)
}

// As extracts either the kind sentinel or a type from the wrapped chain.
func (e *Error) As(target any) bool {
	if e == nil || target == nil {
		return false
	}
	if e.kind != nil && errors.As(e.kind, target) {
		return true
	}

	return e.err != nil && errors.As(e.err, target)
}

// Kind returns the kind sentinel of e.
func (e *Error) Kind() Kind { return e.kind }

// KindOf returns the first semantic kind found in err's chain, or nil when err
// carries none.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}

	return nil
}
