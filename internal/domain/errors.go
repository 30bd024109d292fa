package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a lookup did not produce results.
type ErrorKind string

const (
	// KindUnsupported means no location capability exists at all.
	KindUnsupported ErrorKind = "unsupported"
	// KindPermissionDenied means the user refused location access.
	KindPermissionDenied ErrorKind = "permission_denied"
	// KindUnavailable covers position-unavailable and unrecognized device errors.
	KindUnavailable ErrorKind = "unavailable"
	// KindTimeout means the device, or the caller's wait, ran out of time.
	KindTimeout ErrorKind = "timeout"
	// KindFetchFailed covers transport errors, non-success status, and schema mismatch.
	KindFetchFailed ErrorKind = "fetch_failed"
)

// IsLocation reports whether the kind belongs to the location stage.
func (k ErrorKind) IsLocation() bool {
	switch k {
	case KindUnsupported, KindPermissionDenied, KindUnavailable, KindTimeout:
		return true
	}
	return false
}

// Sentinel errors, one per kind, for use with errors.Is.
var (
	ErrUnsupported      = &Error{Kind: KindUnsupported}
	ErrPermissionDenied = &Error{Kind: KindPermissionDenied}
	ErrUnavailable      = &Error{Kind: KindUnavailable}
	ErrTimeout          = &Error{Kind: KindTimeout}
	ErrFetchFailed      = &Error{Kind: KindFetchFailed}
)

// Error is the single error type surfaced by a lookup.
type Error struct {
	Kind ErrorKind
	Op   string // "locate" or "fetch"
	Err  error
}

// NewError builds an Error. op names the failing stage.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind carried by err, or "" if err is not a lookup error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
