package clone

import (
	"errors"
	"fmt"

	"github.com/roach88/graphclone/internal/value"
)

// ErrorCode categorizes clone failures.
type ErrorCode string

const (
	// ErrCodeUnsupported indicates a value kind the cloner refuses to share.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED_KIND"

	// ErrCodeDepthExceeded indicates the graph is deeper than the configured limit.
	ErrCodeDepthExceeded ErrorCode = "DEPTH_EXCEEDED"

	// ErrCodePattern indicates a pattern could not be rebuilt from its source.
	ErrCodePattern ErrorCode = "PATTERN_REBUILD"
)

// Error is returned by Cloner.Clone.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path locates the offending value relative to the clone root.
	Path value.Path

	// Kind is the kind of the offending value.
	Kind value.Kind

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s at %s", e.Code, e.Message, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// IsUnsupportedError reports whether err is an UNSUPPORTED_KIND error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedError(err error) bool {
	return hasCode(err, ErrCodeUnsupported)
}

// IsDepthError reports whether err is a DEPTH_EXCEEDED error.
func IsDepthError(err error) bool {
	return hasCode(err, ErrCodeDepthExceeded)
}

// CodeOf returns the error code of err, or "" if err is not a clone error.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

func newUnsupportedError(path value.Path, v value.Value) *Error {
	return &Error{
		Code:    ErrCodeUnsupported,
		Message: fmt.Sprintf("cannot clone %s value", value.KindOf(v)),
		Path:    path,
		Kind:    value.KindOf(v),
	}
}

func newDepthError(path value.Path, v value.Value, limit int) *Error {
	return &Error{
		Code:    ErrCodeDepthExceeded,
		Message: fmt.Sprintf("graph deeper than %d", limit),
		Path:    path,
		Kind:    value.KindOf(v),
	}
}
