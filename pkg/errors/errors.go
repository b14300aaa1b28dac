// Package errors augments the standard errors
// with a Wrap() method to chain errors without
// resorting to fmt.Errorf("%w", err).
package errors

import (
	stderr "errors"
	"fmt"
)

var _ error = New("")

// New Error
func New(msg string) *Error {
	return &Error{msg: msg}
}

// Error augments the standard error interface with a Wrap method.
//
// Unlike github.com/pkg/errors, errors are wrapped from errors,
// not from text.
type Error struct {
	msg  string
	err  error
	from *Error
}

// Error message
func (e *Error) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// Unwrap nested error
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

// Wrap a nested error. The receiver is left untouched, so package-level
// sentinels may be wrapped concurrently.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, from: e}
}

// WrapMessage wraps a formatted message as a nested error
func (e *Error) WrapMessage(format string, args ...interface{}) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is of some error type?
func (e *Error) Is(target error) bool {
	return e == target || e.from == target || e.err == target
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true
// (a shortcut to standard lib errors.As)
func As(err error, target interface{}) bool {
	return stderr.As(err, target)
}

// Is reports whether any error in err's chain matches target
// (a shortcut to standard lib errors.Is)
func Is(err, target error) bool {
	return stderr.Is(err, target)
}
