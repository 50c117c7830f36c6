package harness

import (
	"errors"
	"fmt"
)

// FatalError marks a configuration or selection problem that invalidates the
// whole run before any test executes: duplicate or invalid group names, a
// filter matching nothing, an unusable output directory. It maps to
// exitcodes.FatalErr.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal: %v", e.Err)
}

// Unwrap implements the errors.Unwrap interface.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// NewFatalError creates a new FatalError.
func NewFatalError(err error) *FatalError {
	return &FatalError{Err: err}
}

// IsFatalError checks if the error is or wraps a FatalError.
func IsFatalError(err error) bool {
	var fatalErr *FatalError
	return err != nil && errors.As(err, &fatalErr)
}

// TestFailureError carries the failing-test count out of a completed run; the
// process exit code is derived from it.
type TestFailureError struct {
	Failed  int
	Message string
}

func (e *TestFailureError) Error() string {
	return fmt.Sprintf("test failure: %s", e.Message)
}

// NewTestFailureError creates a new TestFailureError.
func NewTestFailureError(failed int, message string) *TestFailureError {
	return &TestFailureError{Failed: failed, Message: message}
}

// IsTestFailureError checks if the error is or wraps a TestFailureError.
func IsTestFailureError(err error) bool {
	var testErr *TestFailureError
	return err != nil && errors.As(err, &testErr)
}
