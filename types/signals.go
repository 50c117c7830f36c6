package types

import "fmt"

// The fault signals below form the closed set of conditions a test body may
// raise, either by returning them or by panicking with them. The protected
// executor converts each into the corresponding Outcome; anything else is
// classified as a generic exception.

// CheckError is the dedicated check-failure signal. Check failures are an
// expected, first-class failure mode and are reported separately from
// unexpected runtime faults.
type CheckError struct {
	Msg string
}

func (e *CheckError) Error() string { return e.Msg }

// FailError is a generic failure condition carrying a message.
type FailError struct {
	Msg string
}

func (e *FailError) Error() string { return e.Msg }

// InvalidArgError signals that the test was invoked with an invalid argument.
type InvalidArgError struct {
	Msg string
}

func (e *InvalidArgError) Error() string { return e.Msg }

// SkipError marks a test as deliberately skipped. Skipped tests count neither
// as run nor as failed.
type SkipError struct{}

func (e *SkipError) Error() string { return "test skipped" }

// TodoError marks a test as deliberately unimplemented.
type TodoError struct {
	Msg string
}

func (e *TodoError) Error() string { return e.Msg }

// Checkf returns a check failure with a formatted message when cond is false,
// and nil otherwise.
func Checkf(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &CheckError{Msg: fmt.Sprintf(format, args...)}
}

// Failf returns a generic failure condition with a formatted message.
func Failf(format string, args ...any) error {
	return &FailError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgf returns an invalid-argument condition with a formatted message.
func InvalidArgf(format string, args ...any) error {
	return &InvalidArgError{Msg: fmt.Sprintf(format, args...)}
}

// Skip returns the skip signal.
func Skip() error {
	return &SkipError{}
}

// Todof marks the test as unimplemented with a formatted message.
func Todof(format string, args ...any) error {
	return &TodoError{Msg: fmt.Sprintf(format, args...)}
}
