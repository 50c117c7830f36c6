package types

import (
	"context"
	"fmt"
	"time"
)

// Speed classifies how expensive a test is to run. Quick tests always run;
// slow tests run only when the harness minimum tier is SpeedSlow (the
// default).
type Speed string

const (
	SpeedQuick Speed = "quick"
	SpeedSlow  Speed = "slow"
)

// Includes reports whether a test of speed s runs when the harness minimum
// tier is m. Running at SpeedQuick excludes slow tests; running at SpeedSlow
// includes everything.
func (m Speed) Includes(s Speed) bool {
	return m == SpeedSlow || s == SpeedQuick
}

// OutcomeKind enumerates the classified results of one protected execution.
type OutcomeKind string

const (
	OutcomeOk          OutcomeKind = "ok"
	OutcomeCheckFailed OutcomeKind = "check-failed"
	OutcomeFault       OutcomeKind = "fault"
	OutcomeSkipped     OutcomeKind = "skip"
	OutcomePending     OutcomeKind = "todo"
)

// FaultKind distinguishes categories of uncaught fault.
type FaultKind string

const (
	FaultFailure   FaultKind = "failure"
	FaultInvalid   FaultKind = "invalid"
	FaultException FaultKind = "exception"
)

// Outcome is the classified result of attempting one test execution. It is
// produced at the protected-execution boundary; no fault from a test body
// propagates past it.
type Outcome struct {
	Kind    OutcomeKind
	Fault   FaultKind // set only when Kind is OutcomeFault
	Message string
}

func Ok() Outcome {
	return Outcome{Kind: OutcomeOk}
}

func CheckFailed(msg string) Outcome {
	return Outcome{Kind: OutcomeCheckFailed, Message: msg}
}

func Faulted(kind FaultKind, msg string) Outcome {
	return Outcome{Kind: OutcomeFault, Fault: kind, Message: msg}
}

func Skipped() Outcome {
	return Outcome{Kind: OutcomeSkipped}
}

func Pending(msg string) Outcome {
	return Outcome{Kind: OutcomePending, Message: msg}
}

// Ran reports whether this outcome represents an actual execution attempt.
// Skipped and pending tests did not run.
func (o Outcome) Ran() bool {
	switch o.Kind {
	case OutcomeOk, OutcomeCheckFailed, OutcomeFault:
		return true
	default:
		return false
	}
}

// Failed reports whether this outcome counts as a failure. Pending counts as
// a failure even though it never ran; skipped never does.
func (o Outcome) Failed() bool {
	switch o.Kind {
	case OutcomeCheckFailed, OutcomeFault, OutcomePending:
		return true
	default:
		return false
	}
}

func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeFault:
		return fmt.Sprintf("fault(%s)", o.Fault)
	default:
		return string(o.Kind)
	}
}

// TestFn is a test body. A nil return means the test passed; a returned or
// panicked fault signal is classified at the protected-execution boundary.
type TestFn func(ctx context.Context) error

// SkipFn is the forced-skip body substituted for tests excluded by filtering
// or by the speed tier. It never runs the original body.
var SkipFn TestFn = func(context.Context) error { return Skip() }

// TestCase pairs a test body with its metadata. The description is normalized
// at registration to end with a terminating period.
type TestCase struct {
	Description string
	Speed       Speed
	Fn          TestFn
}

// TestResult captures the outcome of a single test run.
type TestResult struct {
	Path        TestPath
	Description string
	Speed       Speed
	Outcome     Outcome
	Duration    time.Duration
	OutputFile  string // path of the captured output file, empty in verbose mode
}

// RunSummary aggregates one completed run. Ran counts outcomes that represent
// an actual execution attempt; Failed counts check failures, faults and
// pending tests.
type RunSummary struct {
	Ran     int
	Failed  int
	Elapsed time.Duration
}

func (s RunSummary) String() string {
	if s.Failed > 0 {
		return fmt.Sprintf("%d failure(s)! %d test(s) run in %.3fs.", s.Failed, s.Ran, s.Elapsed.Seconds())
	}
	return fmt.Sprintf("Successfully ran %d test(s) in %.3fs.", s.Ran, s.Elapsed.Seconds())
}
