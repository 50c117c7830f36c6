package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Executor drives a single test body to completion. Implementations must not
// return until the body's outcome has fully resolved, including any
// asynchronous work the body performs internally; the runner relies on this
// to keep the output-capture window exclusive. Tests are never executed
// concurrently with each other.
type Executor interface {
	Execute(ctx context.Context, fn types.TestFn) types.Outcome
}

// SyncExecutor runs the body inline on the caller's goroutine.
type SyncExecutor struct{}

func (SyncExecutor) Execute(ctx context.Context, fn types.TestFn) types.Outcome {
	return Protect(ctx, fn)
}

// DeferredExecutor runs each body on its own goroutine and waits for it to
// finish. Bodies that block on their own asynchronous work do so off the
// caller's goroutine, but the next test still does not start until this one's
// outcome has resolved.
type DeferredExecutor struct{}

func (DeferredExecutor) Execute(ctx context.Context, fn types.TestFn) types.Outcome {
	done := make(chan types.Outcome, 1)
	go func() {
		done <- Protect(ctx, fn)
	}()
	return <-done
}

// Protect invokes fn and always produces an Outcome: no fault raised by the
// body, returned or panicked, propagates past this boundary.
func Protect(ctx context.Context, fn types.TestFn) (outcome types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = classifyPanic(r, debug.Stack())
		}
	}()
	return classifyError(fn(ctx))
}

// classifyError converts a returned completion signal into an Outcome.
// Check failures take priority over generic failures, which take priority
// over invalid-argument conditions; everything else is an opaque exception.
func classifyError(err error) types.Outcome {
	if err == nil {
		return types.Ok()
	}

	var check *types.CheckError
	if errors.As(err, &check) {
		return types.CheckFailed(check.Msg)
	}
	var fail *types.FailError
	if errors.As(err, &fail) {
		return types.Faulted(types.FaultFailure, fail.Msg)
	}
	var invalid *types.InvalidArgError
	if errors.As(err, &invalid) {
		return types.Faulted(types.FaultInvalid, invalid.Msg)
	}
	var skip *types.SkipError
	if errors.As(err, &skip) {
		return types.Skipped()
	}
	var todo *types.TodoError
	if errors.As(err, &todo) {
		return types.Pending(todo.Msg)
	}
	return types.Faulted(types.FaultException, err.Error())
}

// classifyPanic converts a panic value into an Outcome, appending the stack
// trace to check failures and opaque exceptions.
func classifyPanic(r any, stack []byte) types.Outcome {
	if err, ok := r.(error); ok {
		outcome := classifyError(err)
		return withTrace(outcome, stack)
	}
	msg := fmt.Sprintf("%v", r)
	return withTrace(types.Faulted(types.FaultException, msg), stack)
}

// withTrace appends the stack trace to the outcomes where it aids debugging.
func withTrace(o types.Outcome, stack []byte) types.Outcome {
	appendTrace := o.Kind == types.OutcomeCheckFailed ||
		(o.Kind == types.OutcomeFault && o.Fault == types.FaultException)
	if !appendTrace || len(stack) == 0 {
		return o
	}
	o.Message = o.Message + "\n" + string(stack)
	return o
}
