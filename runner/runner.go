// Package runner drives registered tests through the capture and
// protected-execution pipeline, strictly one at a time, and aggregates their
// outcomes.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-harness/filter"
	"github.com/ethereum-optimism/infra/op-harness/logging"
	"github.com/ethereum-optimism/infra/op-harness/metrics"
	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/reporting"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// RunnerResult captures the complete test run results.
type RunnerResult struct {
	RunID    string
	Results  []*types.TestResult
	Summary  types.RunSummary
	Failures []string // rendered failure reports, most recent first
	Duration time.Duration
}

// TestRunner defines the interface for running a registered suite.
type TestRunner interface {
	RunAllTests(ctx context.Context) (*RunnerResult, error)
}

// Config contains runner configuration.
type Config struct {
	Registry   *registry.Registry
	FileLogger *logging.FileLogger
	// Criteria optionally narrows the run. It is applied in substitute mode
	// so the full suite shape is preserved in reporting.
	Criteria *filter.Criteria
	// MinSpeed is the minimum speed tier; tests excluded by it are replaced
	// with a forced skip, not dropped.
	MinSpeed types.Speed
	Verbose  bool
	Executor Executor
	Reporter reporting.Events
	Log      log.Logger
}

// testRunner implements TestRunner.
type testRunner struct {
	cfg     Config
	capture *OutputCapture
}

// NewTestRunner creates a test runner with the given configuration.
func NewTestRunner(cfg Config) (TestRunner, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.FileLogger == nil && !cfg.Verbose {
		return nil, errors.New("file logger is required unless running verbose")
	}
	if cfg.MinSpeed == "" {
		cfg.MinSpeed = types.SpeedSlow
	}
	if cfg.Executor == nil {
		cfg.Executor = SyncExecutor{}
	}
	if cfg.Reporter == nil {
		cfg.Reporter = nopEvents{}
	}
	if cfg.Log == nil {
		cfg.Log = log.Root()
	}

	return &testRunner{
		cfg:     cfg,
		capture: NewOutputCapture(cfg.FileLogger, cfg.Verbose, cfg.Log),
	}, nil
}

// RunAllTests executes the (possibly filtered) suite in registration order,
// one test at a time. Each test's outcome fully resolves, and the shared
// output streams are restored, before the next test begins.
func (r *testRunner) RunAllTests(ctx context.Context) (*RunnerResult, error) {
	start := time.Now()
	runID := ""
	if r.cfg.FileLogger != nil {
		runID = r.cfg.FileLogger.RunID()
	}

	tests := r.cfg.Registry.All()
	if r.cfg.Criteria != nil {
		var err error
		tests, err = filter.Apply(tests, *r.cfg.Criteria, filter.Substitute)
		if err != nil {
			return nil, fmt.Errorf("selecting tests: %w", err)
		}
	}

	r.cfg.Log.Info("Running tests", "count", len(tests), "run_id", runID, "min_speed", r.cfg.MinSpeed)

	result := &RunnerResult{RunID: runID}
	outcomes := make([]types.Outcome, 0, len(tests))

	for _, test := range tests {
		fn := test.Fn
		if !r.cfg.MinSpeed.Includes(test.Speed) {
			fn = types.SkipFn
		}

		r.cfg.Reporter.TestStarted(test.Path, test.Description)
		testStart := time.Now()

		outcome, outputFile, err := r.capture.Run(ctx, test.Path, r.cfg.Executor, fn)
		if err != nil {
			return nil, err
		}

		res := &types.TestResult{
			Path:        test.Path,
			Description: test.Description,
			Speed:       test.Speed,
			Outcome:     outcome,
			Duration:    time.Since(testStart),
			OutputFile:  outputFile,
		}
		outcomes = append(outcomes, outcome)
		result.Results = append(result.Results, res)
		metrics.RecordOutcome(runID, outcome.Kind)

		if outcome.Failed() {
			result.Failures = append([]string{renderFailure(res)}, result.Failures...)
		}

		r.cfg.Reporter.TestCompleted(res)
	}

	result.Duration = time.Since(start)
	result.Summary = Summarize(outcomes, result.Duration)
	metrics.RecordRun(runID, result.Summary, result.Duration)

	if r.cfg.FileLogger != nil {
		if err := r.cfg.FileLogger.WriteFailureReports(result.Failures); err != nil {
			r.cfg.Log.Warn("Failed to persist failure reports", "error", err)
		}
	}

	r.cfg.Log.Info("Test run completed",
		"run_id", runID,
		"ran", result.Summary.Ran,
		"failed", result.Summary.Failed,
		"duration", result.Duration)

	return result, nil
}

// renderFailure renders one failing test into a report block.
func renderFailure(res *types.TestResult) string {
	header := fmt.Sprintf("FAIL %s [%s] %s", res.Path.Display(), res.Outcome, res.Description)
	if res.Outcome.Message == "" {
		return header
	}
	return header + "\n" + res.Outcome.Message
}

// nopEvents is the reporter used when none is configured.
type nopEvents struct{}

func (nopEvents) TestStarted(types.TestPath, string) {}
func (nopEvents) TestCompleted(*types.TestResult)    {}
