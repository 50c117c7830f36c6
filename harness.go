// Package harness is the execution core of the test-harness library: user
// binaries register named groups of test cases and hand control to Main,
// which parses the CLI surface, runs the (possibly filtered) suite with fault
// isolation and per-test output capture, and exits with the failure count.
package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/ethereum-optimism/infra/op-harness/exitcodes"
	"github.com/ethereum-optimism/infra/op-harness/filter"
	"github.com/ethereum-optimism/infra/op-harness/flags"
	"github.com/ethereum-optimism/infra/op-harness/logging"
	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/reporting"
	"github.com/ethereum-optimism/infra/op-harness/runner"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Group is a named collection of test cases registered together. Case
// indices are assigned in slice order.
type Group struct {
	Name  string
	Cases []types.TestCase
}

// Harness wires the registry, runner and reporter for one suite.
type Harness struct {
	appName  string
	registry *registry.Registry
	regErrs  []error // duplicate-registration errors, fatal pre-run
}

// NewHarness registers groups into a fresh registry. Registration problems
// (duplicate identities, invalid group names) are accumulated and surface
// together when a run is attempted, so a user sees all of them in one pass.
func NewHarness(appName string, groups []Group) *Harness {
	h := &Harness{
		appName:  appName,
		registry: registry.NewRegistry(registry.Config{}),
	}
	for _, g := range groups {
		if err := h.registry.AddGroup(g.Name, g.Cases); err != nil {
			h.regErrs = append(h.regErrs, err)
		}
	}
	return h
}

// Registry exposes the underlying suite registry.
func (h *Harness) Registry() *registry.Registry {
	return h.registry
}

// Main registers groups, runs the CLI surface over os.Args and exits the
// process. The exit code is the number of failing tests (0 on full success);
// fatal pre-run conditions exit with exitcodes.FatalErr.
func Main(appName string, groups ...Group) {
	os.Exit(RunMain(context.Background(), appName, os.Args, groups...))
}

// RunMain is Main without the process exit, for embedding and tests.
func RunMain(ctx context.Context, appName string, args []string, groups ...Group) int {
	h := NewHarness(appName, groups)
	err := h.App().RunContext(ctx, args)
	if err != nil && !IsTestFailureError(err) {
		fmt.Fprintln(os.Stderr, err)
	}
	return ExitCode(err)
}

// App builds the CLI application: a default action running the whole suite,
// a "test" command running a selection, and a "list" command that executes
// nothing.
func (h *Harness) App() *cli.App {
	app := cli.NewApp()
	app.Name = h.appName
	app.Usage = "run the registered test suite"
	app.Flags = flags.Flags
	app.Action = func(ctx *cli.Context) error {
		return h.run(ctx, nil)
	}
	app.Commands = []*cli.Command{
		{
			Name:      "test",
			Usage:     "run only the tests matching NAME_REGEX and CASES; the rest are reported as skipped",
			ArgsUsage: "[NAME_REGEX] [CASES]",
			Action: func(ctx *cli.Context) error {
				criteria, err := parseCriteria(ctx)
				if err != nil {
					return NewFatalError(err)
				}
				if criteria == nil {
					criteria = &filter.Criteria{}
				}
				return h.run(ctx, criteria)
			},
		},
		{
			Name:      "list",
			Usage:     "print every registered test's identity and description without executing anything",
			ArgsUsage: "[NAME_REGEX] [CASES]",
			Action: func(ctx *cli.Context) error {
				return h.list(ctx)
			},
		},
	}
	return app
}

// run executes the suite. A nil criteria runs everything registered.
func (h *Harness) run(ctx *cli.Context, criteria *filter.Criteria) error {
	logger := setupLogger(ctx)
	cfg, err := NewConfig(ctx, logger)
	if err != nil {
		return NewFatalError(err)
	}
	if err := h.validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	var files *logging.FileLogger
	if !cfg.Verbose {
		files, err = logging.NewFileLogger(cfg.OutputDir, runID, logger)
		if err != nil {
			return NewFatalError(err)
		}
		files.CreateSymlinks(filepath.Base(os.Args[0]))
	}

	reporter := reporting.NewReporter(reporting.Config{
		Compact:    cfg.Compact,
		JSON:       cfg.JSONOutput,
		ShowErrors: cfg.ShowErrors,
	})

	testRunner, err := runner.NewTestRunner(runner.Config{
		Registry:   h.registry,
		FileLogger: files,
		Criteria:   criteria,
		MinSpeed:   cfg.MinSpeed,
		Verbose:    cfg.Verbose,
		Executor:   runner.SyncExecutor{},
		Reporter:   reporter,
		Log:        logger,
	})
	if err != nil {
		return NewFatalError(err)
	}

	result, err := testRunner.RunAllTests(ctx.Context)
	if err != nil {
		// Empty selections and capture-file I/O problems both invalidate the
		// whole run.
		return NewFatalError(err)
	}

	runDir := ""
	if files != nil {
		runDir = files.RunDir()
	}
	if err := reporter.Complete(result.Results, result.Summary, result.Failures, runDir); err != nil {
		logger.Error("Failed to render results", "error", err)
	}

	if result.Summary.Failed > 0 {
		return NewTestFailureError(result.Summary.Failed, result.Summary.String())
	}
	return nil
}

// list prints the registered suite, optionally narrowed by the same selection
// syntax as the test command. Narrowing drops non-matching tests instead of
// substituting skips; nothing executes.
func (h *Harness) list(ctx *cli.Context) error {
	criteria, err := parseCriteria(ctx)
	if err != nil {
		return NewFatalError(err)
	}

	tests := h.registry.All()
	if criteria != nil {
		tests, err = filter.Apply(tests, *criteria, filter.Drop)
		if err != nil {
			return NewFatalError(err)
		}
	}
	for _, t := range tests {
		fmt.Fprintf(ctx.App.Writer, "%s %s\n", t.Path.Display(), t.Description)
	}
	return nil
}

// validate surfaces every registration problem at once, before anything runs.
func (h *Harness) validate() error {
	errs := append([]error{}, h.regErrs...)
	if err := h.registry.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return NewFatalError(err)
	}
	return nil
}

// ExitCode maps a run error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return exitcodes.Success
	}
	var testErr *TestFailureError
	if errors.As(err, &testErr) {
		return exitcodes.ForFailures(testErr.Failed)
	}
	return exitcodes.FatalErr
}

// parseCriteria reads the optional NAME_REGEX and CASES positional arguments.
func parseCriteria(ctx *cli.Context) (*filter.Criteria, error) {
	if ctx.NArg() == 0 {
		return nil, nil
	}
	criteria := &filter.Criteria{}
	if pattern := ctx.Args().Get(0); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid name pattern %q: %w", pattern, err)
		}
		criteria.Name = re
	}
	if ctx.NArg() >= 2 {
		set, err := filter.ParseIndexSet(ctx.Args().Get(1))
		if err != nil {
			return nil, err
		}
		criteria.Cases = set
	}
	return criteria, nil
}

func setupLogger(ctx *cli.Context) log.Logger {
	lvl, err := log.LvlFromString(ctx.String(flags.LogLevel.Name))
	if err != nil {
		lvl = log.LevelInfo
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, false))
	log.SetDefault(logger)
	return logger
}
