package runner

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-harness/logging"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// captureMu serializes access to the process-wide stdout/stderr. The streams
// are the one piece of mutable shared state in a run; exactly one capture
// window may hold the redirect at a time.
var captureMu sync.Mutex

// OutputCapture redirects process stdout and stderr into a per-test file for
// the duration of one protected execution, restoring the original streams on
// every exit path.
type OutputCapture struct {
	files   *logging.FileLogger
	verbose bool
	log     log.Logger
}

// NewOutputCapture creates an OutputCapture writing through files. When
// verbose is set, capture is skipped entirely and output flows through
// unchanged.
func NewOutputCapture(files *logging.FileLogger, verbose bool, logger log.Logger) *OutputCapture {
	if logger == nil {
		logger = log.Root()
	}
	return &OutputCapture{
		files:   files,
		verbose: verbose,
		log:     logger,
	}
}

// Run executes one test body through exec under capture and returns its
// outcome plus the output-file path. A failure to create the output file is
// fatal to the run, not a per-test failure.
func (c *OutputCapture) Run(ctx context.Context, path types.TestPath, exec Executor, fn types.TestFn) (types.Outcome, string, error) {
	if c.verbose {
		return exec.Execute(ctx, fn), "", nil
	}

	f, err := c.files.CreateTestOutput(path)
	if err != nil {
		return types.Outcome{}, "", err
	}

	outcome := c.runRedirected(ctx, f, exec, fn)

	if err := f.Close(); err != nil {
		c.log.Warn("Failed to close test output file", "path", path.Display(), "error", err)
	}

	// The bulk of the test's output went to the file; keep failures visible
	// on the restored stream.
	if outcome.Kind == types.OutcomeCheckFailed || outcome.Kind == types.OutcomeFault {
		fmt.Fprintln(os.Stderr, outcome.Message)
	}

	return outcome, f.Name(), nil
}

// runRedirected holds the redirect for exactly one execution. Restoration is
// deferred so it happens on the fault path too.
func (c *OutputCapture) runRedirected(ctx context.Context, f *os.File, exec Executor, fn types.TestFn) types.Outcome {
	captureMu.Lock()
	savedOut, savedErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = f, f

	defer func() {
		os.Stdout, os.Stderr = savedOut, savedErr
		captureMu.Unlock()
	}()

	return exec.Execute(ctx, fn)
}
