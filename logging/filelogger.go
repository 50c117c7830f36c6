// Package logging owns the on-disk layout of a run: a directory named by the
// run ID containing one output file per executed test, plus the accumulated
// failure reports.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

const (
	// FailureReportFilename is the file inside a run directory holding the
	// accumulated failure reports, most recent first.
	FailureReportFilename = "failures.log"
)

// FileLogger handles writing test output to files under <baseDir>/<runID>/.
type FileLogger struct {
	baseDir string
	runDir  string
	runID   string
	mu      sync.Mutex
	log     log.Logger
}

// NewFileLogger creates a FileLogger and its run directory. Failure to create
// the directory is fatal to the run; output capture is not best-effort.
func NewFileLogger(baseDir, runID string, logger log.Logger) (*FileLogger, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir cannot be empty")
	}
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}
	if logger == nil {
		logger = log.Root()
	}

	runDir := filepath.Join(baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", runDir, err)
	}

	return &FileLogger{
		baseDir: baseDir,
		runDir:  runDir,
		runID:   runID,
		log:     logger,
	}, nil
}

// RunID returns the run identifier this logger writes under.
func (l *FileLogger) RunID() string {
	return l.runID
}

// RunDir returns the directory all of this run's files live in.
func (l *FileLogger) RunDir() string {
	return l.runDir
}

// TestOutputPath returns the output-file path for one test.
func (l *FileLogger) TestOutputPath(path types.TestPath) string {
	return filepath.Join(l.runDir, path.OutputFilename())
}

// CreateTestOutput creates (truncating if present) the output file for one
// test. The caller owns the handle and must close it.
func (l *FileLogger) CreateTestOutput(path types.TestPath) (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Create(l.TestOutputPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to create output file for %s: %w", path.Display(), err)
	}
	return f, nil
}

// WriteFailureReports persists the accumulated failure reports into the run
// directory, scrubbing ANSI escapes so the file reads cleanly outside a
// terminal.
func (l *FileLogger) WriteFailureReports(reports []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var b strings.Builder
	for _, r := range reports {
		b.WriteString(stripansi.Strip(r))
		if !strings.HasSuffix(r, "\n") {
			b.WriteByte('\n')
		}
	}

	path := filepath.Join(l.runDir, FailureReportFilename)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write failure report file: %w", err)
	}
	return nil
}

// CreateSymlinks creates the convenience symlinks in baseDir (one named after
// the run binary, one named "latest") pointing at the run directory. Symlink
// creation is best-effort; platforms without symlink support only lose the
// shortcuts, never the run output.
func (l *FileLogger) CreateSymlinks(binName string) {
	names := []string{"latest"}
	if binName != "" && binName != "latest" {
		names = append(names, binName)
	}
	for _, name := range names {
		link := filepath.Join(l.baseDir, name)
		_ = os.Remove(link)
		if err := os.Symlink(l.runID, link); err != nil {
			l.log.Warn("Failed to create convenience symlink", "link", link, "error", err)
		}
	}
}
