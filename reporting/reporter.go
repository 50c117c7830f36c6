// Package reporting renders per-test status lines and the end-of-run summary.
// It consumes aggregated results only; it never drives execution.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Events receives per-test notifications as the runner walks the suite.
type Events interface {
	// TestStarted is emitted before a test's capture window opens.
	TestStarted(path types.TestPath, description string)
	// TestCompleted is emitted once the test's outcome has resolved.
	TestCompleted(result *types.TestResult)
}

// Summary is the machine-readable run summary.
type Summary struct {
	Success  int     `json:"success"`
	Failures int     `json:"failures"`
	Time     float64 `json:"time"`
}

// Config controls how results are rendered.
type Config struct {
	Out        io.Writer
	Compact    bool // condense per-test status to single characters
	JSON       bool // suppress human-formatted text, emit one summary object
	ShowErrors bool // print every accumulated failure report, not just the most recent
}

// Reporter implements Events and renders the final summary.
type Reporter struct {
	cfg     Config
	started int
}

// NewReporter creates a reporter writing to cfg.Out (stdout when nil).
func NewReporter(cfg Config) *Reporter {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	return &Reporter{cfg: cfg}
}

// TestStarted implements Events. Human modes print nothing on start; the
// status line carries the result.
func (r *Reporter) TestStarted(path types.TestPath, description string) {
	r.started++
}

// TestCompleted implements Events.
func (r *Reporter) TestCompleted(result *types.TestResult) {
	if r.cfg.JSON {
		return
	}
	if r.cfg.Compact {
		fmt.Fprint(r.cfg.Out, compactChar(result.Outcome))
		return
	}
	fmt.Fprintf(r.cfg.Out, "%s %s %s\n",
		statusString(result.Outcome),
		result.Path.Display(),
		result.Description)
}

// Complete renders the end-of-run report: the results table, the failure
// reports (most recent only, or all of them with ShowErrors), and the closing
// summary line. In JSON mode it emits the single machine-readable object
// instead.
func (r *Reporter) Complete(results []*types.TestResult, summary types.RunSummary, failures []string, runDir string) error {
	if r.cfg.JSON {
		return json.NewEncoder(r.cfg.Out).Encode(Summary{
			Success:  summary.Ran,
			Failures: summary.Failed,
			Time:     summary.Elapsed.Seconds(),
		})
	}

	if r.cfg.Compact {
		fmt.Fprintln(r.cfg.Out)
	} else {
		r.printResultsTable(results, summary)
	}

	if len(failures) > 0 {
		if r.cfg.ShowErrors {
			for _, report := range failures {
				fmt.Fprintln(r.cfg.Out, report)
			}
		} else {
			fmt.Fprintln(r.cfg.Out, failures[0])
		}
	}

	if runDir != "" {
		fmt.Fprintf(r.cfg.Out, "Full test results in %s\n", runDir)
	}
	fmt.Fprintln(r.cfg.Out, summary.String())
	return nil
}

// printResultsTable prints one row per test plus a summary footer.
func (r *Reporter) printResultsTable(results []*types.TestResult, summary types.RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(r.cfg.Out)
	t.SetTitle(fmt.Sprintf("Test Results (%s)", formatDuration(summary.Elapsed)))

	t.AppendHeader(table.Row{"Test", "Description", "Duration", "Status", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Description", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, res := range results {
		t.AppendRow(table.Row{
			res.Path.Display(),
			res.Description,
			formatDuration(res.Duration),
			statusString(res.Outcome),
			firstLine(res.Outcome.Message),
		})
	}

	if summary.Failed > 0 {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else if summary.Ran == 0 {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL", "", formatDuration(summary.Elapsed),
		fmt.Sprintf("%d run / %d failed", summary.Ran, summary.Failed), "",
	})
	t.Render()
}

// statusString returns a colored marker for an outcome.
func statusString(o types.Outcome) string {
	switch o.Kind {
	case types.OutcomeOk:
		return text.FgGreen.Sprint("✓ ok  ")
	case types.OutcomeSkipped:
		return text.FgYellow.Sprint("- skip")
	case types.OutcomePending:
		return text.FgYellow.Sprint("? todo")
	case types.OutcomeCheckFailed:
		return text.FgRed.Sprint("✗ check")
	default:
		return text.FgRed.Sprintf("✗ %s", o.Fault)
	}
}

// compactChar condenses an outcome into one character.
func compactChar(o types.Outcome) string {
	switch o.Kind {
	case types.OutcomeOk:
		return "."
	case types.OutcomeCheckFailed:
		return "F"
	case types.OutcomeFault:
		return "E"
	case types.OutcomeSkipped:
		return "S"
	case types.OutcomePending:
		return "T"
	default:
		return "?"
	}
}

// formatDuration formats a duration to seconds with one decimal place.
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
