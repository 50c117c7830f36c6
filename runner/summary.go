package runner

import (
	"time"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

// Summarize folds a completed outcome list into a RunSummary. It is a pure
// function: running it twice over the same list yields identical summaries.
//
// Ran counts actual execution attempts (ok, check-failed, fault). Failed
// counts check failures, faults and pending tests; a pending test inflates
// the failure count without counting as run. Skipped tests count toward
// neither.
func Summarize(outcomes []types.Outcome, elapsed time.Duration) types.RunSummary {
	summary := types.RunSummary{Elapsed: elapsed}
	for _, o := range outcomes {
		if o.Ran() {
			summary.Ran++
		}
		if o.Failed() {
			summary.Failed++
		}
	}
	return summary
}
