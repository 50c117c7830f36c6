package metrics

import (
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

const (
	MetricsNamespace = "harness"
)

var (
	Debug bool = false

	testOutcomesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "test_outcomes_total",
		Help:      "Count of test outcomes by kind",
	}, []string{
		"run_id",
		"outcome",
	})

	runTestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_tests_total",
		Help:      "Number of tests that ran in a run",
	}, []string{
		"run_id",
	})

	runFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_failures_total",
		Help:      "Number of failing outcomes in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of a run",
	}, []string{
		"run_id",
	})
)

// RecordOutcome counts one classified test outcome.
func RecordOutcome(runID string, kind types.OutcomeKind) {
	if Debug {
		log.Debug("metric inc",
			"m", "test_outcomes_total",
			"run_id", runID,
			"outcome", kind,
		)
	}
	testOutcomesTotal.WithLabelValues(runID, string(kind)).Inc()
}

// RecordRun records the aggregated summary of a completed run.
func RecordRun(runID string, summary types.RunSummary, duration time.Duration) {
	runTestsTotal.WithLabelValues(runID).Add(float64(summary.Ran))
	runFailuresTotal.WithLabelValues(runID).Add(float64(summary.Failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}
