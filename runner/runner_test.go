package runner

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-harness/filter"
	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

// mathSuite registers the two-case "math" group used across the run tests:
// case 0 passes, case 1 fails its check.
func mathSuite(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry(registry.Config{})
	require.NoError(t, r.AddGroup("math", []types.TestCase{
		{Description: "adds", Speed: types.SpeedQuick, Fn: func(context.Context) error {
			return nil
		}},
		{Description: "is wrong about addition", Speed: types.SpeedQuick, Fn: func(context.Context) error {
			return types.Checkf(1+1 == 3, "1+1 != 3")
		}},
	}))
	return r
}

// eventLog records the reporter events the runner emits.
type eventLog struct {
	started   []types.TestPath
	completed []*types.TestResult
}

func (e *eventLog) TestStarted(path types.TestPath, _ string) {
	e.started = append(e.started, path)
}

func (e *eventLog) TestCompleted(res *types.TestResult) {
	e.completed = append(e.completed, res)
}

func TestRunAllTests_FullSuite(t *testing.T) {
	events := &eventLog{}
	r, err := NewTestRunner(Config{
		Registry:   mathSuite(t),
		FileLogger: newFileLogger(t),
		Reporter:   events,
	})
	require.NoError(t, err)

	result, err := r.RunAllTests(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Summary.Ran)
	assert.Equal(t, 1, result.Summary.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, types.OutcomeOk, result.Results[0].Outcome.Kind)
	assert.Equal(t, types.OutcomeCheckFailed, result.Results[1].Outcome.Kind)

	// One start and one completion event per test, in suite order.
	require.Len(t, events.started, 2)
	require.Len(t, events.completed, 2)
	assert.Equal(t, types.TestPath{Group: "math", Index: 0}, events.started[0])
	assert.Equal(t, types.TestPath{Group: "math", Index: 1}, events.started[1])

	// The failure report carries the check message.
	require.Len(t, result.Failures, 1)
	assert.Contains(t, result.Failures[0], "1+1 != 3")
	assert.Contains(t, result.Failures[0], "math.001")
}

func TestRunAllTests_Selection(t *testing.T) {
	cases, err := filter.ParseIndexSet("0")
	require.NoError(t, err)

	r, err := NewTestRunner(Config{
		Registry:   mathSuite(t),
		FileLogger: newFileLogger(t),
		Criteria:   &filter.Criteria{Name: regexp.MustCompile("math"), Cases: cases},
	})
	require.NoError(t, err)

	result, err := r.RunAllTests(context.Background())
	require.NoError(t, err)

	// The non-matching test still appears, forced to skipped.
	require.Len(t, result.Results, 2)
	assert.Equal(t, types.OutcomeOk, result.Results[0].Outcome.Kind)
	assert.Equal(t, types.OutcomeSkipped, result.Results[1].Outcome.Kind)
	assert.Equal(t, 1, result.Summary.Ran)
	assert.Equal(t, 0, result.Summary.Failed)
}

func TestRunAllTests_EmptySelection(t *testing.T) {
	cases, err := filter.ParseIndexSet("5")
	require.NoError(t, err)

	r, err := NewTestRunner(Config{
		Registry:   mathSuite(t),
		FileLogger: newFileLogger(t),
		Criteria:   &filter.Criteria{Cases: cases},
	})
	require.NoError(t, err)

	_, err = r.RunAllTests(context.Background())
	assert.True(t, errors.Is(err, filter.ErrEmptySelection))
}

func TestRunAllTests_SpeedTier(t *testing.T) {
	reg := registry.NewRegistry(registry.Config{})
	slowRan := false
	require.NoError(t, reg.AddGroup("perf", []types.TestCase{
		{Description: "quick", Speed: types.SpeedQuick, Fn: func(context.Context) error { return nil }},
		{Description: "slow", Speed: types.SpeedSlow, Fn: func(context.Context) error {
			slowRan = true
			return nil
		}},
	}))

	r, err := NewTestRunner(Config{
		Registry:   reg,
		FileLogger: newFileLogger(t),
		MinSpeed:   types.SpeedQuick,
	})
	require.NoError(t, err)

	result, err := r.RunAllTests(context.Background())
	require.NoError(t, err)

	assert.False(t, slowRan, "a slow body must never execute under the quick tier")
	require.Len(t, result.Results, 2)
	assert.Equal(t, types.OutcomeOk, result.Results[0].Outcome.Kind)
	assert.Equal(t, types.OutcomeSkipped, result.Results[1].Outcome.Kind)
	assert.Equal(t, 1, result.Summary.Ran)
}

func TestRunAllTests_FailuresMostRecentFirst(t *testing.T) {
	reg := registry.NewRegistry(registry.Config{})
	require.NoError(t, reg.AddGroup("order", []types.TestCase{
		{Description: "first failure", Fn: func(context.Context) error { return types.Failf("first") }},
		{Description: "second failure", Fn: func(context.Context) error { return types.Failf("second") }},
	}))

	r, err := NewTestRunner(Config{Registry: reg, FileLogger: newFileLogger(t)})
	require.NoError(t, err)

	result, err := r.RunAllTests(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Failures, 2)
	assert.Contains(t, result.Failures[0], "second")
	assert.Contains(t, result.Failures[1], "first")
}

func TestRunAllTests_DeferredExecutor(t *testing.T) {
	r, err := NewTestRunner(Config{
		Registry:   mathSuite(t),
		FileLogger: newFileLogger(t),
		Executor:   DeferredExecutor{},
	})
	require.NoError(t, err)

	result, err := r.RunAllTests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Ran)
	assert.Equal(t, 1, result.Summary.Failed)
}
