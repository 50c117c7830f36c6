package runner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

func TestSummarize(t *testing.T) {
	outcomes := []types.Outcome{
		types.Ok(),
		types.CheckFailed("nope"),
		types.Faulted(types.FaultException, "boom"),
		types.Skipped(),
		types.Pending("todo"),
	}

	s := Summarize(outcomes, 2*time.Second)

	assert.Equal(t, 3, s.Ran, "ok, check-failed and fault count as run")
	assert.Equal(t, 3, s.Failed, "check-failed, fault and pending count as failed")
	assert.Equal(t, 2*time.Second, s.Elapsed)
}

func TestSummarize_SkippedNeverFails(t *testing.T) {
	s := Summarize([]types.Outcome{types.Skipped(), types.Skipped()}, time.Second)
	assert.Equal(t, 0, s.Ran)
	assert.Equal(t, 0, s.Failed)
}

func TestSummarize_Idempotent(t *testing.T) {
	outcomes := []types.Outcome{types.Ok(), types.CheckFailed("x"), types.Pending("y")}

	first := Summarize(outcomes, 5*time.Second)
	second := Summarize(outcomes, 5*time.Second)
	assert.Equal(t, first, second)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, 0)
	assert.Equal(t, 0, s.Ran)
	assert.Equal(t, 0, s.Failed)
}
