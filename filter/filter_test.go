package filter

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-harness/registry"
	"github.com/ethereum-optimism/infra/op-harness/types"
)

func suite(t *testing.T) []*registry.RegisteredTest {
	t.Helper()
	r := registry.NewRegistry(registry.Config{})
	require.NoError(t, r.AddGroup("math", []types.TestCase{
		{Description: "a", Fn: func(context.Context) error { return nil }},
		{Description: "b", Fn: func(context.Context) error { return nil }},
	}))
	require.NoError(t, r.AddGroup("strings", []types.TestCase{
		{Description: "c", Fn: func(context.Context) error { return nil }},
	}))
	return r.All()
}

func TestParseIndexSet(t *testing.T) {
	set, err := ParseIndexSet("4,6-10,19")
	require.NoError(t, err)

	for _, want := range []int{4, 6, 7, 8, 9, 10, 19} {
		assert.True(t, set.Contains(want), "expected %d in set", want)
	}
	assert.False(t, set.Contains(5))
	assert.False(t, set.Contains(11))
}

func TestParseIndexSet_Invalid(t *testing.T) {
	for _, spec := range []string{"", "a", "1,", "5-3", "-1", "1--2"} {
		_, err := ParseIndexSet(spec)
		assert.Error(t, err, "spec %q should not parse", spec)
	}
}

func TestApply_DropPreservesOrder(t *testing.T) {
	tests := suite(t)

	out, err := Apply(tests, Criteria{Name: regexp.MustCompile("math")}, Drop)
	require.NoError(t, err)

	require.Len(t, out, 2)
	assert.Equal(t, types.TestPath{Group: "math", Index: 0}, out[0].Path)
	assert.Equal(t, types.TestPath{Group: "math", Index: 1}, out[1].Path)
}

func TestApply_SubstituteKeepsShape(t *testing.T) {
	tests := suite(t)

	cases, err := ParseIndexSet("0")
	require.NoError(t, err)
	out, err := Apply(tests, Criteria{Name: regexp.MustCompile("math"), Cases: cases}, Substitute)
	require.NoError(t, err)

	require.Len(t, out, len(tests), "substitute mode preserves the full suite shape")
	for i := range tests {
		assert.Equal(t, tests[i].Path, out[i].Path)
	}

	// The matching entry keeps its body; the others are forced skips.
	assert.NoError(t, out[0].Fn(context.Background()))
	for _, sub := range out[1:] {
		err := sub.Fn(context.Background())
		var skip *types.SkipError
		assert.ErrorAs(t, err, &skip)
	}
}

func TestApply_EmptySelection(t *testing.T) {
	tests := suite(t)

	cases, err := ParseIndexSet("5")
	require.NoError(t, err)
	_, err = Apply(tests, Criteria{Cases: cases}, Substitute)
	assert.True(t, errors.Is(err, ErrEmptySelection))

	_, err = Apply(tests, Criteria{Name: regexp.MustCompile("^nothing$")}, Drop)
	assert.True(t, errors.Is(err, ErrEmptySelection))
}

func TestCriteria_Matches(t *testing.T) {
	cases, err := ParseIndexSet("1-2")
	require.NoError(t, err)
	c := Criteria{Name: regexp.MustCompile("^ma"), Cases: cases}

	assert.True(t, c.Matches(types.TestPath{Group: "math", Index: 1}))
	assert.False(t, c.Matches(types.TestPath{Group: "math", Index: 0}), "index outside set")
	assert.False(t, c.Matches(types.TestPath{Group: "strings", Index: 1}), "name mismatch")

	// Absent criteria match everything.
	assert.True(t, Criteria{}.Matches(types.TestPath{Group: "anything", Index: 99}))
}
