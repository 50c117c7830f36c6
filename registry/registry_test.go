package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethereum-optimism/infra/op-harness/types"
)

func noop(ctx context.Context) error { return nil }

func TestRegistry_AddPreservesOrder(t *testing.T) {
	r := NewRegistry(Config{})

	paths := []types.TestPath{
		{Group: "zeta", Index: 0},
		{Group: "alpha", Index: 0},
		{Group: "alpha", Index: 1},
	}
	for _, p := range paths {
		require.NoError(t, r.Add(p, "d", types.SpeedQuick, noop))
	}

	all := r.All()
	require.Len(t, all, 3)
	for i, p := range paths {
		assert.Equal(t, p, all[i].Path, "insertion order must be preserved")
	}
}

func TestRegistry_DuplicateFileKey(t *testing.T) {
	r := NewRegistry(Config{})

	original := types.TestPath{Group: "Math", Index: 0}
	require.NoError(t, r.Add(original, "the original", types.SpeedQuick, noop))

	// Case-different group names normalize to the same file key.
	err := r.Add(types.TestPath{Group: "math", Index: 0}, "the impostor", types.SpeedSlow, noop)
	require.Error(t, err)
	var dup *DuplicateTestError
	require.ErrorAs(t, err, &dup)

	// The original entry is untouched.
	assert.Equal(t, "the original.", r.Description(original))
	assert.Equal(t, types.SpeedQuick, r.Speed(original))
	assert.Len(t, r.All(), 1)
}

func TestRegistry_InvalidNamesAccumulate(t *testing.T) {
	r := NewRegistry(Config{})

	err := r.AddGroup("bad/name", []types.TestCase{{Description: "x", Fn: noop}})
	assert.NoError(t, err, "invalid names are accumulated, not returned per group")
	err = r.AddGroup("worse\tname", []types.TestCase{{Description: "y", Fn: noop}})
	assert.NoError(t, err)

	verr := r.Validate()
	require.Error(t, verr)
	assert.Contains(t, verr.Error(), "bad/name")
	assert.Contains(t, verr.Error(), "worse\tname")
	assert.Empty(t, r.All(), "invalid groups must not be inserted")
}

func TestRegistry_ValidNameCharacters(t *testing.T) {
	r := NewRegistry(Config{})
	require.NoError(t, r.AddGroup("ok_name-1 and space", []types.TestCase{{Description: "x", Fn: noop}}))
	assert.NoError(t, r.Validate())
}

func TestRegistry_MetadataDefaults(t *testing.T) {
	r := NewRegistry(Config{})
	unknown := types.TestPath{Group: "ghost", Index: 9}

	assert.Equal(t, "", r.Description(unknown))
	assert.Equal(t, types.SpeedSlow, r.Speed(unknown))
}

func TestRegistry_DescriptionNormalization(t *testing.T) {
	r := NewRegistry(Config{})
	p := types.TestPath{Group: "math", Index: 0}
	require.NoError(t, r.Add(p, "adds integers", types.SpeedQuick, noop))

	assert.Equal(t, "adds integers.", r.Description(p))

	p2 := types.TestPath{Group: "math", Index: 1}
	require.NoError(t, r.Add(p2, "already terminated.", types.SpeedQuick, noop))
	assert.Equal(t, "already terminated.", r.Description(p2))
}

func TestRegistry_AddGroupAssignsIndices(t *testing.T) {
	r := NewRegistry(Config{})
	require.NoError(t, r.AddGroup("math", []types.TestCase{
		{Description: "first", Fn: noop},
		{Description: "second", Fn: noop},
	}))

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, types.TestPath{Group: "math", Index: 0}, all[0].Path)
	assert.Equal(t, types.TestPath{Group: "math", Index: 1}, all[1].Path)
}
