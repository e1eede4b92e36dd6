package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/enginebind/errors"
	bindtest "github.com/teranos/enginebind/internal/testing"
)

func TestPartition_FoundationSet(t *testing.T) {
	a := bindtest.LoadEngine(t)

	core, err := StronglyConnectedComponents(a, "Object", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Object", "Reference"}, core.Sorted())

	ext := core.Complement(a)
	assert.Equal(t, []string{"Engine", "Node", "Node2D", "Resource", "Sprite", "Texture"}, ext.Sorted())
}

func TestPartition_ReachabilityNotJustComponent(t *testing.T) {
	g, err := Build(bindtest.LoadEngine(t))
	require.NoError(t, err)

	// Sprite is its own component but pulls in everything it depends on.
	set, err := Partition(g, "Sprite", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node", "Node2D", "Object", "Reference", "Resource", "Sprite", "Texture"}, set.Sorted())
}

func TestPartition_ExcludesAlreadyBound(t *testing.T) {
	g, err := Build(bindtest.LoadEngine(t))
	require.NoError(t, err)

	core, err := Partition(g, "Object", nil)
	require.NoError(t, err)

	set, err := Partition(g, "Sprite", core)
	require.NoError(t, err)
	assert.Equal(t, []string{"Node", "Node2D", "Resource", "Sprite", "Texture"}, set.Sorted())
	for n := range core {
		assert.False(t, set.Contains(n), "%s is already bound", n)
	}
}

func TestPartition_UnknownRoot(t *testing.T) {
	g, err := Build(bindtest.LoadEngine(t))
	require.NoError(t, err)

	_, err = Partition(g, "Nope", nil)
	assert.True(t, errors.Is(err, errors.ErrUnknownClass))
}

func TestPartition_Deterministic(t *testing.T) {
	a := bindtest.LoadEngine(t)
	exclude := NewSet("Reference")

	first, err := StronglyConnectedComponents(a, "Sprite", exclude)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := StronglyConnectedComponents(a, "Sprite", exclude)
		require.NoError(t, err)
		assert.True(t, first.Equal(again), "run %d differs", i)
	}
}

func TestPartition_MonotonicExclusion(t *testing.T) {
	g, err := Build(bindtest.LoadEngine(t))
	require.NoError(t, err)

	chains := [][]Set{
		{nil, NewSet("Object"), NewSet("Object", "Reference"), NewSet("Object", "Reference", "Node")},
		{NewSet("Texture"), NewSet("Texture", "Node2D"), NewSet("Texture", "Node2D", "Resource", "Engine")},
	}
	for _, chain := range chains {
		for i := 1; i < len(chain); i++ {
			require.True(t, chain[i-1].SubsetOf(chain[i]))
			wide, err := Partition(g, "Sprite", chain[i-1])
			require.NoError(t, err)
			narrow, err := Partition(g, "Sprite", chain[i])
			require.NoError(t, err)
			assert.True(t, narrow.SubsetOf(wide), "excluding %v must not add classes", chain[i].Sorted())
		}
	}
}

func TestPartition_EachClassInExactlyOneSet(t *testing.T) {
	a := bindtest.LoadEngine(t)

	core, err := StronglyConnectedComponents(a, a.Root(), nil)
	require.NoError(t, err)
	ext := core.Complement(a)

	for _, name := range a.Names() {
		assert.NotEqual(t, core.Contains(name), ext.Contains(name), "%s must be in exactly one set", name)
	}
}

func TestSetHelpers(t *testing.T) {
	var empty Set
	assert.False(t, empty.Contains("A"))
	assert.True(t, empty.SubsetOf(NewSet("A")))
	assert.True(t, NewSet("B", "A").Equal(NewSet("A", "B")))
	assert.False(t, NewSet("A").Equal(NewSet("A", "B")))
	assert.Equal(t, []string{"A", "B"}, NewSet("B", "A").Sorted())
}
