package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Cammf/aoe2-counter-guide/internal/importer"
	"github.com/Cammf/aoe2-counter-guide/internal/match"
)

func TestBuildIndex_PrefersSmallestID(t *testing.T) {
	ix := match.BuildIndex([]importer.Resource{
		{ID: 492, Name: "Arbalester"},
		{ID: 4, Name: "Archer"},
		{ID: 24, Name: "Archer"},
		{ID: 3, Name: "archer"},
	})

	id, ok := ix.Exact("Archer")
	require.True(t, ok)
	assert.Equal(t, 4, id)

	id, name, ok := ix.Normalized("archer")
	require.True(t, ok)
	assert.Equal(t, 3, id)
	assert.Equal(t, "archer", name)
}

func TestBuildIndex_SkipsBlankNames(t *testing.T) {
	ix := match.BuildIndex([]importer.Resource{
		{ID: 1, Name: "   "},
		{ID: 2, Name: "(Upgrade)"},
	})
	assert.Equal(t, 1, ix.Len())
	_, _, ok := ix.Normalized("")
	assert.False(t, ok)
}

// TestBuildIndex_OrderIndependent verifies that for resources sharing a name
// the index assigns the numerically smallest id for every input order.
func TestBuildIndex_OrderIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ids := rapid.SliceOfNDistinct(rapid.IntRange(0, 100000), 2, 8, rapid.ID[int]).Draw(t, "ids")
		names := []string{"Knight", "knight", "KNIGHT (Upgrade)", "Knight!"}

		var resources []importer.Resource
		smallest := ids[0]
		for i, id := range ids {
			resources = append(resources, importer.Resource{ID: id, Name: names[i%len(names)]})
			if id < smallest {
				smallest = id
			}
		}
		shuffled := rapid.Permutation(resources).Draw(t, "order")

		a := match.BuildIndex(resources)
		b := match.BuildIndex(shuffled)

		idA, _, ok := a.Normalized("knight")
		require.True(t, ok)
		idB, _, ok := b.Normalized("knight")
		require.True(t, ok)
		assert.Equal(t, smallest, idA)
		assert.Equal(t, idA, idB)

		for _, name := range names {
			ea, okA := a.Exact(name)
			eb, okB := b.Exact(name)
			assert.Equal(t, okA, okB)
			assert.Equal(t, ea, eb, "exact key %q", name)
		}
	})
}

func TestNewIndex_KeysVerbatim(t *testing.T) {
	ix := match.NewIndex(map[string]int{"Man-At-Arms": 23}, map[string]int{"man-at-arms": 23})

	id, ok := ix.Exact("Man-At-Arms")
	require.True(t, ok)
	assert.Equal(t, 23, id)

	_, _, ok = ix.Normalized("man at arms")
	assert.False(t, ok)
	id, _, ok = ix.Normalized("man-at-arms")
	require.True(t, ok)
	assert.Equal(t, 23, id)
}

func TestNewIndex_NormalizedReportsLiteralName(t *testing.T) {
	ix := match.NewIndex(
		map[string]int{"Man-At-Arms": 23, "Man-at-Arms": 23, "Archer": 4},
		map[string]int{"man-at-arms": 23, "spearman": 93},
	)

	_, name, ok := ix.Normalized("man-at-arms")
	require.True(t, ok)
	assert.Equal(t, "Man-At-Arms", name)

	id, name, ok := ix.Normalized("spearman")
	require.True(t, ok)
	assert.Equal(t, 93, id)
	assert.Equal(t, "spearman", name, "no exact name carries id 93")
}
