package recipegraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upstreamNames(steps []UpstreamStep) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.ItemName)
	}
	return names
}

func downstreamNames(steps []DownstreamStep) []string {
	names := make([]string, 0, len(steps))
	for _, s := range steps {
		names = append(names, s.ItemName)
	}
	return names
}

func TestTraceUpstream(t *testing.T) {
	g := testGraph()

	t.Run("breadth first order", func(t *testing.T) {
		steps := g.TraceUpstream(1303, 3)
		// Direct inputs of electric_motor first, then their inputs.
		assert.Equal(t, []string{
			"iron_ingot", "magnetic_coil", // depth 1
			"iron_ore", "magnet", "copper_ingot", // depth 2
			"copper_ore", // depth 3 (iron_ore already seen via iron_ingot)
		}, upstreamNames(steps))
	})

	t.Run("depth limit", func(t *testing.T) {
		steps := g.TraceUpstream(1303, 1)
		assert.Equal(t, []string{"iron_ingot", "magnetic_coil"}, upstreamNames(steps))
	})

	t.Run("diamond dependency reported once", func(t *testing.T) {
		// iron_ore feeds both iron_ingot and magnet; it must appear once.
		steps := g.TraceUpstream(1303, 5)
		seen := 0
		for _, s := range steps {
			if s.ItemID == 1001 {
				seen++
			}
		}
		assert.Equal(t, 1, seen)
	})

	t.Run("recipe attribution", func(t *testing.T) {
		steps := g.TraceUpstream(1101, 1)
		require.Len(t, steps, 1)
		assert.Equal(t, 1001, steps[0].ItemID)
		assert.Equal(t, 1, steps[0].RecipeID, "the hop names the producing recipe")
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.Empty(t, g.TraceUpstream(9999, 5))
	})
}

func TestTraceDownstream(t *testing.T) {
	g := testGraph()

	t.Run("breadth first order", func(t *testing.T) {
		steps := g.TraceDownstream(1001, 5)
		assert.Equal(t, []string{
			"iron_ingot", "magnet", // depth 1
			"electric_motor", "magnetic_coil", // depth 2
		}, downstreamNames(steps))
	})

	t.Run("depth limit", func(t *testing.T) {
		steps := g.TraceDownstream(1001, 1)
		assert.Equal(t, []string{"iron_ingot", "magnet"}, downstreamNames(steps))
	})

	t.Run("unknown item", func(t *testing.T) {
		assert.Empty(t, g.TraceDownstream(9999, 5))
	})
}

// hydrogen is both input and primary output of the cracking recipe. The
// visited set must terminate the loop with each item reported once.
func TestTraverseTerminatesOnRecyclingLoop(t *testing.T) {
	g := testGraph()

	up := g.TraceUpstream(1120, 10)
	assert.Equal(t, []string{"crude_oil", "refined_oil"}, upstreamNames(up))

	down := g.TraceDownstream(1007, 10)
	assert.Equal(t, []string{"refined_oil", "hydrogen"}, downstreamNames(down))
}

func TestIsAncestor(t *testing.T) {
	g := testGraph()

	// iron_ingot feeds electric_motor directly.
	assert.True(t, g.IsAncestor(1, 1303))
	// copper_ingot feeds it through magnetic_coil.
	assert.True(t, g.IsAncestor(3, 1303))
	// refined_oil feeds hydrogen through cracking.
	assert.True(t, g.IsAncestor(6, 1120))
	// electric_motor does not feed iron_ore.
	assert.False(t, g.IsAncestor(5, 1001))
	// Unknown recipe.
	assert.False(t, g.IsAncestor(999, 1303))
}
