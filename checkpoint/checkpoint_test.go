package checkpoint_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/llama-csr/checkpoint"
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/overlay"
	"github.com/katalvlaran/llama-csr/propstore"
	"github.com/stretchr/testify/require"
)

func neighborsOf(t *testing.T, lvl *levelstack.Level, n core.NodeID) []core.NodeID {
	t.Helper()
	entry := lvl.Vertices[n]
	out := make([]core.NodeID, entry.Length)
	copy(out, lvl.Edges[entry.AdjacencyStart:entry.AdjacencyStart+uint64(entry.Length)])
	return out
}

func TestRun_EmitsLiveOverlayEdgesAndRetiresOverlay(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	b, _ := ov.AddNode(0)
	c, _ := ov.AddNode(0)
	ov.AddEdge(a, b, 0)
	ov.AddEdge(a, c, 0)

	require.NoError(t, checkpoint.Run(context.Background(), out, nil, ov, store))

	require.Equal(t, 1, out.NumLevels())
	lvl := out.Newest()
	require.Equal(t, []core.NodeID{b, c}, neighborsOf(t, lvl, a))
	require.Empty(t, neighborsOf(t, lvl, b))

	require.Empty(t, ov.Nodes())
	require.Equal(t, core.NodeID(3), ov.MaxNodes())
}

func TestRun_FiltersDeletedOverlayEdges(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	b, _ := ov.AddNode(0)
	c, _ := ov.AddNode(0)
	ov.AddEdge(a, b, 0)
	ref := ov.AddEdge(a, c, 0)
	require.True(t, ov.DeleteEdge(ref, 0))

	require.NoError(t, checkpoint.Run(context.Background(), out, nil, ov, store))

	lvl := out.Newest()
	require.Equal(t, []core.NodeID{b}, neighborsOf(t, lvl, a))
}

func TestRun_SortAndDeduplicateWithinNode(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	x, _ := ov.AddNode(0)
	y, _ := ov.AddNode(0)
	ov.AddEdge(a, y, 0)
	ov.AddEdge(a, x, 0)
	ov.AddEdge(a, y, 0) // duplicate target

	require.NoError(t, checkpoint.Run(context.Background(), out, nil, ov, store,
		checkpoint.WithSortWithinLevel(true),
		checkpoint.WithDeduplicate(true),
	))

	lvl := out.Newest()
	require.True(t, lvl.Sorted)
	require.Equal(t, []core.NodeID{x, y}, neighborsOf(t, lvl, a))
}

func TestRun_BuildsReverseLevelWhenRequested(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	in := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	b, _ := ov.AddNode(0)
	c, _ := ov.AddNode(0)
	ov.AddEdge(a, c, 0)
	ov.AddEdge(b, c, 0)

	require.NoError(t, checkpoint.Run(context.Background(), out, in, ov, store,
		checkpoint.WithReverseEdges(true),
	))

	require.Equal(t, 1, in.NumLevels())
	revLvl := in.Newest()
	require.True(t, revLvl.Sorted)
	require.ElementsMatch(t, []core.NodeID{a, b}, neighborsOf(t, revLvl, c))
	require.Empty(t, neighborsOf(t, revLvl, a))
}

func TestRun_WithoutReverseEdgesLeavesInStackUntouched(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	in := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	b, _ := ov.AddNode(0)
	ov.AddEdge(a, b, 0)

	require.NoError(t, checkpoint.Run(context.Background(), out, in, ov, store))

	require.Equal(t, 0, in.NumLevels())
}

func TestRun_SecondCheckpointAppendsAnotherLevel(t *testing.T) {
	ov := overlay.New()
	out := levelstack.New()
	store := propstore.NewStore()

	a, _ := ov.AddNode(0)
	b, _ := ov.AddNode(0)
	ov.AddEdge(a, b, 0)
	require.NoError(t, checkpoint.Run(context.Background(), out, nil, ov, store))

	c, _ := ov.AddNode(0)
	ov.AddEdge(a, c, 0)
	require.NoError(t, checkpoint.Run(context.Background(), out, nil, ov, store))

	require.Equal(t, 2, out.NumLevels())
	require.Equal(t, uint32(1), out.Newest().Number)
	require.Equal(t, []core.NodeID{c}, neighborsOf(t, out.Newest(), a))
}
