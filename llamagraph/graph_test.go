package llamagraph_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/llama-csr/config"
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
	"github.com/katalvlaran/llama-csr/llamagraph"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	edges []datasource.Edge
	pos   int
}

func (s *sliceSource) NextEdge() (datasource.Edge, bool, error) {
	if s.pos >= len(s.edges) {
		return datasource.Edge{}, false, nil
	}
	e := s.edges[s.pos]
	s.pos++
	return e, true, nil
}

func collectOut(t *testing.T, g *llamagraph.Graph, n core.NodeID) []core.NodeID {
	t.Helper()
	var out []core.NodeID
	it := g.OutIter(n, g.Window())
	for ref := it.Next(); !ref.IsNil(); ref = it.Next() {
		out = append(out, it.Neighbor())
	}
	return out
}

// TestTwoLevelIngest_InDegreeAndFindMatchNewestLevelFirst checkpoints
// twice and confirms degree counts, neighbor lists, and Find all span both
// frozen levels correctly.
func TestTwoLevelIngest_InDegreeAndFindMatchNewestLevelFirst(t *testing.T) {
	g, err := llamagraph.New(llamagraph.WithLoaderConfig(config.Default(config.WithReverseEdges(true))))
	require.NoError(t, err)
	ctx := context.Background()

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddNodeID(2, 0)
	g.AddEdge(0, 1, 0)
	g.AddEdge(1, 2, 0)
	g.AddEdge(2, 0, 0)
	require.NoError(t, g.Checkpoint(ctx, llamagraph.WithSortWithinLevel(true)))

	g.AddNodeID(3, 0)
	g.AddEdge(2, 3, 0)
	g.AddEdge(3, 0, 0)
	require.NoError(t, g.Checkpoint(ctx, llamagraph.WithSortWithinLevel(true)))

	require.Equal(t, 2, g.NumLevels())
	require.Equal(t, 2, g.OutDegree(2, g.Window()))
	require.ElementsMatch(t, []core.NodeID{0, 3}, collectOut(t, g, 2))
	require.Equal(t, 2, g.InDegree(0, g.Window()))

	ref := g.Find(2, 3, g.Window())
	require.False(t, ref.IsNil())
	require.Equal(t, uint16(1), ref.Level)
}

// TestDeleteEdge_HidesFrozenEdgeFromBothDirections confirms that deleting
// a frozen edge removes it from both the out-iterator and the mirror
// in-degree count.
func TestDeleteEdge_HidesFrozenEdgeFromBothDirections(t *testing.T) {
	g, err := llamagraph.New(llamagraph.WithLoaderConfig(config.Default(config.WithReverseEdges(true))))
	require.NoError(t, err)
	ctx := context.Background()

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddNodeID(2, 0)
	g.AddEdge(0, 1, 0)
	g.AddEdge(1, 2, 0)
	g.AddEdge(2, 0, 0)
	require.NoError(t, g.Checkpoint(ctx))

	ref := g.Find(0, 1, g.Window())
	require.False(t, ref.IsNil())
	g.DeleteEdge(0, ref, 0)

	require.Empty(t, collectOut(t, g, 0))
	require.Equal(t, 0, g.InDegree(1, g.Window()))
}

// TestLoadDirect_OrderedDeduplicatedYieldsSortedAdjacency confirms a
// direct load with UndirectedOrdered direction and deduplication enabled
// produces one level with each node's adjacency already sorted.
func TestLoadDirect_OrderedDeduplicatedYieldsSortedAdjacency(t *testing.T) {
	cfg := config.Default(
		config.WithDirection(config.UndirectedOrdered),
		config.WithDeduplicate(true),
	)
	g, err := llamagraph.New(llamagraph.WithLoaderConfig(cfg))
	require.NoError(t, err)

	src := &sliceSource{edges: []datasource.Edge{
		{Tail: 2, Head: 0},
		{Tail: 0, Head: 2},
		{Tail: 2, Head: 1},
		{Tail: 1, Head: 0},
		{Tail: 0, Head: 1},
	}}
	n, err := g.LoadDirect(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)

	require.Equal(t, 1, g.NumLevels())
	require.Equal(t, []core.NodeID{1, 2}, collectOut(t, g, 0))
}

// TestAddEdgeForStreamingWithWeights_AccumulatesAcrossCheckpoints confirms
// repeated streaming-weighted inserts of the same pair accumulate into one
// edge's weight rather than creating duplicates.
func TestAddEdgeForStreamingWithWeights_AccumulatesAcrossCheckpoints(t *testing.T) {
	g, err := llamagraph.New()
	require.NoError(t, err)
	ctx := context.Background()

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddEdgeForStreamingWithWeights(0, 1, 1.0, 0)
	require.NoError(t, g.Checkpoint(ctx))

	g.AddEdgeForStreamingWithWeights(0, 1, 1.0, 0)
	g.AddEdgeForStreamingWithWeights(0, 1, 1.0, 0)
	require.NoError(t, g.Checkpoint(ctx))

	it := g.OutIter(0, g.Window())
	ref := it.Next()
	require.False(t, ref.IsNil())
	weight, ok := it.Weight()
	require.True(t, ok)
	require.InDelta(t, 3.0, weight, 1e-9)
	require.True(t, it.Next().IsNil())
}

func TestDeleteNode_HidesFrozenIncidentEdgesInBothDirections(t *testing.T) {
	g, err := llamagraph.New(llamagraph.WithLoaderConfig(config.Default(config.WithReverseEdges(true))))
	require.NoError(t, err)
	ctx := context.Background()

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddNodeID(2, 0)
	g.AddEdge(0, 1, 0)
	g.AddEdge(2, 0, 0)
	require.NoError(t, g.Checkpoint(ctx))

	g.DeleteNode(0, 0)

	require.Empty(t, collectOut(t, g, 0))
	require.Equal(t, 0, g.OutDegree(0, g.Window()))
	require.Equal(t, 0, g.InDegree(1, g.Window()))
	require.Empty(t, collectOut(t, g, 2))
	require.Equal(t, 0, g.InDegree(0, g.Window()))
}

func TestSaveOpen_RoundTripsIterationOutput(t *testing.T) {
	dir := t.TempDir()
	g, err := llamagraph.New()
	require.NoError(t, err)
	ctx := context.Background()

	g.AddNodeID(0, 0)
	g.AddNodeID(1, 0)
	g.AddEdge(0, 1, 0)
	require.NoError(t, g.Checkpoint(ctx))

	require.NoError(t, g.Save(dir))

	g2, err := llamagraph.Open(dir)
	require.NoError(t, err)
	require.Equal(t, 1, g2.NumLevels())
	require.Equal(t, []core.NodeID{1}, collectOut(t, g2, 0))
}
