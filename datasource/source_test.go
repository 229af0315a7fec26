package datasource_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
	"github.com/katalvlaran/llama-csr/overlay"
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

func TestPull_AppliesEveryEdgeToSink(t *testing.T) {
	src := &sliceSource{edges: []datasource.Edge{
		{Tail: 0, Head: 1},
		{Tail: 1, Head: 2},
		{Tail: 0, Head: 2},
	}}
	ov := overlay.New()

	n, err := datasource.Pull(context.Background(), src, ov, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(3), n)
	require.Equal(t, core.NodeID(3), ov.MaxNodes())
	require.Len(t, ov.SnapshotOutEdges(0), 2)
}

func TestPull_RespectsMaxEdges(t *testing.T) {
	src := &sliceSource{edges: []datasource.Edge{
		{Tail: 0, Head: 1},
		{Tail: 1, Head: 2},
		{Tail: 2, Head: 3},
	}}
	ov := overlay.New()

	n, err := datasource.Pull(context.Background(), src, ov, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(2), n)
}

func TestPullParallel_AppliesEveryEdgeAcrossStripes(t *testing.T) {
	src := &sliceSource{edges: []datasource.Edge{
		{Tail: 0, Head: 10},
		{Tail: 1, Head: 11},
		{Tail: 2, Head: 12},
		{Tail: 3, Head: 13},
		{Tail: 0, Head: 14},
	}}
	ov := overlay.New()

	n, err := datasource.PullParallel(context.Background(), src, ov, 4, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)
	require.Len(t, ov.SnapshotOutEdges(0), 2)
	require.Len(t, ov.SnapshotOutEdges(1), 1)
}
