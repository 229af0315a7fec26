package levelstack_test

import (
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/stretchr/testify/require"
)

// buildLevel wires a tiny 3-node level with edges 0->1, 1->2, 2->0 using
// InitLevelFromDegrees the way the checkpoint engine would.
func buildLevel(t *testing.T) *levelstack.Level {
	t.Helper()
	degrees := []uint32{1, 1, 1}
	lvl := levelstack.InitLevelFromDegrees(0, degrees)
	// Stream heads in tail order: node 0's slot, then node 1's, then node 2's.
	lvl.Edges[lvl.Vertices[0].AdjacencyStart] = 1
	lvl.Edges[lvl.Vertices[1].AdjacencyStart] = 2
	lvl.Edges[lvl.Vertices[2].AdjacencyStart] = 0
	return lvl
}

func TestStack_AppendAndFind(t *testing.T) {
	s := levelstack.New()
	s.Append(buildLevel(t))

	require.Equal(t, 1, s.NumLevels())
	require.Equal(t, core.NodeID(3), s.MaxNodes())

	w := core.AllLevels(0)
	ref := s.Find(2, 0, w, nil)
	require.False(t, ref.IsNil())
	require.Equal(t, uint16(0), ref.Level)

	miss := s.Find(0, 2, w, nil)
	require.True(t, miss.IsNil())
}

func TestStack_DegreeMatchesEdgeCount(t *testing.T) {
	s := levelstack.New()
	s.Append(buildLevel(t))
	w := core.AllLevels(0)

	for n := core.NodeID(0); n < 3; n++ {
		require.Equal(t, 1, s.Degree(n, w, nil))
	}
}

func TestStack_Checksum(t *testing.T) {
	lvl := buildLevel(t)
	c1 := lvl.Checksum()
	c2 := lvl.Checksum()
	require.Equal(t, c1, c2)

	lvl.Edges[0] = 99
	lvl.InvalidateChecksum()
	require.NotEqual(t, c1, lvl.Checksum())
}

func TestStack_DeleteLevel(t *testing.T) {
	s := levelstack.New()
	s.Append(buildLevel(t))
	require.True(t, s.DeleteLevel(0))
	require.Equal(t, 0, s.NumLevels())
	require.False(t, s.DeleteLevel(0))
}
