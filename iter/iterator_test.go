package iter_test

import (
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/deletion"
	"github.com/katalvlaran/llama-csr/iter"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/overlay"
	"github.com/stretchr/testify/require"
)

func buildTwoLevelOutStack(t *testing.T) *levelstack.Stack {
	t.Helper()
	s := levelstack.New()

	l0 := levelstack.InitLevelFromDegrees(0, []uint32{2, 0})
	l0.Edges[0] = 1
	l0.Edges[1] = 2
	s.Append(l0)

	l1 := levelstack.InitLevelFromDegrees(1, []uint32{1, 0})
	l1.Edges[0] = 3
	s.Append(l1)

	return s
}

func collect(t *iter.Iterator) []core.NodeID {
	var out []core.NodeID
	for {
		ref := t.Next()
		if ref.IsNil() {
			return out
		}
		out = append(out, t.Neighbor())
	}
}

func TestIterator_WalksOverlayThenLevelsNewestFirst(t *testing.T) {
	stack := buildTwoLevelOutStack(t)
	ov := overlay.New()
	ov.AddEdge(0, 4, 0)

	w := core.AllLevels(1)
	it := iter.NewOut(0, w, stack, nil, ov.SnapshotOutEdges(0))

	require.Equal(t, []core.NodeID{4, 3, 1, 2}, collect(it))
}

func TestIterator_SkipsDeletedFrozenEdges(t *testing.T) {
	stack := buildTwoLevelOutStack(t)
	tracker := deletion.New()
	tracker.MarkDeletedOut(0, core.FrozenEdge(0, 0), 0, false) // hides the edge to 1

	w := core.AllLevels(1)
	it := iter.NewOut(0, w, stack, tracker.OutView(), nil)

	require.Equal(t, []core.NodeID{3, 2}, collect(it))
}

func TestIterator_SkipsDeletedOverlayEdge(t *testing.T) {
	ov := overlay.New()
	ref := ov.AddEdge(0, 9, 0)
	ov.DeleteEdge(ref, 1)

	w := core.AllLevels(0)
	it := iter.NewOut(0, w, levelstack.New(), nil, ov.SnapshotOutEdges(0))

	require.Nil(t, collect(it))
	require.True(t, it.Next().IsNil())
}

func TestIterator_RespectsMinLevelWindow(t *testing.T) {
	stack := buildTwoLevelOutStack(t)
	w := core.Window{MinLevel: 1, MaxLevel: 1}
	it := iter.NewOut(0, w, stack, nil, nil)

	require.Equal(t, []core.NodeID{3}, collect(it))
}

func TestIterator_InDirectionReportsSource(t *testing.T) {
	ov := overlay.New()
	ov.AddEdge(5, 6, 0)

	w := core.AllLevels(0)
	it := iter.NewIn(6, w, levelstack.New(), nil, ov.SnapshotInEdges(6))

	ref := it.Next()
	require.False(t, ref.IsNil())
	require.Equal(t, core.NodeID(5), it.Neighbor())
	require.Equal(t, core.In, it.Direction())
}
