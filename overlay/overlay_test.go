package overlay_test

import (
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/overlay"
	"github.com/stretchr/testify/require"
)

func TestAddNode_AllocatesAscendingIDs(t *testing.T) {
	o := overlay.New()

	a, ok := o.AddNode(0)
	require.True(t, ok)
	b, ok := o.AddNode(0)
	require.True(t, ok)

	require.Equal(t, core.NodeID(0), a)
	require.Equal(t, core.NodeID(1), b)
	require.Equal(t, core.NodeID(2), o.MaxNodes())
}

func TestAddNodeID_IsIdempotent(t *testing.T) {
	o := overlay.New()

	require.True(t, o.AddNodeID(5, 0))
	require.False(t, o.AddNodeID(5, 0))

	exists, tomb := o.NodeExists(5)
	require.True(t, exists)
	require.False(t, tomb)
	require.Equal(t, core.NodeID(6), o.MaxNodes())
}

func TestAddEdge_AutoVivifiesEndpointsAndRecordsBothDirections(t *testing.T) {
	o := overlay.New()

	ref := o.AddEdge(1, 2, 10)
	require.True(t, ref.IsOverlay())

	out := o.SnapshotOutEdges(1)
	require.Len(t, out, 1)
	require.Equal(t, core.NodeID(2), out[0].Target)
	require.False(t, out[0].Deleted)

	in := o.SnapshotInEdges(2)
	require.Len(t, in, 1)
	require.Equal(t, core.NodeID(1), in[0].Source)

	exists, _ := o.NodeExists(1)
	require.True(t, exists)
	exists, _ = o.NodeExists(2)
	require.True(t, exists)
}

func TestAddEdgeIfNotExists_DedupsWithinOverlay(t *testing.T) {
	o := overlay.New()

	ref1, created1 := o.AddEdgeIfNotExists(1, 2, 0)
	require.True(t, created1)

	ref2, created2 := o.AddEdgeIfNotExists(1, 2, 0)
	require.False(t, created2)
	require.Equal(t, ref1, ref2)

	require.Len(t, o.SnapshotOutEdges(1), 1)
}

type fakeFrozen struct {
	ref    core.EdgeRef
	weight float64
}

func (f fakeFrozen) FindLatest(u, v core.NodeID) core.EdgeRef { return f.ref }
func (f fakeFrozen) WeightOf(ref core.EdgeRef) float64        { return f.weight }

func TestAddEdgeIfNotExists_ChecksFrozenLevel(t *testing.T) {
	frozenRef := core.FrozenEdge(0, 3)
	o := overlay.New(overlay.WithFrozenLookup(fakeFrozen{ref: frozenRef, weight: 1.5}))

	ref, created := o.AddEdgeIfNotExists(1, 2, 0)
	require.False(t, created)
	require.Equal(t, frozenRef, ref)
	require.Empty(t, o.SnapshotOutEdges(1))
}

func TestAddEdgeForStreamingWithWeights_AccumulatesWithinOverlay(t *testing.T) {
	o := overlay.New()

	ref1 := o.AddEdgeForStreamingWithWeights(1, 2, 2.0, 0)
	ref2 := o.AddEdgeForStreamingWithWeights(1, 2, 3.0, 0)
	require.Equal(t, ref1, ref2)

	out := o.SnapshotOutEdges(1)
	require.Len(t, out, 1)
	require.InDelta(t, 5.0, out[0].Weight, 1e-9)
}

func TestAddEdgeForStreamingWithWeights_SupersedesFrozenEdge(t *testing.T) {
	frozenRef := core.FrozenEdge(0, 7)
	var supersededRef core.EdgeRef
	var sawHook bool

	o := overlay.New(
		overlay.WithFrozenLookup(fakeFrozen{ref: frozenRef, weight: 4.0}),
		overlay.WithSupersedeHook(func(ref core.EdgeRef, ts core.Timestamp) {
			sawHook = true
			supersededRef = ref
		}),
	)

	ref := o.AddEdgeForStreamingWithWeights(1, 2, 1.5, 9)
	require.True(t, ref.IsOverlay())
	require.True(t, sawHook)
	require.Equal(t, frozenRef, supersededRef)

	out := o.SnapshotOutEdges(1)
	require.Len(t, out, 1)
	require.InDelta(t, 5.5, out[0].Weight, 1e-9)
	require.Equal(t, frozenRef, out[0].Supersedes)
}

func TestDeleteNode_TombstonesAndMarksIncidentOverlayEdgesDeleted(t *testing.T) {
	o := overlay.New()
	o.AddEdge(1, 2, 0)
	o.AddEdge(3, 1, 0)

	o.DeleteNode(1, 5)

	exists, tomb := o.NodeExists(1)
	require.True(t, exists)
	require.True(t, tomb)

	out := o.SnapshotOutEdges(1)
	require.Len(t, out, 1)
	require.True(t, out[0].Deleted)

	in := o.SnapshotInEdges(1)
	require.Len(t, in, 1)
	require.True(t, in[0].Deleted)

	// Deleting an already-tombstoned node is a no-op, not an error.
	o.DeleteNode(1, 6)
	out = o.SnapshotOutEdges(1)
	require.True(t, out[0].Deleted)
}

func TestDeleteEdge_MarksOverlayEdgeDeletedAndRejectsFrozenRef(t *testing.T) {
	o := overlay.New()
	ref := o.AddEdge(1, 2, 0)

	require.True(t, o.DeleteEdge(ref, 1))
	out := o.SnapshotOutEdges(1)
	require.True(t, out[0].Deleted)

	require.False(t, o.DeleteEdge(core.FrozenEdge(0, 0), 1))
}

func TestTxBegin_MonotonicWhenTimestampsEnabled(t *testing.T) {
	o := overlay.New(overlay.WithTimestamps(true))

	ts1 := o.TxBegin()
	ts2 := o.TxBegin()
	require.Greater(t, ts2, ts1)
	require.Equal(t, int64(2), o.ActiveTransactions())

	o.TxCommit()
	require.Equal(t, int64(1), o.ActiveTransactions())
}

func TestTxBegin_ZeroWhenTimestampsDisabled(t *testing.T) {
	o := overlay.New()
	require.Equal(t, core.Timestamp(0), o.TxBegin())
	require.Equal(t, core.Timestamp(0), o.TxBegin())
}

func TestReset_ClearsEdgesButKeepsWatermark(t *testing.T) {
	o := overlay.New()
	o.AddEdge(1, 2, 0)
	require.NotEqual(t, core.NodeID(0), o.MaxNodes())

	watermark := o.MaxNodes()
	o.Reset()

	require.Equal(t, watermark, o.MaxNodes())
	exists, _ := o.NodeExists(1)
	require.False(t, exists)
}
