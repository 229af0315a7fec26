package llamagraph

import (
	"github.com/katalvlaran/llama-csr/core"
)

// AddNode allocates a fresh node ID, per add_node. ok is
// false if this build's node-ID space is exhausted; no error value is
// returned for that case.
func (g *Graph) AddNode(ts core.Timestamp) (id core.NodeID, ok bool) {
	return g.ov.AddNode(ts)
}

// AddNodeID idempotently ensures id exists, for data-source ingest paths
// that name nodes by their input ID rather than letting the overlay
// allocate one.
func (g *Graph) AddNodeID(id core.NodeID, ts core.Timestamp) bool {
	return g.ov.AddNodeID(id, ts)
}

// AddEdge appends a new overlay edge from src to dst, auto-vivifying either
// endpoint. Direction handling (UndirectedDouble/UndirectedOrdered) is the
// ingest pipeline's concern (see Ingest/LoadDirect); this method always
// records exactly the (src, dst) pair given.
func (g *Graph) AddEdge(src, dst core.NodeID, ts core.Timestamp) core.EdgeRef {
	return g.ov.AddEdge(src, dst, ts)
}

// AddEdgeIfNotExists returns the existing (src,dst) edge, checked against
// the overlay and then the newest frozen level, or creates one.
func (g *Graph) AddEdgeIfNotExists(src, dst core.NodeID, ts core.Timestamp) (ref core.EdgeRef, created bool) {
	return g.ov.AddEdgeIfNotExists(src, dst, ts)
}

// AddEdgeForStreamingWithWeights deduplicates (src,dst), accumulating
// weightDelta into any existing match (superseding a frozen one), or
// creates a fresh weighted overlay edge.
func (g *Graph) AddEdgeForStreamingWithWeights(src, dst core.NodeID, weightDelta float64, ts core.Timestamp) core.EdgeRef {
	return g.ov.AddEdgeForStreamingWithWeights(src, dst, weightDelta, ts)
}

// DeleteNode tombstones n, marks every overlay edge it touches deleted
// (overlay.DeleteNode's job), and then sweeps every live frozen edge
// incident to n — as either tail or head — through the deletion tracker,
// so no iterator yields a deleted node's incident edges afterward,
// frozen or otherwise.
func (g *Graph) DeleteNode(n core.NodeID, ts core.Timestamp) {
	g.ov.DeleteNode(n, ts)

	w := g.Window()
	out := g.OutIter(n, w)
	for ref := out.Next(); !ref.IsNil(); ref = out.Next() {
		if ref.IsOverlay() {
			continue
		}
		g.DeleteEdge(n, ref, ts)
	}

	if g.in == nil {
		return
	}
	in := g.InIter(n, w)
	for ref := in.Next(); !ref.IsNil(); ref = in.Next() {
		if ref.IsOverlay() {
			continue
		}
		tail := in.Neighbor()
		g.del.MarkDeletedIn(n, ref, ts, g.cfg.Timestamps)
		g.markDeletedOutMirror(tail, n, ts)
	}
}

// DeleteEdge marks ref deleted, dispatching between the overlay and the
// deletion tracker depending on which one owns ref: if ref is
// overlay-tagged, the overlay record is marked deleted directly; otherwise
// a deletion-tracker entry is recorded for the frozen edge on both the
// out- and in-side if in-edges exist. src is the node the deletion was
// invoked against (the edge's tail for an out-ref); it is unused when ref
// is overlay-tagged, since overlay.DeleteEdge locates the record by ref
// alone.
func (g *Graph) DeleteEdge(src core.NodeID, ref core.EdgeRef, ts core.Timestamp) {
	if ref.IsNil() {
		return
	}
	if ref.IsOverlay() {
		g.ov.DeleteEdge(ref, ts)
		return
	}

	g.del.MarkDeletedOut(src, ref, ts, g.cfg.Timestamps)
	if g.in == nil {
		return
	}
	level := g.out.LevelByNumber(uint32(ref.Level))
	if level == nil || ref.Index >= uint64(len(level.Edges)) {
		return
	}
	dst := level.Edges[ref.Index]
	g.markDeletedInMirror(src, dst, ts)
}

// NodeExists reports whether n has any overlay record and whether it is
// tombstoned.
func (g *Graph) NodeExists(n core.NodeID) (exists, tombstoned bool) {
	return g.ov.NodeExists(n)
}

// TxBegin/TxCommit/TxAbort expose the overlay's transaction-timestamp hooks
// (a visibility mechanism, not an isolation one).
func (g *Graph) TxBegin() core.Timestamp { return g.ov.TxBegin() }
func (g *Graph) TxCommit()               { g.ov.TxCommit() }
func (g *Graph) TxAbort()                { g.ov.TxAbort() }
