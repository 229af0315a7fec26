package iter

import (
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/overlay"
)

// frozenCursor tracks progress through one resolved adjacency slice of one
// frozen level.
type frozenCursor struct {
	physical   *levelstack.Level
	start      uint64
	length     uint32
	levelNum   uint32
	sorted     bool
	off        uint32
}

// Iterator walks one node's out- or in-adjacency across the overlay and
// the frozen level stack, oldest state hidden by Window w and the
// deletion tracker's DeletionView.
type Iterator struct {
	node core.NodeID
	w    core.Window
	dir  core.Direction

	stack *levelstack.Stack
	dv    levelstack.DeletionView

	overlayEdges    []overlay.OverlayEdgeView
	overlayPos      int
	overlayNeighbor func(overlay.OverlayEdgeView) core.NodeID

	levelIndices []int
	levelPos     int
	cur          *frozenCursor

	curNeighbor core.NodeID
	curWeight   float64
	curHasWt    bool
	curSorted   bool
}

// NewOut returns an Iterator over n's out-edges: stack is the out-stack,
// dv its deletion view, and overlayEdges n's overlay out-edges
// (overlay.SnapshotOutEdges(n)) in insertion order.
func NewOut(n core.NodeID, w core.Window, stack *levelstack.Stack, dv levelstack.DeletionView, overlayEdges []overlay.OverlayEdgeView) *Iterator {
	return newIterator(n, w, core.Out, stack, dv, overlayEdges, func(e overlay.OverlayEdgeView) core.NodeID { return e.Target })
}

// NewIn returns an Iterator over n's in-edges: stack is the in-stack, dv
// its deletion view, and overlayEdges n's overlay in-edges
// (overlay.SnapshotInEdges(n)) in insertion order.
func NewIn(n core.NodeID, w core.Window, stack *levelstack.Stack, dv levelstack.DeletionView, overlayEdges []overlay.OverlayEdgeView) *Iterator {
	return newIterator(n, w, core.In, stack, dv, overlayEdges, func(e overlay.OverlayEdgeView) core.NodeID { return e.Source })
}

func newIterator(n core.NodeID, w core.Window, dir core.Direction, stack *levelstack.Stack, dv levelstack.DeletionView, overlayEdges []overlay.OverlayEdgeView, overlayNeighbor func(overlay.OverlayEdgeView) core.NodeID) *Iterator {
	var levelIndices []int
	if stack != nil {
		levelIndices = stack.VisibleIndices(w)
	}
	return &Iterator{
		node: n, w: w, dir: dir,
		stack: stack, dv: dv,
		overlayEdges:    overlayEdges,
		overlayPos:      len(overlayEdges) - 1,
		overlayNeighbor: overlayNeighbor,
		levelIndices:    levelIndices,
	}
}

// visibleOverlayEdge applies the non-timestamped (boolean deleted flag) or
// timestamped visibility rule to one overlay edge.
func visibleOverlayEdge(e overlay.OverlayEdgeView, w core.Window) bool {
	if w.HasTS {
		if e.CreationTS > w.ReaderTS {
			return false
		}
		if e.Deleted && w.ReaderTS >= e.DeletionTS {
			return false
		}
		return true
	}
	return !e.Deleted
}

// Next advances the iterator and returns the next visible edge's ref, or
// core.NilEdge once the overlay and every visible frozen level have been
// exhausted.
func (it *Iterator) Next() core.EdgeRef {
	for it.overlayPos >= 0 {
		e := it.overlayEdges[it.overlayPos]
		it.overlayPos--
		if !visibleOverlayEdge(e, it.w) {
			continue
		}
		it.curNeighbor = it.overlayNeighbor(e)
		it.curWeight = e.Weight
		it.curHasWt = true
		it.curSorted = false
		return e.Ref
	}

	for {
		if it.cur == nil {
			if it.levelPos >= len(it.levelIndices) {
				return core.NilEdge
			}
			idx := it.levelIndices[it.levelPos]
			it.levelPos++

			level := it.stack.LevelAt(idx)
			if level == nil || int(it.node) >= len(level.Vertices) {
				continue
			}
			entry := level.Vertices[it.node]
			rs := it.stack.Resolve(idx, entry)
			physical := it.stack.LevelByNumber(rs.PhysicalLevel)
			if physical == nil || rs.Length == 0 {
				continue
			}
			it.cur = &frozenCursor{
				physical: physical, start: rs.Start, length: rs.Length,
				levelNum: rs.PhysicalLevel, sorted: physical.Sorted,
			}
		}

		for it.cur.off < it.cur.length {
			off := it.cur.off
			it.cur.off++
			pos := it.cur.start + uint64(off)
			ref := core.FrozenEdge(it.cur.levelNum, pos)
			if it.dv != nil && it.dv.IsDeleted(ref, it.w) {
				continue
			}
			it.curNeighbor = it.cur.physical.Edges[pos]
			if it.cur.physical.EdgeWeights != nil {
				it.curWeight = it.cur.physical.EdgeWeights[pos]
				it.curHasWt = true
			} else {
				it.curWeight = 0
				it.curHasWt = false
			}
			it.curSorted = it.cur.sorted
			return ref
		}
		it.cur = nil
	}
}

// Neighbor returns the other endpoint of the edge last returned by Next:
// the target for an out-iterator, the source for an in-iterator. Its
// value is undefined before the first Next call or after Next returns
// core.NilEdge.
func (it *Iterator) Neighbor() core.NodeID { return it.curNeighbor }

// Weight returns the edge weight last returned by Next, if the level (or
// the overlay, which always carries one) recorded a weight column.
func (it *Iterator) Weight() (float64, bool) { return it.curWeight, it.curHasWt }

// SortedWithinLevel reports whether the level the last-returned edge came
// from packs that node's adjacency in sorted order (always false for an
// edge still in the overlay).
func (it *Iterator) SortedWithinLevel() bool { return it.curSorted }

// Direction reports whether this iterator walks out-edges or in-edges.
func (it *Iterator) Direction() core.Direction { return it.dir }
