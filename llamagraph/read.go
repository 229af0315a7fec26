package llamagraph

import (
	"context"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/iter"
)

// Window returns the default visibility window a fresh reader should use:
// every retained level up to the newest one, no timestamp bound.
func (g *Graph) Window() core.Window {
	n := g.out.NumLevels()
	var maxLevel uint32
	if n > 0 {
		maxLevel = g.out.Newest().Number
	}
	return core.AllLevels(maxLevel)
}

// WindowAt is Window bounded additionally to readerTS, applying the
// timestamped visibility rule. Meaningless unless this Graph was built
// with config.WithTimestamps(true).
func (g *Graph) WindowAt(readerTS core.Timestamp) core.Window {
	return g.Window().WithTimestamp(readerTS)
}

// OutDegree counts n's live out-edges visible under w (the overlay plus
// every frozen out-level w includes).
func (g *Graph) OutDegree(n core.NodeID, w core.Window) int {
	return g.liveOverlayOutCount(n) + g.out.Degree(n, w, g.del.OutView())
}

// InDegree mirrors OutDegree for the in-direction. When this Graph was not
// built with config.WithReverseEdges(true) there is no frozen in-stack, so
// only the overlay's live in-edges are counted.
func (g *Graph) InDegree(n core.NodeID, w core.Window) int {
	count := g.liveOverlayInCount(n)
	if g.in != nil {
		count += g.in.Degree(n, w, g.del.InView())
	}
	return count
}

func (g *Graph) liveOverlayOutCount(n core.NodeID) int {
	count := 0
	for _, e := range g.ov.SnapshotOutEdges(n) {
		if !e.Deleted {
			count++
		}
	}
	return count
}

func (g *Graph) liveOverlayInCount(n core.NodeID) int {
	count := 0
	for _, e := range g.ov.SnapshotInEdges(n) {
		if !e.Deleted {
			count++
		}
	}
	return count
}

// OutIter returns an iterator over n's out-edges under window w: the
// overlay first (reverse insertion order), then every visible frozen
// out-level, newest to oldest.
func (g *Graph) OutIter(n core.NodeID, w core.Window) *iter.Iterator {
	g.recordIterStart()
	return iter.NewOut(n, w, g.out, g.del.OutView(), g.ov.SnapshotOutEdges(n))
}

// InIter mirrors OutIter for the in-direction. The returned iterator walks
// only the overlay's in-edges when this Graph has no in-stack (reverse
// edges disabled) — the overlay always tracks both directions regardless
// of config.Loader.ReverseEdges, since that option only governs the frozen
// mirror stack.
func (g *Graph) InIter(n core.NodeID, w core.Window) *iter.Iterator {
	g.recordIterStart()
	return iter.NewIn(n, w, g.in, g.del.InView(), g.ov.SnapshotInEdges(n))
}

func (g *Graph) recordIterStart() {
	if g.met != nil {
		g.met.IterStarted.Add(context.Background(), 1)
	}
}

// Find locates the edge (u,v), overlay first then newest-to-oldest across
// visible frozen out-levels, per Find contract. It returns
// core.NilEdge if no visible, non-deleted match exists.
func (g *Graph) Find(u, v core.NodeID, w core.Window) core.EdgeRef {
	for _, e := range g.ov.SnapshotOutEdges(u) {
		if e.Deleted || e.Target != v {
			continue
		}
		return e.Ref
	}
	return g.out.Find(u, v, w, g.del.OutView())
}
