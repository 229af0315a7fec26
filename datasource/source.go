package datasource

import (
	"context"

	"github.com/katalvlaran/llama-csr/core"
)

// Edge is one tuple a Source yields: a tail/head pair and an optional
// weight, carried as plain values so a reader implementation never needs
// to know about overlay or levelstack types.
type Edge struct {
	Tail, Head core.NodeID
	Weight     float64
	HasWeight  bool
}

// Source is the pull-iterator contract next_edge: one
// call yields one edge or signals end of stream. A Source returns
// (Edge{}, false, nil) at clean end of stream, and a non-nil error only
// for a genuine read/parse failure — distinct states Pull and PullParallel
// both rely on to stop without misreporting a parse error as exhaustion.
type Source interface {
	NextEdge() (Edge, bool, error)
}

// Sink is the subset of overlay.Overlay the pull wrappers need: enough to
// auto-vivify both endpoints and record the edge, without this package
// importing overlay (the dependency runs the other way, as it does for
// overlay.FrozenLookup).
type Sink interface {
	AddNodeID(id core.NodeID, ts core.Timestamp) bool
	AddEdge(src, dst core.NodeID, ts core.Timestamp) core.EdgeRef
}

// Pull drains src into sink, applying up to maxEdges edges (0 means
// unbounded), as a single-threaded overlay ingest path. It returns the
// number of edges applied and the first error encountered, including ctx
// cancellation.
func Pull(ctx context.Context, src Source, sink Sink, maxEdges uint64) (uint64, error) {
	var n uint64
	for maxEdges == 0 || n < maxEdges {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		default:
		}
		e, ok, err := src.NextEdge()
		if err != nil {
			return n, err
		}
		if !ok {
			return n, nil
		}
		sink.AddNodeID(e.Tail, 0)
		sink.AddNodeID(e.Head, 0)
		sink.AddEdge(e.Tail, e.Head, 0)
		n++
	}
	return n, nil
}
