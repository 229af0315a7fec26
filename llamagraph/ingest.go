package llamagraph

import (
	"context"

	"github.com/katalvlaran/llama-csr/config"
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
)

// Ingest drains src into the writable overlay, applying this Graph's
// config.Loader.Direction and weight handling to every tuple. maxEdges
// caps the number of input tuples consumed (0 means g.Config().MaxEdges,
// itself 0 meaning unbounded). It returns the number of input tuples read
// (not the number of overlay edges created — UndirectedDouble creates two
// per tuple) and the first error encountered, including ctx cancellation.
func (g *Graph) Ingest(ctx context.Context, src datasource.Source, maxEdges uint64) (uint64, error) {
	if maxEdges == 0 {
		maxEdges = g.cfg.MaxEdges
	}
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
		g.applyTuple(e)
		n++
	}
	return n, nil
}

// applyTuple auto-vivifies both endpoints and records one input tuple
// according to cfg.Direction, dispatching to the weighted or unweighted
// overlay entry point depending on whether the source carried a weight.
func (g *Graph) applyTuple(e datasource.Edge) {
	g.ov.AddNodeID(e.Tail, 0)
	g.ov.AddNodeID(e.Head, 0)

	switch g.cfg.Direction {
	case config.UndirectedDouble:
		g.addDirected(e.Tail, e.Head, e.Weight, e.HasWeight)
		g.addDirected(e.Head, e.Tail, e.Weight, e.HasWeight)
	case config.UndirectedOrdered:
		tail, head := e.Tail, e.Head
		if tail > head {
			tail, head = head, tail
		}
		g.addDirected(tail, head, e.Weight, e.HasWeight)
	default: // config.Directed
		g.addDirected(e.Tail, e.Head, e.Weight, e.HasWeight)
	}
}

func (g *Graph) addDirected(tail, head core.NodeID, weight float64, hasWeight bool) {
	if hasWeight {
		g.ov.AddEdgeForStreamingWithWeights(tail, head, weight, 0)
		return
	}
	g.ov.AddEdge(tail, head, 0)
}
