package datasource

import (
	"context"
	"runtime"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/internal/parallel"
)

// request is one deferred mutation, sharded to a stripe by tail node.
// Sharding does not by itself guarantee two stripes never touch the same
// node (a head in one stripe's range can equal another stripe's tail);
// overlay.Overlay's own per-node lock pair is what makes concurrent
// application across stripes safe, the same way it makes concurrent Push
// calls from any other caller safe. Striping here only reduces, not
// eliminates, cross-stripe contention.
type request struct {
	tail, head core.NodeID
}

// PullParallel drains src single-threaded into numStripes request queues
// sharded by tail (round-robin hashing, numStripes <= 0 picks GOMAXPROCS),
// then applies every stripe concurrently via internal/parallel.For as a
// parallel-ingest convenience. Reading src itself stays single-threaded
// (Source is not assumed safe for concurrent NextEdge calls); only the
// sink-application phase fans out.
func PullParallel(ctx context.Context, src Source, sink Sink, numStripes int, maxEdges uint64) (uint64, error) {
	if numStripes <= 0 {
		numStripes = runtime.GOMAXPROCS(0)
	}
	queues := make([][]request, numStripes)

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
			break
		}
		stripe := int(e.Tail) % numStripes
		queues[stripe] = append(queues[stripe], request{tail: e.Tail, head: e.Head})
		n++
	}

	err := parallel.For(ctx, numStripes, parallel.ForOptions{Chunk: 1}, func(lo, hi int) error {
		for s := lo; s < hi; s++ {
			for _, r := range queues[s] {
				sink.AddNodeID(r.tail, 0)
				sink.AddNodeID(r.head, 0)
				sink.AddEdge(r.tail, r.head, 0)
			}
		}
		return nil
	})
	return n, err
}
