package checkpoint

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/extsort"
	"github.com/katalvlaran/llama-csr/internal/parallel"
	"github.com/katalvlaran/llama-csr/levelstack"
	"github.com/katalvlaran/llama-csr/overlay"
	"github.com/katalvlaran/llama-csr/propstore"
)

// Run promotes ov's current contents into a new frozen level appended to
// out, and, when WithReverseEdges is set and in is non-nil, a mirror
// head-keyed level appended to in. On success ov is reset to empty and the
// new level(s) are published via Stack.Append before Run returns. On
// failure out, in, and ov are all left exactly as they were: Run only
// mutates any of them after every fallible step (building the forward
// level's contents, and, if requested, the external sort behind the
// reverse level) has already succeeded. Property promotion runs after
// reverse-edge construction rather than before it, since promoting columns
// before a failed reverse-edge build would desync each column's extent
// list from the level stack.
func Run(ctx context.Context, out *levelstack.Stack, in *levelstack.Stack, ov *overlay.Overlay, store *propstore.Store, opts ...Option) error {
	o := newOptions(opts)
	start := time.Now()

	// Step 1: snapshot counters.
	nodes := ov.Nodes()
	newMaxNodes := ov.MaxNodes()
	if out.MaxNodes() > newMaxNodes {
		newMaxNodes = out.MaxNodes()
	}

	// Step 2: degree pass — each overlay node's live (non-deleted)
	// out-edge count becomes its Δ for the new level.
	liveOut := make([][]overlay.OverlayEdgeView, len(nodes))
	degrees := make([]uint32, newMaxNodes)
	for i, n := range nodes {
		snapshot := ov.SnapshotOutEdges(n)
		live := snapshot[:0]
		for _, e := range snapshot {
			if e.Deleted {
				continue
			}
			live = append(live, e)
		}
		liveOut[i] = live
		degrees[n] = uint32(len(live))
	}

	// Step 3: edge table allocation. Continuations (reusing a prior
	// level's physical slice for nodes whose adjacency did not change
	// this epoch) are not implemented here: every node gets a full,
	// possibly zero-length, entry in the new level, relying on
	// Stack.Degree/Find's multi-level walk for correctness instead of a
	// shorter per-node continuation chain. See DESIGN.md.
	newLevelNumber := uint32(out.NumLevels())
	newLevel := levelstack.InitLevelFromDegrees(newLevelNumber, degrees)
	newLevel.EdgeWeights = make([]float64, len(newLevel.Edges))

	// Step 4: emit. Nodes are independent (disjoint AdjacencyStart
	// ranges), so the copy fans out across workers.
	if err := parallel.For(ctx, len(nodes), parallel.ForOptions{}, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			n := nodes[i]
			pairs := make([]edgePair, len(liveOut[i]))
			for j, e := range liveOut[i] {
				pairs[j] = edgePair{target: e.Target, weight: e.Weight}
			}
			if o.sortWithinLevel || o.dedupe {
				sortEdgePairs(pairs)
				if o.dedupe {
					pairs = dedupeEdgePairs(pairs)
				}
			}
			entry := newLevel.Vertices[n]
			entry.Length = uint32(len(pairs))
			newLevel.Vertices[n] = entry
			for j, p := range pairs {
				newLevel.Edges[entry.AdjacencyStart+uint64(j)] = p.target
				newLevel.EdgeWeights[entry.AdjacencyStart+uint64(j)] = p.weight
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("checkpoint: emit pass: %w", err)
	}
	newLevel.Sorted = o.sortWithinLevel

	// Step 6: reverse edges, built before anything is published so a
	// failure here (e.g. the external sort running out of temp space)
	// leaves out, in, and ov untouched.
	var revLevel *levelstack.Level
	if o.reverseEdges && in != nil {
		var err error
		revLevel, err = buildReverseLevel(ctx, newLevel, newLevelNumber, newMaxNodes)
		if err != nil {
			return fmt.Errorf("checkpoint: reverse level: %w", err)
		}
	}

	// Step 5: property promotion. Every registered column's overlay
	// shadow is flushed into a new extent sized to this level, whether
	// or not it received any writes this epoch.
	if store != nil {
		store.FlushAll(int(newMaxNodes), len(newLevel.Edges))
	}

	// Publish: Stack.Append is the atomic pointer-swap point. A reader
	// that starts iterating before this line sees the pre-checkpoint
	// stack; one that starts after sees the new level.
	out.Append(newLevel)
	if revLevel != nil {
		in.Append(revLevel)
	}

	// Step 7: deletion compaction. Frozen-edge deletions recorded this
	// epoch remain correctly hidden through deletion.Tracker's own map,
	// independent of this level's VertexEntry.MaxVisibleLevel field —
	// that field is carried (InitLevelFromDegrees sets it to the level's
	// own Number) but not consulted by any read path in this port. See
	// DESIGN.md.

	// Step 8: retire overlay.
	ov.Reset()

	o.log.Debug().
		Int("nodes", len(nodes)).
		Uint64("edges", newLevel.EdgeCount()).
		Uint32("level", newLevelNumber).
		Bool("reverse", revLevel != nil).
		Msg("checkpoint complete")
	if o.metrics != nil {
		o.metrics.RecordCheckpoint(ctx, time.Since(start).Seconds())
	}
	return nil
}

type edgePair struct {
	target core.NodeID
	weight float64
}

func sortEdgePairs(pairs []edgePair) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].target < pairs[j].target })
}

// dedupeEdgePairs collapses consecutive equal targets, keeping the first
// occurrence's weight. Meaningful only post-sort, hence Run sorting first
// whenever dedupe is requested regardless of WithSortWithinLevel.
func dedupeEdgePairs(pairs []edgePair) []edgePair {
	if len(pairs) == 0 {
		return pairs
	}
	out := pairs[:1]
	for _, p := range pairs[1:] {
		if p.target == out[len(out)-1].target {
			continue
		}
		out = append(out, p)
	}
	return out
}

// buildReverseLevel produces the head-keyed mirror of lvl (already emitted
// into the out-stack's candidate level, not yet appended) via an external
// merge sort keyed by head.
func buildReverseLevel(ctx context.Context, lvl *levelstack.Level, levelNumber uint32, maxNodes core.NodeID) (*levelstack.Level, error) {
	sorter := extsort.New(extsort.ByHead)
	defer func() { _ = sorter.Clear() }()

	for n := 0; n < len(lvl.Vertices); n++ {
		entry := lvl.Vertices[n]
		for off := uint64(0); off < uint64(entry.Length); off++ {
			idx := entry.AdjacencyStart + off
			item := extsort.Item{
				Tail: core.NodeID(n),
				Head: lvl.Edges[idx],
				Ref:  core.FrozenEdge(levelNumber, idx),
			}
			if lvl.EdgeWeights != nil {
				item.Weight = lvl.EdgeWeights[idx]
				item.HasWeight = true
			}
			if err := sorter.Push(item); err != nil {
				return nil, fmt.Errorf("push: %w", err)
			}
		}
	}
	if err := sorter.Sort(ctx); err != nil {
		return nil, fmt.Errorf("sort: %w", err)
	}

	items := make([]extsort.Item, 0, len(lvl.Edges))
	buf := make([]extsort.Item, 1024)
	for {
		block, ok, err := sorter.NextBlock(buf)
		if err != nil {
			return nil, fmt.Errorf("drain: %w", err)
		}
		items = append(items, block...)
		if !ok {
			break
		}
	}

	degreesIn := make([]uint32, maxNodes)
	hasWeights := lvl.EdgeWeights != nil
	for _, it := range items {
		degreesIn[it.Head]++
	}
	revLevel := levelstack.InitLevelFromDegrees(levelNumber, degreesIn)
	if hasWeights {
		revLevel.EdgeWeights = make([]float64, len(revLevel.Edges))
	}
	cursor := make([]uint64, len(revLevel.Vertices))
	for i, v := range revLevel.Vertices {
		cursor[i] = v.AdjacencyStart
	}
	for _, it := range items {
		pos := cursor[it.Head]
		cursor[it.Head]++
		revLevel.Edges[pos] = it.Tail
		if hasWeights {
			revLevel.EdgeWeights[pos] = it.Weight
		}
	}
	revLevel.Sorted = true
	return revLevel, nil
}
