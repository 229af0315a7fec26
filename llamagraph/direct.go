package llamagraph

import (
	"context"
	"fmt"

	"github.com/katalvlaran/llama-csr/config"
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
	"github.com/katalvlaran/llama-csr/extsort"
	"github.com/katalvlaran/llama-csr/levelstack"
)

// LoadDirect drains src through an external merge sort and appends the
// result straight to the out-stack (and, when config.WithReverseEdges is
// set, the mirror in-stack), bypassing the writable overlay entirely. It
// sorts keyed by tail via extsort.ByTail so each node's adjacency in the
// new level comes out already grouped, and sorted by target whenever
// g.Config().Deduplicate or the caller otherwise wants a
// sorted-within-level guarantee (for example, an undirected-ordered direct
// load with deduplicate=true yields one level with its edges already in
// (tail,head) order). It returns the number of input tuples read, not the
// number of physical edge-table slots the new level ends up with
// (Deduplicate can make those differ).
func (g *Graph) LoadDirect(ctx context.Context, src datasource.Source) (uint64, error) {
	sorter := extsort.New(extsort.ByTail, g.extsortOptions()...)
	defer func() { _ = sorter.Clear() }()

	var n uint64
	maxEdges := g.cfg.MaxEdges
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
		if err := g.pushDirectTuple(sorter, e); err != nil {
			return n, err
		}
		n++
	}

	if err := sorter.Sort(ctx); err != nil {
		return n, fmt.Errorf("llamagraph: direct load sort: %w", err)
	}

	items, err := drainSorter(sorter)
	if err != nil {
		return n, fmt.Errorf("llamagraph: direct load drain: %w", err)
	}
	if g.cfg.Deduplicate {
		items = dedupeSortedByTail(items)
	}

	maxNodes := g.MaxNodes()
	for _, it := range items {
		if it.Tail >= maxNodes {
			maxNodes = it.Tail + 1
		}
		if it.Head >= maxNodes {
			maxNodes = it.Head + 1
		}
	}

	level := buildLevelFromSortedItems(uint32(g.out.NumLevels()), maxNodes, items)
	level.Sorted = true
	g.out.Append(level)

	if g.cfg.ReverseEdges && g.in != nil {
		revLevel, err := buildReverseLevelFromItems(ctx, g, items, level.Number, maxNodes)
		if err != nil {
			return n, fmt.Errorf("llamagraph: direct load reverse level: %w", err)
		}
		g.in.Append(revLevel)
	}

	return n, nil
}

func (g *Graph) extsortOptions() []extsort.Option {
	var opts []extsort.Option
	if g.cfg.XSBufferSize > 0 {
		opts = append(opts, extsort.WithBufferBytes(g.cfg.XSBufferSize))
	}
	if len(g.cfg.TmpDirs) > 0 {
		opts = append(opts, extsort.WithTempDirs(g.cfg.TmpDirs...))
	}
	return opts
}

// pushDirectTuple applies cfg.Direction the same way Ingest's applyTuple
// does, pushing one or two extsort items instead of calling into the
// overlay.
func (g *Graph) pushDirectTuple(sorter *extsort.Sorter, e datasource.Edge) error {
	switch g.cfg.Direction {
	case config.UndirectedDouble:
		if err := sorter.Push(directItem(e.Tail, e.Head, e.Weight, e.HasWeight)); err != nil {
			return err
		}
		return sorter.Push(directItem(e.Head, e.Tail, e.Weight, e.HasWeight))
	case config.UndirectedOrdered:
		tail, head := e.Tail, e.Head
		if tail > head {
			tail, head = head, tail
		}
		return sorter.Push(directItem(tail, head, e.Weight, e.HasWeight))
	default:
		return sorter.Push(directItem(e.Tail, e.Head, e.Weight, e.HasWeight))
	}
}

func directItem(tail, head core.NodeID, weight float64, hasWeight bool) extsort.Item {
	return extsort.Item{Tail: tail, Head: head, Weight: weight, HasWeight: hasWeight}
}

func drainSorter(sorter *extsort.Sorter) ([]extsort.Item, error) {
	var items []extsort.Item
	buf := make([]extsort.Item, 1024)
	for {
		block, ok, err := sorter.NextBlock(buf)
		if err != nil {
			return nil, err
		}
		items = append(items, block...)
		if !ok {
			break
		}
	}
	return items, nil
}

// dedupeSortedByTail collapses consecutive items sharing both tail and
// head, keeping the first occurrence's weight. Only meaningful on
// ByTail-sorted input, which also orders by head within a tail
// (extsort.ByTail), the same precondition checkpoint's dedupeEdgePairs
// relies on.
func dedupeSortedByTail(items []extsort.Item) []extsort.Item {
	if len(items) == 0 {
		return items
	}
	out := items[:1]
	for _, it := range items[1:] {
		last := out[len(out)-1]
		if it.Tail == last.Tail && it.Head == last.Head {
			continue
		}
		out = append(out, it)
	}
	return out
}

// buildLevelFromSortedItems assembles a Level from items already grouped by
// tail (and, within a tail, ordered by head — extsort.ByTail's contract),
// mirroring levelstack.InitLevelFromDegrees's degree-array allocation
// pattern but filling directly from a flat sorted stream instead of a
// per-node snapshot.
func buildLevelFromSortedItems(number uint32, maxNodes core.NodeID, items []extsort.Item) *levelstack.Level {
	degrees := make([]uint32, maxNodes)
	hasWeights := false
	for _, it := range items {
		degrees[it.Tail]++
		if it.HasWeight {
			hasWeights = true
		}
	}
	level := levelstack.InitLevelFromDegrees(number, degrees)
	if hasWeights {
		level.EdgeWeights = make([]float64, len(level.Edges))
	}
	cursor := make([]uint64, len(level.Vertices))
	for i, v := range level.Vertices {
		cursor[i] = v.AdjacencyStart
	}
	for _, it := range items {
		pos := cursor[it.Tail]
		cursor[it.Tail]++
		level.Edges[pos] = it.Head
		if hasWeights {
			level.EdgeWeights[pos] = it.Weight
		}
	}
	return level
}

// buildReverseLevelFromItems mirrors checkpoint.buildReverseLevel's
// external-merge-sort-by-head approach, starting from the already-sorted
// tail-keyed items rather than a frozen Level's packed edge table.
func buildReverseLevelFromItems(ctx context.Context, g *Graph, items []extsort.Item, levelNumber uint32, maxNodes core.NodeID) (*levelstack.Level, error) {
	sorter := extsort.New(extsort.ByHead, g.extsortOptions()...)
	defer func() { _ = sorter.Clear() }()

	for _, it := range items {
		if err := sorter.Push(it); err != nil {
			return nil, err
		}
	}
	if err := sorter.Sort(ctx); err != nil {
		return nil, err
	}
	sortedByHead, err := drainSorter(sorter)
	if err != nil {
		return nil, err
	}

	degreesIn := make([]uint32, maxNodes)
	hasWeights := false
	for _, it := range sortedByHead {
		degreesIn[it.Head]++
		if it.HasWeight {
			hasWeights = true
		}
	}
	revLevel := levelstack.InitLevelFromDegrees(levelNumber, degreesIn)
	if hasWeights {
		revLevel.EdgeWeights = make([]float64, len(revLevel.Edges))
	}
	cursor := make([]uint64, len(revLevel.Vertices))
	for i, v := range revLevel.Vertices {
		cursor[i] = v.AdjacencyStart
	}
	for _, it := range sortedByHead {
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
