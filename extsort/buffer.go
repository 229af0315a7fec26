package extsort

import (
	"container/heap"
	"context"
	"runtime"
	"sort"

	"github.com/katalvlaran/llama-csr/internal/parallel"
)

// parallelSortThreshold is the item count below which sortBuffer falls
// back to a single-threaded sort.Slice: below this size the fork/join and
// merge overhead would dominate the sort itself.
const parallelSortThreshold = 1 << 16

// sortBuffer sorts items by cmp, using a parallel partition-sort-merge for
// large buffers. Partitioning by key quantile probes would balance
// per-thread comparison cost more precisely; this splits by contiguous
// index range instead, which balances work evenly by count (each thread
// gets the same number of items) without needing an up-front probe pass,
// then performs a K-way merge regardless of how the partitions were
// chosen. Documented as a simplification in DESIGN.md.
func sortBuffer(ctx context.Context, items []Item, cmp Comparator) []Item {
	if len(items) < parallelSortThreshold {
		sort.Slice(items, func(i, j int) bool { return cmp(items[i], items[j]) })
		return items
	}

	workers := runtime.GOMAXPROCS(0)
	if workers < 2 {
		sort.Slice(items, func(i, j int) bool { return cmp(items[i], items[j]) })
		return items
	}
	chunk := (len(items) + workers - 1) / workers

	_ = parallel.For(ctx, len(items), parallel.ForOptions{Chunk: chunk, MaxWorkers: workers}, func(start, end int) error {
		part := items[start:end]
		sort.Slice(part, func(i, j int) bool { return cmp(part[i], part[j]) })
		return nil
	})

	return mergeContiguousRuns(items, chunk, cmp)
}

// mergeContiguousRuns K-way merges the sorted [0,chunk), [chunk,2*chunk),
// ... runs already present in items into a freshly allocated, fully
// sorted slice.
func mergeContiguousRuns(items []Item, chunk int, cmp Comparator) []Item {
	if chunk <= 0 || chunk >= len(items) {
		return items
	}

	var runs []run
	for start := 0; start < len(items); start += chunk {
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		runs = append(runs, &inMemRun{items: items[start:end]})
	}

	h := &runHeap{cmp: cmp}
	for _, r := range runs {
		if _, ok := r.peek(); ok {
			h.runs = append(h.runs, r)
		}
	}
	heap.Init(h)

	out := make([]Item, 0, len(items))
	for h.Len() > 0 {
		top := h.runs[0]
		it, _ := top.peek()
		out = append(out, it)
		top.advance()
		if _, ok := top.peek(); ok {
			heap.Fix(h, 0)
		} else {
			heap.Pop(h)
		}
	}
	return out
}
