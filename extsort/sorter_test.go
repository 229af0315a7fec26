package extsort_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/extsort"
	"github.com/stretchr/testify/require"
)

func drainAll(t *testing.T, s *extsort.Sorter) []core.NodeID {
	t.Helper()
	var tails []core.NodeID
	buf := make([]extsort.Item, 4)
	for {
		block, ok, err := s.NextBlock(buf)
		require.NoError(t, err)
		for _, it := range block {
			tails = append(tails, it.Tail)
		}
		if !ok {
			break
		}
	}
	return tails
}

func TestSorter_SortsEntirelyInMemoryWhenUnderBudget(t *testing.T) {
	s := extsort.New(extsort.ByTail)
	for _, tail := range []core.NodeID{5, 1, 3, 2, 4} {
		require.NoError(t, s.Push(extsort.Item{Tail: tail, Head: tail + 100, Ref: core.NilEdge}))
	}
	require.NoError(t, s.Sort(context.Background()))

	require.Equal(t, []core.NodeID{1, 2, 3, 4, 5}, drainAll(t, s))
}

func TestSorter_SpillsAcrossMultipleRunsAndMergesInOrder(t *testing.T) {
	// Force a spill after every item by using a byte budget smaller
	// than one item's approximate footprint.
	s := extsort.New(extsort.ByTail, extsort.WithBufferBytes(1))

	tails := []core.NodeID{9, 4, 7, 1, 8, 2, 6, 3, 5, 0}
	for _, tail := range tails {
		require.NoError(t, s.Push(extsort.Item{Tail: tail, Ref: core.NilEdge}))
	}
	require.NoError(t, s.Sort(context.Background()))

	require.Equal(t,
		[]core.NodeID{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		drainAll(t, s),
	)
}

func TestSorter_RewindSortedAllowsSecondPass(t *testing.T) {
	s := extsort.New(extsort.ByHead)
	for _, head := range []core.NodeID{3, 1, 2} {
		require.NoError(t, s.Push(extsort.Item{Head: head, Ref: core.NilEdge}))
	}
	require.NoError(t, s.Sort(context.Background()))

	first := drainAllByHead(t, s)
	require.NoError(t, s.RewindSorted())
	second := drainAllByHead(t, s)

	require.Equal(t, first, second)
	require.Equal(t, []core.NodeID{1, 2, 3}, first)
}

func drainAllByHead(t *testing.T, s *extsort.Sorter) []core.NodeID {
	t.Helper()
	var heads []core.NodeID
	buf := make([]extsort.Item, 2)
	for {
		block, ok, err := s.NextBlock(buf)
		require.NoError(t, err)
		for _, it := range block {
			heads = append(heads, it.Head)
		}
		if !ok {
			break
		}
	}
	return heads
}

func TestSorter_ClearResetsState(t *testing.T) {
	s := extsort.New(extsort.ByTail, extsort.WithBufferBytes(1))
	require.NoError(t, s.Push(extsort.Item{Tail: 1, Ref: core.NilEdge}))
	require.NoError(t, s.Push(extsort.Item{Tail: 2, Ref: core.NilEdge}))
	require.NoError(t, s.Clear())

	require.Error(t, s.RewindSorted())

	require.NoError(t, s.Push(extsort.Item{Tail: 7, Ref: core.NilEdge}))
	require.NoError(t, s.Sort(context.Background()))
	require.Equal(t, []core.NodeID{7}, drainAll(t, s))
}
