package extsort

import "container/heap"

// run is the common interface spillRun (disk-backed) and inMemRun
// (in-memory leftover) both satisfy, letting the merger treat every
// source the same way regardless of whether Sort ever spilled.
type run interface {
	peek() (Item, bool)
	advance()
	close() error
	rewind() error
}

func (r *spillRun) peek() (Item, bool) { return r.head, r.hasHead }

// inMemRun is a run over a slice already sorted in place, used for the
// leftover buffer contents Sort did not need to spill.
type inMemRun struct {
	items []Item
	idx   int
}

func (r *inMemRun) peek() (Item, bool) {
	if r.idx >= len(r.items) {
		return Item{}, false
	}
	return r.items[r.idx], true
}
func (r *inMemRun) advance()      { r.idx++ }
func (r *inMemRun) close() error  { return nil }
func (r *inMemRun) rewind() error { r.idx = 0; return nil }

// runHeap is a container/heap.Interface over a set of runs ordered by
// their current head item. container/heap is the one standard-library
// fallback in this package: K-way merge via a binary heap has no natural
// third-party replacement in the corpus, it is exactly what the stdlib
// type exists for.
type runHeap struct {
	runs []run
	cmp  Comparator
}

func (h *runHeap) Len() int { return len(h.runs) }
func (h *runHeap) Less(i, j int) bool {
	a, _ := h.runs[i].peek()
	b, _ := h.runs[j].peek()
	return h.cmp(a, b)
}
func (h *runHeap) Swap(i, j int) { h.runs[i], h.runs[j] = h.runs[j], h.runs[i] }
func (h *runHeap) Push(x any)    { h.runs = append(h.runs, x.(run)) }
func (h *runHeap) Pop() any {
	old := h.runs
	n := len(old)
	it := old[n-1]
	h.runs = old[:n-1]
	return it
}

// merger drains every run in non-decreasing order via a K-way heap merge.
type merger struct {
	all []run
	cmp Comparator
	h   *runHeap
}

func newMerger(cmp Comparator, runs []run) *merger {
	m := &merger{all: runs, cmp: cmp}
	m.reset()
	return m
}

func (m *merger) reset() {
	h := &runHeap{cmp: m.cmp}
	for _, r := range m.all {
		if _, ok := r.peek(); ok {
			h.runs = append(h.runs, r)
		}
	}
	heap.Init(h)
	m.h = h
}

func (m *merger) next() (Item, bool) {
	if m.h.Len() == 0 {
		return Item{}, false
	}
	top := m.h.runs[0]
	it, _ := top.peek()
	top.advance()
	if _, ok := top.peek(); ok {
		heap.Fix(m.h, 0)
	} else {
		heap.Pop(m.h)
	}
	return it, true
}

func (m *merger) rewind() error {
	for _, r := range m.all {
		if err := r.rewind(); err != nil {
			return err
		}
	}
	m.reset()
	return nil
}

func (m *merger) close() error {
	var firstErr error
	for _, r := range m.all {
		if err := r.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
