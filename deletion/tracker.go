package deletion

import (
	"sync"

	"github.com/katalvlaran/llama-csr/core"
)

// stripeCount bounds contention on the per-node deleted-edge lists; it is
// a small constant rather than scaled to node count because the lists
// themselves are short (most nodes have few or zero deletions) and the
// point is to avoid one global lock, not to eliminate collisions entirely.
const stripeCount = 32

type markEntry struct {
	ts    core.Timestamp
	hasTS bool
}

type stripe struct {
	mu     sync.Mutex
	byNode map[core.NodeID][]core.EdgeRef
}

func newStripes() []*stripe {
	s := make([]*stripe, stripeCount)
	for i := range s {
		s[i] = &stripe{byNode: make(map[core.NodeID][]core.EdgeRef)}
	}
	return s
}

// Tracker holds the out-side and in-side deletion maps plus their striped
// affected-node indexes. A Tracker is scoped to one Graph instance, never a
// process global.
type Tracker struct {
	outMu      sync.Mutex
	out        map[core.EdgeRef]markEntry
	outStripes []*stripe

	inMu      sync.Mutex
	in        map[core.EdgeRef]markEntry
	inStripes []*stripe
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{
		out:        make(map[core.EdgeRef]markEntry),
		outStripes: newStripes(),
		in:         make(map[core.EdgeRef]markEntry),
		inStripes:  newStripes(),
	}
}

func stripeFor(stripes []*stripe, n core.NodeID) *stripe {
	return stripes[uint64(n)%uint64(len(stripes))]
}

// MarkDeletedOut records the frozen out-edge ref, owned by node, as
// deleted as of ts (ignored when hasTS is false). A ref already marked
// deleted is left untouched: deleting an already-deleted edge is a no-op.
func (t *Tracker) MarkDeletedOut(node core.NodeID, ref core.EdgeRef, ts core.Timestamp, hasTS bool) {
	markDeleted(&t.outMu, t.out, t.outStripes, node, ref, ts, hasTS)
}

// MarkDeletedIn is MarkDeletedOut's mirror for the in-stack.
func (t *Tracker) MarkDeletedIn(node core.NodeID, ref core.EdgeRef, ts core.Timestamp, hasTS bool) {
	markDeleted(&t.inMu, t.in, t.inStripes, node, ref, ts, hasTS)
}

func markDeleted(mu *sync.Mutex, m map[core.EdgeRef]markEntry, stripes []*stripe, node core.NodeID, ref core.EdgeRef, ts core.Timestamp, hasTS bool) {
	mu.Lock()
	if _, exists := m[ref]; exists {
		mu.Unlock()
		return
	}
	m[ref] = markEntry{ts: ts, hasTS: hasTS}
	mu.Unlock()

	st := stripeFor(stripes, node)
	st.mu.Lock()
	st.byNode[node] = append(st.byNode[node], ref)
	st.mu.Unlock()
}

// IsDeletedOut reports whether the out-edge ref is hidden under window w:
// false if never marked; when marked without a timestamp (or w carries
// none) it is unconditionally hidden, matching the non-timestamped
// !deleted_flag rule; with timestamps on both sides it is hidden only once
// the reader's clock has reached the deletion time (invariant 3).
func (t *Tracker) IsDeletedOut(ref core.EdgeRef, w core.Window) bool {
	return isDeleted(&t.outMu, t.out, ref, w)
}

// IsDeletedIn mirrors IsDeletedOut for the in-stack.
func (t *Tracker) IsDeletedIn(ref core.EdgeRef, w core.Window) bool {
	return isDeleted(&t.inMu, t.in, ref, w)
}

func isDeleted(mu *sync.Mutex, m map[core.EdgeRef]markEntry, ref core.EdgeRef, w core.Window) bool {
	mu.Lock()
	e, ok := m[ref]
	mu.Unlock()
	if !ok {
		return false
	}
	if !e.hasTS || !w.HasTS {
		return true
	}
	return w.ReaderTS >= e.ts
}

// DeletedOutCount returns how many of node's out-edges have been marked
// deleted, via the striped index rather than a map scan.
func (t *Tracker) DeletedOutCount(node core.NodeID) int {
	return deletedCount(t.outStripes, node)
}

// DeletedInCount mirrors DeletedOutCount for the in-stack.
func (t *Tracker) DeletedInCount(node core.NodeID) int {
	return deletedCount(t.inStripes, node)
}

func deletedCount(stripes []*stripe, node core.NodeID) int {
	st := stripeFor(stripes, node)
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byNode[node])
}

// OutView adapts Tracker to levelstack.DeletionView for the out-stack.
func (t *Tracker) OutView() *DirectionView { return &DirectionView{t: t, out: true} }

// InView adapts Tracker to levelstack.DeletionView for the in-stack.
func (t *Tracker) InView() *DirectionView { return &DirectionView{t: t, out: false} }

// DirectionView is the per-direction read-only facet of Tracker that
// levelstack.Stack and iter.Iterator consume. It satisfies
// levelstack.DeletionView (IsDeleted, DeletedCount) without levelstack
// needing to import this package.
type DirectionView struct {
	t   *Tracker
	out bool
}

// IsDeleted reports whether ref is hidden under window w.
func (v *DirectionView) IsDeleted(ref core.EdgeRef, w core.Window) bool {
	if v.out {
		return v.t.IsDeletedOut(ref, w)
	}
	return v.t.IsDeletedIn(ref, w)
}

// DeletedCount returns node's deleted-edge count in this direction.
func (v *DirectionView) DeletedCount(n core.NodeID) int {
	if v.out {
		return v.t.DeletedOutCount(n)
	}
	return v.t.DeletedInCount(n)
}
