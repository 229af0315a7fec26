package overlay

import (
	"context"
	"sync"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/metrics"
	"github.com/rs/zerolog"
)

// FrozenLookup is the small slice of the frozen level stack that
// add_edge_if_not_exists and add_edge_for_streaming_with_weights need: a
// way to check the latest level for an existing (src,dst) pair and to read
// its current weight. llamagraph.Graph supplies this so overlay never imports
// levelstack directly — the dependency runs the other way, the same
// pull-interface posture the data-source protocol uses for its own sources.
type FrozenLookup interface {
	FindLatest(u, v core.NodeID) core.EdgeRef
	WeightOf(ref core.EdgeRef) float64
}

// Option configures an Overlay at construction via the functional-option
// pattern used throughout this module.
type Option func(*Overlay)

// WithTimestamps compiles in per-thread transaction timestamps
// (config.Loader.Timestamps); disabled, TxBegin always returns 0 and
// visibility checks use the non-timestamped deleted_flag rule.
func WithTimestamps(enabled bool) Option { return func(o *Overlay) { o.timestamps = enabled } }

// WithFrozenLookup wires the frozen-level dedup source used by
// AddEdgeIfNotExists and AddEdgeForStreamingWithWeights.
func WithFrozenLookup(f FrozenLookup) Option { return func(o *Overlay) { o.frozen = f } }

// WithSupersedeHook sets the callback invoked when
// AddEdgeForStreamingWithWeights supersedes a frozen edge: the new overlay
// edge's caller-visible ref, the superseded frozen ref, and the
// transaction timestamp. llamagraph.Graph uses this to mark the frozen edge
// deleted on both the out- and in-side deletion trackers.
func WithSupersedeHook(fn func(supersededRef core.EdgeRef, ts core.Timestamp)) Option {
	return func(o *Overlay) { o.onSupersede = fn }
}

// WithMetrics attaches an instrumentation engine; nil disables recording.
func WithMetrics(m *metrics.Engine) Option { return func(o *Overlay) { o.metrics = m } }

// WithLogger attaches a structured logger; the zero value is a no-op logger.
func WithLogger(l zerolog.Logger) Option { return func(o *Overlay) { o.log = l } }

// Overlay is the writable buffer sitting atop a level stack. It is safe
// for concurrent use: structural mutations serialize per node (ascending
// lock order for two-endpoint operations), and the global newNodeLock
// serializes fresh-ID allocation and the max-nodes watermark.
type Overlay struct {
	timestamps bool
	frozen     FrozenLookup
	onSupersede func(supersededRef core.EdgeRef, ts core.Timestamp)
	metrics    *metrics.Engine
	log        zerolog.Logger

	newNodeLock sync.Mutex
	maxNodes    core.NodeID

	nodesMu sync.RWMutex
	nodes   map[core.NodeID]*nodeRecord

	arena *edgeArena

	clockMu sync.Mutex
	clock   core.Timestamp
	activeTx int64
}

// New returns an empty Overlay.
func New(opts ...Option) *Overlay {
	o := &Overlay{
		nodes: make(map[core.NodeID]*nodeRecord),
		arena: newEdgeArena(),
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MaxNodes returns one past the largest node ID the overlay has allocated
// or observed (via AddNodeID, an edge endpoint, or DeleteNode with an ID
// at or past the current watermark).
func (o *Overlay) MaxNodes() core.NodeID {
	o.newNodeLock.Lock()
	defer o.newNodeLock.Unlock()
	return o.maxNodes
}

// lookupNode returns n's record without vivifying one, for read paths
// (SnapshotOutEdges/SnapshotInEdges) that must never advance the
// fresh-ID watermark or allocate a permanent record for an ID that was
// never added.
func (o *Overlay) lookupNode(id core.NodeID) (*nodeRecord, bool) {
	o.nodesMu.RLock()
	rec, ok := o.nodes[id]
	o.nodesMu.RUnlock()
	return rec, ok
}

func (o *Overlay) getOrCreateNode(id core.NodeID) *nodeRecord {
	o.nodesMu.RLock()
	rec, ok := o.nodes[id]
	o.nodesMu.RUnlock()
	if ok {
		return rec
	}

	o.newNodeLock.Lock()
	if id >= o.maxNodes {
		o.maxNodes = id + 1
	}
	o.newNodeLock.Unlock()

	o.nodesMu.Lock()
	defer o.nodesMu.Unlock()
	if rec, ok = o.nodes[id]; ok {
		return rec
	}
	rec = &nodeRecord{}
	o.nodes[id] = rec
	return rec
}

// lockPair returns both endpoints' records locked in ascending node-ID
// order (the deadlock-avoidance rule for two-endpoint operations), and an
// unlock closure.
func (o *Overlay) lockPair(x, y core.NodeID) (rx, ry *nodeRecord, unlock func()) {
	rx = o.getOrCreateNode(x)
	if x == y {
		rx.mu.Lock()
		return rx, rx, rx.mu.Unlock
	}
	ry = o.getOrCreateNode(y)
	if x < y {
		rx.mu.Lock()
		ry.mu.Lock()
	} else {
		ry.mu.Lock()
		rx.mu.Lock()
	}
	return rx, ry, func() { rx.mu.Unlock(); ry.mu.Unlock() }
}

// AddNode allocates a fresh NodeID past the current watermark. ok is false
// if the ID space for this build's NodeID width is exhausted; no error
// value is returned for that case.
func (o *Overlay) AddNode(ts core.Timestamp) (id core.NodeID, ok bool) {
	o.newNodeLock.Lock()
	if uint64(o.maxNodes)+1 >= core.MaxNodeValue {
		o.newNodeLock.Unlock()
		return core.NilNode, false
	}
	id = o.maxNodes
	o.maxNodes++
	o.newNodeLock.Unlock()

	rec := o.getOrCreateNode(id)
	rec.mu.Lock()
	rec.state = statePresent
	rec.creationTS = ts
	rec.mu.Unlock()

	if o.metrics != nil {
		o.metrics.NodesIngested.Add(context.Background(), 1)
	}
	return id, true
}

// AddNodeID idempotently ensures id exists in the overlay, bumping the
// watermark if id is new. It returns true only when this call is what
// transitioned the node from absent to present; a node that already
// existed (present or tombstoned) is left untouched and AddNodeID returns
// false. The watermark bump and the per-node transition are allowed to
// disagree: the watermark always advances first and unconditionally
// whenever id >= the current max, independent of whether the node record
// itself was already present.
func (o *Overlay) AddNodeID(id core.NodeID, ts core.Timestamp) bool {
	rec := o.getOrCreateNode(id)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.state != stateAbsent {
		return false
	}
	rec.state = statePresent
	rec.creationTS = ts
	return true
}

func (o *Overlay) newEdgeLocked(rSrc, rDst *nodeRecord, src, dst core.NodeID, ts core.Timestamp, supersedes core.EdgeRef, weight float64) core.EdgeRef {
	if rSrc.state == stateAbsent {
		rSrc.state = statePresent
		rSrc.creationTS = ts
	}
	if rDst.state == stateAbsent {
		rDst.state = statePresent
		rDst.creationTS = ts
	}
	idx := o.arena.append(edgeRecord{
		source:     src,
		target:     dst,
		creationTS: ts,
		supersedes: supersedes,
		weight:     weight,
	})
	rSrc.outEdges = append(rSrc.outEdges, idx)
	rDst.inEdges = append(rDst.inEdges, idx)
	return core.OverlayEdge(idx)
}

// AddEdge appends a new overlay edge from src to dst, auto-vivifying
// either endpoint that did not already exist.
func (o *Overlay) AddEdge(src, dst core.NodeID, ts core.Timestamp) core.EdgeRef {
	rSrc, rDst, unlock := o.lockPair(src, dst)
	defer unlock()
	ref := o.newEdgeLocked(rSrc, rDst, src, dst, ts, core.NilEdge, 0)
	if o.metrics != nil {
		o.metrics.EdgesIngested.Add(context.Background(), 1)
	}
	return ref
}

// AddEdgeIfNotExists returns the existing (src,dst) edge — checked first
// in the overlay, then in the latest frozen level via FrozenLookup — or
// creates and returns a new one. created reports which case occurred.
// Precondition: at most one existing (src,dst) edge.
func (o *Overlay) AddEdgeIfNotExists(src, dst core.NodeID, ts core.Timestamp) (ref core.EdgeRef, created bool) {
	rSrc, rDst, unlock := o.lockPair(src, dst)
	defer unlock()

	for _, idx := range rSrc.outEdges {
		rec := o.arena.get(idx)
		if !rec.deleted && rec.target == dst {
			return core.OverlayEdge(idx), false
		}
	}
	if o.frozen != nil {
		if existing := o.frozen.FindLatest(src, dst); !existing.IsNil() {
			return existing, false
		}
	}
	return o.newEdgeLocked(rSrc, rDst, src, dst, ts, core.NilEdge, 0), true
}

// AddEdgeForStreamingWithWeights deduplicates (src,dst) against the
// overlay and then the latest frozen level. If a match exists, its weight
// is incremented by weightDelta and, for a frozen match, the frozen edge
// is superseded: WithSupersedeHook is invoked so the caller can mark it
// deleted, and the new overlay edge carries the accumulated weight.
// Otherwise a fresh overlay edge of weight weightDelta is created.
func (o *Overlay) AddEdgeForStreamingWithWeights(src, dst core.NodeID, weightDelta float64, ts core.Timestamp) core.EdgeRef {
	rSrc, rDst, unlock := o.lockPair(src, dst)
	defer unlock()

	for _, idx := range rSrc.outEdges {
		if rec := o.arena.get(idx); !rec.deleted && rec.target == dst {
			o.arena.mutate(idx, func(r *edgeRecord) { r.weight += weightDelta })
			return core.OverlayEdge(idx)
		}
	}

	if o.frozen != nil {
		if existing := o.frozen.FindLatest(src, dst); !existing.IsNil() {
			newWeight := o.frozen.WeightOf(existing) + weightDelta
			ref := o.newEdgeLocked(rSrc, rDst, src, dst, ts, existing, newWeight)
			if o.onSupersede != nil {
				o.onSupersede(existing, ts)
			}
			return ref
		}
	}

	return o.newEdgeLocked(rSrc, rDst, src, dst, ts, core.NilEdge, weightDelta)
}

// DeleteNode tombstones n and marks every overlay edge it touches
// (incident as either source or target) deleted. Frozen edges incident to
// n are not this method's concern — llamagraph.Graph sweeps those separately
// through the deletion tracker, since that requires walking the level
// stack this package does not hold a reference to.
func (o *Overlay) DeleteNode(n core.NodeID, ts core.Timestamp) {
	rec := o.getOrCreateNode(n)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.state == stateTombstoned {
		return
	}
	rec.state = stateTombstoned
	rec.deletionTS = ts
	for _, idx := range rec.outEdges {
		o.arena.mutate(idx, func(r *edgeRecord) {
			if !r.deleted {
				r.deleted = true
				r.deletionTS = ts
			}
		})
	}
	for _, idx := range rec.inEdges {
		o.arena.mutate(idx, func(r *edgeRecord) {
			if !r.deleted {
				r.deleted = true
				r.deletionTS = ts
			}
		})
	}
}

// DeleteEdge marks ref deleted if it is an overlay edge. It is a no-op —
// not an error — if ref is already deleted; frozen refs are rejected with
// ok=false since marking those deleted is the deletion tracker's job,
// dispatched by Graph.
func (o *Overlay) DeleteEdge(ref core.EdgeRef, ts core.Timestamp) (ok bool) {
	if !ref.IsOverlay() {
		return false
	}
	o.arena.mutate(ref.Index, func(r *edgeRecord) {
		if !r.deleted {
			r.deleted = true
			r.deletionTS = ts
		}
	})
	if o.metrics != nil {
		o.metrics.EdgesDeleted.Add(context.Background(), 1)
	}
	return true
}

// OverlayEdgeView is a read-only snapshot of one overlay edge, returned by
// SnapshotOutEdges/SnapshotInEdges for iter and checkpoint to consume
// without holding overlay locks.
type OverlayEdgeView struct {
	Ref        core.EdgeRef
	Source     core.NodeID
	Target     core.NodeID
	Deleted    bool
	CreationTS core.Timestamp
	DeletionTS core.Timestamp
	Supersedes core.EdgeRef
	Weight     float64
}

// SnapshotOutEdges returns n's overlay out-edges in insertion order (iter
// reverses this itself for its own newest-first convenience). A node with
// no overlay record returns nil rather than vivifying one: this is a read
// path and must never advance the fresh-ID watermark.
func (o *Overlay) SnapshotOutEdges(n core.NodeID) []OverlayEdgeView {
	rec, ok := o.lookupNode(n)
	if !ok {
		return nil
	}
	rec.mu.Lock()
	idxs := append([]uint64(nil), rec.outEdges...)
	rec.mu.Unlock()
	return o.viewAll(idxs)
}

// SnapshotInEdges mirrors SnapshotOutEdges for the in-direction.
func (o *Overlay) SnapshotInEdges(n core.NodeID) []OverlayEdgeView {
	rec, ok := o.lookupNode(n)
	if !ok {
		return nil
	}
	rec.mu.Lock()
	idxs := append([]uint64(nil), rec.inEdges...)
	rec.mu.Unlock()
	return o.viewAll(idxs)
}

func (o *Overlay) viewAll(idxs []uint64) []OverlayEdgeView {
	out := make([]OverlayEdgeView, len(idxs))
	for i, idx := range idxs {
		rec := o.arena.get(idx)
		out[i] = OverlayEdgeView{
			Ref: core.OverlayEdge(idx), Source: rec.source, Target: rec.target,
			Deleted: rec.deleted, CreationTS: rec.creationTS, DeletionTS: rec.deletionTS,
			Supersedes: rec.supersedes, Weight: rec.weight,
		}
	}
	return out
}

// NodeExists reports whether n has any overlay record and whether it is
// tombstoned.
func (o *Overlay) NodeExists(n core.NodeID) (exists, tombstoned bool) {
	o.nodesMu.RLock()
	rec, ok := o.nodes[n]
	o.nodesMu.RUnlock()
	if !ok {
		return false, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.state != stateAbsent, rec.state == stateTombstoned
}

// Nodes returns the set of node IDs the overlay currently holds a record
// for, used by checkpoint's degree and emit passes.
func (o *Overlay) Nodes() []core.NodeID {
	o.nodesMu.RLock()
	defer o.nodesMu.RUnlock()
	out := make([]core.NodeID, 0, len(o.nodes))
	for id := range o.nodes {
		out = append(out, id)
	}
	return out
}

// Reset returns the overlay to empty after a successful checkpoint's
// retire-overlay step: node records and the edge arena are cleared. The
// transaction clock, the active-transaction count, and the fresh-ID
// watermark (MaxNodes) are kept — node IDs stay stable across levels.
func (o *Overlay) Reset() {
	o.nodesMu.Lock()
	o.nodes = make(map[core.NodeID]*nodeRecord)
	o.nodesMu.Unlock()
	o.arena = newEdgeArena()
}
