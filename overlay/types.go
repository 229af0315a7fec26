package overlay

import (
	"sync"

	"github.com/katalvlaran/llama-csr/core"
)

// nodeState is the per-node state machine. stateAbsent is the zero value:
// a node with no map entry reads as absent, and so does a record that
// getOrCreateNode has created but no write has made present yet;
// present-no-edges and present are
// merged here into a single "live" state distinguished only by whether
// OutEdges/InEdges are empty, which simplifies the machine to three states
// without changing observable behavior.
type nodeState uint8

const (
	stateAbsent nodeState = iota
	statePresent
	stateTombstoned
)

// edgeRecord is one overlay edge: source, target, a deleted flag, creation
// and deletion timestamps, and the frozen edge it supersedes (if any). It
// lives in Overlay's arena, addressed by dense index, and node records
// reference it by that index rather than by pointer.
type edgeRecord struct {
	source, target core.NodeID
	deleted        bool
	creationTS     core.Timestamp
	deletionTS     core.Timestamp
	supersedes     core.EdgeRef // NilEdge unless this edge supersedes a frozen duplicate
	weight         float64
}

// nodeRecord is one overlay node: its out/in edge index lists, two
// deleted-edge count fields that nothing in this package updates,
// tombstone state, and creation/deletion timestamps. mu is the
// per-node lock; a sync.Mutex stands in for a spinlock (a deliberate
// deviation recorded in DESIGN.md — blocking rather than spinning does
// not change observable behavior, only scheduling).
type nodeRecord struct {
	mu sync.Mutex

	state nodeState

	outEdges []uint64 // arena indices, append-only
	inEdges  []uint64

	deletedOutCount int
	deletedInCount  int

	creationTS core.Timestamp
	deletionTS core.Timestamp
}
