package levelstack

import "github.com/katalvlaran/llama-csr/core"

// A VertexEntry whose adjacency physically lives in its own level has
// SourceLevel == the Level.Number it belongs to. SourceLevel is still
// stored explicitly (rather than inferring "not a continuation" from a
// separate bool) so Stack.Resolve has one field to
// follow regardless of whether continuations are enabled for this stack.

// VertexEntry is one node's row in a Level's vertex table:
// where its adjacency starts, how long it is, the newest level at which at
// least one incident edge is known-undeleted, and which level's edge table
// the adjacency slice actually lives in (itself, unless this is a
// continuation).
type VertexEntry struct {
	AdjacencyStart uint64
	Length         uint32
	MaxVisibleLevel uint32
	SourceLevel     uint32
}

// IsContinuation reports whether this entry delegates to an earlier level's
// edge-table slice rather than owning edges in its own level's table.
func (v VertexEntry) IsContinuation(ownLevel uint32) bool { return v.SourceLevel != ownLevel }

// Level is one immutable snapshot: a vertex table sized to the node count
// known as of this level's creation, and a packed edge table (head IDs for
// an out-stack, tail IDs for an in-stack) grouped by the vertex table's
// adjacency slices.
type Level struct {
	// Number is this level's position in its Stack, assigned at Append.
	Number uint32

	// Vertices has one entry per node ID in [0, len(Vertices)).
	Vertices []VertexEntry

	// Edges is the packed neighbor array; Vertices[n].AdjacencyStart
	// indexes into the level numbered Vertices[n].SourceLevel, which may
	// not be this level when continuations are enabled.
	Edges []core.NodeID

	// Sorted reports whether Edges is sorted within each node's adjacency
	// group (true for direct-loaded levels; checkpoint-emitted levels are
	// sorted only when the loader config requested it).
	Sorted bool

	// EdgeWeights, when non-nil, parallels Edges with a per-edge scalar
	// weight — the minimal property column every direct load and
	// streaming-dedup path needs, independent of the general propstore
	// columns.
	EdgeWeights []float64

	// Translate, when non-nil, parallels Edges with the corresponding
	// edge's locator in the mirror direction's stack. Nothing in this
	// module populates it: it stays nil even when
	// config.Loader.ReverseMaps is set.
	Translate []core.EdgeRef

	checksum      uint64
	checksumValid bool
}

// NodeCount is the number of nodes this level's vertex table covers.
func (l *Level) NodeCount() core.NodeID { return core.NodeID(len(l.Vertices)) }

// EdgeCount is the number of physical edge-table slots this level owns
// (continuations do not add to this; they reuse an earlier level's slots).
func (l *Level) EdgeCount() uint64 { return uint64(len(l.Edges)) }
