//go:build !llama_node64

package core

// NodeID is a dense identifier in [0, MaxNodes). This build uses a 32-bit
// representation; build with -tags llama_node64 for graphs larger than
// 2^32-2 nodes.
type NodeID = uint32

// NilNode is the sentinel NodeID meaning "no node" (e.g. an unset
// continuation target, or a failed AddNode allocation).
const NilNode NodeID = ^NodeID(0)

// MaxNodeValue is one past the largest representable NodeID, used by
// capacity checks before widening to the next allocation.
const MaxNodeValue = uint64(^NodeID(0))
