package extsort

import "github.com/katalvlaran/llama-csr/core"

// Item is one edge tuple flowing through the sorter: enough to rebuild
// either a tail-keyed (out) or head-keyed (in) CSR level.
type Item struct {
	Tail      core.NodeID
	Head      core.NodeID
	Weight    float64
	HasWeight bool
	Ref       core.EdgeRef // originating edge, carried through so Translate columns can be built post-merge
}

// Comparator orders two Items; Sort requires strict weak ordering.
// ByTail and ByHead below cover the two directions an edge table is built in.
type Comparator func(a, b Item) bool

// ByTail orders Items by tail then head, for building/validating an
// out-CSR's sorted-within-level invariant.
func ByTail(a, b Item) bool {
	if a.Tail != b.Tail {
		return a.Tail < b.Tail
	}
	return a.Head < b.Head
}

// ByHead orders Items by head then tail, used to build the in-CSR via
// external merge sort keyed by head.
func ByHead(a, b Item) bool {
	if a.Head != b.Head {
		return a.Head < b.Head
	}
	return a.Tail < b.Tail
}
