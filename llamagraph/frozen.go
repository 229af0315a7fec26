package llamagraph

import (
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/deletion"
	"github.com/katalvlaran/llama-csr/levelstack"
)

// frozenLookup satisfies overlay.FrozenLookup by closing over Graph's
// out-stack and its out-side deletion view. overlay.FrozenLookup's
// FindLatest(u, v) is narrower than levelstack.Stack.FindLatest(u, v, dv) —
// the Stack needs a DeletionView to skip frozen edges the tracker has
// hidden, but overlay must never import levelstack or deletion directly
// (the dependency runs the other way, the same posture datasource.Sink
// takes toward overlay). This adapter is the one place that gap is closed.
type frozenLookup struct {
	stack *levelstack.Stack
	dv    *deletion.DirectionView
}

func (f *frozenLookup) FindLatest(u, v core.NodeID) core.EdgeRef {
	return f.stack.FindLatest(u, v, f.dv)
}

func (f *frozenLookup) WeightOf(ref core.EdgeRef) float64 {
	return f.stack.WeightOf(ref)
}
