package extsort

import (
	"math"

	"github.com/katalvlaran/llama-csr/core"
)

func f64bits(f float64) uint64   { return math.Float64bits(f) }
func f64FromBits(b uint64) float64 { return math.Float64frombits(b) }

// nodeIDFromU64 narrows the wire-format u64 back to core.NodeID, whose
// width depends on the llama_node64 build tag.
func nodeIDFromU64(v uint64) core.NodeID { return core.NodeID(v) }
