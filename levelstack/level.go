package levelstack

import (
	"github.com/cespare/xxhash/v2"
	"github.com/katalvlaran/llama-csr/core"
)

// InitLevelFromDegrees allocates a new Level's vertex and edge tables from
// a per-node degree array ("Initialization path"): it sizes
// the vertex table to len(degrees), computes prefix sums to assign each
// node's AdjacencyStart, and sizes the edge table to sum(degrees). The
// caller is responsible for streaming head (or tail) IDs into the returned
// Level's Edges slice in tail (or head) order — this function only shapes
// the tables, it does not populate Edges.
//
// number is the level's position in the stack it will be appended to;
// every VertexEntry defaults to SourceLevel == number (no continuation)
// and MaxVisibleLevel == number.
func InitLevelFromDegrees(number uint32, degrees []uint32) *Level {
	vertices := make([]VertexEntry, len(degrees))
	var total uint64
	for i, d := range degrees {
		vertices[i] = VertexEntry{
			AdjacencyStart:  total,
			Length:          d,
			MaxVisibleLevel: number,
			SourceLevel:     number,
		}
		total += uint64(d)
	}
	return &Level{
		Number:   number,
		Vertices: vertices,
		Edges:    make([]core.NodeID, total),
	}
}

// Checksum returns an xxhash-64 digest over the level's edge table,
// computing and caching it on first call. It is used by persist to detect
// corruption on reload and is intentionally lazy: levels that are never
// persisted never pay for it.
func (l *Level) Checksum() uint64 {
	if l.checksumValid {
		return l.checksum
	}
	h := xxhash.New()
	buf := make([]byte, 4)
	for _, id := range l.Edges {
		buf[0] = byte(id)
		buf[1] = byte(id >> 8)
		buf[2] = byte(id >> 16)
		buf[3] = byte(id >> 24)
		_, _ = h.Write(buf)
	}
	l.checksum = h.Sum64()
	l.checksumValid = true
	return l.checksum
}

// InvalidateChecksum forces the next Checksum call to recompute, used when
// a caller mutates Edges after construction (e.g. reverse-map assembly).
func (l *Level) InvalidateChecksum() { l.checksumValid = false }
