package persist

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/levelstack"
)

// vertexEntryStride is the encoded size in bytes of one VertexEntry record:
// AdjacencyStart (uint64) + Length (uint32) + MaxVisibleLevel (uint32) +
// SourceLevel (uint32).
const vertexEntryStride = 8 + 4 + 4 + 4

// nodeIDStride is fixed at 8 bytes regardless of the llama_node64 build tag,
// so a persisted level is readable independent of which NodeID width built
// it (core.NodeID is uint32 or uint64 depending on the build; widening it
// on disk to uint64 unconditionally avoids a second on-disk format).
const nodeIDStride = 8

func encodeVertices(vs []levelstack.VertexEntry) []byte {
	buf := make([]byte, len(vs)*vertexEntryStride)
	for i, v := range vs {
		off := i * vertexEntryStride
		binary.LittleEndian.PutUint64(buf[off:], v.AdjacencyStart)
		binary.LittleEndian.PutUint32(buf[off+8:], v.Length)
		binary.LittleEndian.PutUint32(buf[off+12:], v.MaxVisibleLevel)
		binary.LittleEndian.PutUint32(buf[off+16:], v.SourceLevel)
	}
	return buf
}

func decodeVertices(buf []byte, count uint64) ([]levelstack.VertexEntry, error) {
	want := int(count) * vertexEntryStride
	if len(buf) < want {
		return nil, fmt.Errorf("persist: vertex payload too short: have %d want %d", len(buf), want)
	}
	out := make([]levelstack.VertexEntry, count)
	for i := range out {
		off := i * vertexEntryStride
		out[i] = levelstack.VertexEntry{
			AdjacencyStart:  binary.LittleEndian.Uint64(buf[off:]),
			Length:          binary.LittleEndian.Uint32(buf[off+8:]),
			MaxVisibleLevel: binary.LittleEndian.Uint32(buf[off+12:]),
			SourceLevel:     binary.LittleEndian.Uint32(buf[off+16:]),
		}
	}
	return out, nil
}

func encodeEdges(edges []core.NodeID) []byte {
	buf := make([]byte, len(edges)*nodeIDStride)
	for i, e := range edges {
		binary.LittleEndian.PutUint64(buf[i*nodeIDStride:], uint64(e))
	}
	return buf
}

func decodeEdges(buf []byte, count uint64) ([]core.NodeID, error) {
	want := int(count) * nodeIDStride
	if len(buf) < want {
		return nil, fmt.Errorf("persist: edge payload too short: have %d want %d", len(buf), want)
	}
	out := make([]core.NodeID, count)
	for i := range out {
		out[i] = core.NodeID(binary.LittleEndian.Uint64(buf[i*nodeIDStride:]))
	}
	return out, nil
}

func encodeFloat64s(vs []float64) []byte {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return buf
}

func decodeFloat64s(buf []byte, count uint64) ([]float64, error) {
	want := int(count) * 8
	if len(buf) < want {
		return nil, fmt.Errorf("persist: weight payload too short: have %d want %d", len(buf), want)
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}
	return out, nil
}

func encodeUint32s(vs []uint32) []byte {
	buf := make([]byte, len(vs)*4)
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func decodeUint32s(buf []byte, count uint64) ([]uint32, error) {
	want := int(count) * 4
	if len(buf) < want {
		return nil, fmt.Errorf("persist: column payload too short: have %d want %d", len(buf), want)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return out, nil
}

func encodeUint64s(vs []uint64) []byte {
	buf := make([]byte, len(vs)*8)
	for i, v := range vs {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}
	return buf
}

func decodeUint64s(buf []byte, count uint64) ([]uint64, error) {
	want := int(count) * 8
	if len(buf) < want {
		return nil, fmt.Errorf("persist: column payload too short: have %d want %d", len(buf), want)
	}
	out := make([]uint64, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(buf[i*8:])
	}
	return out, nil
}
