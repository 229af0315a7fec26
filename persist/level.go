package persist

import (
	"fmt"
	"path/filepath"

	"github.com/katalvlaran/llama-csr/levelstack"
)

func levelBaseName(number uint32) string { return fmt.Sprintf("level%06d", number) }

func vtxPath(dir string, number uint32) string {
	return filepath.Join(dir, levelBaseName(number)+".vtx")
}

func edgPath(dir string, number uint32) string {
	return filepath.Join(dir, levelBaseName(number)+".edg")
}

func weightPath(dir string, number uint32) string {
	return filepath.Join(dir, levelBaseName(number)+".weight.col")
}

func propertyPath(dir string, number uint32, propName string) string {
	return filepath.Join(dir, levelBaseName(number)+"."+propName+".col")
}

// WriteLevel persists lvl's vertex table, edge table, and (if present)
// per-edge weights under dir as levelNNNNNN.vtx / .edg / .weight.col
//. Property columns are written separately via WriteColumn32/
// WriteColumn64, once per registered column, since a column's extents are
// owned by propstore.Store rather than by any single Level.
func WriteLevel(dir string, lvl *levelstack.Level) error {
	if err := writeRecordFile(vtxPath(dir, lvl.Number), vertexEntryStride, len(lvl.Vertices), encodeVertices(lvl.Vertices)); err != nil {
		return fmt.Errorf("persist: write vtx for level %d: %w", lvl.Number, err)
	}
	if err := writeRecordFile(edgPath(dir, lvl.Number), nodeIDStride, len(lvl.Edges), encodeEdges(lvl.Edges)); err != nil {
		return fmt.Errorf("persist: write edg for level %d: %w", lvl.Number, err)
	}
	if lvl.EdgeWeights != nil {
		if err := writeRecordFile(weightPath(dir, lvl.Number), 8, len(lvl.EdgeWeights), encodeFloat64s(lvl.EdgeWeights)); err != nil {
			return fmt.Errorf("persist: write weights for level %d: %w", lvl.Number, err)
		}
	}
	return nil
}

// ReadLevel reopens a level previously written by WriteLevel. Sorted is not
// persisted (WriteLevel/ReadLevel round-trip topology and weights only); a
// caller that needs it preserved should record it in the catalog entry for
// the level and restore it after ReadLevel returns, since whether a level's
// adjacency is sorted is a property of how it was produced, not of its
// on-disk bytes.
func ReadLevel(dir string, number uint32) (*levelstack.Level, error) {
	vtxBody, vtxCount, vtxClose, err := readRecordFile(vtxPath(dir, number))
	if err != nil {
		return nil, fmt.Errorf("persist: read vtx for level %d: %w", number, err)
	}
	vertices, err := decodeVertices(vtxBody, vtxCount)
	vtxClose()
	if err != nil {
		return nil, fmt.Errorf("persist: decode vtx for level %d: %w", number, err)
	}

	edgBody, edgCount, edgClose, err := readRecordFile(edgPath(dir, number))
	if err != nil {
		return nil, fmt.Errorf("persist: read edg for level %d: %w", number, err)
	}
	edges, err := decodeEdges(edgBody, edgCount)
	edgClose()
	if err != nil {
		return nil, fmt.Errorf("persist: decode edg for level %d: %w", number, err)
	}

	lvl := &levelstack.Level{Number: number, Vertices: vertices, Edges: edges}

	if fileExists(weightPath(dir, number)) {
		wBody, wCount, wClose, err := readRecordFile(weightPath(dir, number))
		if err != nil {
			return nil, fmt.Errorf("persist: read weights for level %d: %w", number, err)
		}
		weights, err := decodeFloat64s(wBody, wCount)
		wClose()
		if err != nil {
			return nil, fmt.Errorf("persist: decode weights for level %d: %w", number, err)
		}
		lvl.EdgeWeights = weights
	}
	return lvl, nil
}
