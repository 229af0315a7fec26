package xstream1_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource/xstream1"
	"github.com/stretchr/testify/require"
)

func encodeRecord(tail, head uint32, weight float32) []byte {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], tail)
	binary.LittleEndian.PutUint32(buf[4:8], head)
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(weight))
	return buf
}

func TestReader_ReadsRecordsUntilCleanEOF(t *testing.T) {
	var body bytes.Buffer
	body.Write(encodeRecord(1, 2, 0.5))
	body.Write(encodeRecord(2, 3, 1.5))

	r := xstream1.NewReader(&body)

	e1, ok, err := r.NextEdge()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, core.NodeID(1), e1.Tail)
	require.Equal(t, core.NodeID(2), e1.Head)
	require.InDelta(t, 0.5, e1.Weight, 1e-6)
	require.True(t, e1.HasWeight)

	e2, ok, err := r.NextEdge()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, core.NodeID(2), e2.Tail)

	_, ok, err = r.NextEdge()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReader_TruncatedRecordIsAnError(t *testing.T) {
	body := bytes.NewReader(encodeRecord(1, 2, 0)[:8])
	r := xstream1.NewReader(body)

	_, ok, err := r.NextEdge()
	require.Error(t, err)
	require.False(t, ok)
}

func TestReadSidecar_ParsesVerticesAndEdges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.ini")
	require.NoError(t, os.WriteFile(path, []byte("vertices=10\nedges=20\n"), 0o644))

	sc, err := xstream1.ReadSidecar(path)
	require.NoError(t, err)
	require.Equal(t, uint64(10), sc.Vertices)
	require.Equal(t, uint64(20), sc.Edges)
}
