// Package xstream1 implements the pull contract over the X-Stream Type 1
// edge file format: fixed 12-byte records
// {tail: u32, head: u32, weight: f32}, little-endian, with a sibling .ini
// file recording vertices=N, edges=M. This package only reads; it is a
// datasource.Source, not a loader or CLI driver.
package xstream1

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/datasource"
	"gopkg.in/ini.v1"
)

const recordSize = 12

// Sidecar is the parsed metadata from an X-Stream Type 1 .ini file.
type Sidecar struct {
	Vertices uint64
	Edges    uint64
}

// ReadSidecar parses the .ini file at path.
func ReadSidecar(path string) (Sidecar, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Sidecar{}, fmt.Errorf("xstream1: sidecar: %w", err)
	}
	sec := cfg.Section("")
	vertices, err := sec.Key("vertices").Uint64()
	if err != nil {
		return Sidecar{}, fmt.Errorf("xstream1: sidecar: vertices: %w", err)
	}
	edges, err := sec.Key("edges").Uint64()
	if err != nil {
		return Sidecar{}, fmt.Errorf("xstream1: sidecar: edges: %w", err)
	}
	return Sidecar{Vertices: vertices, Edges: edges}, nil
}

// Reader implements datasource.Source over the fixed-stride record body.
type Reader struct {
	r    *bufio.Reader
	file *os.File
	buf  [recordSize]byte
}

// NewReader wraps r for sequential record-at-a-time reading. The caller
// retains ownership of r; NewReader never closes it.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReaderSize(r, 64*1024)}
}

// Open opens path as the record body and wraps it in a Reader; the
// returned Reader's Close closes the underlying file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("xstream1: open: %w", err)
	}
	rd := NewReader(f)
	rd.file = f
	return rd, nil
}

// Close closes the underlying file if Open constructed this Reader; a
// no-op for a Reader built with NewReader over a caller-owned io.Reader.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// NextEdge reads the next fixed-stride record. It returns (Edge{}, false,
// nil) at a clean record boundary EOF, and a wrapped error for a short
// read (a record file truncated mid-record is a parse failure, not a
// clean end of stream).
func (r *Reader) NextEdge() (datasource.Edge, bool, error) {
	if _, err := io.ReadFull(r.r, r.buf[:]); err != nil {
		if err == io.EOF {
			return datasource.Edge{}, false, nil
		}
		return datasource.Edge{}, false, fmt.Errorf("xstream1: truncated record: %w", err)
	}
	tail := binary.LittleEndian.Uint32(r.buf[0:4])
	head := binary.LittleEndian.Uint32(r.buf[4:8])
	weight := math.Float32frombits(binary.LittleEndian.Uint32(r.buf[8:12]))
	return datasource.Edge{
		Tail:      core.NodeID(tail),
		Head:      core.NodeID(head),
		Weight:    float64(weight),
		HasWeight: true,
	}, true, nil
}
