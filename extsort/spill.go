package extsort

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// spillRun is one sorted batch of Items written to a temp file, readable
// back in order through a cursor that always reports its head Item
// without consuming it (peek), so the K-way merge can compare across runs
// before deciding which to advance.
type spillRun struct {
	file *os.File
	zr   *zstd.Decoder
	br   *bufio.Reader

	path string // kept only for error messages; the directory entry is gone once opened

	head    Item
	hasHead bool
	done    bool
}

// itemRecordSize is the fixed on-wire size of one Item: two NodeID-width
// fields are written as u64 regardless of build-tag width to keep the
// spill format independent of the llama_node64 build tag, a f64 weight, a
// bool flag byte, and the EdgeRef's two fields.
const itemRecordSize = 8 + 8 + 8 + 1 + 2 + 8

func writeItem(w io.Writer, it Item) error {
	var buf [itemRecordSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(it.Tail))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(it.Head))
	binary.LittleEndian.PutUint64(buf[16:24], f64bits(it.Weight))
	if it.HasWeight {
		buf[24] = 1
	}
	binary.LittleEndian.PutUint16(buf[25:27], it.Ref.Level)
	binary.LittleEndian.PutUint64(buf[27:35], it.Ref.Index)
	_, err := w.Write(buf[:])
	return err
}

func readItem(r io.Reader) (Item, error) {
	var buf [itemRecordSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Item{}, err
	}
	var it Item
	it.Tail = nodeIDFromU64(binary.LittleEndian.Uint64(buf[0:8]))
	it.Head = nodeIDFromU64(binary.LittleEndian.Uint64(buf[8:16]))
	it.Weight = f64FromBits(binary.LittleEndian.Uint64(buf[16:24]))
	it.HasWeight = buf[24] == 1
	it.Ref.Level = binary.LittleEndian.Uint16(buf[25:27])
	it.Ref.Index = binary.LittleEndian.Uint64(buf[27:35])
	return it, nil
}

// spillWrite writes items, already sorted by the caller, as one
// zstd-compressed run into a fresh temp file under dir. The directory
// entry is removed right after the file is created, while the descriptor
// stays open.
func spillWrite(dir string, items []Item) (*spillRun, error) {
	f, err := os.CreateTemp(dir, "llama-xsort-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("extsort: create spill file: %w", err)
	}
	path := f.Name()
	// Unlink now: the open descriptor keeps the data alive until Close,
	// but no directory entry survives a crash or an early os.Exit.
	if err := os.Remove(path); err != nil {
		f.Close()
		return nil, fmt.Errorf("extsort: unlink spill file: %w", err)
	}

	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("extsort: open zstd writer: %w", err)
	}
	for _, it := range items {
		if err := writeItem(zw, it); err != nil {
			zw.Close()
			f.Close()
			return nil, fmt.Errorf("extsort: write spill record: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return nil, fmt.Errorf("extsort: flush spill file: %w", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("extsort: rewind spill file: %w", err)
	}

	run, err := openSpillRun(f, path)
	if err != nil {
		return nil, err
	}
	return run, nil
}

func openSpillRun(f *os.File, path string) (*spillRun, error) {
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("extsort: open zstd reader for %s: %w", path, err)
	}
	run := &spillRun{file: f, zr: zr, br: bufio.NewReader(zr), path: path}
	run.advance()
	return run, nil
}

// rewind reopens the run's decoder from the start; the file's directory
// entry is already gone, so this only rewinds the open descriptor itself.
func (r *spillRun) rewind() error {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("extsort: rewind %s: %w", r.path, err)
	}
	r.zr.Close()
	zr, err := zstd.NewReader(r.file)
	if err != nil {
		return fmt.Errorf("extsort: reopen zstd reader for %s: %w", r.path, err)
	}
	r.zr = zr
	r.br = bufio.NewReader(zr)
	r.done = false
	r.advance()
	return nil
}

func (r *spillRun) advance() {
	it, err := readItem(r.br)
	if err != nil {
		r.hasHead = false
		r.done = true
		return
	}
	r.head = it
	r.hasHead = true
}

func (r *spillRun) close() error {
	r.zr.Close()
	return r.file.Close()
}
