package persist

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/katalvlaran/llama-csr/core"
)

const (
	magic         = "LCS1"
	formatVersion = uint32(1)
	headerSize    = 32
)

// writeRecordFile writes one fixed-stride record file: a 32-byte header
// (magic, format version, stride, count, xxhash-64 checksum of payload)
// followed by payload verbatim. stride and count are metadata only — the
// payload's actual length is what gets checksummed and read back.
func writeRecordFile(path string, stride, count int, payload []byte) error {
	h := make([]byte, headerSize)
	copy(h[0:4], magic)
	binary.LittleEndian.PutUint32(h[4:8], formatVersion)
	binary.LittleEndian.PutUint32(h[8:12], uint32(stride))
	binary.LittleEndian.PutUint64(h[12:20], uint64(count))
	binary.LittleEndian.PutUint64(h[20:28], xxhash.Sum64(payload))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(h); err != nil {
		return err
	}
	if _, err := f.Write(payload); err != nil {
		return err
	}
	return f.Sync()
}

// readRecordFile opens path, validates its header and checksum, and returns
// the payload bytes, the recorded element count, and a close function the
// caller must invoke once it has decoded the payload into owned slices.
// Header or checksum failures raise core.FaultCorruptPersisted rather than
// returning an error, since a persisted level that fails validation on
// load is not a condition the caller can recover from by retrying.
func readRecordFile(path string) ([]byte, uint64, func() error, error) {
	m, err := openMapped(path)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("persist: open %s: %w", path, err)
	}
	data := m.Bytes()
	if len(data) < headerSize || string(data[0:4]) != magic {
		m.Close()
		core.Raise(core.FaultCorruptPersisted, fmt.Sprintf("%s: invalid header", path), nil)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != formatVersion {
		m.Close()
		core.Raise(core.FaultCorruptPersisted, fmt.Sprintf("%s: unsupported format version %d", path, version), nil)
	}
	count := binary.LittleEndian.Uint64(data[12:20])
	wantChecksum := binary.LittleEndian.Uint64(data[20:28])
	body := data[headerSize:]
	if xxhash.Sum64(body) != wantChecksum {
		m.Close()
		core.Raise(core.FaultCorruptPersisted, fmt.Sprintf("%s: checksum mismatch", path), nil)
	}
	return body, count, m.Close, nil
}
