package persist

import (
	"fmt"

	"github.com/katalvlaran/llama-csr/propstore"
)

// WriteColumn32 persists every frozen extent of col under dir, one
// levelNNNNNN.<propname>.col file per extent, in level-number order. A
// TagStringPtr column never reaches this function (only Column64 can carry
// that tag); Column32 extents are always plain int32/float32 words.
func WriteColumn32(dir string, col *propstore.Column32) error {
	for i := 0; i < col.NumLevels(); i++ {
		ext := col.LevelExtent(i)
		path := propertyPath(dir, uint32(i), col.Name())
		if err := writeRecordFile(path, 4, len(ext), encodeUint32s(ext)); err != nil {
			return fmt.Errorf("persist: write column %q level %d: %w", col.Name(), i, err)
		}
	}
	return nil
}

// OpenColumn32 reopens every persisted extent for propName under dir, up to
// and including levelCount-1, loading them into col in level-number order.
// col must be freshly registered (no extents yet) so LoadLevel's
// append-only ordering matches the files' level numbers. A missing extent
// file is an error, even for a level that had no column activity: such a
// level still gets an all-zero extent in memory (propstore.Store.FlushAll's
// contract) and WriteColumn32 writes every extent, so a gap here indicates
// corruption, not a deliberate omission.
func OpenColumn32(dir string, propName string, levelCount int, col *propstore.Column32) error {
	for i := 0; i < levelCount; i++ {
		path := propertyPath(dir, uint32(i), propName)
		body, count, closeFn, err := readRecordFile(path)
		if err != nil {
			return fmt.Errorf("persist: read column %q level %d: %w", propName, i, err)
		}
		ext, err := decodeUint32s(body, count)
		closeFn()
		if err != nil {
			return fmt.Errorf("persist: decode column %q level %d: %w", propName, i, err)
		}
		col.LoadLevel(ext)
	}
	return nil
}

// WriteColumn64 is WriteColumn32's 64-bit counterpart. String-as-pointer
// columns (Tag() == propstore.TagStringPtr) are rejected: their raw values
// are offsets into a process-local StringArena that this package does not
// persist, so reopening them would hand back dangling offsets. Only
// int64/double columns round-trip through persist today (see DESIGN.md).
func WriteColumn64(dir string, col *propstore.Column64) error {
	if col.Tag() == propstore.TagStringPtr {
		return fmt.Errorf("persist: column %q is string-typed, not supported by persist", col.Name())
	}
	for i := 0; i < col.NumLevels(); i++ {
		ext := col.LevelExtent(i)
		path := propertyPath(dir, uint32(i), col.Name())
		if err := writeRecordFile(path, 8, len(ext), encodeUint64s(ext)); err != nil {
			return fmt.Errorf("persist: write column %q level %d: %w", col.Name(), i, err)
		}
	}
	return nil
}

// OpenColumn64 mirrors OpenColumn32 for 64-bit columns.
func OpenColumn64(dir string, propName string, levelCount int, col *propstore.Column64) error {
	for i := 0; i < levelCount; i++ {
		path := propertyPath(dir, uint32(i), propName)
		body, count, closeFn, err := readRecordFile(path)
		if err != nil {
			return fmt.Errorf("persist: read column %q level %d: %w", propName, i, err)
		}
		ext, err := decodeUint64s(body, count)
		closeFn()
		if err != nil {
			return fmt.Errorf("persist: decode column %q level %d: %w", propName, i, err)
		}
		col.LoadLevel(ext)
	}
	return nil
}
