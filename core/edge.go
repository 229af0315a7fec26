package core

import "fmt"

// levelOverlay and levelNil are reserved Level tags that can never be a real
// frozen level number. A LevelStack that grows past MaxRealLevel is an
// invariant violation (see Fault, re-exported as llamagraph.Fault) rather than a silently wrapped tag.
const (
	levelOverlay uint16 = 0xFFFF
	levelNil     uint16 = 0xFFFE

	// MaxRealLevel is the highest level number an EdgeRef can address.
	MaxRealLevel uint16 = levelNil - 1
)

// EdgeRef is the tagged edge identifier: a level tag plus an index within
// that level's edge table, or, when Level is the overlay sentinel, a
// dense index into the writable overlay's edge arena. It is deliberately
// a plain comparable struct rather than a packed integer — bit-packing it
// into one machine word is an implementation's prerogative, not a
// requirement callers see.
type EdgeRef struct {
	Level uint16
	Index uint64
}

// NilEdge is the sentinel returned by iterators at end-of-sequence and by
// Find when no match exists.
var NilEdge = EdgeRef{Level: levelNil}

// IsNil reports whether e is the end-of-iteration/not-found sentinel.
func (e EdgeRef) IsNil() bool { return e.Level == levelNil }

// IsOverlay reports whether e addresses a record in the writable overlay's
// edge arena rather than a frozen level's edge table.
func (e EdgeRef) IsOverlay() bool { return e.Level == levelOverlay }

// OverlayEdge builds an EdgeRef pointing at the overlay-local dense index i.
func OverlayEdge(i uint64) EdgeRef { return EdgeRef{Level: levelOverlay, Index: i} }

// FrozenEdge builds an EdgeRef pointing at index i of frozen level lvl.
// It panics if lvl exceeds MaxRealLevel; that is an invariant violation
// (level-ID exhaustion), not a recoverable condition.
func FrozenEdge(lvl uint32, i uint64) EdgeRef {
	if lvl > uint32(MaxRealLevel) {
		panic(fmt.Sprintf("core: level %d exceeds MaxRealLevel %d", lvl, MaxRealLevel))
	}
	return EdgeRef{Level: uint16(lvl), Index: i}
}

// String renders e for diagnostics and test failures.
func (e EdgeRef) String() string {
	switch {
	case e.IsNil():
		return "NIL_EDGE"
	case e.IsOverlay():
		return fmt.Sprintf("overlay#%d", e.Index)
	default:
		return fmt.Sprintf("L%d#%d", e.Level, e.Index)
	}
}
