package core

// Direction selects which of the mirror CSR stacks (out-edges by tail,
// in-edges by head) an iterator or degree query addresses.
type Direction uint8

const (
	// Out walks edges keyed by their tail (source) node.
	Out Direction = iota
	// In walks edges keyed by their head (target) node; only meaningful
	// when the graph was configured with reverse edges enabled.
	In
)

func (d Direction) String() string {
	if d == In {
		return "in"
	}
	return "out"
}

// Timestamp is the per-thread, per-graph monotonically increasing clock
// used when the graph is compiled with timestamp tracking enabled
// (config.Timestamps). A zero Timestamp means "timestamps are not in use";
// readers that never set one see the non-timestamped visibility rule.
type Timestamp uint64

// Window is the (min_level, max_level, timestamp?) visibility predicate a
// reader carries for the lifetime of one iteration or query. Levels are
// addressed newest-to-oldest; MaxLevel is normally the newest level present
// when the reader began, and MinLevel defaults to 0 unless the caller (or
// llamagraph.Graph.SetMinLevel) raised it to let old levels be garbage collected.
type Window struct {
	MinLevel uint32
	MaxLevel uint32

	// ReaderTS, when HasTS is true, bounds which overlay/frozen edges are
	// visible by creation and deletion timestamp. When HasTS is false the
	// non-timestamped equivalent (a plain deleted flag) applies instead.
	ReaderTS Timestamp
	HasTS    bool
}

// IncludesLevel reports whether level l falls within w's level range.
func (w Window) IncludesLevel(l uint32) bool {
	return l >= w.MinLevel && l <= w.MaxLevel
}

// AllLevels returns a Window with no level restriction other than the
// current newest level maxLevel, and no timestamp restriction — the
// default visibility a fresh reader gets.
func AllLevels(maxLevel uint32) Window {
	return Window{MinLevel: 0, MaxLevel: maxLevel}
}

// WithTimestamp returns a copy of w bounded to readerTS.
func (w Window) WithTimestamp(readerTS Timestamp) Window {
	w.ReaderTS = readerTS
	w.HasTS = true
	return w
}
