package overlay

import "github.com/katalvlaran/llama-csr/core"

// TxBegin returns a fresh, monotonically increasing timestamp for a new
// logical transaction when timestamps are compiled in (WithTimestamps),
// and increments the active-transaction count used by diagnostics. With
// timestamps disabled it returns core.Timestamp(0) and every deletion and
// property write in this overlay instance is visible under the
// non-timestamped boolean deleted-flag rule.
//
// Unlike a database transaction, a llama-csr transaction does not buffer
// or roll back structural edits: AddNode/AddEdge/DeleteEdge take effect
// immediately. TxBegin/TxCommit/TxAbort exist to hand out the timestamp
// domain every Window(ReaderTS) comparison is made against — this is a
// visibility mechanism, not an isolation one.
func (o *Overlay) TxBegin() core.Timestamp {
	o.activeTxDelta(1)
	if !o.timestamps {
		return 0
	}
	o.clockMu.Lock()
	defer o.clockMu.Unlock()
	o.clock++
	return o.clock
}

// TxCommit closes a transaction opened by TxBegin. There is nothing to
// flush: it only retires the active-transaction count.
func (o *Overlay) TxCommit() { o.activeTxDelta(-1) }

// TxAbort closes a transaction without undoing its structural edits —
// see TxBegin's doc comment — and retires the active-transaction count.
func (o *Overlay) TxAbort() { o.activeTxDelta(-1) }

func (o *Overlay) activeTxDelta(d int64) {
	o.clockMu.Lock()
	o.activeTx += d
	o.clockMu.Unlock()
}

// ActiveTransactions reports the number of TxBegin calls not yet matched
// by a TxCommit or TxAbort, for diagnostics and tests.
func (o *Overlay) ActiveTransactions() int64 {
	o.clockMu.Lock()
	defer o.clockMu.Unlock()
	return o.activeTx
}

// Timestamps reports whether this overlay was constructed with
// WithTimestamps(true).
func (o *Overlay) Timestamps() bool { return o.timestamps }
