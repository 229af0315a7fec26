// Package propstore implements typed node/edge property columns: named,
// level-extent-aligned arrays of int32, int64, float, double, or
// string-as-pointer values, with copy-on-write overlay shadows so a
// writable graph can accumulate property writes between checkpoints
// without touching a frozen level's storage.
//
// Rather than a template hierarchy per type, every column is one of
// exactly two concrete widths — Column32 (int32 or float32) and Column64
// (int64, double, or a string-arena offset) — distinguished at runtime by
// a Tag: a typed-column interface with a small, closed variant set,
// without needing generics or an implementation per type.
package propstore
