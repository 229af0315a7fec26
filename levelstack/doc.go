// Package levelstack owns the append-only sequence of frozen, immutable CSR
// levels — one direction's worth at a time. A Graph holds one
// levelstack.Stack for the out-edges and, when reverse edges are enabled,
// a second Stack (by convention kept mutually consistent by the checkpoint
// package) for the in-edges.
//
// A Level is a vertex table (adjacency_start/length/max_visible_level per
// node) plus a packed edge table grouped by tail (or head, for an in-stack).
// Levels are created only by checkpoint.Run or a direct bulk load; this
// package itself only assembles, stores, and answers queries against levels
// it is handed — it never mutates one in place.
package levelstack
