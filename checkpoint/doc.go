// Package checkpoint implements the operation that promotes a writable
// overlay into a new immutable frozen level. Run executes the promotion in
// eight steps — snapshot, degree pass, edge-table allocation, emit,
// reverse edges, property promotion, deletion compaction, and overlay
// retirement (reverse edges are built before property promotion, so a
// failed reverse build leaves the property columns untouched) — and returns once the new level has been published to the
// out-stack (and, when enabled, the in-stack).
//
// A reader that begins iterating before Run's Stack.Append call sees the
// pre-checkpoint stack; one that begins after sees the new level — Stack.
// Append itself is the atomic-pointer-swap publish point. Run does not
// serialize concurrent checkpoints against each other, and
// llamagraph.Graph.Checkpoint adds no locking of its own.
package checkpoint
