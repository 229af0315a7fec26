// Package overlay implements the writable overlay: the sparse, concurrent
// node directory that accepts structural mutations between checkpoints.
// Each node owns a lock; two-endpoint operations acquire locks in
// ascending node-ID order to avoid deadlock, pushed down to per-node
// granularity since the whole point of an overlay is to let unrelated
// nodes mutate without contending on each other.
//
// Overlay edges live in a flat arena addressed by dense index rather than
// by pointer: node records hold arena indices, not pointers, which keeps
// core.EdgeRef copyable and comparable without a combined 64-bit
// level+pointer trick.
package overlay
