// Package llamacsr is a multi-level compressed-sparse-row graph storage
// engine: an append-only stack of frozen, immutable CSR levels underneath a
// single mutable write overlay, built for workloads that ingest edges
// continuously and query them concurrently without ever locking the whole
// graph for a write.
//
// The module is organized as:
//
//	core/        — node/edge IDs, tagged EdgeRef, visibility windows, faults
//	overlay/      — the mutable write layer new edges land in before a checkpoint
//	levelstack/   — the append-only stack of frozen CSR levels
//	checkpoint/   — promotes the overlay into a new frozen level
//	deletion/     — tombstones for edges that outlive their owning level
//	propstore/    — copy-on-write node/edge property columns
//	iter/         — one iterator walking the overlay and every visible level
//	extsort/      — external merge sort backing reverse-edge construction
//	datasource/   — the pull protocol bulk and streaming ingest sources implement
//	persist/      — durable on-disk level and property-column storage
//	llamagraph/   — the Graph type tying all of the above into one API
//	cmd/llamactl/ — a read-only inspector for a persisted database directory
//
// A reader never blocks a writer and a writer never blocks a reader: a
// Window names which levels and, optionally, which timestamp a read is
// scoped to, and every level it names is immutable once published.
package llamacsr
