// Package extsort implements a bounded-memory external sort: bulk-load
// edge streams are pushed in arbitrary order, sorted under a fixed memory
// budget (spilling sorted runs to temp files once the in-memory buffer
// fills), and then drained back out in non-decreasing order via a K-way
// merge. checkpoint uses it to build the in-CSR (sorted by head) from an
// out-ordered overlay scan; llamagraph's direct-load path uses it to sort
// a bulk-loaded edge stream by tail.
//
// Spilled runs are zstd-compressed (github.com/klauspost/compress/zstd)
// since a sorted run of NodeID pairs compresses well and the spill path
// is disk-bandwidth bound, not CPU bound, on any machine this is likely
// to run on. Temp files are removed immediately after creation and held
// open by descriptor only — an unexpected exit leaves nothing behind.
package extsort
