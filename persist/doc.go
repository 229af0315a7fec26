// Package persist implements the on-disk level layout: one
// levelNNNNNN.vtx (vertex table) and levelNNNNNN.edg (edge table) file per
// frozen levelstack.Level, optional levelNNNNNN.weight.col and
// levelNNNNNN.<propname>.col files for edge weights and propstore columns,
// and a catalog file enumerating what a database directory holds.
//
// Every record file shares one 32-byte little-endian header (magic, format
// version, element stride, element count, xxhash-64 checksum over the
// payload) so a reopen can detect truncation or corruption before handing
// stale data to the rest of the engine. Files are read back via
// golang.org/x/sys/unix.Mmap on platforms that have it, with a plain
// read-into-memory fallback elsewhere (see mmap_unix.go / mmap_other.go);
// either way the decoded result is a plain owned Go slice, not a live
// mapping, so a Level loaded through this package behaves exactly like one
// built in memory by checkpoint.
package persist
