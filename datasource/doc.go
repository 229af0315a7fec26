// Package datasource defines the pull interface that feeds edge tuples
// into a writable overlay (or, for a direct load, straight into a new CSR
// level): a single NextEdge method plus the two batched convenience
// wrappers, Pull and PullParallel. The format-specific readers
// (datasource/xstream1, datasource/snapfmt) implement Source; this package
// never reads a byte itself.
package datasource
