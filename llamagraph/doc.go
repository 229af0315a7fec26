// Package llamagraph is the facade analytics kernels open: it ties
// levelstack, overlay, checkpoint, deletion, iter, propstore, persist, and
// datasource into a single Graph type with one mutex-free public surface,
// per component table ("Facade — ties the above into the
// single Graph type analytics kernels open").
//
// A Graph owns an out-level stack, an optional mirror in-level stack, a
// writable overlay, a deletion tracker, and a property-column store, each
// scoped to this instance — never a package-level global, so two Graphs
// in one process (or one test binary) are fully independent.
package llamagraph
