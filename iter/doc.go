// Package iter implements a single forward cursor over one node's
// adjacency: it walks the writable overlay first (newest edges, in reverse
// insertion order) and then each visible frozen level newest-to-oldest,
// following continuation chains and skipping edges the deletion tracker
// hides under the caller's Window. Next returns core.NilEdge at
// exhaustion; Neighbor and Weight report the edge just returned.
//
// One Iterator is built per (node, direction) pair and is not safe for
// concurrent use by more than one goroutine.
package iter
