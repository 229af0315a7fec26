// Package deletion implements a deletion tracker: two maps, keyed by
// frozen core.EdgeRef, recording the logical deletion of an
// out-edge or an in-edge without mutating the frozen edge table itself.
// A striped auxiliary structure maps each affected node to its list of
// deleted frozen edges so degree corrections don't require scanning the
// whole map.
//
// Tracker owns both directions' state; levelstack.Stack and iter consume
// it through the small OutView/InView adapters, which satisfy
// levelstack.DeletionView by structural typing so neither package imports
// the other.
package deletion
