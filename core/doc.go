// Package core defines the identifiers, visibility rules, and sentinel
// errors shared by every other package in this module: the dense node
// identifier, the tagged edge reference that locates an edge either in a
// frozen level or in the writable overlay, the visibility window a reader
// uses to decide what a level stack shows it, and the small set of
// cross-package error values analytics code matches with errors.Is.
//
// Nothing in this package holds mutable graph state. It is the vocabulary
// the rest of the module speaks; levelstack, overlay, deletion, iter,
// checkpoint, propstore, and llamagraph all import it and none of them import
// each other's concrete types where a core type will do.
package core
