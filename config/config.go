// Package config defines the loader configuration table: the options that
// govern how edges become a level (direction handling, reverse
// edges/maps, dedup, property skipping) and how the external sort and
// bulk loaders use memory and temp storage. Loader is built with
// functional options, the same pattern this module's other constructors
// use, and is validated once at configuration time rather than
// discovering an unsupported combination mid-load.
package config

import "github.com/katalvlaran/llama-csr/core"

// Direction selects how an input edge is interpreted when it is ingested.
type Direction uint8

const (
	// Directed ingests each input edge as a single one-way edge.
	Directed Direction = iota
	// UndirectedDouble makes each input edge yield both (u,v) and (v,u).
	UndirectedDouble
	// UndirectedOrdered enforces tail <= head, canonicalizing the pair so
	// an undirected graph never stores both orientations.
	UndirectedOrdered
)

// Loader is the full set of options from table, plus the
// ambient additions (Continuations, Timestamps, MaxMalformedLines) this
// expanded specification adds.
type Loader struct {
	// Direction controls how an input edge tuple is interpreted.
	Direction Direction

	// ReverseEdges builds the in-CSR alongside the out-CSR on direct load.
	ReverseEdges bool

	// ReverseMaps requests the out<->in edge translation columns. Requires
	// ReverseEdges; Validate rejects ReverseMaps without it. No load path
	// builds those columns: levelstack.Level.Translate stays nil either way.
	ReverseMaps bool

	// Deduplicate drops consecutive duplicate edges after the external
	// sort's merge phase, within a tail's (or head's) group.
	Deduplicate bool

	// NoProperties skips creating/populating weight and property columns
	// during a direct load, for callers that only need topology.
	NoProperties bool

	// TmpDirs rotates round-robin across these paths for external-sort
	// spill files. Empty means os.TempDir().
	TmpDirs []string

	// XSBufferSize bounds the external sort's in-memory buffer, in bytes.
	// Zero selects the external sort's fixed default budget (about 64k
	// items); it is not sized from available memory.
	XSBufferSize int64

	// MaxEdges caps the number of input edges a data source will pull,
	// for streaming/partial loads. Zero means unbounded.
	MaxEdges uint64

	// PartialLoadPart and PartialLoadNumParts split a file-backed data
	// source into a contiguous byte range for parallel ingest workers.
	// PartialLoadPart is 0-indexed; PartialLoadNumParts of 0 or 1 disables
	// partial loading.
	PartialLoadPart    int
	PartialLoadNumParts int

	// Continuations enables the level-stack's space-saving optional
	// feature: a node whose adjacency is unchanged from the prior level
	// reuses that level's edge-table slice instead of copying it.
	Continuations bool

	// Timestamps compiles in per-thread transaction timestamps on the
	// overlay (tx_begin/tx_commit/tx_abort) and timestamp-bounded
	// visibility windows. Disabled by default; the non-timestamped
	// deleted_flag / !deleted_flag rule applies instead.
	Timestamps bool

	// MaxMalformedLines bounds how many bad lines a text-format data
	// source (snapfmt) tolerates before failing fast. Zero means "fail on
	// the first malformed line".
	MaxMalformedLines int
}

// Option mutates a Loader under construction. Apply order is left-to-right
// and deterministic.
type Option func(*Loader)

// Default returns the zero-value-equivalent Loader: Directed, no reverse
// edges or maps, no dedup, properties enabled, default sort buffer, no caps.
func Default(opts ...Option) Loader {
	l := Loader{Direction: Directed}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// WithDirection sets how input edge tuples are interpreted.
func WithDirection(d Direction) Option { return func(l *Loader) { l.Direction = d } }

// WithReverseEdges enables building the in-CSR on direct load.
func WithReverseEdges(enabled bool) Option {
	return func(l *Loader) { l.ReverseEdges = enabled }
}

// WithReverseMaps sets Loader.ReverseMaps (validated; the translation
// columns are not built).
func WithReverseMaps(enabled bool) Option { return func(l *Loader) { l.ReverseMaps = enabled } }

// WithDeduplicate enables dropping consecutive duplicate edges post-sort.
func WithDeduplicate(enabled bool) Option { return func(l *Loader) { l.Deduplicate = enabled } }

// WithNoProperties disables weight/property column population on load.
func WithNoProperties(enabled bool) Option { return func(l *Loader) { l.NoProperties = enabled } }

// WithTmpDirs sets the round-robin spill directories for external sort.
func WithTmpDirs(dirs ...string) Option {
	return func(l *Loader) { l.TmpDirs = append([]string(nil), dirs...) }
}

// WithXSBufferSize sets the external sort's in-memory buffer budget.
func WithXSBufferSize(bytes int64) Option { return func(l *Loader) { l.XSBufferSize = bytes } }

// WithMaxEdges caps the number of edges a data source yields.
func WithMaxEdges(n uint64) Option { return func(l *Loader) { l.MaxEdges = n } }

// WithPartialLoad configures a file-range partial load for parallel ingest.
func WithPartialLoad(part, numParts int) Option {
	return func(l *Loader) {
		l.PartialLoadPart = part
		l.PartialLoadNumParts = numParts
	}
}

// WithContinuations enables per-node vertex-table continuations.
func WithContinuations(enabled bool) Option { return func(l *Loader) { l.Continuations = enabled } }

// WithTimestamps enables per-thread transaction timestamps.
func WithTimestamps(enabled bool) Option { return func(l *Loader) { l.Timestamps = enabled } }

// WithMaxMalformedLines bounds tolerated parse errors in text data sources.
func WithMaxMalformedLines(n int) Option { return func(l *Loader) { l.MaxMalformedLines = n } }

// Validate rejects configuration combinations the engine cannot satisfy,
// at configuration time rather than letting a loader discover them
// mid-run.
func (l Loader) Validate() error {
	if l.ReverseMaps && !l.ReverseEdges {
		return core.ErrNotSupported
	}
	if l.PartialLoadNumParts > 0 && (l.PartialLoadPart < 0 || l.PartialLoadPart >= l.PartialLoadNumParts) {
		return core.ErrNotSupported
	}
	if l.XSBufferSize < 0 {
		return core.ErrNotSupported
	}
	return nil
}
