package llamagraph

import (
	"context"
	"fmt"

	"github.com/katalvlaran/llama-csr/config"
	"github.com/katalvlaran/llama-csr/core"
	"github.com/katalvlaran/llama-csr/deletion"
	"github.com/katalvlaran/llama-csr/internal/logging"
	"github.com/katalvlaran/llama-csr/metrics"
	"github.com/katalvlaran/llama-csr/overlay"
	"github.com/katalvlaran/llama-csr/persist"
	"github.com/katalvlaran/llama-csr/propstore"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/llama-csr/levelstack"
)

// Graph is the single type analytics kernels open: a level stack per
// direction, the writable overlay sitting on top of it, the deletion
// tracker, and the property store, all scoped to one instance.
type Graph struct {
	cfg config.Loader
	log zerolog.Logger
	met *metrics.Engine

	out *levelstack.Stack
	in  *levelstack.Stack // nil unless cfg.ReverseEdges

	del   *deletion.Tracker
	props *propstore.Store
	ov    *overlay.Overlay

	catalog persist.Catalog // zero value unless opened via Open
}

// Option configures a Graph at construction via the functional-option
// pattern used throughout this module.
type Option func(*Graph)

// WithLoaderConfig attaches a validated config.Loader. Passing an invalid
// combination (e.g. ReverseMaps without ReverseEdges) is a configuration
// error surfaced by New, not a panic — invalid configuration is fatal at
// configuration time via a returned error, not a Fault.
func WithLoaderConfig(cfg config.Loader) Option { return func(g *Graph) { g.cfg = cfg } }

// WithLogger attaches a structured logger; the default is internal/logging's
// no-op logger.
func WithLogger(l zerolog.Logger) Option { return func(g *Graph) { g.log = l } }

// WithMetrics attaches an instrumentation engine; nil (the default) disables
// recording.
func WithMetrics(m *metrics.Engine) Option { return func(g *Graph) { g.met = m } }

// New builds an empty Graph. It returns an error if cfg fails Validate.
func New(opts ...Option) (*Graph, error) {
	g := &Graph{
		cfg: config.Default(),
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("llamagraph: %w", err)
	}

	g.out = levelstack.New()
	if g.cfg.ReverseEdges {
		g.in = levelstack.New()
	}
	g.del = deletion.New()
	g.props = propstore.NewStore()
	g.ov = overlay.New(
		overlay.WithTimestamps(g.cfg.Timestamps),
		overlay.WithFrozenLookup(&frozenLookup{stack: g.out, dv: g.del.OutView()}),
		overlay.WithSupersedeHook(g.onSupersede),
		overlay.WithMetrics(g.met),
		overlay.WithLogger(g.log),
	)
	return g, nil
}

// onSupersede marks a frozen edge superseded by AddEdgeForStreamingWithWeights
// as deleted on both direction trackers, so it stops appearing in either an
// out- or an in-iteration once the overlay edge that replaced it is itself
// promoted.
func (g *Graph) onSupersede(ref core.EdgeRef, ts core.Timestamp) {
	level := g.out.LevelByNumber(uint32(ref.Level))
	if level == nil {
		return
	}
	// The owning node is not recoverable from ref alone (EdgeRef only
	// carries level+index), yet Tracker.MarkDeletedOut needs it to file ref
	// under that node's striped deleted-edge list. A superseded edge's node
	// is whichever node's adjacency range contains ref.Index;
	// nodeForFrozenEdge resolves it by a linear scan of the level's vertex
	// table, acceptable since supersession is rare relative to ingest
	// volume.
	node := nodeForFrozenEdge(level, ref)
	g.del.MarkDeletedOut(node, ref, ts, g.cfg.Timestamps)
	if g.in != nil {
		g.markDeletedInMirror(node, level.Edges[ref.Index], ts)
	}
}

// markDeletedInMirror marks the in-stack's own copy of the (src,dst) edge
// deleted. The in-stack reorders edges by head, so the same logical edge
// lives at a different physical index there than ref.Index addresses in
// the out-stack; checkpoint.Run does not populate Level.Translate (see
// DESIGN.md), so the in-side ref is recovered with a plain reverse lookup
// instead: g.in's adjacency for dst contains src.
func (g *Graph) markDeletedInMirror(src, dst core.NodeID, ts core.Timestamp) {
	inRef := g.in.Find(dst, src, g.Window(), nil)
	if inRef.IsNil() {
		return
	}
	g.del.MarkDeletedIn(dst, inRef, ts, g.cfg.Timestamps)
}

// markDeletedOutMirror is markDeletedInMirror's mirror: given that the
// in-stack's copy of (src,dst) has already been marked deleted on the in
// side, it locates and marks the out-stack's own copy of the same edge.
// Same reverse-lookup tradeoff as markDeletedInMirror applies.
func (g *Graph) markDeletedOutMirror(src, dst core.NodeID, ts core.Timestamp) {
	outRef := g.out.Find(src, dst, g.Window(), nil)
	if outRef.IsNil() {
		return
	}
	g.del.MarkDeletedOut(src, outRef, ts, g.cfg.Timestamps)
}

// nodeForFrozenEdge finds which node's adjacency slice in level contains
// ref's physical index. Levels are typically small in count relative to
// their edge tables' locality, but this is still an O(nodes) scan; see
// DESIGN.md for why Graph does not maintain a reverse edge-to-node index.
func nodeForFrozenEdge(level *levelstack.Level, ref core.EdgeRef) core.NodeID {
	for n, entry := range level.Vertices {
		if entry.SourceLevel != level.Number {
			continue
		}
		if ref.Index >= entry.AdjacencyStart && ref.Index < entry.AdjacencyStart+uint64(entry.Length) {
			return core.NodeID(n)
		}
	}
	return core.NilNode
}

// NumLevels returns the number of frozen levels retained in the out-stack.
func (g *Graph) NumLevels() int { return g.out.NumLevels() }

// MaxNodes returns one past the largest known node ID, across both the
// overlay and the frozen out-stack.
func (g *Graph) MaxNodes() core.NodeID {
	n := g.ov.MaxNodes()
	if frozen := g.out.MaxNodes(); frozen > n {
		n = frozen
	}
	return n
}

// Config returns the loader configuration this Graph was built with.
func (g *Graph) Config() config.Loader { return g.cfg }

// Properties returns the property-column registry, for callers registering
// typed node/edge columns directly.
func (g *Graph) Properties() *propstore.Store { return g.props }

// Catalog returns the persisted catalog this Graph was opened from (the
// zero value for a Graph built with New, which has never been saved).
func (g *Graph) Catalog() persist.Catalog { return g.catalog }

// Levels returns, for each retained out-level in stack-position order, its
// Number, node count and edge count, for inspection tooling such as
// cmd/llamactl's "levels" command.
func (g *Graph) Levels() []LevelSummary {
	n := g.out.NumLevels()
	out := make([]LevelSummary, 0, n)
	for i := 0; i < n; i++ {
		lvl := g.out.LevelAt(i)
		if lvl == nil {
			continue
		}
		out = append(out, LevelSummary{
			Number:    lvl.Number,
			NodeCount: int(lvl.NodeCount()),
			EdgeCount: int(lvl.EdgeCount()),
		})
	}
	return out
}

// LevelSummary is one frozen level's identifying and sizing information,
// decoupled from levelstack.Level so callers outside this module's
// internal packages don't need to import levelstack directly.
type LevelSummary struct {
	Number    uint32
	NodeCount int
	EdgeCount int
}

// Checkpoint promotes the overlay's current contents into a new frozen
// level. ctx bounds the parallel emit pass and the reverse-edge
// external sort.
func (g *Graph) Checkpoint(ctx context.Context, opts ...CheckpointOption) error {
	return g.checkpoint(ctx, opts...)
}

// Save persists this Graph's frozen levels and registered property columns
// to dir via persist.SaveDatabase. The writable overlay is not included:
// callers that want a durable snapshot of in-flight overlay edits should
// Checkpoint first.
func (g *Graph) Save(dir string) error {
	return persist.SaveDatabase(dir, g.out, g.props)
}

// Open reopens a database directory written by Save into a fresh Graph.
// The returned Graph has no writable overlay activity and no in-stack
// (reverse edges are not persisted by this port; see DESIGN.md) — it is
// suitable for read-only analytics and for cmd/llamactl's inspection
// surface.
func Open(dir string, opts ...Option) (*Graph, error) {
	stack, store, cat, err := persist.OpenDatabase(dir)
	if err != nil {
		return nil, err
	}
	g := &Graph{
		cfg:     config.Default(),
		log:     logging.Nop(),
		out:     stack,
		props:   store,
		del:     deletion.New(),
		catalog: cat,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.ov = overlay.New(
		overlay.WithTimestamps(g.cfg.Timestamps),
		overlay.WithFrozenLookup(&frozenLookup{stack: g.out, dv: g.del.OutView()}),
		overlay.WithSupersedeHook(g.onSupersede),
		overlay.WithMetrics(g.met),
		overlay.WithLogger(g.log),
	)
	return g, nil
}
