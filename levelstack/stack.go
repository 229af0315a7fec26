package levelstack

import "github.com/katalvlaran/llama-csr/core"

// DeletionView is the read-only slice of the deletion tracker a Stack needs
// to hide logically-deleted frozen edges: a per-edge predicate and a
// per-node deleted-edge count. Degree does not use the count; it checks
// each edge through IsDeleted.
// deletion.Tracker's OutView/InView satisfy this by structural typing;
// levelstack never imports the deletion package.
type DeletionView interface {
	IsDeleted(ref core.EdgeRef, w core.Window) bool
	DeletedCount(n core.NodeID) int
}

// Stack is the append-only sequence of frozen levels for one direction
// (out-edges keyed by tail, or in-edges keyed by head). Levels are never
// mutated once appended; Stack only ever grows at the tail (Append) or
// shrinks at the head (DeleteLevel, bounded by SetMinLevel).
type Stack struct {
	levels   []*Level
	minLevel uint32
}

// New returns an empty Stack.
func New() *Stack { return &Stack{} }

// NumLevels returns the count of frozen levels currently retained.
func (s *Stack) NumLevels() int { return len(s.levels) }

// MaxNodes returns one past the largest known node ID across all retained
// levels (the newest level's vertex table always covers every earlier
// level's nodes too, per invariant 5: max_nodes is non-decreasing).
func (s *Stack) MaxNodes() core.NodeID {
	if len(s.levels) == 0 {
		return 0
	}
	return s.levels[len(s.levels)-1].NodeCount()
}

// MaxEdges returns the physical edge-table size of the level at the given
// stack index (not level Number — callers that address by Number should
// use LevelByNumber first).
func (s *Stack) MaxEdges(index int) uint64 {
	if index < 0 || index >= len(s.levels) {
		return 0
	}
	return s.levels[index].EdgeCount()
}

// Append adds lvl to the top of the stack, assigning it the next sequential
// Number. It is the only mutating operation on an already-built Level;
// callers (checkpoint, persist) must not reuse a Level across two Appends.
func (s *Stack) Append(lvl *Level) {
	lvl.Number = uint32(len(s.levels))
	s.levels = append(s.levels, lvl)
}

// Newest returns the most recently appended level, or nil if the stack is
// empty.
func (s *Stack) Newest() *Level {
	if len(s.levels) == 0 {
		return nil
	}
	return s.levels[len(s.levels)-1]
}

// LevelAt returns the level at stack position idx (as returned by
// VisibleIndices), distinct from LevelByNumber which searches by the
// level's assigned Number. Returns nil if idx is out of range.
func (s *Stack) LevelAt(idx int) *Level {
	if idx < 0 || idx >= len(s.levels) {
		return nil
	}
	return s.levels[idx]
}

// LevelByNumber returns the level with the given Number, or nil if it has
// been garbage-collected or never existed.
func (s *Stack) LevelByNumber(n uint32) *Level {
	for _, l := range s.levels {
		if l.Number == n {
			return l
		}
	}
	return nil
}

// MinLevel returns the lowest level number SetMinLevel has retired up to.
func (s *Stack) MinLevel() uint32 { return s.minLevel }

// SetMinLevel records that no iterator needs levels below l any more; it
// does not itself free anything (DeleteLevel does), but callers use it to
// decide which levels are now eligible for DeleteLevel.
func (s *Stack) SetMinLevel(l uint32) { s.minLevel = l }

// DeleteLevel removes the level numbered n from the stack. The caller is
// responsible for having established that no outstanding iterator holds a
// Window requiring it; Stack does not track iterators itself.
func (s *Stack) DeleteLevel(n uint32) bool {
	for i, l := range s.levels {
		if l.Number == n {
			s.levels = append(s.levels[:i], s.levels[i+1:]...)
			return true
		}
	}
	return false
}

// ResolvedSlice is the physical location of a node's adjacency after
// following any continuation chain: which level's Edges array it lives in,
// and the [start, start+length) range within it.
type ResolvedSlice struct {
	PhysicalLevel uint32
	Start         uint64
	Length        uint32
}

// Resolve follows entry's continuation chain (if any) starting at level
// index idx in s, returning where the adjacency physically lives. It
// panics via core.Raise if the chain is malformed (a continuation pointing
// at a level that no longer exists is an invariant violation: the engine
// must never GC a level something still continues into).
func (s *Stack) Resolve(idx int, entry VertexEntry) ResolvedSlice {
	level := s.levels[idx]
	if !entry.IsContinuation(level.Number) {
		return ResolvedSlice{PhysicalLevel: level.Number, Start: entry.AdjacencyStart, Length: entry.Length}
	}
	src := s.LevelByNumber(entry.SourceLevel)
	if src == nil {
		core.Raise(core.FaultVertexRange, "continuation target level missing", nil)
	}
	return ResolvedSlice{PhysicalLevel: src.Number, Start: entry.AdjacencyStart, Length: entry.Length}
}

// VisibleIndices returns the stack indices (newest-first) whose level
// Number falls within w, i.e. the levels a reader with Window w should
// walk in order.
func (s *Stack) VisibleIndices(w core.Window) []int {
	var out []int
	for i := len(s.levels) - 1; i >= 0; i-- {
		if s.levels[i].Number >= s.minLevel && w.IncludesLevel(s.levels[i].Number) {
			out = append(out, i)
		}
	}
	return out
}

// Degree counts n's live out-edges (or in-edges, for an in-stack) across
// the levels visible under w, consulting dv to skip frozen edges the
// deletion tracker has hidden. It walks each visible level's adjacency
// exactly once, so its cost matches OutIterNext's, keeping the two counts
// precisely consistent with each other.
func (s *Stack) Degree(n core.NodeID, w core.Window, dv DeletionView) int {
	total := 0
	for _, idx := range s.VisibleIndices(w) {
		level := s.levels[idx]
		if int(n) >= len(level.Vertices) {
			continue
		}
		entry := level.Vertices[n]
		rs := s.Resolve(idx, entry)
		physical := s.LevelByNumber(rs.PhysicalLevel)
		for off := uint64(0); off < uint64(rs.Length); off++ {
			ref := core.FrozenEdge(rs.PhysicalLevel, rs.Start+off)
			if dv != nil && dv.IsDeleted(ref, w) {
				continue
			}
			_ = physical
			total++
		}
	}
	return total
}

// FindLatest locates an edge (u,v) within only the newest frozen level, the
// dedup scope the streaming-weighted insert path uses: it checks the
// overlay and only the latest level, not the whole stack, so a duplicate
// reintroduced two levels down is deliberately not found here.
// It returns core.NilEdge if the stack is empty or has no visible match.
func (s *Stack) FindLatest(u, v core.NodeID, dv DeletionView) core.EdgeRef {
	if len(s.levels) == 0 {
		return core.NilEdge
	}
	idx := len(s.levels) - 1
	level := s.levels[idx]
	w := core.AllLevels(level.Number)
	if int(u) >= len(level.Vertices) {
		return core.NilEdge
	}
	entry := level.Vertices[u]
	rs := s.Resolve(idx, entry)
	physical := s.LevelByNumber(rs.PhysicalLevel)
	for off := uint64(0); off < uint64(rs.Length); off++ {
		if physical.Edges[rs.Start+off] != v {
			continue
		}
		ref := core.FrozenEdge(rs.PhysicalLevel, rs.Start+off)
		if dv != nil && dv.IsDeleted(ref, w) {
			continue
		}
		return ref
	}
	return core.NilEdge
}

// WeightOf returns the edge weight stored for ref, or 0 if ref addresses a
// level with no EdgeWeights column (an unweighted direct load).
func (s *Stack) WeightOf(ref core.EdgeRef) float64 {
	level := s.LevelByNumber(uint32(ref.Level))
	if level == nil || level.EdgeWeights == nil || ref.Index >= uint64(len(level.EdgeWeights)) {
		return 0
	}
	return level.EdgeWeights[ref.Index]
}

// Find locates an edge (u,v) newest-level-first, first match in insertion
// order within a level. It returns core.NilEdge if no visible, non-deleted
// match exists.
func (s *Stack) Find(u, v core.NodeID, w core.Window, dv DeletionView) core.EdgeRef {
	for _, idx := range s.VisibleIndices(w) {
		level := s.levels[idx]
		if int(u) >= len(level.Vertices) {
			continue
		}
		entry := level.Vertices[u]
		rs := s.Resolve(idx, entry)
		physical := s.LevelByNumber(rs.PhysicalLevel)
		for off := uint64(0); off < uint64(rs.Length); off++ {
			if physical.Edges[rs.Start+off] != v {
				continue
			}
			ref := core.FrozenEdge(rs.PhysicalLevel, rs.Start+off)
			if dv != nil && dv.IsDeleted(ref, w) {
				continue
			}
			return ref
		}
	}
	return core.NilEdge
}
