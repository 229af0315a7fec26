package propstore

import (
	"fmt"
	"sync"
)

// Store is the per-graph property-column registry: the named, typed
// columns for nodes and edges, plus the shared string arena every
// string-as-pointer column interns through. Registration (creating a new
// column) is rare and goes through a single mutex, off the hot ingest
// path, per property-registry lock.
type Store struct {
	registryMu sync.Mutex

	node32 map[string]*Column32
	node64 map[string]*Column64
	edge32 map[string]*Column32
	edge64 map[string]*Column64

	arena *StringArena
}

// NewStore returns an empty property-column registry.
func NewStore() *Store {
	return &Store{
		node32: make(map[string]*Column32),
		node64: make(map[string]*Column64),
		edge32: make(map[string]*Column32),
		edge64: make(map[string]*Column64),
		arena:  NewStringArena(),
	}
}

// GetNodeProperty32 returns the named node column if it exists and is a
// 32-bit column, or (nil, false).
func (s *Store) GetNodeProperty32(name string) (*Column32, bool) {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	c, ok := s.node32[name]
	return c, ok
}

// GetNodeProperty64 returns the named node column if it exists and is a
// 64-bit column, or (nil, false).
func (s *Store) GetNodeProperty64(name string) (*Column64, bool) {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	c, ok := s.node64[name]
	return c, ok
}

// GetEdgeProperty32 is GetNodeProperty32's edge-addressed counterpart.
func (s *Store) GetEdgeProperty32(name string) (*Column32, bool) {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	c, ok := s.edge32[name]
	return c, ok
}

// GetEdgeProperty64 is GetNodeProperty64's edge-addressed counterpart.
func (s *Store) GetEdgeProperty64(name string) (*Column64, bool) {
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	c, ok := s.edge64[name]
	return c, ok
}

// CreateUninitializedNodeProperty32 registers a new 32-bit node column
// under name with the given tag (TagInt32 or TagFloat). Re-registering an
// existing name with the same tag returns the existing column; with a
// different tag it errors: schema evolution of a property column beyond
// appending new levels is out of scope. The 32-bit and 64-bit registries
// are separate, so the same name registered at the other width does not
// error.
func (s *Store) CreateUninitializedNodeProperty32(name string, tag Tag) (*Column32, error) {
	return create32(&s.registryMu, s.node32, name, tag, NodeEntity)
}

// CreateUninitializedEdgeProperty32 is the edge-addressed counterpart.
func (s *Store) CreateUninitializedEdgeProperty32(name string, tag Tag) (*Column32, error) {
	return create32(&s.registryMu, s.edge32, name, tag, EdgeEntity)
}

// CreateUninitializedNodeProperty64 registers a new 64-bit node column
// (TagInt64, TagDouble, or TagStringPtr).
func (s *Store) CreateUninitializedNodeProperty64(name string, tag Tag) (*Column64, error) {
	return s.create64(s.node64, name, tag, NodeEntity)
}

// CreateUninitializedEdgeProperty64 is the edge-addressed counterpart.
func (s *Store) CreateUninitializedEdgeProperty64(name string, tag Tag) (*Column64, error) {
	return s.create64(s.edge64, name, tag, EdgeEntity)
}

func create32(mu *sync.Mutex, table map[string]*Column32, name string, tag Tag, entity Entity) (*Column32, error) {
	if !tag.Width32() {
		return nil, fmt.Errorf("propstore: tag %s is not a 32-bit type", tag)
	}
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := table[name]; ok {
		if existing.tag != tag {
			return nil, fmt.Errorf("propstore: property %q already registered with tag %s", name, existing.tag)
		}
		return existing, nil
	}
	col := newColumn32(name, tag, entity)
	table[name] = col
	return col, nil
}

func (s *Store) create64(table map[string]*Column64, name string, tag Tag, entity Entity) (*Column64, error) {
	if tag.Width32() {
		return nil, fmt.Errorf("propstore: tag %s is not a 64-bit type", tag)
	}
	s.registryMu.Lock()
	defer s.registryMu.Unlock()
	if existing, ok := table[name]; ok {
		if existing.tag != tag {
			return nil, fmt.Errorf("propstore: property %q already registered with tag %s", name, existing.tag)
		}
		return existing, nil
	}
	var arena *StringArena
	if tag == TagStringPtr {
		arena = s.arena
	}
	col := newColumn64(name, tag, entity, arena)
	table[name] = col
	return col, nil
}

// FlushAll promotes every registered column's overlay shadow into a new
// level extent — node-addressed columns sized to maxNodes, edge-addressed
// columns sized to maxEdges — called once per checkpoint regardless of
// whether a given column actually received any CowWrite calls this epoch,
// so every column's extent list stays in lock-step with the number of
// checkpoints it has existed through. A column that
// was never put into writable mode still gets an empty extent appended:
// FlushInto ranges over a nil cow map harmlessly.
func (s *Store) FlushAll(maxNodes, maxEdges int) {
	s.registryMu.Lock()
	node32 := make([]*Column32, 0, len(s.node32))
	for _, c := range s.node32 {
		node32 = append(node32, c)
	}
	node64 := make([]*Column64, 0, len(s.node64))
	for _, c := range s.node64 {
		node64 = append(node64, c)
	}
	edge32 := make([]*Column32, 0, len(s.edge32))
	for _, c := range s.edge32 {
		edge32 = append(edge32, c)
	}
	edge64 := make([]*Column64, 0, len(s.edge64))
	for _, c := range s.edge64 {
		edge64 = append(edge64, c)
	}
	s.registryMu.Unlock()

	for _, c := range node32 {
		c.FlushInto(maxNodes)
	}
	for _, c := range node64 {
		c.FlushInto(maxNodes)
	}
	for _, c := range edge32 {
		c.FlushInto(maxEdges)
	}
	for _, c := range edge64 {
		c.FlushInto(maxEdges)
	}
}

// NodePropertyNames32 returns the registered 32-bit node column names, for
// persist's catalog enumeration. Order is unspecified.
func (s *Store) NodePropertyNames32() []string { return names32(&s.registryMu, s.node32) }

// EdgePropertyNames32 is NodePropertyNames32's edge-addressed counterpart.
func (s *Store) EdgePropertyNames32() []string { return names32(&s.registryMu, s.edge32) }

// NodePropertyNames64 returns the registered 64-bit node column names.
func (s *Store) NodePropertyNames64() []string { return names64(&s.registryMu, s.node64) }

// EdgePropertyNames64 is NodePropertyNames64's edge-addressed counterpart.
func (s *Store) EdgePropertyNames64() []string { return names64(&s.registryMu, s.edge64) }

func names32(mu *sync.Mutex, table map[string]*Column32) []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	return out
}

func names64(mu *sync.Mutex, table map[string]*Column64) []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	return out
}

// OnLevelDeleted releases string-arena references held by every string
// column's extent at levelIndex, called when levelstack.Stack.DeleteLevel
// retires that level.
func (s *Store) OnLevelDeleted(levelIndex int) {
	s.registryMu.Lock()
	cols := make([]*Column64, 0, len(s.node64)+len(s.edge64))
	for _, c := range s.node64 {
		cols = append(cols, c)
	}
	for _, c := range s.edge64 {
		cols = append(cols, c)
	}
	s.registryMu.Unlock()

	for _, c := range cols {
		c.releaseLevel(levelIndex)
	}
}
