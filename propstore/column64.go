package propstore

import (
	"math"
	"sync"
)

// Column64 is Column32's 64-bit-wide sibling, holding int64, double, or (for
// Tag == TagStringPtr) an offset into a StringArena. The string-as-pointer
// case additionally needs a destructor hook (arena.Release) invoked when the
// owning level is garbage-collected; Store.OnLevelDeleted wires that up.
type Column64 struct {
	name   string
	tag    Tag
	entity Entity
	arena  *StringArena // only set when tag == TagStringPtr

	mu       sync.RWMutex
	levels   [][]uint64
	writable bool
	cow      map[uint64]uint64
}

func newColumn64(name string, tag Tag, entity Entity, arena *StringArena) *Column64 {
	return &Column64{name: name, tag: tag, entity: entity, arena: arena}
}

func (c *Column64) Name() string   { return c.name }
func (c *Column64) Tag() Tag       { return c.tag }
func (c *Column64) Entity() Entity { return c.entity }

// InitLevel mirrors Column32.InitLevel.
func (c *Column64) InitLevel(maxEntries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels = append(c.levels, make([]uint64, maxEntries))
}

// FinishLevel mirrors Column32.FinishLevel.
func (c *Column64) FinishLevel() {}

// WritableInit mirrors Column32.WritableInit.
func (c *Column64) WritableInit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.writable {
		c.writable = true
		c.cow = make(map[uint64]uint64)
	}
}

// CowWrite mirrors Column32.CowWrite. When the column is string-typed, the
// caller is expected to have already interned the string via c.arena and
// pass its offset as raw.
func (c *Column64) CowWrite(entity uint64, raw uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.writable {
		panic("propstore: CowWrite on column not in writable mode")
	}
	c.cow[entity] = raw
}

// Get mirrors Column32.Get.
func (c *Column64) Get(entity uint64) (uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.writable {
		if v, ok := c.cow[entity]; ok {
			return v, true
		}
	}
	for i := len(c.levels) - 1; i >= 0; i-- {
		ext := c.levels[i]
		if entity < uint64(len(ext)) && ext[entity] != 0 {
			return ext[entity], true
		}
	}
	return 0, false
}

// GetInt64 is Get reinterpreted as a signed 64-bit integer.
func (c *Column64) GetInt64(entity uint64) (int64, bool) {
	raw, ok := c.Get(entity)
	return int64(raw), ok
}

// GetDouble is Get reinterpreted as an IEEE-754 float64.
func (c *Column64) GetDouble(entity uint64) (float64, bool) {
	raw, ok := c.Get(entity)
	return math.Float64frombits(raw), ok
}

// GetString resolves a string-as-pointer column's stored offset through
// its StringArena. Returns ("", false) for a non-string column or an unset
// entity.
func (c *Column64) GetString(entity uint64) (string, bool) {
	if c.tag != TagStringPtr || c.arena == nil {
		return "", false
	}
	raw, ok := c.Get(entity)
	if !ok {
		return "", false
	}
	return c.arena.Lookup(raw)
}

// CowWriteInt64 writes v into the overlay shadow for entity.
func (c *Column64) CowWriteInt64(entity uint64, v int64) { c.CowWrite(entity, uint64(v)) }

// CowWriteDouble writes v into the overlay shadow for entity.
func (c *Column64) CowWriteDouble(entity uint64, v float64) {
	c.CowWrite(entity, math.Float64bits(v))
}

// CowWriteString interns s in the column's arena and writes the resulting
// offset into the overlay shadow for entity.
func (c *Column64) CowWriteString(entity uint64, s string) {
	if c.tag != TagStringPtr || c.arena == nil {
		panic("propstore: CowWriteString on non-string column")
	}
	off := c.arena.Intern(s)
	c.CowWrite(entity, off)
}

// FlushInto mirrors Column32.FlushInto.
func (c *Column64) FlushInto(maxEntries int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ext := make([]uint64, maxEntries)
	for entity, v := range c.cow {
		if entity < uint64(maxEntries) {
			ext[entity] = v
		}
	}
	c.levels = append(c.levels, ext)
	c.cow = make(map[uint64]uint64)
}

// NumLevels returns how many frozen extents this column has, for persist's
// per-level enumeration.
func (c *Column64) NumLevels() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.levels)
}

// LevelExtent mirrors Column32.LevelExtent.
func (c *Column64) LevelExtent(levelIndex int) []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if levelIndex < 0 || levelIndex >= len(c.levels) {
		return nil
	}
	return c.levels[levelIndex]
}

// LoadLevel mirrors Column32.LoadLevel.
func (c *Column64) LoadLevel(extent []uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.levels = append(c.levels, extent)
}

// releaseLevel drops this string column's arena references for the extent
// at levelIndex, called when that level is garbage-collected. No-op for
// non-string columns.
func (c *Column64) releaseLevel(levelIndex int) {
	if c.tag != TagStringPtr || c.arena == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if levelIndex < 0 || levelIndex >= len(c.levels) {
		return
	}
	for _, off := range c.levels[levelIndex] {
		if off != 0 {
			c.arena.Release(off)
		}
	}
}
