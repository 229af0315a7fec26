package extsort

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/llama-csr/core"
)

// itemApproxBytes approximates one buffered Item's footprint (including
// Go slice-header overhead) for budgeting against Config.BufferBytes;
// exactness does not matter, only that the buffer is flushed well before
// it would pressure the process's actual memory.
const itemApproxBytes = 56

// Option configures a Sorter at construction.
type Option func(*config)

type config struct {
	bufferBytes int64
	tmpDirs     []string
}

// WithBufferBytes sets the in-memory budget before a spill; 0 (the
// default) spills after every 64k items. Neither this package nor
// llamagraph sizes the budget from available RAM.
func WithBufferBytes(n int64) Option { return func(c *config) { c.bufferBytes = n } }

// WithTempDirs sets the round-robin directories spill files are created
// in; at least one must exist if Push ever forces a spill. Defaults to
// os.TempDir() alone.
func WithTempDirs(dirs ...string) Option { return func(c *config) { c.tmpDirs = dirs } }

// Sorter implements a streaming external-sort interface: push items in any
// order, Sort them under a bounded memory budget (spilling to temp files
// as needed), then drain them back in non-decreasing order via NextBlock.
// A Sorter is safe for concurrent Push calls but Sort/NextBlock/
// RewindSorted/Clear are meant to run from a single goroutine once
// ingestion finishes, following a single-writer-then-drain lifecycle.
type Sorter struct {
	cmp Comparator
	cfg config

	mu       sync.Mutex
	buf      []Item
	bufBytes int64
	runs     []*spillRun
	dirIdx   int

	leftover *inMemRun
	m        *merger
}

// New returns a Sorter ordering items with cmp (ByTail or ByHead, or a
// caller-supplied comparator).
func New(cmp Comparator, opts ...Option) *Sorter {
	c := config{bufferBytes: 64 << 10 * itemApproxBytes}
	for _, opt := range opts {
		opt(&c)
	}
	if c.bufferBytes <= 0 {
		c.bufferBytes = 64 << 10 * itemApproxBytes
	}
	if len(c.tmpDirs) == 0 {
		c.tmpDirs = []string{""} // "" tells os.CreateTemp to use the default temp dir
	}
	return &Sorter{cmp: cmp, cfg: c}
}

// Push appends one item to the in-memory buffer, spilling a sorted run to
// disk if the buffer has reached its configured byte budget.
func (s *Sorter) Push(it Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, it)
	s.bufBytes += itemApproxBytes
	if s.bufBytes >= s.cfg.bufferBytes {
		return s.spillLocked(context.Background())
	}
	return nil
}

func (s *Sorter) nextDir() string {
	d := s.cfg.tmpDirs[s.dirIdx%len(s.cfg.tmpDirs)]
	s.dirIdx++
	return d
}

func (s *Sorter) spillLocked(ctx context.Context) error {
	if len(s.buf) == 0 {
		return nil
	}
	sorted := sortBuffer(ctx, s.buf, s.cmp)
	run, err := spillWrite(s.nextDir(), sorted)
	if err != nil {
		return fmt.Errorf("extsort: spill: %w", err)
	}
	s.runs = append(s.runs, run)
	s.buf = nil
	s.bufBytes = 0
	return nil
}

// Sort finalizes ingestion and prepares the merge cursor NextBlock reads
// from. If nothing was ever spilled, the buffered items are sorted and
// kept entirely in memory — the common case for loads that fit the
// configured budget never touch disk at all.
func (s *Sorter) Sort(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.runs) == 0 {
		sorted := sortBuffer(ctx, s.buf, s.cmp)
		s.leftover = &inMemRun{items: sorted}
		s.buf = nil
		s.m = newMerger(s.cmp, []run{s.leftover})
		return nil
	}

	if len(s.buf) > 0 {
		if err := s.spillLocked(ctx); err != nil {
			return err
		}
	}
	runs := make([]run, len(s.runs))
	for i, r := range s.runs {
		runs[i] = r
	}
	s.m = newMerger(s.cmp, runs)
	return nil
}

// NextBlock fills buf (reusing its backing array if it has spare
// capacity) with up to cap(buf) items — or, if buf has zero
// capacity, a small default block size — and returns the slice actually
// filled plus whether that slice is non-empty. ok is false only
// once the merge is fully drained; a final non-empty block is still
// reported with ok=true, following a block-then-one-more-call-to-confirm-
// end convention. Calling NextBlock before Sort returns core.ErrSortNotDone.
func (s *Sorter) NextBlock(buf []Item) (out []Item, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		return nil, false, core.ErrSortNotDone
	}

	n := cap(buf)
	if n == 0 {
		n = 1024
	}
	out = buf[:0]
	for len(out) < n {
		it, has := s.m.next()
		if !has {
			break
		}
		out = append(out, it)
	}
	return out, len(out) > 0, nil
}

// RewindSorted resets the merge cursor to the beginning without
// re-sorting, so a second pass (e.g. the emit pass reading a sort built
// for the degree pass) can start over.
func (s *Sorter) RewindSorted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		return core.ErrSortNotDone
	}
	return s.m.rewind()
}

// Clear discards all buffered items and closes/releases every spill run,
// returning the Sorter to its post-New state.
func (s *Sorter) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	if s.m != nil {
		if err := s.m.close(); err != nil {
			firstErr = err
		}
	} else {
		for _, r := range s.runs {
			if err := r.close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	s.buf = nil
	s.bufBytes = 0
	s.runs = nil
	s.leftover = nil
	s.m = nil
	return firstErr
}
