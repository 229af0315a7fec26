// Package parallel provides the one fork/join primitive the rest of this
// module needs: a chunked parallel-for over a node-ID range, built on
// golang.org/x/sync/errgroup and golang.org/x/sync/semaphore rather than a
// hand-rolled worker pool, matching the "use the ecosystem, not the stdlib
// by hand" posture the rest of the codebase takes.
//
// checkpoint's emit pass, external sort's per-buffer sort, and
// datasource.PullParallel's apply phase drive their work through For
// instead of spawning goroutines directly.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Body is one unit of work over the half-open range [start, end).
type Body func(start, end int) error

// ForOptions tunes how a range is chunked and how many workers run at once.
type ForOptions struct {
	// Chunk is the number of elements each worker call covers. Zero picks
	// a chunk size that spreads the range over GOMAXPROCS workers.
	Chunk int
	// MaxWorkers bounds concurrent Body calls. Zero means GOMAXPROCS(0).
	MaxWorkers int
}

// For runs body over [0, n) in chunks, fanned out across workers, and
// returns the first error any chunk produced (errgroup semantics: the
// group's context is canceled so remaining chunks may observe ctx.Err()
// and return early, but already-started chunks are not interrupted mid-body).
//
// A panic inside body is not recovered here; it propagates up through the
// calling goroutine and crashes the process, matching the fatal-on-invariant
// posture the rest of the module uses for unrecoverable conditions.
func For(ctx context.Context, n int, opts ForOptions, body Body) error {
	if n <= 0 {
		return nil
	}

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	chunk := opts.Chunk
	if chunk <= 0 {
		chunk = (n + workers - 1) / workers
		if chunk < 1 {
			chunk = 1
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for start := 0; start < n; start += chunk {
		start := start
		end := start + chunk
		if end > n {
			end = n
		}
		if err := sem.Acquire(gctx, 1); err != nil {
			// Context already canceled by an earlier chunk's error; stop
			// launching new work and fall through to g.Wait() to collect it.
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return body(start, end)
		})
	}

	return g.Wait()
}
