package llamagraph

import (
	"context"
	"fmt"

	"github.com/katalvlaran/llama-csr/checkpoint"
)

// CheckpointOption is checkpoint.Option re-exported so callers never need to
// import the checkpoint package directly to tune one call.
type CheckpointOption = checkpoint.Option

// WithSortWithinLevel re-exports checkpoint.WithSortWithinLevel.
func WithSortWithinLevel(enabled bool) CheckpointOption { return checkpoint.WithSortWithinLevel(enabled) }

// WithCheckpointDeduplicate re-exports checkpoint.WithDeduplicate.
func WithCheckpointDeduplicate(enabled bool) CheckpointOption { return checkpoint.WithDeduplicate(enabled) }

func (g *Graph) checkpoint(ctx context.Context, opts ...CheckpointOption) error {
	base := []checkpoint.Option{
		checkpoint.WithReverseEdges(g.cfg.ReverseEdges),
		checkpoint.WithMetrics(g.met),
		checkpoint.WithLogger(g.log),
	}
	base = append(base, opts...)
	if err := checkpoint.Run(ctx, g.out, g.in, g.ov, g.props, base...); err != nil {
		return fmt.Errorf("llamagraph: checkpoint: %w", err)
	}
	return nil
}
