package checkpoint

import (
	"github.com/katalvlaran/llama-csr/internal/logging"
	"github.com/katalvlaran/llama-csr/metrics"
	"github.com/rs/zerolog"
)

// Option configures a Run call.
type Option func(*options)

type options struct {
	sortWithinLevel bool
	dedupe          bool
	reverseEdges    bool
	metrics         *metrics.Engine
	log             zerolog.Logger
}

// WithSortWithinLevel sorts each node's emitted adjacency by target,
// satisfying the sorted-within-level precondition a sorted-merge consumer
// checks for.
func WithSortWithinLevel(enabled bool) Option { return func(o *options) { o.sortWithinLevel = enabled } }

// WithDeduplicate drops consecutive duplicate targets within one node's
// emitted adjacency (requires WithSortWithinLevel to be meaningful, since
// "consecutive" is only well defined post-sort; Run sorts first whenever
// either option is set).
func WithDeduplicate(enabled bool) Option { return func(o *options) { o.dedupe = enabled } }

// WithReverseEdges builds the mirror in-CSR level via an external merge
// sort keyed by head.
func WithReverseEdges(enabled bool) Option { return func(o *options) { o.reverseEdges = enabled } }

// WithMetrics attaches an instrumentation engine; nil (the default)
// records nothing.
func WithMetrics(m *metrics.Engine) Option { return func(o *options) { o.metrics = m } }

// WithLogger attaches a structured logger.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.log = l } }

func newOptions(opts []Option) options {
	o := options{log: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
