// Package metrics wires the engine's OpenTelemetry instruments: ingest
// throughput, checkpoint latency, and iteration counts. A Graph that never
// calls metrics.New still works — every instrument here is created against
// whatever MeterProvider is configured (the global no-op one by default),
// so wiring these in never forces a dependency on a running collector.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the meter name every Graph registers its
// instruments under.
const InstrumentationName = "github.com/katalvlaran/llama-csr"

// Engine bundles the instruments the checkpoint, overlay, and iteration
// packages record against. It is safe for concurrent use: the underlying
// otel instruments are.
type Engine struct {
	EdgesIngested  metric.Int64Counter
	NodesIngested  metric.Int64Counter
	EdgesDeleted   metric.Int64Counter
	Checkpoints    metric.Int64Counter
	CheckpointTime metric.Float64Histogram
	LevelsLive     metric.Int64UpDownCounter
	IterStarted    metric.Int64Counter
}

// New builds an Engine against the global otel MeterProvider. Call
// otel.SetMeterProvider before constructing a Graph to point these
// instruments at a real exporter; left unconfigured, every recorded
// measurement is simply dropped by the no-op provider.
func New() *Engine {
	m := otel.Meter(InstrumentationName)

	edgesIngested, _ := m.Int64Counter("llama.edges.ingested",
		metric.WithDescription("edges accepted by the writable overlay"))
	nodesIngested, _ := m.Int64Counter("llama.nodes.ingested",
		metric.WithDescription("nodes allocated by the writable overlay"))
	edgesDeleted, _ := m.Int64Counter("llama.edges.deleted",
		metric.WithDescription("edges marked deleted, overlay or frozen"))
	checkpoints, _ := m.Int64Counter("llama.checkpoints.total",
		metric.WithDescription("completed checkpoint operations"))
	checkpointTime, _ := m.Float64Histogram("llama.checkpoint.duration_seconds",
		metric.WithDescription("wall-clock time spent promoting the overlay into a new level"),
		metric.WithUnit("s"))
	levelsLive, _ := m.Int64UpDownCounter("llama.levels.live",
		metric.WithDescription("frozen levels currently retained in the stack"))
	iterStarted, _ := m.Int64Counter("llama.iterators.started",
		metric.WithDescription("out/in iterators opened"))

	return &Engine{
		EdgesIngested:  edgesIngested,
		NodesIngested:  nodesIngested,
		EdgesDeleted:   edgesDeleted,
		Checkpoints:    checkpoints,
		CheckpointTime: checkpointTime,
		LevelsLive:     levelsLive,
		IterStarted:    iterStarted,
	}
}

// RecordCheckpoint records one completed checkpoint of the given duration.
func (e *Engine) RecordCheckpoint(ctx context.Context, seconds float64) {
	if e == nil {
		return
	}
	e.Checkpoints.Add(ctx, 1)
	e.CheckpointTime.Record(ctx, seconds)
	e.LevelsLive.Add(ctx, 1)
}
