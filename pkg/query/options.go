package query

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMinPartitionSize is the smallest slice of work handed to one task.
const DefaultMinPartitionSize = 512

const instrumentationName = "chronograph/query"

const (
	kindNeighbors = "neighbors"
	kindBatch     = "batch"
	kindSnapshot  = "snapshot"

	modeSequential = "sequential"
	modeParallel   = "parallel"
)

// Option configures an engine.
type Option func(*config)

type config struct {
	minPartition int
	tracer       trace.Tracer
	meter        metric.Meter
}

// WithMinPartitionSize sets the smallest partition. Values below 1 are ignored.
func WithMinPartitionSize(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.minPartition = n
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(c *config) {
		if t != nil {
			c.tracer = t
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(c *config) {
		if m != nil {
			c.meter = m
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		minPartition: DefaultMinPartitionSize,
		tracer:       otel.Tracer(instrumentationName),
		meter:        otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type instruments struct {
	queries    metric.Int64Counter
	partitions metric.Int64Counter
	latency    metric.Float64Histogram
}

// instruments falls back to no-op instruments when the meter rejects one.
func (c *config) instruments() *instruments {
	inst := &instruments{
		queries:    noop.Int64Counter{},
		partitions: noop.Int64Counter{},
		latency:    noop.Float64Histogram{},
	}
	if q, err := c.meter.Int64Counter("chronograph.query.count",
		metric.WithDescription("Neighbor queries served."),
		metric.WithUnit("{query}")); err == nil {
		inst.queries = q
	}
	if p, err := c.meter.Int64Counter("chronograph.query.partitions",
		metric.WithDescription("Partitions dispatched to the executor."),
		metric.WithUnit("{partition}")); err == nil {
		inst.partitions = p
	}
	if l, err := c.meter.Float64Histogram("chronograph.query.duration",
		metric.WithDescription("Query latency."),
		metric.WithUnit("ms")); err == nil {
		inst.latency = l
	}
	return inst
}

// observe starts timing a query; call the returned func when it finishes.
func (i *instruments) observe(ctx context.Context, kind, mode string, parts int) func() {
	start := time.Now()
	return func() {
		attrs := metric.WithAttributes(
			attribute.String("query.kind", kind),
			attribute.String("query.mode", mode),
		)
		i.queries.Add(ctx, 1, attrs)
		i.partitions.Add(ctx, int64(parts), attrs)
		i.latency.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}
}
