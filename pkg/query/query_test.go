package query

import (
	"context"
	"testing"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/swarm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func sampleStore(t *testing.T) *graph.TemporalStore {
	t.Helper()
	s := graph.NewTemporalStore()
	for _, id := range []graph.NodeID{1, 2, 3} {
		s.AddNode(id)
	}
	require.NoError(t, s.AddEdge(1, 2, 5))
	require.NoError(t, s.AddEdge(1, 3, 10))
	require.NoError(t, s.AddEdge(2, 3, 15))
	return s
}

func TestParallel_MatchesSample(t *testing.T) {
	ctx := context.Background()
	s := sampleStore(t)
	pool := swarm.NewPool(4)
	defer pool.Close()
	q := NewParallel(s, pool, WithMinPartitionSize(1))

	assert.ElementsMatch(t, []graph.NodeID{2}, q.NeighborsAt(ctx, 1, 7))
	assert.ElementsMatch(t, []graph.NodeID{2, 3}, q.NeighborsAt(ctx, 1, 10))
	assert.Empty(t, q.NeighborsAt(ctx, 1, 4))
	assert.Empty(t, q.NeighborsAt(ctx, 99, 100))
}

func TestSequentialParallelEquivalence(t *testing.T) {
	ctx := context.Background()
	s := graph.Generate(graph.GenerateOptions{Nodes: 200, Edges: 5000, MaxTimestamp: 1000, Seed: 7})
	seq := NewSequential(s)

	for size := 1; size <= 8; size++ {
		pool := swarm.NewPool(size)
		execs := map[string]swarm.Executor{
			"pool":    pool,
			"limited": swarm.NewLimited(size),
		}
		for name, exec := range execs {
			par := NewParallel(s, exec, WithMinPartitionSize(1))
			for _, at := range []graph.Timestamp{0, 250, 500, 1000} {
				for _, id := range s.Nodes() {
					want := seq.NeighborsAt(ctx, id, at)
					got := par.NeighborsAt(ctx, id, at)
					require.ElementsMatch(t, want, got, "%s size=%d node=%d at=%d", name, size, id, at)
				}
			}
		}
		pool.Close()
	}
}

func TestParallel_HubFanOut(t *testing.T) {
	ctx := context.Background()
	s := graph.GenerateHub(10_000, 100, 3)
	seq := NewSequential(s)

	pool := swarm.NewPool(6)
	defer pool.Close()
	par := NewParallel(s, pool, WithMinPartitionSize(64))

	for _, at := range []graph.Timestamp{0, 33, 50, 100} {
		want := seq.NeighborsAt(ctx, 0, at)
		got := par.NeighborsAt(ctx, 0, at)
		assert.ElementsMatch(t, want, got, "at=%d", at)
	}
	assert.Len(t, par.NeighborsAt(ctx, 0, 100), 10_000)
}

func TestParallel_KeepsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := graph.NewTemporalStore()
	s.AddNode(1)
	s.AddNode(2)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.AddEdge(1, 2, 5))
	}

	par := NewParallel(s, swarm.NewLimited(4), WithMinPartitionSize(1))
	got := par.NeighborsAt(ctx, 1, 5)
	assert.Len(t, got, 100)
	for _, id := range got {
		assert.Equal(t, graph.NodeID(2), id)
	}
}

func TestParallel_ClosedPoolRunsInline(t *testing.T) {
	ctx := context.Background()
	s := graph.GenerateHub(100, 10, 1)
	pool := swarm.NewPool(4)
	pool.Close()

	par := NewParallel(s, pool, WithMinPartitionSize(1))
	assert.Len(t, par.NeighborsAt(ctx, 0, 10), 100)
	assert.Len(t, par.SnapshotAt(ctx, 10), 101)
}

func TestBatchNeighborsAt(t *testing.T) {
	ctx := context.Background()
	s := sampleStore(t)
	pool := swarm.NewPool(3)
	defer pool.Close()

	for name, q := range map[string]Querier{
		"sequential": NewSequential(s),
		"parallel":   NewParallel(s, pool, WithMinPartitionSize(1)),
	} {
		t.Run(name, func(t *testing.T) {
			got := q.BatchNeighborsAt(ctx, []graph.NodeID{1, 2, 1, 42}, 10)
			require.Len(t, got, 3)
			assert.ElementsMatch(t, []graph.NodeID{2, 3}, got[1])
			assert.Empty(t, got[2])
			assert.Contains(t, got, graph.NodeID(42))
			assert.Empty(t, got[42])
		})
	}
}

func TestSnapshotAt_Equivalence(t *testing.T) {
	ctx := context.Background()
	s := graph.Generate(graph.GenerateOptions{Nodes: 500, Edges: 4000, MaxTimestamp: 50, Seed: 11})
	pool := swarm.NewPool(5)
	defer pool.Close()

	want := NewSequential(s).SnapshotAt(ctx, 25)
	got := NewParallel(s, pool, WithMinPartitionSize(16)).SnapshotAt(ctx, 25)

	require.Len(t, got, len(want))
	for id, w := range want {
		assert.ElementsMatch(t, w, got[id], "node %d", id)
	}
}

func TestPartitions(t *testing.T) {
	q := NewParallel(graph.NewTemporalStore(), swarm.NewLimited(4), WithMinPartitionSize(10))

	assert.Equal(t, 1, q.partitions(0))
	assert.Equal(t, 1, q.partitions(19))
	assert.Equal(t, 2, q.partitions(25))
	assert.Equal(t, 4, q.partitions(10_000))
	assert.Equal(t, 4, q.Workers())
}

func TestSplit(t *testing.T) {
	chunks := split(10, 3)
	require.Len(t, chunks, 3)
	assert.Equal(t, chunk{0, 4}, chunks[0])
	assert.Equal(t, chunk{4, 7}, chunks[1])
	assert.Equal(t, chunk{7, 10}, chunks[2])
}

func TestParallel_RecordsSpansAndMetrics(t *testing.T) {
	ctx := context.Background()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
	}()

	pool := swarm.NewPool(2)
	defer pool.Close()
	q := NewParallel(sampleStore(t), pool,
		WithMinPartitionSize(1),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	q.NeighborsAt(ctx, 1, 10)
	q.SnapshotAt(ctx, 10)

	var names []string
	for _, s := range sr.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{"query.NeighborsAt", "query.SnapshotAt"}, names)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.NotEmpty(t, rm.ScopeMetrics)

	var total int64
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != "chronograph.query.count" {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
	}
	assert.Equal(t, int64(2), total)
}
