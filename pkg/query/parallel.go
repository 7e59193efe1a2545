package query

import (
	"context"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/swarm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Parallel fans each query out across a fixed executor. The executor's size
// is fixed when it is constructed; Parallel never changes it.
type Parallel struct {
	store        graph.Reader
	exec         swarm.Executor
	minPartition int
	tracer       trace.Tracer
	inst         *instruments
}

// NewParallel returns an engine over store using exec. The caller keeps
// ownership of exec and closes it, if needed, after the engine is done.
func NewParallel(store graph.Reader, exec swarm.Executor, opts ...Option) *Parallel {
	cfg := newConfig(opts)
	return &Parallel{
		store:        store,
		exec:         exec,
		minPartition: cfg.minPartition,
		tracer:       cfg.tracer,
		inst:         cfg.instruments(),
	}
}

// Workers is the executor's parallelism.
func (q *Parallel) Workers() int {
	return q.exec.Size()
}

func (q *Parallel) NeighborsAt(ctx context.Context, node graph.NodeID, t graph.Timestamp) []graph.NodeID {
	ctx, span := q.tracer.Start(ctx, "query.NeighborsAt", trace.WithAttributes(
		attribute.Int64("graph.node", int64(node)),
		attribute.Int64("graph.at", int64(t)),
	))
	defer span.End()

	adj := q.store.Adjacency(node)
	parts := q.partitions(len(adj))
	span.SetAttributes(attribute.Int("query.partitions", parts))
	defer q.inst.observe(ctx, kindNeighbors, modeParallel, parts)()

	if parts <= 1 {
		return graph.AppendActive(nil, adj, t)
	}

	results := make([][]graph.NodeID, parts)
	tasks := make([]swarm.Task, parts)
	for i, r := range split(len(adj), parts) {
		tasks[i] = func() {
			results[i] = graph.AppendActive(nil, adj[r.lo:r.hi], t)
		}
	}
	q.run(tasks)

	return merge(results)
}

func (q *Parallel) BatchNeighborsAt(ctx context.Context, nodes []graph.NodeID, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	ctx, span := q.tracer.Start(ctx, "query.BatchNeighborsAt", trace.WithAttributes(
		attribute.Int("graph.nodes", len(nodes)),
		attribute.Int64("graph.at", int64(t)),
	))
	defer span.End()

	return q.batch(ctx, span, kindBatch, dedupe(nodes), t)
}

func (q *Parallel) SnapshotAt(ctx context.Context, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	ctx, span := q.tracer.Start(ctx, "query.SnapshotAt", trace.WithAttributes(
		attribute.Int64("graph.at", int64(t)),
	))
	defer span.End()

	return q.batch(ctx, span, kindSnapshot, q.store.Nodes(), t)
}

// batch partitions distinct node ids across the executor. Each task owns a
// disjoint range of results, so no locking is needed.
func (q *Parallel) batch(ctx context.Context, span trace.Span, kind string, nodes []graph.NodeID, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	parts := q.partitions(len(nodes))
	span.SetAttributes(attribute.Int("query.partitions", parts))
	defer q.inst.observe(ctx, kind, modeParallel, parts)()

	results := make([][]graph.NodeID, len(nodes))
	scan := func(lo, hi int) {
		for j := lo; j < hi; j++ {
			results[j] = graph.AppendActive(nil, q.store.Adjacency(nodes[j]), t)
		}
	}

	if parts <= 1 {
		scan(0, len(nodes))
	} else {
		tasks := make([]swarm.Task, parts)
		for i, r := range split(len(nodes), parts) {
			tasks[i] = func() { scan(r.lo, r.hi) }
		}
		q.run(tasks)
	}

	out := make(map[graph.NodeID][]graph.NodeID, len(nodes))
	for j, id := range nodes {
		out[id] = results[j]
	}
	return out
}

// run executes tasks on the executor. A closed pool degrades to running the
// tasks inline, because queries never fail.
func (q *Parallel) run(tasks []swarm.Task) {
	if err := q.exec.Run(tasks); err != nil {
		for _, task := range tasks {
			task()
		}
	}
}

// partitions picks how many pieces to cut n items into: at most one per
// worker and no piece smaller than minPartition.
func (q *Parallel) partitions(n int) int {
	parts := n / q.minPartition
	if w := q.exec.Size(); parts > w {
		parts = w
	}
	if parts < 1 {
		parts = 1
	}
	return parts
}

type chunk struct {
	lo, hi int
}

// split cuts [0, n) into parts contiguous ranges whose sizes differ by at most one.
func split(n, parts int) []chunk {
	out := make([]chunk, parts)
	base, extra := n/parts, n%parts
	lo := 0
	for i := range out {
		size := base
		if i < extra {
			size++
		}
		out[i] = chunk{lo: lo, hi: lo + size}
		lo += size
	}
	return out
}

// merge concatenates partial results. Callers must not rely on the order.
func merge(parts [][]graph.NodeID) []graph.NodeID {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if total == 0 {
		return nil
	}
	out := make([]graph.NodeID, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
