// Package query answers point-in-time neighbor lookups against a graph.Reader.
//
// Sequential scans on the calling goroutine. Parallel partitions each scan
// across an injected swarm.Executor and merges partial results without
// imposing an order; both return the same multiset for the same store state.
//
// Neither engine mutates the store, and both require it to be quiescent for
// the duration of a call. The ctx argument only carries trace context: a query
// is not cancellable and always runs to completion.
package query

import (
	"context"

	"github.com/DrSkyle/chronograph/pkg/graph"
)

// Querier is implemented by Sequential and Parallel.
type Querier interface {
	// NeighborsAt returns the destinations of node's edges with At <= t.
	NeighborsAt(ctx context.Context, node graph.NodeID, t graph.Timestamp) []graph.NodeID
	// BatchNeighborsAt evaluates NeighborsAt for every distinct id in nodes.
	// Every requested id is a key of the result, even when it has no matches.
	BatchNeighborsAt(ctx context.Context, nodes []graph.NodeID, t graph.Timestamp) map[graph.NodeID][]graph.NodeID
	// SnapshotAt evaluates NeighborsAt for the whole node set.
	SnapshotAt(ctx context.Context, t graph.Timestamp) map[graph.NodeID][]graph.NodeID
}

var (
	_ Querier = (*Sequential)(nil)
	_ Querier = (*Parallel)(nil)
)

// Sequential evaluates queries on the calling goroutine.
type Sequential struct {
	store graph.Reader
	inst  *instruments
}

func NewSequential(store graph.Reader, opts ...Option) *Sequential {
	cfg := newConfig(opts)
	return &Sequential{store: store, inst: cfg.instruments()}
}

func (q *Sequential) NeighborsAt(ctx context.Context, node graph.NodeID, t graph.Timestamp) []graph.NodeID {
	defer q.inst.observe(ctx, kindNeighbors, modeSequential, 1)()
	return graph.AppendActive(nil, q.store.Adjacency(node), t)
}

func (q *Sequential) BatchNeighborsAt(ctx context.Context, nodes []graph.NodeID, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	defer q.inst.observe(ctx, kindBatch, modeSequential, 1)()
	return q.batch(dedupe(nodes), t)
}

func (q *Sequential) SnapshotAt(ctx context.Context, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	defer q.inst.observe(ctx, kindSnapshot, modeSequential, 1)()
	return q.batch(q.store.Nodes(), t)
}

func (q *Sequential) batch(nodes []graph.NodeID, t graph.Timestamp) map[graph.NodeID][]graph.NodeID {
	out := make(map[graph.NodeID][]graph.NodeID, len(nodes))
	for _, id := range nodes {
		out[id] = graph.AppendActive(nil, q.store.Adjacency(id), t)
	}
	return out
}

// dedupe returns the distinct ids of nodes, keeping first occurrence order.
func dedupe(nodes []graph.NodeID) []graph.NodeID {
	seen := make(map[graph.NodeID]struct{}, len(nodes))
	out := make([]graph.NodeID, 0, len(nodes))
	for _, id := range nodes {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
