package graph

import (
	"math"
	"math/rand"
)

// GenerateOptions controls Generate.
type GenerateOptions struct {
	Nodes int
	Edges int
	// MaxTimestamp bounds edge timestamps to [0, MaxTimestamp].
	MaxTimestamp Timestamp
	Seed         int64
}

// Generate builds a random store for tests and benchmarks. Node ids are
// 0..Nodes-1; edges pick endpoints uniformly, so duplicates and self-loops occur.
func Generate(opts GenerateOptions) *TemporalStore {
	s := NewTemporalStore()
	if opts.Nodes <= 0 {
		return s
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	for i := 0; i < opts.Nodes; i++ {
		s.AddNode(NodeID(i))
	}
	for i := 0; i < opts.Edges; i++ {
		src := NodeID(rng.Intn(opts.Nodes))
		dst := NodeID(rng.Intn(opts.Nodes))
		at := RandomTimestamp(rng, opts.MaxTimestamp)
		// Endpoints were added above.
		_ = s.AddEdge(src, dst, at)
	}
	return s
}

// GenerateHub builds a star: node 0 has edges to every other node, giving one
// long adjacency sequence for exercising partitioned scans.
func GenerateHub(fanout int, maxTS Timestamp, seed int64) *TemporalStore {
	s := NewTemporalStore()
	rng := rand.New(rand.NewSource(seed))
	s.AddNode(0)
	for i := 1; i <= fanout; i++ {
		s.AddNode(NodeID(i))
		_ = s.AddEdge(0, NodeID(i), RandomTimestamp(rng, maxTS))
	}
	return s
}

// RandomTimestamp draws from [0, limit] over the full uint64 range.
func RandomTimestamp(rng *rand.Rand, limit Timestamp) Timestamp {
	if limit == math.MaxUint64 {
		return Timestamp(rng.Uint64())
	}
	return Timestamp(rng.Uint64() % (uint64(limit) + 1))
}
