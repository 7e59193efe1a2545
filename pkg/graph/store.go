package graph

// Reader is the read-only view query engines borrow from a store.
type Reader interface {
	// Node operations.
	HasNode(id NodeID) bool
	Nodes() []NodeID
	NodeCount() int

	// Edge operations.
	// Adjacency returns the backing sequence; callers must not modify it.
	Adjacency(id NodeID) []Neighbor
	EdgeCount() int
}

var _ Reader = (*TemporalStore)(nil)
