// Package graph implements an in-memory directed temporal multigraph.
//
// Every edge carries the Timestamp from which it is active. A node's outgoing
// edges are kept in insertion order and are never sorted, so the store answers
// "who was reachable from N by time T" with a scan of N's adjacency sequence.
//
// The store is single-writer: mutation and queries must be serialized by the
// caller. See package query for the fan-out form of the neighbor lookup.
package graph

import "fmt"

// NodeID identifies a node. It carries no structure beyond identity.
type NodeID uint64

// Timestamp is a logical clock value attached to an edge.
type Timestamp uint64

// Edge is a directed edge from Src to Dst, active from At onward.
type Edge struct {
	Src NodeID
	Dst NodeID
	At  Timestamp
}

func (e Edge) String() string {
	return fmt.Sprintf("%d -> %d @ %d", e.Src, e.Dst, e.At)
}

// Neighbor is one entry of an adjacency sequence.
type Neighbor struct {
	Dst NodeID
	At  Timestamp
}

// Stats summarizes store size.
type Stats struct {
	Nodes int
	Edges int
}

func (s Stats) String() string {
	return fmt.Sprintf("Nodes: %d | Edges: %d", s.Nodes, s.Edges)
}
