package graph

// NeighborsAt returns the destinations of node's edges active at t, i.e. with
// At <= t. A node without an adjacency entry yields an empty result. Order is
// unspecified and duplicate destinations are preserved.
func (s *TemporalStore) NeighborsAt(node NodeID, t Timestamp) []NodeID {
	return AppendActive(nil, s.edges[node], t)
}

// AppendActive appends to dst the destination of every entry in adj active at t.
func AppendActive(dst []NodeID, adj []Neighbor, t Timestamp) []NodeID {
	for _, n := range adj {
		if n.At <= t {
			dst = append(dst, n.Dst)
		}
	}
	return dst
}
