package graph

import "maps"

// TemporalStore is an in-memory temporal multigraph.
//
// It holds no locks. Mutations must not run concurrently with each other or
// with in-flight queries.
type TemporalStore struct {
	nodes map[NodeID]struct{}
	edges map[NodeID][]Neighbor
	// incoming[dst][src] counts edges src -> dst. It bounds RemoveNode by the
	// removed node's degree instead of the total edge count.
	incoming map[NodeID]map[NodeID]int
	numEdges int
}

func NewTemporalStore() *TemporalStore {
	return &TemporalStore{
		nodes:    make(map[NodeID]struct{}),
		edges:    make(map[NodeID][]Neighbor),
		incoming: make(map[NodeID]map[NodeID]int),
	}
}

// AddNode inserts id. Adding a present id is a no-op.
func (s *TemporalStore) AddNode(id NodeID) {
	s.nodes[id] = struct{}{}
}

// AddEdge appends (dst, at) to src's adjacency sequence. Both endpoints must
// already exist; the source is checked first. Duplicate edges are kept.
func (s *TemporalStore) AddEdge(src, dst NodeID, at Timestamp) error {
	if _, ok := s.nodes[src]; !ok {
		return &NodeNotFoundError{ID: src}
	}
	if _, ok := s.nodes[dst]; !ok {
		return &NodeNotFoundError{ID: dst}
	}

	s.edges[src] = append(s.edges[src], Neighbor{Dst: dst, At: at})

	// Add reverse entry.
	srcs := s.incoming[dst]
	if srcs == nil {
		srcs = make(map[NodeID]int)
		s.incoming[dst] = srcs
	}
	srcs[src]++
	s.numEdges++
	return nil
}

// RemoveNode deletes id, its outgoing sequence and every edge pointing at it.
func (s *TemporalStore) RemoveNode(id NodeID) (NodeID, error) {
	if _, ok := s.nodes[id]; !ok {
		return 0, &NodeNotFoundError{ID: id}
	}
	delete(s.nodes, id)

	// Drop incoming edges from every other source.
	for src := range s.incoming[id] {
		if src == id {
			continue
		}
		kept := s.edges[src][:0]
		for _, n := range s.edges[src] {
			if n.Dst != id {
				kept = append(kept, n)
			}
		}
		s.numEdges -= len(s.edges[src]) - len(kept)
		s.edges[src] = kept
	}
	delete(s.incoming, id)

	// Drop the outgoing sequence.
	for _, n := range s.edges[id] {
		s.numEdges--
		if n.Dst == id {
			continue
		}
		s.unlinkIncoming(n.Dst, id, 1)
	}
	delete(s.edges, id)

	return id, nil
}

// RemoveEdge deletes every entry of src matching (dst, at) exactly and returns
// the removed triple. The source's adjacency entry is kept even when emptied.
func (s *TemporalStore) RemoveEdge(src, dst NodeID, at Timestamp) (Edge, error) {
	e := Edge{Src: src, Dst: dst, At: at}

	list, ok := s.edges[src]
	if !ok {
		return Edge{}, &EdgeNotFoundError{Edge: e}
	}

	removed := 0
	for _, n := range list {
		if n.Dst == dst && n.At == at {
			removed++
		}
	}
	if removed == 0 {
		return Edge{}, &EdgeNotFoundError{Edge: e}
	}

	kept := list[:0]
	for _, n := range list {
		if n.Dst != dst || n.At != at {
			kept = append(kept, n)
		}
	}
	s.edges[src] = kept
	s.numEdges -= removed
	s.unlinkIncoming(dst, src, removed)

	return e, nil
}

func (s *TemporalStore) unlinkIncoming(dst, src NodeID, n int) {
	srcs := s.incoming[dst]
	if srcs == nil {
		return
	}
	srcs[src] -= n
	if srcs[src] <= 0 {
		delete(srcs, src)
	}
	if len(srcs) == 0 {
		delete(s.incoming, dst)
	}
}

func (s *TemporalStore) HasNode(id NodeID) bool {
	_, ok := s.nodes[id]
	return ok
}

// Nodes returns a copy of the node set in no particular order.
func (s *TemporalStore) Nodes() []NodeID {
	out := make([]NodeID, 0, len(s.nodes))
	for id := range s.nodes {
		out = append(out, id)
	}
	return out
}

func (s *TemporalStore) NodeCount() int {
	return len(s.nodes)
}

func (s *TemporalStore) EdgeCount() int {
	return s.numEdges
}

func (s *TemporalStore) Stats() Stats {
	return Stats{Nodes: len(s.nodes), Edges: s.numEdges}
}

// Adjacency returns id's adjacency sequence without copying. The slice is
// valid until the next mutation and must not be modified.
func (s *TemporalStore) Adjacency(id NodeID) []Neighbor {
	return s.edges[id]
}

// HasAdjacency reports whether id has an adjacency entry, possibly empty.
func (s *TemporalStore) HasAdjacency(id NodeID) bool {
	_, ok := s.edges[id]
	return ok
}

// Edges returns a deep copy of the adjacency index.
func (s *TemporalStore) Edges() map[NodeID][]Neighbor {
	out := maps.Clone(s.edges)
	for id, list := range out {
		out[id] = append([]Neighbor(nil), list...)
	}
	return out
}

func (s *TemporalStore) OutDegree(id NodeID) int {
	return len(s.edges[id])
}

// InDegree counts edges pointing at id, self-loops included.
func (s *TemporalStore) InDegree(id NodeID) int {
	total := 0
	for _, n := range s.incoming[id] {
		total += n
	}
	return total
}
