package graph

import (
	"fmt"
	"io"
	"slices"
)

// Dump writes a human-readable listing of every node and its outgoing edges.
// Nodes are listed in ascending id order; edges in adjacency order. The format
// is for debugging and may change.
func (s *TemporalStore) Dump(w io.Writer) error {
	ids := s.Nodes()
	slices.Sort(ids)

	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "Node %d:\n", id); err != nil {
			return err
		}
		list := s.edges[id]
		if len(list) == 0 {
			if _, err := fmt.Fprintln(w, "  (no outgoing edges)"); err != nil {
				return err
			}
			continue
		}
		for _, n := range list {
			if _, err := fmt.Fprintf(w, "  -> %d @ %d\n", n.Dst, n.At); err != nil {
				return err
			}
		}
	}
	return nil
}
