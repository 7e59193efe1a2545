// Package fixture loads temporal graphs from YAML or HCL documents.
//
// YAML:
//
//	nodes: [1, 2, 3]
//	edges:
//	  - {src: 1, dst: 2, at: 5}
//
// HCL:
//
//	nodes = [1, 2, 3]
//	edge {
//	  src = 1
//	  dst = 2
//	  at  = 5
//	}
package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/DrSkyle/chronograph/pkg/graph"
)

// Document is a parsed fixture. Edges are applied in document order after
// every node has been added.
type Document struct {
	Nodes []uint64   `yaml:"nodes,flow"`
	Edges []EdgeSpec `yaml:"edges"`
}

type EdgeSpec struct {
	Src uint64 `yaml:"src" cty:"src"`
	Dst uint64 `yaml:"dst" cty:"dst"`
	At  uint64 `yaml:"at" cty:"at"`

	// pos locates the edge in its source for error messages.
	pos string
}

// Load parses the file at path, choosing the format by extension, and builds a store.
func Load(path string) (*graph.TemporalStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return doc.Build()
}

// Parse decodes data as YAML or HCL depending on the extension of name.
func Parse(data []byte, name string) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		doc, err = ParseYAML(data)
	case ".hcl":
		doc, err = ParseHCL(data, name)
	default:
		return nil, fmt.Errorf("unsupported fixture extension %q", filepath.Ext(name))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return doc, nil
}

// Build creates a store holding the document's nodes and edges. An edge with
// an undeclared endpoint fails with a wrapped *graph.NodeNotFoundError.
func (d *Document) Build() (*graph.TemporalStore, error) {
	s := graph.NewTemporalStore()
	for _, id := range d.Nodes {
		s.AddNode(graph.NodeID(id))
	}
	for i, e := range d.Edges {
		pos := e.pos
		if pos == "" {
			pos = fmt.Sprintf("edges[%d]", i)
		}
		if err := s.AddEdge(graph.NodeID(e.Src), graph.NodeID(e.Dst), graph.Timestamp(e.At)); err != nil {
			return nil, fmt.Errorf("%s: %w", pos, err)
		}
	}
	return s, nil
}

// FromStore captures s as a document: nodes ascending, edges grouped by
// source in adjacency order.
func FromStore(s *graph.TemporalStore) *Document {
	ids := s.Nodes()
	slices.Sort(ids)

	d := &Document{Nodes: make([]uint64, 0, len(ids))}
	for _, id := range ids {
		d.Nodes = append(d.Nodes, uint64(id))
	}
	for _, id := range ids {
		for _, n := range s.Adjacency(id) {
			d.Edges = append(d.Edges, EdgeSpec{Src: uint64(id), Dst: uint64(n.Dst), At: uint64(n.At)})
		}
	}
	return d
}

// Sample builds the three-node demo graph: 1->2@5, 1->3@10, 2->3@15.
func Sample() *graph.TemporalStore {
	d := &Document{
		Nodes: []uint64{1, 2, 3},
		Edges: []EdgeSpec{
			{Src: 1, Dst: 2, At: 5},
			{Src: 1, Dst: 3, At: 10},
			{Src: 2, Dst: 3, At: 15},
		},
	}
	s, err := d.Build()
	if err != nil {
		panic(err)
	}
	return s
}
