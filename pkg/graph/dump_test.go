package graph

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	s := NewTemporalStore()
	s.AddNode(3)
	s.AddNode(1)
	s.AddNode(2)
	s.AddNode(4)
	require.NoError(t, s.AddEdge(1, 2, 5))
	require.NoError(t, s.AddEdge(1, 3, 10))
	require.NoError(t, s.AddEdge(2, 3, 15))
	require.NoError(t, s.AddEdge(1, 2, 5))
	_, err := s.RemoveEdge(2, 3, 15)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Dump(&buf))

	g := goldie.New(t)
	g.Assert(t, "dump", buf.Bytes())
}

func TestDump_EmptyStore(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTemporalStore().Dump(&buf))
	require.Zero(t, buf.Len())
}

func TestStats(t *testing.T) {
	s := Generate(GenerateOptions{Nodes: 10, Edges: 25, MaxTimestamp: 100, Seed: 7})
	require.Equal(t, "Nodes: 10 | Edges: 25", s.Stats().String())
}
