package fixture

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_FormatsAgree(t *testing.T) {
	g := goldie.New(t)
	for _, path := range []string{"testdata/graph.yaml", "testdata/graph.hcl"} {
		t.Run(filepath.Ext(path), func(t *testing.T) {
			s, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, graph.Stats{Nodes: 4, Edges: 5}, s.Stats())

			var buf bytes.Buffer
			require.NoError(t, s.Dump(&buf))
			g.Assert(t, "fixture_dump", buf.Bytes())
		})
	}
}

func TestLoad_DanglingEdge(t *testing.T) {
	_, err := Load("testdata/dangling.hcl")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)
	assert.Contains(t, err.Error(), "dangling.hcl:3")

	var nf *graph.NodeNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, graph.NodeID(9), nf.ID)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"extension", write("g.json", "{}")},
		{"yaml unknown key", write("a.yaml", "nodes: [1]\nvertices: [2]\n")},
		{"yaml negative", write("b.yaml", "nodes: [-1]\n")},
		{"hcl syntax", write("c.hcl", "nodes = [1,\n")},
		{"hcl unknown block", write("d.hcl", "vertex {\n}\n")},
		{"hcl missing at", write("e.hcl", "nodes = [1]\nedge {\n  src = 1\n  dst = 1\n}\n")},
		{"hcl string id", write("f.hcl", "nodes = [1]\nedge {\n  src = \"1\"\n  dst = 1\n  at = 0\n}\n")},
		{"hcl fractional", write("g.hcl", "nodes = [1.5]\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestParseYAML_Empty(t *testing.T) {
	doc, err := ParseYAML(nil)
	require.NoError(t, err)
	s, err := doc.Build()
	require.NoError(t, err)
	assert.Zero(t, s.NodeCount())
}

func TestWriteYAML_ReadsBack(t *testing.T) {
	want := FromStore(Sample())

	var buf bytes.Buffer
	require.NoError(t, want.WriteYAML(&buf))

	got, err := ParseYAML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSample(t *testing.T) {
	s := Sample()
	assert.Equal(t, []graph.NodeID{2}, s.NeighborsAt(1, 6))
	assert.ElementsMatch(t, []graph.NodeID{2, 3}, s.NeighborsAt(1, 12))
	assert.Equal(t, "Nodes: 3 | Edges: 3", s.Stats().String())
}
