package engine

import (
	"context"
	"fmt"

	"github.com/DrSkyle/chronograph/pkg/fixture"
	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/DrSkyle/chronograph/pkg/selector"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Load replaces the store with the fixture at path.
func (e *Engine) Load(ctx context.Context, path string) error {
	_, span := e.Tracer.Start(ctx, "Engine.Load", trace.WithAttributes(attribute.String("fixture.path", path)))
	defer span.End()

	s, err := fixture.Load(path)
	if err != nil {
		span.RecordError(err)
		return err
	}
	e.Store = s

	st := s.Stats()
	span.SetAttributes(attribute.Int("graph.nodes", st.Nodes), attribute.Int("graph.edges", st.Edges))
	e.Logger.Info("Loaded fixture", "path", path, "nodes", st.Nodes, "edges", st.Edges)
	return nil
}

// LoadSample replaces the store with the built-in demo graph.
func (e *Engine) LoadSample() {
	e.Store = fixture.Sample()
	e.Logger.Debug("Loaded sample graph", "stats", e.Store.Stats().String())
}

// Generate replaces the store with a random graph.
func (e *Engine) Generate(opts graph.GenerateOptions) {
	e.Store = graph.Generate(opts)
	e.Logger.Debug("Generated graph", "nodes", opts.Nodes, "edges", opts.Edges, "seed", opts.Seed)
}

// Select evaluates a CEL selector against the store.
func (e *Engine) Select(ctx context.Context, expr string) ([]graph.NodeID, error) {
	_, span := e.Tracer.Start(ctx, "Engine.Select", trace.WithAttributes(attribute.String("selector", expr)))
	defer span.End()

	sel, err := selector.Compile(expr)
	if err != nil {
		return nil, err
	}
	ids, err := sel.Select(e.Store)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}
	span.SetAttributes(attribute.Int("selector.matches", len(ids)))
	return ids, nil
}
