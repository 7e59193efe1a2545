// Package selector picks nodes with a CEL expression.
//
// The expression sees three variables per node: id (uint), out_degree (int)
// and in_degree (int), and must evaluate to a bool.
package selector

import (
	"fmt"
	"slices"

	"github.com/DrSkyle/chronograph/pkg/graph"
	"github.com/google/cel-go/cel"
)

// Source is what a selector inspects.
type Source interface {
	Nodes() []graph.NodeID
	OutDegree(id graph.NodeID) int
	InDegree(id graph.NodeID) int
}

// Selector is a compiled node predicate. It is safe for concurrent use.
type Selector struct {
	expr string
	prg  cel.Program
}

var env *cel.Env

func init() {
	var err error
	env, err = cel.NewEnv(
		cel.Variable("id", cel.UintType),
		cel.Variable("out_degree", cel.IntType),
		cel.Variable("in_degree", cel.IntType),
	)
	if err != nil {
		panic(fmt.Sprintf("selector: build CEL env: %v", err))
	}
}

// Compile parses and type-checks expr.
func Compile(expr string) (*Selector, error) {
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile selector %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("selector %q must return bool, got %s", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("selector %q program creation error: %w", expr, err)
	}
	return &Selector{expr: expr, prg: prg}, nil
}

func (s *Selector) String() string {
	return s.expr
}

// Match evaluates the predicate for one node.
func (s *Selector) Match(src Source, id graph.NodeID) (bool, error) {
	out, _, err := s.prg.Eval(map[string]any{
		"id":         uint64(id),
		"out_degree": int64(src.OutDegree(id)),
		"in_degree":  int64(src.InDegree(id)),
	})
	if err != nil {
		return false, fmt.Errorf("evaluate selector on node %d: %w", id, err)
	}
	match, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("selector returned %T", out.Value())
	}
	return match, nil
}

// Select returns the matching nodes of src in ascending id order.
func (s *Selector) Select(src Source) ([]graph.NodeID, error) {
	ids := src.Nodes()
	slices.Sort(ids)

	var out []graph.NodeID
	for _, id := range ids {
		ok, err := s.Match(src, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, id)
		}
	}
	return out, nil
}
