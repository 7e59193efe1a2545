package fixture

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ParseHCL decodes an HCL fixture. Expressions are evaluated without
// variables or functions, so values must be literals.
func ParseHCL(data []byte, filename string) (*Document, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	body, ok := f.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("%s: unexpected body type %T", filename, f.Body)
	}

	var doc Document
	for name, attr := range body.Attributes {
		if name != "nodes" {
			return nil, fmt.Errorf("%s: unknown attribute %q", attr.NameRange, name)
		}
		ids, err := decodeNodes(attr)
		if err != nil {
			return nil, err
		}
		doc.Nodes = ids
	}

	for _, block := range body.Blocks {
		if block.Type != "edge" {
			return nil, fmt.Errorf("%s: unknown block %q", block.DefRange(), block.Type)
		}
		e, err := decodeEdge(block)
		if err != nil {
			return nil, err
		}
		doc.Edges = append(doc.Edges, e)
	}
	return &doc, nil
}

func decodeNodes(attr *hclsyntax.Attribute) ([]uint64, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	list, err := convert.Convert(v, cty.List(cty.Number))
	if err != nil {
		return nil, fmt.Errorf("%s: nodes must be a list of ids: %w", attr.SrcRange, err)
	}
	var ids []uint64
	if err := gocty.FromCtyValue(list, &ids); err != nil {
		return nil, fmt.Errorf("%s: %w", attr.SrcRange, err)
	}
	return ids, nil
}

func decodeEdge(block *hclsyntax.Block) (EdgeSpec, error) {
	e := EdgeSpec{pos: block.DefRange().String()}
	attrs := block.Body.Attributes

	for name, attr := range attrs {
		switch name {
		case "src", "dst", "at":
		default:
			return e, fmt.Errorf("%s: unknown edge attribute %q", attr.NameRange, name)
		}
	}

	for _, f := range []struct {
		name string
		dst  *uint64
	}{{"src", &e.Src}, {"dst", &e.Dst}, {"at", &e.At}} {
		attr, ok := attrs[f.name]
		if !ok {
			return e, fmt.Errorf("%s: edge missing %q", block.DefRange(), f.name)
		}
		if err := decodeUint(attr.Expr, f.dst); err != nil {
			return e, fmt.Errorf("%s: %s: %w", attr.SrcRange, f.name, err)
		}
	}
	return e, nil
}

func decodeUint(expr hcl.Expression, dst *uint64) error {
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	if v.Type() != cty.Number {
		return fmt.Errorf("want number, got %s", v.Type().FriendlyName())
	}
	return gocty.FromCtyValue(v, dst)
}
