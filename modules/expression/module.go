// Package expression provides a node kind that evaluates an HCL expression
// against the values visible from the node's scope. The expression text is
// not wired through a pin: the UI writes it into the node's own scope at
// path "source", the same interaction model the constant kind uses.
package expression

import (
	"errors"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/scope"
	"github.com/vk/flowgrid/internal/value"
)

// Module implements the catalog.Module interface for this package.
type Module struct{}

// Register registers the expression kind with the catalog.
func (m Module) Register(c *catalog.Catalog) {
	c.Register(expressionKind{})
}

// sourcePath is where the UI stores the expression text.
var sourcePath = path.MustParse("source")

// exprFunctions is the function table available to expressions.
var exprFunctions = map[string]function.Function{
	"abs":    stdlib.AbsoluteFunc,
	"ceil":   stdlib.CeilFunc,
	"floor":  stdlib.FloorFunc,
	"min":    stdlib.MinFunc,
	"max":    stdlib.MaxFunc,
	"pow":    stdlib.PowFunc,
	"signum": stdlib.SignumFunc,
	"format": stdlib.FormatFunc,
	"upper":  stdlib.UpperFunc,
	"lower":  stdlib.LowerFunc,
}

type expressionKind struct{}

func (expressionKind) Name() string {
	return "expression"
}

func (expressionKind) Inputs() []pin.Spec {
	return nil
}

func (expressionKind) Outputs() []pin.Spec {
	return []pin.Spec{
		{Name: "result", Type: pin.TypeAny, Description: "The expression's value."},
	}
}

func (expressionKind) Evaluate(ec *kind.Context, _ pin.InputMap) (pin.OutputMap, error) {
	src, err := ec.Resolve(sourcePath)
	if err != nil {
		if errors.Is(err, scope.ErrPathNotFound) {
			return pin.OutputMap{"result": value.Empty()}, nil
		}
		return nil, kind.Customf("resolving expression source: %v", err)
	}
	text, err := value.AsText(src)
	if err != nil {
		return nil, kind.Customf("expression source must be text: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		return pin.OutputMap{"result": value.Empty()}, nil
	}

	expr, diags := hclsyntax.ParseExpression([]byte(text), "expression", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, kind.Customf("parsing expression: %s", diags.Error())
	}

	visible, err := ec.Registry.Visible(ec.Scope)
	if err != nil {
		return nil, kind.Customf("collecting scope variables: %v", err)
	}

	evalCtx := &hcl.EvalContext{
		Variables: nestVariables(visible),
		Functions: exprFunctions,
	}
	result, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, kind.Customf("evaluating expression: %s", diags.Error())
	}
	return pin.OutputMap{"result": result}, nil
}

// varNode is one level of the variable tree built from dotted entry paths.
type varNode struct {
	children map[string]*varNode
	leaf     cty.Value
	hasLeaf  bool
}

// nestVariables folds the flat dot-keyed entry map into nested cty objects
// so expressions can use attribute traversal, e.g. transform.position.x.
// When an entry is both a value and a prefix of deeper entries, the deeper
// entries win and the scalar is shadowed.
func nestVariables(entries map[string]cty.Value) map[string]cty.Value {
	root := &varNode{children: make(map[string]*varNode)}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		node := root
		for _, seg := range strings.Split(key, ".") {
			child, ok := node.children[seg]
			if !ok {
				child = &varNode{children: make(map[string]*varNode)}
				node.children[seg] = child
			}
			node = child
		}
		node.leaf = entries[key]
		node.hasLeaf = true
	}

	out := make(map[string]cty.Value, len(root.children))
	for name, child := range root.children {
		out[name] = child.value()
	}
	return out
}

// value collapses a tree node into a cty value, preferring children over a
// shadowed leaf.
func (n *varNode) value() cty.Value {
	if len(n.children) == 0 {
		return n.leaf
	}
	attrs := make(map[string]cty.Value, len(n.children))
	for name, child := range n.children {
		attrs[name] = child.value()
	}
	return cty.ObjectVal(attrs)
}
