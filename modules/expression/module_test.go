package expression

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/scope"
	"github.com/vk/flowgrid/internal/value"
)

func newContext(t *testing.T) (*kind.Context, *scope.Registry, scope.ID) {
	t.Helper()
	r := scope.NewRegistry()
	sc, err := r.CreateChild(r.Root())
	require.NoError(t, err)
	return &kind.Context{Ctx: context.Background(), Registry: r, Scope: sc}, r, sc
}

func exprKind(t *testing.T) kind.Kind {
	t.Helper()
	c := catalog.New()
	Module{}.Register(c)
	k, ok := c.Lookup("expression")
	require.True(t, ok)
	return k
}

func TestExpressionArithmetic(t *testing.T) {
	k := exprKind(t)
	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("1 + 2 * 3")))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	f, err := value.AsNumber(out["result"])
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)
}

func TestExpressionReadsScopeVariables(t *testing.T) {
	k := exprKind(t)
	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(sc, path.MustParse("speed"), value.Number(10)))
	require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("speed * 2")))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	f, _ := value.AsNumber(out["result"])
	assert.Equal(t, 20.0, f)
}

func TestExpressionScopeFallbackAndShadowing(t *testing.T) {
	k := exprKind(t)
	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(r.Root(), path.MustParse("base"), value.Number(100)))
	require.NoError(t, r.Set(r.Root(), path.MustParse("speed"), value.Number(1)))
	require.NoError(t, r.Set(sc, path.MustParse("speed"), value.Number(5)))
	require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("base + speed")))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	f, _ := value.AsNumber(out["result"])
	assert.Equal(t, 105.0, f)
}

func TestExpressionNestedPaths(t *testing.T) {
	k := exprKind(t)
	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(sc, path.MustParse("transform.position.x"), value.Number(3)))
	require.NoError(t, r.Set(sc, path.MustParse("transform.position.y"), value.Number(4)))
	require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("pow(transform.position.x, 2) + pow(transform.position.y, 2)")))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	f, _ := value.AsNumber(out["result"])
	assert.Equal(t, 25.0, f)
}

func TestExpressionFunctions(t *testing.T) {
	k := exprKind(t)
	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text(`max(1, 5, 3) + abs(0 - 2)`)))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	f, _ := value.AsNumber(out["result"])
	assert.Equal(t, 7.0, f)
}

func TestExpressionUnconfiguredIsEmpty(t *testing.T) {
	k := exprKind(t)
	ec, _, _ := newContext(t)

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	assert.True(t, value.IsEmpty(out["result"]))
}

func TestExpressionErrors(t *testing.T) {
	k := exprKind(t)

	t.Run("parse failure", func(t *testing.T) {
		ec, r, sc := newContext(t)
		require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("1 +")))
		_, err := k.Evaluate(ec, nil)
		var evalErr *kind.EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, kind.ReasonCustom, evalErr.Reason)
	})

	t.Run("unknown variable", func(t *testing.T) {
		ec, r, sc := newContext(t)
		require.NoError(t, r.Set(sc, path.MustParse("source"), value.Text("missing + 1")))
		_, err := k.Evaluate(ec, nil)
		assert.Error(t, err)
	})

	t.Run("non-text source", func(t *testing.T) {
		ec, r, sc := newContext(t)
		require.NoError(t, r.Set(sc, path.MustParse("source"), value.Number(5)))
		_, err := k.Evaluate(ec, nil)
		assert.Error(t, err)
	})
}

func TestNestVariables(t *testing.T) {
	vars := nestVariables(map[string]cty.Value{
		"a":     value.Number(1),
		"b.c":   value.Number(2),
		"b.d.e": value.Number(3),
	})

	require.Contains(t, vars, "a")
	require.Contains(t, vars, "b")
	assert.True(t, value.Equal(value.Number(1), vars["a"]))
	assert.True(t, value.Equal(value.Number(2), vars["b"].GetAttr("c")))
	assert.True(t, value.Equal(value.Number(3), vars["b"].GetAttr("d").GetAttr("e")))
}

func TestNestVariablesShadowedPrefix(t *testing.T) {
	// "b" is both a value and a prefix; the deeper entries win.
	vars := nestVariables(map[string]cty.Value{
		"b":   value.Number(9),
		"b.c": value.Number(2),
	})

	require.Contains(t, vars, "b")
	assert.True(t, vars["b"].Type().IsObjectType())
	assert.True(t, value.Equal(value.Number(2), vars["b"].GetAttr("c")))
}
