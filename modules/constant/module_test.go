package constant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestConstantPublishesConfiguredValue(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)
	k, ok := c.Lookup("constant")
	require.True(t, ok)

	ec, r, sc := newContext(t)
	require.NoError(t, r.Set(sc, path.MustParse("value"), value.Number(42)))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Number(42), out["value"]))
}

func TestConstantUnconfiguredIsEmpty(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)
	k, _ := c.Lookup("constant")

	ec, _, _ := newContext(t)
	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	assert.True(t, value.IsEmpty(out["value"]))
}

func TestConstantInheritsFromAncestor(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)
	k, _ := c.Lookup("constant")

	ec, r, _ := newContext(t)
	require.NoError(t, r.Set(r.Root(), path.MustParse("value"), value.Text("inherited")))

	out, err := k.Evaluate(ec, nil)
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Text("inherited"), out["value"]))
}
