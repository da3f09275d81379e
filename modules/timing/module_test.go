package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/value"
)

func TestTimingKindsAreVolatile(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)

	for _, name := range []string{"time", "tick"} {
		k, ok := c.Lookup(name)
		require.True(t, ok)
		v, ok := k.(kind.Volatile)
		require.True(t, ok, "%s must be volatile", name)
		assert.True(t, v.Volatile())
	}
}

func TestTime(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)
	k, _ := c.Lookup("time")

	out, err := k.Evaluate(&kind.Context{
		Elapsed: 1500 * time.Millisecond,
		Dt:      16 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	elapsed, err := value.AsNumber(out["elapsed"])
	require.NoError(t, err)
	assert.InDelta(t, 1.5, elapsed, 1e-9)

	delta, err := value.AsNumber(out["delta"])
	require.NoError(t, err)
	assert.InDelta(t, 0.016, delta, 1e-9)
}

func TestTick(t *testing.T) {
	c := catalog.New()
	Module{}.Register(c)
	k, _ := c.Lookup("tick")

	out, err := k.Evaluate(&kind.Context{Seq: 42}, nil)
	require.NoError(t, err)

	count, err := value.AsNumber(out["count"])
	require.NoError(t, err)
	assert.Equal(t, 42.0, count)
}
