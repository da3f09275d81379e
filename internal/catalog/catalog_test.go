package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/kind"
	"github.com/vk/flowgrid/internal/pin"
)

// fakeKind is a registration stub with a declared pin surface.
type fakeKind struct {
	name    string
	inputs  []pin.Spec
	outputs []pin.Spec
}

func (f fakeKind) Name() string        { return f.name }
func (f fakeKind) Inputs() []pin.Spec  { return f.inputs }
func (f fakeKind) Outputs() []pin.Spec { return f.outputs }
func (f fakeKind) Evaluate(_ *kind.Context, _ pin.InputMap) (pin.OutputMap, error) {
	return pin.OutputMap{}, nil
}

func TestRegisterAndLookup(t *testing.T) {
	c := New()
	c.Register(fakeKind{name: "osc"})
	c.Register(fakeKind{name: "gain"})

	k, ok := c.Lookup("osc")
	require.True(t, ok)
	assert.Equal(t, "osc", k.Name())

	_, ok = c.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"gain", "osc"}, c.Names())
}

func TestRegisterDuplicatePanics(t *testing.T) {
	c := New()
	c.Register(fakeKind{name: "osc"})
	assert.Panics(t, func() {
		c.Register(fakeKind{name: "osc"})
	})
}

// writeManifest drops a manifest file into dir.
func writeManifest(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDiscoverManifests(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "osc.hcl", `
kind "osc" {
  description = "Oscillator."

  input "freq" {
    type        = "number"
    description = "Frequency in Hz."
    default     = 440
  }

  output "signal" {
    type = "number"
  }
}
`)
	writeManifest(t, dir, "broken.hcl", `kind "bad" {`)

	manifests, err := DiscoverManifests(context.Background(), dir)
	require.NoError(t, err)

	// The broken file is skipped, not fatal.
	require.Len(t, manifests, 1)
	osc := manifests["osc"]
	require.NotNil(t, osc)
	assert.Equal(t, "Oscillator.", osc.Description)
	require.Len(t, osc.Inputs, 1)
	assert.Equal(t, "freq", osc.Inputs[0].Name)
	assert.Equal(t, "number", osc.Inputs[0].Type)
	require.NotNil(t, osc.Inputs[0].Default)
	require.Len(t, osc.Outputs, 1)
}

func TestValidate(t *testing.T) {
	oscKind := fakeKind{
		name:    "osc",
		inputs:  []pin.Spec{{Name: "freq", Type: pin.TypeNumber}},
		outputs: []pin.Spec{{Name: "signal", Type: pin.TypeNumber}},
	}

	manifestFor := func(pinType string) map[string]*KindManifest {
		return map[string]*KindManifest{
			"osc": {
				Name:    "osc",
				Inputs:  []*PinManifest{{Name: "freq", Type: pinType}},
				Outputs: []*PinManifest{{Name: "signal", Type: "number"}},
			},
		}
	}

	t.Run("parity passes", func(t *testing.T) {
		c := New()
		c.Register(oscKind)
		assert.NoError(t, c.Validate(context.Background(), manifestFor("number")))
	})

	t.Run("manifest without implementation", func(t *testing.T) {
		c := New()
		err := c.Validate(context.Background(), manifestFor("number"))
		assert.ErrorContains(t, err, "no registered Go implementation")
	})

	t.Run("type mismatch", func(t *testing.T) {
		c := New()
		c.Register(oscKind)
		err := c.Validate(context.Background(), manifestFor("text"))
		assert.ErrorContains(t, err, "type mismatch")
	})

	t.Run("undeclared pin in implementation", func(t *testing.T) {
		c := New()
		c.Register(oscKind)
		manifests := map[string]*KindManifest{
			"osc": {
				Name:    "osc",
				Outputs: []*PinManifest{{Name: "signal", Type: "number"}},
			},
		}
		err := c.Validate(context.Background(), manifests)
		assert.ErrorContains(t, err, "not declared in manifest")
	})

	t.Run("declared pin missing from implementation", func(t *testing.T) {
		c := New()
		c.Register(oscKind)
		manifests := manifestFor("number")
		manifests["osc"].Inputs = append(manifests["osc"].Inputs, &PinManifest{Name: "phase", Type: "number"})
		err := c.Validate(context.Background(), manifests)
		assert.ErrorContains(t, err, "not found in Go implementation")
	})

	t.Run("all mismatches reported together", func(t *testing.T) {
		c := New()
		manifests := manifestFor("number")
		manifests["gain"] = &KindManifest{Name: "gain"}
		err := c.Validate(context.Background(), manifests)
		require.Error(t, err)
		assert.ErrorContains(t, err, `"osc"`)
		assert.ErrorContains(t, err, `"gain"`)
	})
}
