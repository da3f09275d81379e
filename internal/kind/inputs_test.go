package kind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/flowgrid/internal/pin"
	"github.com/vk/flowgrid/internal/value"
)

func TestNumber(t *testing.T) {
	in := pin.InputMap{"a": value.Number(3)}

	f, err := Number(in, "a")
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	t.Run("missing pin", func(t *testing.T) {
		_, err := Number(in, "b")
		var evalErr *EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, ReasonMissingInput, evalErr.Reason)
		assert.Equal(t, "b", evalErr.Pin)
	})

	t.Run("wrong kind", func(t *testing.T) {
		_, err := Number(pin.InputMap{"a": value.Text("x")}, "a")
		var evalErr *EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, ReasonTypeCoercion, evalErr.Reason)
	})

	t.Run("empty sentinel fails coercion", func(t *testing.T) {
		_, err := Number(pin.InputMap{"a": value.Empty()}, "a")
		var evalErr *EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, ReasonTypeCoercion, evalErr.Reason)
	})
}

func TestNumberOr(t *testing.T) {
	f, err := NumberOr(pin.InputMap{}, "t", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, f)

	f, err = NumberOr(pin.InputMap{"t": value.Number(1)}, "t", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, f)

	// A wired wrong-kind value is still an error, not the default.
	_, err = NumberOr(pin.InputMap{"t": value.Bool(true)}, "t", 0.5)
	assert.Error(t, err)
}

func TestTextAndBool(t *testing.T) {
	s, err := Text(pin.InputMap{"op": value.Text("eq")}, "op")
	require.NoError(t, err)
	assert.Equal(t, "eq", s)

	s, err = TextOr(pin.InputMap{}, "op", "ne")
	require.NoError(t, err)
	assert.Equal(t, "ne", s)

	b, err := Bool(pin.InputMap{"c": value.Bool(true)}, "c")
	require.NoError(t, err)
	assert.True(t, b)

	_, err = Bool(pin.InputMap{}, "c")
	assert.Error(t, err)
}

func TestAny(t *testing.T) {
	v, err := Any(pin.InputMap{"x": value.Text("anything")}, "x")
	require.NoError(t, err)
	assert.True(t, value.Equal(value.Text("anything"), v))

	_, err = Any(pin.InputMap{}, "x")
	assert.Error(t, err)
}

func TestEvalErrorMessages(t *testing.T) {
	assert.Equal(t, `missing_input: pin "a": no value wired`, MissingInput("a").Error())
	assert.Contains(t, CoercionFailed("a", "number", value.KindText).Error(), "want number, got text")

	custom := Customf("division by zero")
	assert.Equal(t, ReasonCustom, custom.Reason)
	assert.Contains(t, custom.Error(), "division by zero")

	var evalErr *EvalError
	assert.True(t, errors.As(error(custom), &evalErr))
}
