package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestKindOf(t *testing.T) {
	testCases := []struct {
		name     string
		val      cty.Value
		expected Kind
	}{
		{name: "number", val: Number(42.5), expected: KindNumber},
		{name: "bool", val: Bool(true), expected: KindBool},
		{name: "text", val: Text("hello"), expected: KindText},
		{name: "color", val: Color(1, 0.5, 0, 1), expected: KindColor},
		{name: "vector", val: Vector(1, 2, 3), expected: KindVector},
		{name: "list", val: List(Number(1), Text("a")), expected: KindList},
		{name: "empty list", val: List(), expected: KindList},
		{name: "empty", val: Empty(), expected: KindEmpty},
		{name: "nil value", val: cty.NilVal, expected: KindEmpty},
		{name: "typed null", val: cty.NullVal(cty.Number), expected: KindEmpty},
		{name: "foreign object", val: cty.ObjectVal(map[string]cty.Value{"q": cty.NumberIntVal(1)}), expected: KindEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, KindOf(tc.val))
		})
	}
}

func TestKindFromName(t *testing.T) {
	for _, k := range []Kind{KindEmpty, KindNumber, KindBool, KindText, KindColor, KindVector, KindList} {
		parsed, err := KindFromName(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	_, err := KindFromName("quaternion")
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Number(1), Number(1)))
	assert.False(t, Equal(Number(1), Number(2)))
	assert.False(t, Equal(Number(1), Text("1")))
	assert.True(t, Equal(Color(1, 0, 0, 1), Color(1, 0, 0, 1)))
	assert.False(t, Equal(Color(1, 0, 0, 1), Color(1, 0, 0, 0.5)))
	assert.True(t, Equal(Empty(), Empty()))
	assert.True(t, Equal(cty.NilVal, cty.NilVal))
	assert.False(t, Equal(cty.NilVal, Number(1)))
	// Nulls of different types are still both the absence of a value.
	assert.True(t, Equal(cty.NullVal(cty.Number), cty.NullVal(cty.String)))
}

func TestConversions(t *testing.T) {
	t.Run("number", func(t *testing.T) {
		f, err := AsNumber(Number(2.5))
		require.NoError(t, err)
		assert.Equal(t, 2.5, f)

		_, err = AsNumber(Text("nope"))
		assert.Error(t, err)
	})

	t.Run("bool", func(t *testing.T) {
		b, err := AsBool(Bool(true))
		require.NoError(t, err)
		assert.True(t, b)

		_, err = AsBool(Number(1))
		assert.Error(t, err)
	})

	t.Run("text", func(t *testing.T) {
		s, err := AsText(Text("hi"))
		require.NoError(t, err)
		assert.Equal(t, "hi", s)

		_, err = AsText(Bool(false))
		assert.Error(t, err)
	})

	t.Run("color components", func(t *testing.T) {
		r, g, b, a, err := ColorComponents(Color(0.1, 0.2, 0.3, 0.4))
		require.NoError(t, err)
		assert.InDelta(t, 0.1, r, 1e-9)
		assert.InDelta(t, 0.2, g, 1e-9)
		assert.InDelta(t, 0.3, b, 1e-9)
		assert.InDelta(t, 0.4, a, 1e-9)

		_, _, _, _, err = ColorComponents(Vector(1, 2, 3))
		assert.Error(t, err)
	})

	t.Run("vector components", func(t *testing.T) {
		x, y, z, err := VectorComponents(Vector(1, 2, 3))
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, []float64{x, y, z})

		_, _, _, err = VectorComponents(Number(1))
		assert.Error(t, err)
	})

	t.Run("elements", func(t *testing.T) {
		elems, err := Elements(List(Number(1), Text("a")))
		require.NoError(t, err)
		require.Len(t, elems, 2)
		assert.True(t, Equal(Number(1), elems[0]))

		_, err = Elements(Number(1))
		assert.Error(t, err)
	})
}

func TestToGo(t *testing.T) {
	testCases := []struct {
		name     string
		val      cty.Value
		expected any
	}{
		{name: "number", val: Number(3), expected: 3.0},
		{name: "bool", val: Bool(true), expected: true},
		{name: "text", val: Text("x"), expected: "x"},
		{name: "empty", val: Empty(), expected: nil},
		{name: "vector", val: Vector(1, 2, 3), expected: map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}},
		{name: "list", val: List(Number(1), Bool(false)), expected: []any{1.0, false}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToGo(tc.val)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFromGo(t *testing.T) {
	t.Run("primitives", func(t *testing.T) {
		v, err := FromGo(1.5)
		require.NoError(t, err)
		assert.True(t, Equal(Number(1.5), v))

		v, err = FromGo("hi")
		require.NoError(t, err)
		assert.True(t, Equal(Text("hi"), v))

		v, err = FromGo(true)
		require.NoError(t, err)
		assert.True(t, Equal(Bool(true), v))

		v, err = FromGo(nil)
		require.NoError(t, err)
		assert.True(t, IsEmpty(v))
	})

	t.Run("color and vector objects", func(t *testing.T) {
		v, err := FromGo(map[string]any{"r": 1.0, "g": 0.0, "b": 0.0, "a": 1.0})
		require.NoError(t, err)
		assert.Equal(t, KindColor, KindOf(v))

		v, err = FromGo(map[string]any{"x": 1.0, "y": 2.0, "z": 3.0})
		require.NoError(t, err)
		assert.Equal(t, KindVector, KindOf(v))
	})

	t.Run("rejects arbitrary objects", func(t *testing.T) {
		_, err := FromGo(map[string]any{"foo": 1.0})
		assert.Error(t, err)

		_, err = FromGo(map[string]any{"x": "not a number", "y": 1.0, "z": 2.0})
		assert.Error(t, err)
	})

	t.Run("lists", func(t *testing.T) {
		v, err := FromGo([]any{1.0, "a", true})
		require.NoError(t, err)
		assert.Equal(t, KindList, KindOf(v))

		elems, err := Elements(v)
		require.NoError(t, err)
		assert.Len(t, elems, 3)
	})
}
