package stdconv

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r := registry.New()
	require.NoError(t, r.RegisterModules(context.Background(), &Module{}))
	return r
}

func TestRegister_Primitives(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, 5, r.Conversions.Len())

	tests := []struct {
		name string
		from cty.Type
		to   cty.Type
		in   cty.Value
		want cty.Value
		ok   bool
	}{
		{"number to string", cty.Number, cty.String, cty.NumberIntVal(42), cty.StringVal("42"), true},
		{"string to number", cty.String, cty.Number, cty.StringVal("1.5"), cty.NumberFloatVal(1.5), true},
		{"bool to string", cty.Bool, cty.String, cty.True, cty.StringVal("true"), true},
		{"string to bool", cty.String, cty.Bool, cty.StringVal("false"), cty.False, true},
		{"number to bool is absent", cty.Number, cty.Bool, cty.NilVal, cty.NilVal, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := r.Conversions.Resolve(datatype.Of(tc.from), datatype.Of(tc.to))
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			out, err := conversion.Apply(c, datatype.NativeValue(tc.in))
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(out.Native).True(), "got %s", out)
		})
	}

	t.Run("unparsable string", func(t *testing.T) {
		c, ok := r.Conversions.Resolve(datatype.Of(cty.String), datatype.Of(cty.Number))
		require.True(t, ok)
		_, err := conversion.Apply(c, datatype.NativeValue(cty.StringVal("abc")))
		assert.ErrorIs(t, err, grapherr.ErrConversionFailed)
	})
}

func TestVec2ToNative(t *testing.T) {
	r := newRegistry(t)
	c, ok := r.Conversions.Resolve(Vec2Type, datatype.Of(Vec2Native))
	require.True(t, ok)

	want := cty.ObjectVal(map[string]cty.Value{"x": cty.NumberFloatVal(1.5), "y": cty.NumberIntVal(-2)})

	out, err := conversion.Apply(c, datatype.ForeignValue(datatype.FormatStruct, Vec2{X: 1.5, Y: -2}))
	require.NoError(t, err)
	assert.True(t, want.Equals(out.Native).True(), "got %s", out)

	out, err = conversion.Apply(c, datatype.ForeignValue(datatype.FormatStruct, &Vec2{X: 1.5, Y: -2}))
	require.NoError(t, err)
	assert.True(t, want.Equals(out.Native).True(), "got %s", out)

	out, err = conversion.Apply(c, datatype.ForeignValue(datatype.FormatStruct, (*Vec2)(nil)))
	require.NoError(t, err)
	assert.True(t, out.Native.IsNull())

	_, err = conversion.Apply(c, datatype.ForeignValue(datatype.FormatStruct, "nope"))
	assert.ErrorIs(t, err, grapherr.ErrConversionFailed)
}
