// Package stdconv registers the standard conversions between native
// primitive types, plus a bridge for 2D vectors coming from the struct
// runtime.
package stdconv

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Vec2 is the payload the struct runtime hands over for its vector type.
type Vec2 struct {
	X float64 `cty:"x"`
	Y float64 `cty:"y"`
}

// Vec2Native is the native shape a Vec2 converts into.
var Vec2Native = cty.Object(map[string]cty.Type{"x": cty.Number, "y": cty.Number})

// Vec2Type describes a Vec2 coming from the struct runtime.
var Vec2Type = datatype.Foreign(datatype.FormatStruct, Vec2Native, "Vec2")

// primitivePairs are converted with cty's own rules. number -> bool is left
// out on purpose.
var primitivePairs = [][2]cty.Type{
	{cty.Number, cty.String},
	{cty.String, cty.Number},
	{cty.Bool, cty.String},
	{cty.String, cty.Bool},
}

// Register registers the conversions with the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	for _, p := range primitivePairs {
		if err := r.RegisterCtyConversion(ctx, p[0], p[1]); err != nil {
			return err
		}
	}
	return r.RegisterConversion(ctx, Vec2Type, datatype.Of(Vec2Native), Vec2ToNative)
}

// Vec2ToNative converts a boxed Vec2 into a native object.
func Vec2ToNative(in datatype.Value) (datatype.Value, error) {
	var v Vec2
	switch p := in.Foreign.(type) {
	case Vec2:
		v = p
	case *Vec2:
		if p == nil {
			return datatype.NativeValue(cty.NullVal(Vec2Native)), nil
		}
		v = *p
	default:
		return datatype.Value{}, fmt.Errorf("expected Vec2, got %T", in.Foreign)
	}
	out, err := gocty.ToCtyValue(v, Vec2Native)
	if err != nil {
		return datatype.Value{}, err
	}
	return datatype.NativeValue(out), nil
}
