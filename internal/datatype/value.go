package datatype

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Value is a payload travelling over a connection. Native payloads live in
// Native; foreign payloads are opaque handles in Foreign, tagged by Format.
type Value struct {
	Format  Format
	Native  cty.Value
	Foreign any
}

// NativeValue wraps a cty value.
func NativeValue(v cty.Value) Value {
	return Value{Format: FormatNative, Native: v}
}

// ForeignValue wraps an opaque handle produced by another runtime.
func ForeignValue(format Format, handle any) Value {
	return Value{Format: format, Foreign: handle}
}

// FromGo converts a Go value into a native payload.
func FromGo(goValue any) (Value, error) {
	t, err := gocty.ImpliedType(goValue)
	if err != nil {
		return Value{}, fmt.Errorf("cannot imply type of %T: %w", goValue, err)
	}
	v, err := gocty.ToCtyValue(goValue, t)
	if err != nil {
		return Value{}, fmt.Errorf("cannot convert %T: %w", goValue, err)
	}
	return NativeValue(v), nil
}

// IsNull reports whether the payload holds no data.
func (v Value) IsNull() bool {
	if v.Format != FormatNative {
		return v.Foreign == nil
	}
	return v.Native.IsNull()
}

func (v Value) String() string {
	if v.Format != FormatNative {
		return fmt.Sprintf("%s:%v", v.Format, v.Foreign)
	}
	if v.Native.IsNull() {
		return "null"
	}
	return v.Native.GoString()
}
