package datatype

import (
	"fmt"
	"reflect"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Format identifies the runtime a DataType originates from.
type Format int

const (
	// FormatNative is data described entirely by its cty type.
	FormatNative Format = 0
	// FormatScript is data boxed from a scripting runtime.
	FormatScript Format = 100
	// FormatStruct is data boxed from a C-style struct bridge.
	FormatStruct Format = 101
	// FormatClient1 is reserved for clients.
	FormatClient1 Format = 1001
	// FormatClient2 is reserved for clients.
	FormatClient2 Format = 1002
)

func (f Format) String() string {
	switch f {
	case FormatNative:
		return "native"
	case FormatScript:
		return "script"
	case FormatStruct:
		return "struct"
	case FormatClient1:
		return "client1"
	case FormatClient2:
		return "client2"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat reads the name printed by Format.String.
func ParseFormat(name string) (Format, bool) {
	for _, f := range []Format{FormatNative, FormatScript, FormatStruct, FormatClient1, FormatClient2} {
		if f.String() == name {
			return f, true
		}
	}
	return FormatNative, false
}

// ExtendedInfo can be attached to a DataType to extend the standard
// compatibility checks and to customize how the type is displayed.
type ExtendedInfo interface {
	// IsCompatibleWith reports whether data of the incoming type may flow
	// into a pin carrying this type.
	IsCompatibleWith(incoming DataType) bool
	// CustomTypeString returns a display name, or "" to use the default.
	CustomTypeString() string
}

// DataType is the type tag carried by a pin. It is a plain value and is never
// mutated after construction.
type DataType struct {
	// Native is the host type of the payload. For foreign data it is usually
	// cty.DynamicPseudoType.
	Native cty.Type
	// Format is the runtime the data comes from.
	Format Format
	// Extended holds a foreign type handle. It is nil for native data.
	Extended any
	// Dynamic descriptors defer compatibility to Info instead of Native.
	Dynamic bool
	// Info is optional and shared between descriptors.
	Info ExtendedInfo
}

// Default is the descriptor of untyped native data.
var Default = Of(cty.DynamicPseudoType)

// Of returns a native descriptor for t.
func Of(t cty.Type) DataType {
	return DataType{Native: orDynamic(t), Format: FormatNative}
}

// Foreign returns a descriptor for data boxed from another runtime.
func Foreign(format Format, native cty.Type, handle any) DataType {
	return DataType{Native: orDynamic(native), Format: format, Extended: handle}
}

// MakeDynamic returns a native dynamic descriptor.
func MakeDynamic(native cty.Type, info ExtendedInfo) DataType {
	return DataType{Native: orDynamic(native), Format: FormatNative, Dynamic: true, Info: info}
}

// MakeDynamicForeign returns a dynamic descriptor for foreign data.
func MakeDynamicForeign(native cty.Type, format Format, handle any, info ExtendedInfo) DataType {
	return DataType{Native: orDynamic(native), Format: format, Extended: handle, Dynamic: true, Info: info}
}

// ImpliedType returns the native descriptor matching a Go value.
func ImpliedType(goValue any) (DataType, error) {
	t, err := gocty.ImpliedType(goValue)
	if err != nil {
		return DataType{}, fmt.Errorf("cannot imply type of %T: %w", goValue, err)
	}
	return Of(t), nil
}

// NativeType returns Native, reading an unset shape as cty.DynamicPseudoType.
func (t DataType) NativeType() cty.Type {
	return orDynamic(t.Native)
}

func orDynamic(t cty.Type) cty.Type {
	if t == cty.NilType {
		return cty.DynamicPseudoType
	}
	return t
}

// IsSameType reports whether t and other describe exactly the same type.
// Dynamic and Info are not consulted.
func (t DataType) IsSameType(other DataType) bool {
	if t.Format != other.Format {
		return false
	}
	if !sameNative(t.Native, other.Native) {
		return false
	}
	return payloadEqual(t.Extended, other.Extended)
}

// IsSameType is the free-function form of DataType.IsSameType.
func IsSameType(a, b DataType) bool {
	return a.IsSameType(b)
}

// Conforms reports whether native data of type from satisfies the native
// shape of to. DynamicPseudoType in to accepts anything.
func Conforms(from, to DataType) bool {
	if from.Format != FormatNative || to.Format != FormatNative {
		return false
	}
	return len(orDynamic(from.Native).TestConformance(orDynamic(to.Native))) == 0
}

func (t DataType) String() string {
	if t.Info != nil {
		if s := t.Info.CustomTypeString(); s != "" {
			return s
		}
	}
	name := orDynamic(t.Native).FriendlyName()
	if t.Format == FormatNative {
		return name
	}
	if t.Extended != nil {
		return fmt.Sprintf("%s:%v", t.Format, t.Extended)
	}
	return fmt.Sprintf("%s:%s", t.Format, name)
}

func sameNative(a, b cty.Type) bool {
	return orDynamic(a).Equals(orDynamic(b))
}

// equaler is implemented by foreign type handles that define their own equality.
type equaler interface {
	Equal(other any) bool
}

func payloadEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if eq, ok := a.(equaler); ok {
		return eq.Equal(b)
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
