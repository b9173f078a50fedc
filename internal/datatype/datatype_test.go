package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// pyClass stands in for a foreign class handle.
type pyClass struct {
	Module string
	Name   string
}

// unhashable is a handle type that cannot be compared with ==.
type unhashable struct {
	Fields []string
}

type acceptAll struct{ label string }

func (a acceptAll) IsCompatibleWith(DataType) bool { return true }
func (a acceptAll) CustomTypeString() string      { return a.label }

func sampleTypes() []DataType {
	return []DataType{
		Of(cty.String),
		Of(cty.Number),
		Of(cty.List(cty.String)),
		Of(cty.Object(map[string]cty.Type{"x": cty.Number, "y": cty.Number})),
		Default,
		Foreign(FormatScript, cty.DynamicPseudoType, pyClass{Module: "numpy", Name: "ndarray"}),
		Foreign(FormatStruct, cty.DynamicPseudoType, unhashable{Fields: []string{"a", "b"}}),
		MakeDynamic(cty.DynamicPseudoType, acceptAll{}),
	}
}

func TestIsSameType_Reflexive(t *testing.T) {
	for _, dt := range sampleTypes() {
		t.Run(dt.String(), func(t *testing.T) {
			assert.True(t, IsSameType(dt, dt))
		})
	}
}

func TestIsSameType_Symmetric(t *testing.T) {
	types := sampleTypes()
	for _, a := range types {
		for _, b := range types {
			assert.Equal(t, IsSameType(a, b), IsSameType(b, a), "%s vs %s", a, b)
		}
	}
}

func TestIsSameType_Rules(t *testing.T) {
	ndarray := pyClass{Module: "numpy", Name: "ndarray"}

	testCases := []struct {
		name string
		a, b DataType
		same bool
	}{
		{
			name: "same primitive",
			a:    Of(cty.Number),
			b:    Of(cty.Number),
			same: true,
		},
		{
			name: "different primitive",
			a:    Of(cty.Number),
			b:    Of(cty.String),
		},
		{
			name: "format differs",
			a:    Of(cty.DynamicPseudoType),
			b:    Foreign(FormatScript, cty.DynamicPseudoType, nil),
		},
		{
			name: "equal foreign handles",
			a:    Foreign(FormatScript, cty.DynamicPseudoType, ndarray),
			b:    Foreign(FormatScript, cty.DynamicPseudoType, pyClass{Module: "numpy", Name: "ndarray"}),
			same: true,
		},
		{
			name: "different foreign handles",
			a:    Foreign(FormatScript, cty.DynamicPseudoType, ndarray),
			b:    Foreign(FormatScript, cty.DynamicPseudoType, pyClass{Module: "numpy", Name: "matrix"}),
		},
		{
			name: "one handle absent",
			a:    Foreign(FormatScript, cty.DynamicPseudoType, ndarray),
			b:    Foreign(FormatScript, cty.DynamicPseudoType, nil),
		},
		{
			name: "uncomparable handles compared deeply",
			a:    Foreign(FormatStruct, cty.DynamicPseudoType, unhashable{Fields: []string{"a"}}),
			b:    Foreign(FormatStruct, cty.DynamicPseudoType, unhashable{Fields: []string{"a"}}),
			same: true,
		},
		{
			name: "info and dynamic flag are ignored",
			a:    MakeDynamic(cty.String, acceptAll{label: "anything"}),
			b:    Of(cty.String),
			same: true,
		},
		{
			name: "zero native is dynamic",
			a:    DataType{},
			b:    Default,
			same: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.same, tc.a.IsSameType(tc.b))
		})
	}
}

func TestConforms(t *testing.T) {
	assert.True(t, Conforms(Of(cty.String), Default))
	assert.True(t, Conforms(Of(cty.List(cty.Number)), Of(cty.List(cty.Number))))
	assert.False(t, Conforms(Of(cty.String), Of(cty.Number)))
	assert.False(t, Conforms(Foreign(FormatScript, cty.DynamicPseudoType, nil), Default))
}

func TestString(t *testing.T) {
	assert.Equal(t, "string", Of(cty.String).String())
	assert.Equal(t, "list of number", Of(cty.List(cty.Number)).String())
	assert.Equal(t, "script:{numpy ndarray}", Foreign(FormatScript, cty.DynamicPseudoType, pyClass{"numpy", "ndarray"}).String())
	assert.Equal(t, "struct:dynamic", Foreign(FormatStruct, cty.DynamicPseudoType, nil).String())
	assert.Equal(t, "Mesh", MakeDynamic(cty.DynamicPseudoType, acceptAll{label: "Mesh"}).String())
	assert.Equal(t, "format(7)", Format(7).String())
}

func TestImpliedType(t *testing.T) {
	dt, err := ImpliedType("hello")
	require.NoError(t, err)
	assert.True(t, dt.IsSameType(Of(cty.String)))

	dt, err = ImpliedType([]int{1, 2})
	require.NoError(t, err)
	assert.True(t, dt.IsSameType(Of(cty.List(cty.Number))))

	_, err = ImpliedType(make(chan int))
	assert.Error(t, err)
}

func TestValue(t *testing.T) {
	v, err := FromGo(42)
	require.NoError(t, err)
	assert.Equal(t, FormatNative, v.Format)
	assert.True(t, v.Native.RawEquals(cty.NumberIntVal(42)))
	assert.False(t, v.IsNull())

	assert.True(t, NativeValue(cty.NullVal(cty.String)).IsNull())
	assert.True(t, Value{}.IsNull())
	assert.True(t, ForeignValue(FormatScript, nil).IsNull())
	assert.False(t, ForeignValue(FormatScript, "obj").IsNull())

	assert.Equal(t, "null", NativeValue(cty.NullVal(cty.String)).String())
	assert.Equal(t, `cty.StringVal("x")`, NativeValue(cty.StringVal("x")).String())
	assert.Equal(t, "script:obj", ForeignValue(FormatScript, "obj").String())
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatNative, FormatScript, FormatStruct, FormatClient1, FormatClient2} {
		got, ok := ParseFormat(f.String())
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseFormat("cobol")
	assert.False(t, ok)
}
