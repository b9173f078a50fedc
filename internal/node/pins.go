package node

import (
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
)

// BasicInput is a general purpose Input.
type BasicInput struct {
	dataType datatype.DataType
	flags    InputFlags
	constant datatype.Value
	defined  bool
}

// NewInput returns an input without a constant value.
func NewInput(dt datatype.DataType, flags InputFlags) *BasicInput {
	return &BasicInput{dataType: dt, flags: flags}
}

// NewInputWithConstant returns an input whose constant is v.
func NewInputWithConstant(dt datatype.DataType, flags InputFlags, v datatype.Value) *BasicInput {
	return &BasicInput{dataType: dt, flags: flags, constant: v, defined: true}
}

func (i *BasicInput) DataType() datatype.DataType { return i.dataType }

func (i *BasicInput) Flags() InputFlags { return i.flags }

func (i *BasicInput) ConstantValue() (datatype.Value, bool) {
	if !i.defined {
		return datatype.Value{}, false
	}
	return i.constant, true
}

// SetConstantValue stores v as the constant. The payload format must match
// the input's format.
func (i *BasicInput) SetConstantValue(v datatype.Value) error {
	if v.Format != i.dataType.Format {
		return grapherr.New(grapherr.ErrTypeMismatch, "constant of format %s for input of type %s", v.Format, i.dataType)
	}
	i.constant = v
	i.defined = true
	return nil
}

// ClearConstantValue removes the constant.
func (i *BasicInput) ClearConstantValue() {
	i.constant = datatype.Value{}
	i.defined = false
}

// BasicOutput is a general purpose Output.
type BasicOutput struct {
	dataType datatype.DataType
}

// NewOutput returns an output of type dt.
func NewOutput(dt datatype.DataType) *BasicOutput {
	return &BasicOutput{dataType: dt}
}

func (o *BasicOutput) DataType() datatype.DataType { return o.dataType }
