// Package node defines the minimal contract every graph node exposes: a name
// and ordered sets of named, typed inputs and outputs. Names are unique within
// a node's inputs and within its outputs, not across both.
package node

import (
	"context"
	"strconv"

	"github.com/specialistvlad/nodegraph/internal/datatype"
)

// Handle identifies a node within one graph.
type Handle int

// InvalidHandle never names a node.
const InvalidHandle Handle = -1

// IsValid reports whether h can name a node.
func (h Handle) IsValid() bool {
	return h >= 0
}

func (h Handle) String() string {
	return strconv.Itoa(int(h))
}

// InputFlags is a bit set describing an input.
type InputFlags uint32

const (
	// FlagNone marks an ordinary input.
	FlagNone InputFlags = 0
	// FlagNodeConstant marks an input that accepts no wire and is always
	// driven by its constant value. Node parameters are built this way.
	FlagNodeConstant InputFlags = 1 << 0
)

// Has reports whether all bits of flag are set.
func (f InputFlags) Has(flag InputFlags) bool {
	return f&flag == flag
}

// Input is one input of a node.
type Input interface {
	DataType() datatype.DataType
	Flags() InputFlags
	// ConstantValue returns the value used when nothing is wired to the
	// input. defined is false when the input has no constant; a null value
	// with defined == true is a valid constant for nullable inputs.
	ConstantValue() (value datatype.Value, defined bool)
	SetConstantValue(v datatype.Value) error
}

// Output is one output of a node.
type Output interface {
	DataType() datatype.DataType
}

// InputInfo pairs an input with its name on the owning node.
type InputInfo struct {
	Name  string
	Input Input
}

// DataType returns the input's type.
func (i InputInfo) DataType() datatype.DataType {
	return i.Input.DataType()
}

// IsNodeConstant reports whether the input refuses wires.
func (i InputInfo) IsNodeConstant() bool {
	return i.Input.Flags().Has(FlagNodeConstant)
}

// OutputInfo pairs an output with its name on the owning node.
type OutputInfo struct {
	Name   string
	Output Output
}

// DataType returns the output's type.
func (o OutputInfo) DataType() datatype.DataType {
	return o.Output.DataType()
}

// Node is the minimal node contract.
type Node interface {
	NodeName() string
	Inputs() []InputInfo
	Outputs() []OutputInfo
}

// Info pairs a node with its handle in a graph.
type Info struct {
	Handle Handle
	Node   Node
}

// IsValid reports whether the info refers to a node.
func (i Info) IsValid() bool {
	return i.Node != nil && i.Handle.IsValid()
}

// LookupInput finds the named input of n.
func LookupInput(n Node, name string) (InputInfo, bool) {
	if n == nil {
		return InputInfo{}, false
	}
	for _, in := range n.Inputs() {
		if in.Name == name {
			return in, true
		}
	}
	return InputInfo{}, false
}

// LookupOutput finds the named output of n.
func LookupOutput(n Node, name string) (OutputInfo, bool) {
	if n == nil {
		return OutputInfo{}, false
	}
	for _, out := range n.Outputs() {
		if out.Name == name {
			return out, true
		}
	}
	return OutputInfo{}, false
}

// --- Optional capabilities ---

// VariableInputs is implemented by nodes whose input list can grow or shrink.
type VariableInputs interface {
	AddVariableInput() bool
	// RemoveVariableInput removes the input at index, or the last one when
	// index is -1.
	RemoveVariableInput(index int) bool
}

// VariableOutputs is implemented by nodes whose output list can grow or shrink.
type VariableOutputs interface {
	AddVariableOutput() bool
	RemoveVariableOutput(index int) bool
}

// IncomingTypes lets a node see the types wired into its inputs.
type IncomingTypes interface {
	// IncomingType returns the type of the output wired to the named input
	// of node h.
	IncomingType(ctx context.Context, h Handle, input string) (datatype.DataType, bool)
}

// DynamicOutputs is implemented by nodes whose output types depend on what is
// wired into them. The graph calls UpdateDynamicOutputs after the wiring of
// the node changes.
type DynamicOutputs interface {
	UpdateDynamicOutputs(ctx context.Context, self Handle, view IncomingTypes)
}

// CodeGenerator is implemented by nodes that can be emitted as source code by
// a code-generation backend.
type CodeGenerator interface {
	CodeOutputNames() []string
	GenerateCode(arguments, outputNames []string) string
}

// Releaser is implemented by nodes holding data that must be released when
// the node leaves a graph.
type Releaser interface {
	ReleaseData()
}
