package node

import (
	"github.com/specialistvlad/nodegraph/internal/grapherr"
)

// Base keeps an ordered list of named inputs and outputs. Node
// implementations embed it and declare their pins in their constructor.
type Base struct {
	name    string
	inputs  []InputInfo
	outputs []OutputInfo
}

// NewBase returns an empty node named name.
func NewBase(name string) *Base {
	return &Base{name: name}
}

func (b *Base) NodeName() string { return b.name }

// Inputs returns a snapshot of the inputs in declaration order.
func (b *Base) Inputs() []InputInfo {
	return append([]InputInfo(nil), b.inputs...)
}

// Outputs returns a snapshot of the outputs in declaration order.
func (b *Base) Outputs() []OutputInfo {
	return append([]OutputInfo(nil), b.outputs...)
}

// AddInput appends an input. Names must be unique among inputs.
func (b *Base) AddInput(name string, in Input) error {
	if name == "" || in == nil {
		return grapherr.New(grapherr.ErrConfiguration, "node %q: input needs a name and a value", b.name)
	}
	if _, ok := b.FindInput(name); ok {
		return grapherr.New(grapherr.ErrConfiguration, "node %q: duplicate input %q", b.name, name)
	}
	b.inputs = append(b.inputs, InputInfo{Name: name, Input: in})
	return nil
}

// AddOutput appends an output. Names must be unique among outputs.
func (b *Base) AddOutput(name string, out Output) error {
	if name == "" || out == nil {
		return grapherr.New(grapherr.ErrConfiguration, "node %q: output needs a name and a value", b.name)
	}
	if _, ok := b.FindOutput(name); ok {
		return grapherr.New(grapherr.ErrConfiguration, "node %q: duplicate output %q", b.name, name)
	}
	b.outputs = append(b.outputs, OutputInfo{Name: name, Output: out})
	return nil
}

// MustAddInput is AddInput for constructors with a fixed pin list. It
// panics on error.
func (b *Base) MustAddInput(name string, in Input) {
	if err := b.AddInput(name, in); err != nil {
		panic(err)
	}
}

// MustAddOutput is AddOutput for constructors with a fixed pin list. It
// panics on error.
func (b *Base) MustAddOutput(name string, out Output) {
	if err := b.AddOutput(name, out); err != nil {
		panic(err)
	}
}

// ReplaceOutput swaps the output stored under name, keeping its position.
func (b *Base) ReplaceOutput(name string, out Output) bool {
	for i := range b.outputs {
		if b.outputs[i].Name == name {
			b.outputs[i].Output = out
			return true
		}
	}
	return false
}

// RemoveInputNamed deletes the named input.
func (b *Base) RemoveInputNamed(name string) bool {
	for i := range b.inputs {
		if b.inputs[i].Name == name {
			b.inputs = append(b.inputs[:i], b.inputs[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveOutputNamed deletes the named output.
func (b *Base) RemoveOutputNamed(name string) bool {
	for i := range b.outputs {
		if b.outputs[i].Name == name {
			b.outputs = append(b.outputs[:i], b.outputs[i+1:]...)
			return true
		}
	}
	return false
}

// FindInput returns the named input.
func (b *Base) FindInput(name string) (InputInfo, bool) {
	for _, in := range b.inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputInfo{}, false
}

// FindOutput returns the named output.
func (b *Base) FindOutput(name string) (OutputInfo, bool) {
	for _, out := range b.outputs {
		if out.Name == name {
			return out, true
		}
	}
	return OutputInfo{}, false
}
