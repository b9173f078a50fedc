package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/zclconf/go-cty/cty"
)

// Passthrough forwards its input unchanged. Its output takes the type of
// whatever is wired into "in".
type Passthrough struct {
	*node.Base
}

func NewPassthrough() *Passthrough {
	b := node.NewBase("Passthrough")
	b.MustAddInput("in", node.NewInput(datatype.MakeDynamic(cty.DynamicPseudoType, nil), node.FlagNone))
	b.MustAddOutput("out", node.NewOutput(datatype.Default))
	return &Passthrough{Base: b}
}

func (p *Passthrough) UpdateDynamicOutputs(ctx context.Context, self node.Handle, view node.IncomingTypes) {
	dt, ok := view.IncomingType(ctx, self, "in")
	if !ok {
		dt = datatype.Default
	}
	p.ReplaceOutput("out", node.NewOutput(dt))
}

func (p *Passthrough) CodeOutputNames() []string { return []string{"out"} }

func (p *Passthrough) GenerateCode(arguments, outputNames []string) string {
	if len(arguments) != 1 || len(outputNames) != 1 {
		return ""
	}
	return fmt.Sprintf("%s = %s", outputNames[0], arguments[0])
}

// Branch picks one of its sequence successors by a boolean.
type Branch struct {
	*node.Base
}

func NewBranch() *Branch {
	b := node.NewBase("Branch")
	b.MustAddInput("condition", node.NewInputWithConstant(datatype.Of(cty.Bool), node.FlagNone, datatype.NativeValue(cty.False)))
	return &Branch{Base: b}
}

func (b *Branch) CodeOutputNames() []string { return nil }

func (b *Branch) GenerateCode(arguments, _ []string) string {
	if len(arguments) != 1 {
		return ""
	}
	return fmt.Sprintf("if %s {", arguments[0])
}

// Collect gathers a growable list of strings named item0, item1, ...
type Collect struct {
	*node.Base
	count int
}

const collectMax = 32

func NewCollect() *Collect {
	c := &Collect{Base: node.NewBase("Collect")}
	c.MustAddOutput("items", node.NewOutput(datatype.Of(cty.List(cty.String))))
	c.AddVariableInput()
	return c
}

func (c *Collect) AddVariableInput() bool {
	if c.count == collectMax {
		return false
	}
	in := node.NewInputWithConstant(datatype.Of(cty.String), node.FlagNone, datatype.NativeValue(cty.StringVal("")))
	if err := c.AddInput(itemName(c.count), in); err != nil {
		return false
	}
	c.count++
	return true
}

// RemoveVariableInput only removes the last item; the first one stays.
func (c *Collect) RemoveVariableInput(index int) bool {
	if index == -1 {
		index = c.count - 1
	}
	if c.count <= 1 || index != c.count-1 {
		return false
	}
	if !c.RemoveInputNamed(itemName(index)) {
		return false
	}
	c.count--
	return true
}

func (c *Collect) CodeOutputNames() []string { return []string{"items"} }

func (c *Collect) GenerateCode(arguments, outputNames []string) string {
	if len(outputNames) != 1 {
		return ""
	}
	return fmt.Sprintf("%s = [%s]", outputNames[0], strings.Join(arguments, ", "))
}

func itemName(i int) string { return fmt.Sprintf("item%d", i) }

var (
	_ node.DynamicOutputs = (*Passthrough)(nil)
	_ node.CodeGenerator  = (*Passthrough)(nil)
	_ node.CodeGenerator  = (*Branch)(nil)
	_ node.VariableInputs = (*Collect)(nil)
	_ node.CodeGenerator  = (*Collect)(nil)
)
