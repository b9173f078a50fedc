package print

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node prints whatever is wired into "value". Its "label" is fixed when the
// node is created.
type Node struct {
	*node.Base
}

// New creates a print node.
func New() *Node {
	b := node.NewBase("Print")
	b.MustAddInput("value", node.NewInput(datatype.MakeDynamic(cty.DynamicPseudoType, nil), node.FlagNone))
	b.MustAddInput("label", node.NewInputWithConstant(datatype.Of(cty.String), node.FlagNodeConstant, datatype.NativeValue(cty.StringVal(""))))
	return &Node{Base: b}
}

func (n *Node) CodeOutputNames() []string { return nil }

// GenerateCode emits a print call. arguments are value and label.
func (n *Node) GenerateCode(arguments, _ []string) string {
	if len(arguments) == 0 {
		return ""
	}
	return fmt.Sprintf("print(%s)", strings.Join(arguments, ", "))
}

// Register registers the print node type with the registry.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	return r.RegisterNode(ctx, &nodetype.NodeType{
		Identity:    nodetype.Identity{Library: "Debug", Name: "Print"},
		MappedNames: []string{"Log"},
		New:         func() node.Node { return New() },
	})
}
