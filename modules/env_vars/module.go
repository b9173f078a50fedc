package env_vars

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Lookup reads one environment variable whose name is fixed per node.
type Lookup struct {
	*node.Base
}

func NewLookup() *Lookup {
	b := node.NewBase("Lookup")
	b.MustAddInput("name", node.NewInputWithConstant(datatype.Of(cty.String), node.FlagNodeConstant, datatype.NativeValue(cty.StringVal("HOME"))))
	b.MustAddOutput("value", node.NewOutput(datatype.Of(cty.String)))
	return &Lookup{Base: b}
}

func (l *Lookup) CodeOutputNames() []string { return []string{"value"} }

func (l *Lookup) GenerateCode(arguments, outputNames []string) string {
	if len(arguments) != 1 || len(outputNames) != 1 {
		return ""
	}
	return fmt.Sprintf("%s = os.Getenv(%s)", outputNames[0], arguments[0])
}

// Register registers the environment node types.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	if err := r.RegisterLibrary(ctx, nodetype.Library{Name: "Env", Category: "System"}); err != nil {
		return err
	}
	if err := r.RegisterNode(ctx, &nodetype.NodeType{
		Identity: nodetype.Identity{Library: "Env", Name: "Lookup"},
		UIName:   "Environment Variable",
		New:      func() node.Node { return NewLookup() },
	}); err != nil {
		return err
	}
	return r.RegisterNode(ctx, &nodetype.NodeType{
		Identity: nodetype.Identity{Library: "Env", Name: "All"},
		UIName:   "Environment",
		New: func() node.Node {
			b := node.NewBase("All")
			b.MustAddOutput("all", node.NewOutput(datatype.Of(cty.Map(cty.String))))
			return b
		},
	})
}
