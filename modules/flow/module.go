// Package flow provides the control-flow node types: a typed passthrough,
// sequence and branch markers for sequence wiring, and a collector with a
// growable input list.
package flow

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/registry"
)

// Library is the library all flow types are registered under.
const Library = "Flow"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the flow node types.
func (m *Module) Register(ctx context.Context, r *registry.Registry) error {
	if err := r.RegisterLibrary(ctx, nodetype.Library{Name: Library, Category: "Flow Control", MappedNames: []string{"Control"}}); err != nil {
		return err
	}
	types := []*nodetype.NodeType{
		{
			Identity:      nodetype.Identity{Library: Library, Name: "Base"},
			HierarchyOnly: true,
		},
		{
			Identity: nodetype.Identity{Library: Library, Name: "Passthrough"},
			New:      func() node.Node { return NewPassthrough() },
		},
		{
			Identity:    nodetype.Identity{Library: Library, Name: "Sequence"},
			MappedNames: []string{"Then"},
			New:         func() node.Node { return node.NewBase("Sequence") },
		},
		{
			Identity: nodetype.Identity{Library: Library, Name: "Branch"},
			New:      func() node.Node { return NewBranch() },
		},
		{
			Identity: nodetype.Identity{Library: Library, Name: "Collect"},
			UIName:   "Collect Strings",
			New:      func() node.Node { return NewCollect() },
		},
	}
	for _, t := range types {
		if err := r.RegisterNode(ctx, t); err != nil {
			return err
		}
	}
	return nil
}
