package nodetype

import (
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
)

// SystemLibrary holds types the runtime creates on its own.
const SystemLibrary = "system"

// PlaceholderIdentity names the stand-in used for nodes whose type can no
// longer be resolved.
var PlaceholderIdentity = Identity{Library: SystemLibrary, Name: "Placeholder"}

// PlaceholderNode is the pinless node created for the placeholder type.
// Stored holds the reference that could not be resolved so that saving the
// graph again writes the original reference back.
type PlaceholderNode struct {
	*node.Base
	Stored any
}

func newPlaceholderType() *NodeType {
	return &NodeType{
		Identity: PlaceholderIdentity,
		Version:  nodeversion.Default,
		UIName:   "Missing Node",
		Category: SystemLibrary,
		System:   true,
		New: func() node.Node {
			return &PlaceholderNode{Base: node.NewBase(PlaceholderIdentity.Name)}
		},
	}
}

// Placeholder returns the registry's placeholder type.
func (r *Registry) Placeholder() *NodeType {
	t, _ := r.Lookup(PlaceholderIdentity, nodeversion.Default)
	return t
}
