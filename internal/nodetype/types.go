package nodetype

import (
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
)

// DefaultCategory is used when neither the type nor its library names one.
const DefaultCategory = "Default"

// Identity names a node type independently of its revision.
type Identity struct {
	Library string
	Name    string
}

// Key returns the map key form "library|name".
func (i Identity) Key() string {
	return i.Library + "|" + i.Name
}

func (i Identity) String() string {
	if i.Library == "" {
		return i.Name
	}
	return i.Library + "." + i.Name
}

// NodeType describes one instantiable (or hierarchy-only) node type.
type NodeType struct {
	Identity
	Version nodeversion.Version

	UIName      string
	Category    string
	Variant     string
	VariantData any

	// HierarchyOnly types group other types in editors and are never
	// instantiated.
	HierarchyOnly bool
	// System types are created by the runtime, not by users.
	System bool

	// MappedNames lists historical names of this type within its library.
	MappedNames []string

	New func() node.Node
}

// Instantiable reports whether a graph may create a node of this type.
func (t *NodeType) Instantiable() bool {
	return t != nil && !t.HierarchyOnly && t.New != nil
}

// UserCreatable reports whether editors should offer this type.
func (t *NodeType) UserCreatable() bool {
	return t.Instantiable() && !t.System
}

func (t *NodeType) String() string {
	s := fmt.Sprintf("%s (%s", t.UIName, t.Identity)
	if t.Variant != "" {
		s += "//" + t.Variant
	}
	return s + ")"
}

// Library carries library-level metadata.
type Library struct {
	Name        string
	Category    string
	MappedNames []string
}
