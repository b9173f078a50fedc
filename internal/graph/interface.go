package graph

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
)

// Graph is the read/write interface over nodes and connections.
//
// # Usage Patterns
//
// **Editors** create and remove nodes, propose wires with TryAddConnection
// and display ConnectionState for every wire.
//
// **Loaders** resolve stored references through the node type registry,
// call CreateNewNodeOfType with the stored handle and record a diagnostic
// for every TryAddConnection that returns false.
//
// **Evaluators** read topology through EnumerateConnections,
// FindConnectionTo and FindConnectionsFrom and read NodeConstantValue for
// unconnected inputs. They never mutate the graph through these reads.
//
// Structural operations report expected failures as false. Errors are
// reserved for contract violations such as asking for an unregistered type.
type Graph interface {
	// EnumerateNodes returns every node in ascending handle order.
	EnumerateNodes(ctx context.Context) []node.Info

	// FindNode looks a node up by handle. A missing node yields an Info
	// with node.InvalidHandle and false.
	FindNode(ctx context.Context, h node.Handle) (node.Info, bool)

	// NodeTypeOf returns the registered type a node was created from.
	NodeTypeOf(ctx context.Context, h node.Handle) (*nodetype.NodeType, bool)

	// NodeInputType returns the type of the named input.
	NodeInputType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool)

	// NodeOutputType returns the type of the named output.
	NodeOutputType(ctx context.Context, h node.Handle, output string) (datatype.DataType, bool)

	// ResolveInput is NodeInputType for callers that need the failure as an
	// error. A missing node or input yields grapherr.ErrUnknownPin.
	ResolveInput(ctx context.Context, h node.Handle, input string) (datatype.DataType, error)

	// ResolveOutput is the output counterpart of ResolveInput.
	ResolveOutput(ctx context.Context, h node.Handle, output string) (datatype.DataType, error)

	// NodeConstantValue returns the constant of the named input. defined is
	// false when the input has no constant or does not exist.
	NodeConstantValue(ctx context.Context, h node.Handle, input string) (value datatype.Value, defined bool)

	// SetNodeConstantValue stores a constant on the named input. It returns
	// false when the input is missing, when a data wire drives it, or when
	// the value cannot be coerced to the input's type.
	SetNodeConstantValue(ctx context.Context, h node.Handle, input string, value datatype.Value) bool

	// CreateNewNodeOfType instantiates t. Passing node.InvalidHandle
	// allocates the next handle; a valid handle is used as given and must
	// not be live. Unregistered, hierarchy-only and factory-less types fail
	// with grapherr.ErrInvalidNodeType.
	CreateNewNodeOfType(ctx context.Context, t *nodetype.NodeType, specified node.Handle) (node.Info, error)

	// RemoveNode deletes the node and every connection touching it.
	RemoveNode(ctx context.Context, h node.Handle) bool

	// EnumerateConnections lists connections of kind in insertion order.
	EnumerateConnections(ctx context.Context, kind connection.Kind) []connection.Connection

	// FindAllNodeConnections lists connections of kind touching h.
	FindAllNodeConnections(ctx context.Context, h node.Handle, kind connection.Kind) []connection.Connection

	// FindConnectionTo returns the connection of kind into the named input.
	FindConnectionTo(ctx context.Context, h node.Handle, input string, kind connection.Kind) (connection.Connection, bool)

	// FindConnectionsFrom lists connections of kind leaving the named output.
	FindConnectionsFrom(ctx context.Context, h node.Handle, output string, kind connection.Kind) []connection.Connection

	// ConnectionState classifies c against the current graph. It never
	// mutates anything.
	ConnectionState(ctx context.Context, c connection.Connection) connection.State

	// CanConnectTypes reports whether data of type from may flow into a pin
	// of type to.
	CanConnectTypes(ctx context.Context, from, to datatype.DataType) bool

	// TryAddConnection validates and appends c. It returns false, leaving
	// the graph untouched, when c is rejected or already present.
	TryAddConnection(ctx context.Context, c connection.Connection) bool

	// RemoveConnection deletes exactly c.
	RemoveConnection(ctx context.Context, c connection.Connection) bool
}

// LayoutProvider keeps an opaque layout string per node for editors.
type LayoutProvider interface {
	LocationForNode(ctx context.Context, h node.Handle) (string, bool)
	SetNodeLocation(ctx context.Context, h node.Handle, location string) bool
}
