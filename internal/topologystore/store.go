// Package topologystore defines the storage contract behind a node graph: the
// set of live nodes keyed by handle, the ordered set of connections between
// them, and the opaque layout string editors attach to each node.
//
// # Separation of Concerns
//
// The store only keeps records. It never checks types, classifies
// connections or calls node capabilities; that belongs to internal/graph.
// Keeping it dumb lets the graph manager hold one lock around compound
// operations while different backends remain swappable.
//
// # Ordering
//
// AllNodes returns nodes in ascending handle order. Connection listings keep
// insertion order, so enumerations are deterministic across runs.
package topologystore

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/node"
)

// Store keeps nodes, connections and layout strings for one graph.
//
// # Thread-Safety Requirements
//
// Implementations MUST be safe for concurrent use. Each method is atomic on
// its own; callers needing atomic sequences lock around them.
type Store interface {
	// AddNode stores n under its handle. The handle must be valid and unused.
	AddNode(ctx context.Context, n node.Info) error

	// RemoveNode drops the node and its layout string. Connections are left
	// alone; see RemoveConnectionsOf.
	RemoveNode(ctx context.Context, h node.Handle) (node.Node, bool)

	// GetNode looks a node up by handle.
	GetNode(ctx context.Context, h node.Handle) (node.Node, bool)

	// AllNodes returns a snapshot of all nodes in ascending handle order.
	AllNodes(ctx context.Context) []node.Info

	// AddConnection appends c. It returns false if an equal connection is
	// already stored.
	AddConnection(ctx context.Context, c connection.Connection) bool

	// RemoveConnection deletes c and reports whether it was present.
	RemoveConnection(ctx context.Context, c connection.Connection) bool

	// HasConnection reports whether c is stored.
	HasConnection(ctx context.Context, c connection.Connection) bool

	// Connections returns a snapshot of all connections of kind, in
	// insertion order.
	Connections(ctx context.Context, kind connection.Kind) []connection.Connection

	// ConnectionsOf returns the connections of kind touching h at either end,
	// in insertion order.
	ConnectionsOf(ctx context.Context, h node.Handle, kind connection.Kind) []connection.Connection

	// RemoveConnectionsOf deletes every connection, of any kind, touching h
	// and returns what was removed.
	RemoveConnectionsOf(ctx context.Context, h node.Handle) []connection.Connection

	// Location returns the layout string of h.
	Location(ctx context.Context, h node.Handle) (string, bool)

	// SetLocation stores the layout string of h. It returns false when h is
	// not a stored node.
	SetLocation(ctx context.Context, h node.Handle, location string) bool
}
