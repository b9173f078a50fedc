package inmemorytopology

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/topologystore"
)

// Store implements topologystore.Store using maps, a slice and a mutex.
type Store struct {
	mu        sync.RWMutex
	nodes     map[node.Handle]node.Node
	locations map[node.Handle]string
	conns     []connection.Connection
	connSet   map[connection.Connection]struct{}
}

var _ topologystore.Store = (*Store)(nil)

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{
		nodes:     make(map[node.Handle]node.Node),
		locations: make(map[node.Handle]string),
		connSet:   make(map[connection.Connection]struct{}),
	}
}

// AddNode stores a node under its handle.
func (s *Store) AddNode(ctx context.Context, n node.Info) error {
	if !n.IsValid() {
		return fmt.Errorf("cannot store node with handle %s", n.Handle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.Handle]; exists {
		return fmt.Errorf("node handle %s already in use", n.Handle)
	}
	s.nodes[n.Handle] = n.Node
	ctxlog.FromContext(ctx).Debug("Stored node.", "handle", n.Handle, "name", n.Node.NodeName())
	return nil
}

// RemoveNode drops a node and its layout string.
func (s *Store) RemoveNode(ctx context.Context, h node.Handle) (node.Node, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.nodes[h]
	if !ok {
		return nil, false
	}
	delete(s.nodes, h)
	delete(s.locations, h)
	return n, true
}

// GetNode retrieves a single node by handle.
func (s *Store) GetNode(ctx context.Context, h node.Handle) (node.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[h]
	return n, ok
}

// AllNodes returns every node sorted by handle.
func (s *Store) AllNodes(ctx context.Context) []node.Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]node.Info, 0, len(s.nodes))
	for h, n := range s.nodes {
		out = append(out, node.Info{Handle: h, Node: n})
	}
	slices.SortFunc(out, func(a, b node.Info) int { return int(a.Handle) - int(b.Handle) })
	return out
}

// AddConnection appends c unless an equal connection exists.
func (s *Store) AddConnection(ctx context.Context, c connection.Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connSet[c]; exists {
		return false
	}
	s.connSet[c] = struct{}{}
	s.conns = append(s.conns, c)
	return true
}

// RemoveConnection deletes c.
func (s *Store) RemoveConnection(ctx context.Context, c connection.Connection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.connSet[c]; !exists {
		return false
	}
	delete(s.connSet, c)
	s.conns = slices.DeleteFunc(s.conns, func(other connection.Connection) bool { return other == c })
	return true
}

// HasConnection reports whether c is stored.
func (s *Store) HasConnection(ctx context.Context, c connection.Connection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.connSet[c]
	return ok
}

// Connections returns all connections of kind in insertion order.
func (s *Store) Connections(ctx context.Context, kind connection.Kind) []connection.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []connection.Connection
	for _, c := range s.conns {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// ConnectionsOf returns the connections of kind touching h.
func (s *Store) ConnectionsOf(ctx context.Context, h node.Handle, kind connection.Kind) []connection.Connection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []connection.Connection
	for _, c := range s.conns {
		if c.Kind == kind && c.References(h) {
			out = append(out, c)
		}
	}
	return out
}

// RemoveConnectionsOf deletes every connection touching h.
func (s *Store) RemoveConnectionsOf(ctx context.Context, h node.Handle) []connection.Connection {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []connection.Connection
	kept := s.conns[:0]
	for _, c := range s.conns {
		if c.References(h) {
			removed = append(removed, c)
			delete(s.connSet, c)
			continue
		}
		kept = append(kept, c)
	}
	clear(s.conns[len(kept):])
	s.conns = kept
	return removed
}

// Location returns the layout string of h.
func (s *Store) Location(ctx context.Context, h node.Handle) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.locations[h]
	return loc, ok
}

// SetLocation stores the layout string of h.
func (s *Store) SetLocation(ctx context.Context, h node.Handle, location string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[h]; !ok {
		return false
	}
	s.locations[h] = location
	return true
}
