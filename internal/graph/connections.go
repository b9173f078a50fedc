package graph

import (
	"context"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
)

func (m *Manager) EnumerateConnections(ctx context.Context, kind connection.Kind) []connection.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Connections(ctx, kind)
}

func (m *Manager) FindAllNodeConnections(ctx context.Context, h node.Handle, kind connection.Kind) []connection.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.ConnectionsOf(ctx, h, kind)
}

func (m *Manager) FindConnectionTo(ctx context.Context, h node.Handle, input string, kind connection.Kind) (connection.Connection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.store.ConnectionsOf(ctx, h, kind) {
		if c.ToNode == h && c.ToInput == input {
			return c, true
		}
	}
	return connection.Invalid, false
}

// connectionTo finds the data wire into an input. Callers hold the lock.
func (m *Manager) connectionTo(ctx context.Context, h node.Handle, input string) (connection.Connection, bool) {
	for _, c := range m.store.ConnectionsOf(ctx, h, connection.KindData) {
		if c.ToNode == h && c.ToInput == input {
			return c, true
		}
	}
	return connection.Invalid, false
}

func (m *Manager) FindConnectionsFrom(ctx context.Context, h node.Handle, output string, kind connection.Kind) []connection.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []connection.Connection
	for _, c := range m.store.ConnectionsOf(ctx, h, kind) {
		if c.FromNode == h && c.FromOutput == output {
			out = append(out, c)
		}
	}
	return out
}

func (m *Manager) ConnectionState(ctx context.Context, c connection.Connection) connection.State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return connection.Classify(ctx, c, m.store.HasConnection(ctx, c), resolver{m})
}

func (m *Manager) CanConnectTypes(_ context.Context, from, to datatype.DataType) bool {
	return m.canConnectTypes(from, to)
}

func (m *Manager) canConnectTypes(from, to datatype.DataType) bool {
	if from.IsSameType(to) {
		return true
	}
	if to.Dynamic && dynamicAccepts(to, from, from, to) {
		return true
	}
	if from.Dynamic && dynamicAccepts(from, to, from, to) {
		return true
	}
	_, ok := m.conversions.Resolve(from, to)
	return ok
}

// dynamicAccepts asks owner's extended info about other. Without extended
// info, native shape conformance of from into to decides.
func dynamicAccepts(owner, other, from, to datatype.DataType) bool {
	if owner.Info != nil {
		return owner.Info.IsCompatibleWith(other)
	}
	return datatype.Conforms(from, to)
}

func (m *Manager) TryAddConnection(ctx context.Context, c connection.Connection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	if reason := m.rejectReason(ctx, c); reason != "" {
		logger.Debug("Connection rejected.", "connection", c.String(), "reason", reason)
		m.warn("connection %s rejected: %s", c, reason)
		return false
	}
	if !m.store.AddConnection(ctx, c) {
		logger.Debug("Connection already present.", "connection", c.String())
		return false
	}
	if c.Kind == connection.KindData {
		m.refreshDynamic(ctx, c.ToNode)
	}
	logger.Debug("Connection added.", "connection", c.String())
	return true
}

// rejectReason returns why c cannot be added, or "" when it can.
func (m *Manager) rejectReason(ctx context.Context, c connection.Connection) string {
	if !c.IsValid() {
		return "invalid connection"
	}
	fromNode, ok := m.store.GetNode(ctx, c.FromNode)
	if !ok {
		return "source node not found"
	}
	toNode, ok := m.store.GetNode(ctx, c.ToNode)
	if !ok {
		return "target node not found"
	}
	if c.Kind == connection.KindSequence {
		return ""
	}

	out, ok := node.LookupOutput(fromNode, c.FromOutput)
	if !ok {
		return fmt.Sprintf("no output %q", c.FromOutput)
	}
	in, ok := node.LookupInput(toNode, c.ToInput)
	if !ok {
		return fmt.Sprintf("no input %q", c.ToInput)
	}
	if in.IsNodeConstant() {
		return fmt.Sprintf("input %q is a node constant", c.ToInput)
	}
	if existing, wired := m.connectionTo(ctx, c.ToNode, c.ToInput); wired && existing != c {
		return fmt.Sprintf("input %q is already connected", c.ToInput)
	}
	if !m.canConnectTypes(out.DataType(), in.DataType()) {
		return fmt.Sprintf("cannot connect %s to %s", out.DataType(), in.DataType())
	}
	return ""
}

func (m *Manager) RemoveConnection(ctx context.Context, c connection.Connection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.store.RemoveConnection(ctx, c) {
		return false
	}
	if c.Kind == connection.KindData {
		m.refreshDynamic(ctx, c.ToNode)
	}
	ctxlog.FromContext(ctx).Debug("Connection removed.", "connection", c.String())
	return true
}

// resolver serves connection.Classify and node callbacks while the caller
// already holds the manager's lock.
type resolver struct{ m *Manager }

func (r resolver) NodeExists(ctx context.Context, h node.Handle) bool {
	_, ok := r.m.store.GetNode(ctx, h)
	return ok
}

func (r resolver) OutputType(ctx context.Context, h node.Handle, output string) (datatype.DataType, bool) {
	return r.m.outputType(ctx, h, output)
}

func (r resolver) InputType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool) {
	return r.m.inputType(ctx, h, input)
}

func (r resolver) CanConnectTypes(_ context.Context, from, to datatype.DataType) bool {
	return r.m.canConnectTypes(from, to)
}

func (r resolver) IncomingType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool) {
	c, ok := r.m.connectionTo(ctx, h, input)
	if !ok {
		return datatype.DataType{}, false
	}
	return r.m.outputType(ctx, c.FromNode, c.FromOutput)
}
