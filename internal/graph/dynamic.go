package graph

import (
	"context"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/node"
)

// refreshDynamic asks every node in start that implements
// node.DynamicOutputs to recompute its outputs, then follows data wires
// downstream of each refreshed node. Each node is visited once. Callers hold
// the write lock.
func (m *Manager) refreshDynamic(ctx context.Context, start ...node.Handle) {
	seen := make(map[node.Handle]bool)
	queue := append([]node.Handle(nil), start...)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if seen[h] {
			continue
		}
		seen[h] = true

		n, ok := m.store.GetNode(ctx, h)
		if !ok {
			continue
		}
		dyn, ok := n.(node.DynamicOutputs)
		if !ok {
			continue
		}
		dyn.UpdateDynamicOutputs(ctx, h, resolver{m})
		for _, c := range m.store.ConnectionsOf(ctx, h, connection.KindData) {
			if c.FromNode == h {
				queue = append(queue, c.ToNode)
			}
		}
	}
}

// AddVariableInput grows a node implementing node.VariableInputs.
func (m *Manager) AddVariableInput(ctx context.Context, h node.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return false
	}
	v, ok := n.(node.VariableInputs)
	return ok && v.AddVariableInput()
}

// RemoveVariableInput shrinks a node implementing node.VariableInputs.
// Wires into the removed input are kept and classify as input missing.
func (m *Manager) RemoveVariableInput(ctx context.Context, h node.Handle, index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return false
	}
	v, ok := n.(node.VariableInputs)
	if !ok || !v.RemoveVariableInput(index) {
		return false
	}
	m.refreshDynamic(ctx, h)
	return true
}

// AddVariableOutput grows a node implementing node.VariableOutputs.
func (m *Manager) AddVariableOutput(ctx context.Context, h node.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return false
	}
	v, ok := n.(node.VariableOutputs)
	return ok && v.AddVariableOutput()
}

// RemoveVariableOutput shrinks a node implementing node.VariableOutputs.
func (m *Manager) RemoveVariableOutput(ctx context.Context, h node.Handle, index int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return false
	}
	v, ok := n.(node.VariableOutputs)
	return ok && v.RemoveVariableOutput(index)
}
