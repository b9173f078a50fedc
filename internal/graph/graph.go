package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/graphoutput"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/topologystore"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Manager is the reference implementation of Graph and LayoutProvider.
type Manager struct {
	mu          sync.RWMutex
	store       topologystore.Store
	types       *nodetype.Registry
	conversions *conversion.Registry
	out         graphoutput.Output

	nextHandle node.Handle
	nodeTypes  map[node.Handle]*nodetype.NodeType
}

var (
	_ Graph          = (*Manager)(nil)
	_ LayoutProvider = (*Manager)(nil)
)

// Option configures a Manager.
type Option func(*Manager)

// WithOutput sets the sink for user-facing warnings. The default discards.
func WithOutput(out graphoutput.Output) Option {
	return func(m *Manager) {
		if out != nil {
			m.out = out
		}
	}
}

// New creates a Manager over store. types decides which node types may be
// instantiated; conversions backs CanConnectTypes.
func New(store topologystore.Store, types *nodetype.Registry, conversions *conversion.Registry, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		types:       types,
		conversions: conversions,
		out:         graphoutput.Discard,
		nodeTypes:   make(map[node.Handle]*nodetype.NodeType),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Output returns the sink warnings are written to.
func (m *Manager) Output() graphoutput.Output { return m.out }

func (m *Manager) EnumerateNodes(ctx context.Context) []node.Info {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.AllNodes(ctx)
}

func (m *Manager) FindNode(ctx context.Context, h node.Handle) (node.Info, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findNode(ctx, h)
}

func (m *Manager) findNode(ctx context.Context, h node.Handle) (node.Info, bool) {
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return node.Info{Handle: node.InvalidHandle}, false
	}
	return node.Info{Handle: h, Node: n}, true
}

func (m *Manager) NodeTypeOf(ctx context.Context, h node.Handle) (*nodetype.NodeType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.nodeTypes[h]
	return t, ok
}

func (m *Manager) NodeInputType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inputType(ctx, h, input)
}

func (m *Manager) inputType(ctx context.Context, h node.Handle, input string) (datatype.DataType, bool) {
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return datatype.DataType{}, false
	}
	in, ok := node.LookupInput(n, input)
	if !ok {
		return datatype.DataType{}, false
	}
	return in.DataType(), true
}

func (m *Manager) NodeOutputType(ctx context.Context, h node.Handle, output string) (datatype.DataType, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outputType(ctx, h, output)
}

func (m *Manager) outputType(ctx context.Context, h node.Handle, output string) (datatype.DataType, bool) {
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return datatype.DataType{}, false
	}
	out, ok := node.LookupOutput(n, output)
	if !ok {
		return datatype.DataType{}, false
	}
	return out.DataType(), true
}

func (m *Manager) ResolveInput(ctx context.Context, h node.Handle, input string) (datatype.DataType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.store.GetNode(ctx, h); !ok {
		return datatype.DataType{}, grapherr.New(grapherr.ErrUnknownPin, "node %s not found", h)
	}
	dt, ok := m.inputType(ctx, h, input)
	if !ok {
		return datatype.DataType{}, grapherr.New(grapherr.ErrUnknownPin, "node %s has no input %q", h, input)
	}
	return dt, nil
}

func (m *Manager) ResolveOutput(ctx context.Context, h node.Handle, output string) (datatype.DataType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.store.GetNode(ctx, h); !ok {
		return datatype.DataType{}, grapherr.New(grapherr.ErrUnknownPin, "node %s not found", h)
	}
	dt, ok := m.outputType(ctx, h, output)
	if !ok {
		return datatype.DataType{}, grapherr.New(grapherr.ErrUnknownPin, "node %s has no output %q", h, output)
	}
	return dt, nil
}

func (m *Manager) NodeConstantValue(ctx context.Context, h node.Handle, input string) (datatype.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return datatype.Value{}, false
	}
	in, ok := node.LookupInput(n, input)
	if !ok {
		return datatype.Value{}, false
	}
	return in.Input.ConstantValue()
}

func (m *Manager) SetNodeConstantValue(ctx context.Context, h node.Handle, input string, value datatype.Value) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	n, ok := m.store.GetNode(ctx, h)
	if !ok {
		return false
	}
	in, ok := node.LookupInput(n, input)
	if !ok {
		return false
	}
	if _, wired := m.connectionTo(ctx, h, input); wired {
		m.warn("node %s: input %q is driven by a connection, constant refused", h, input)
		return false
	}

	coerced, err := coerceConstant(in.DataType(), value)
	if err != nil {
		m.warn("node %s: constant for input %q: %v", h, input, err)
		return false
	}
	if err := in.Input.SetConstantValue(coerced); err != nil {
		m.warn("node %s: constant for input %q: %v", h, input, err)
		return false
	}
	logger.Debug("Set node constant.", "handle", h, "input", input, "value", coerced.String())
	return true
}

// coerceConstant converts a native value to the input's native shape.
// Foreign values must match the input's format.
func coerceConstant(dt datatype.DataType, v datatype.Value) (datatype.Value, error) {
	if dt.Format != v.Format {
		return datatype.Value{}, grapherr.New(grapherr.ErrTypeMismatch, "value format %s does not match input format %s", v.Format, dt.Format)
	}
	if v.Format != datatype.FormatNative {
		return v, nil
	}
	target := dt.NativeType()
	if target.Equals(cty.DynamicPseudoType) || v.Native.Type() == cty.NilType {
		return v, nil
	}
	out, err := convert.Convert(v.Native, target)
	if err != nil {
		return datatype.Value{}, grapherr.Wrap(grapherr.ErrTypeMismatch, err, "cannot use %s as %s", v, dt)
	}
	return datatype.NativeValue(out), nil
}

func (m *Manager) CreateNewNodeOfType(ctx context.Context, t *nodetype.NodeType, specified node.Handle) (node.Info, error) {
	invalid := node.Info{Handle: node.InvalidHandle}
	if t == nil {
		return invalid, grapherr.New(grapherr.ErrInvalidNodeType, "nil node type")
	}
	if !m.types.Contains(t) {
		return invalid, grapherr.New(grapherr.ErrInvalidNodeType, "node type %s is not registered", t.Identity)
	}
	if !t.Instantiable() {
		return invalid, grapherr.New(grapherr.ErrInvalidNodeType, "node type %s cannot be instantiated", t.Identity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	h := m.nextHandle
	if specified.IsValid() {
		if _, taken := m.store.GetNode(ctx, specified); taken {
			return invalid, grapherr.New(grapherr.ErrInvalidNodeType, "handle %s is already in use", specified)
		}
		h = specified
	}

	n := t.New()
	if n == nil {
		return invalid, grapherr.New(grapherr.ErrInvalidNodeType, "node type %s produced no node", t.Identity)
	}
	info := node.Info{Handle: h, Node: n}
	if err := m.store.AddNode(ctx, info); err != nil {
		return invalid, grapherr.Wrap(grapherr.ErrInvalidNodeType, err, "node type %s", t.Identity)
	}
	if h >= m.nextHandle {
		m.nextHandle = h + 1
	}
	m.nodeTypes[h] = t
	m.refreshDynamic(ctx, h)

	ctxlog.FromContext(ctx).Debug("Created node.", "handle", h, "type", t.Identity.String(), "version", t.Version.String())
	return info, nil
}

func (m *Manager) RemoveNode(ctx context.Context, h node.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store.GetNode(ctx, h); !ok {
		return false
	}
	removed := m.store.RemoveConnectionsOf(ctx, h)
	n, _ := m.store.RemoveNode(ctx, h)
	delete(m.nodeTypes, h)

	if r, ok := n.(node.Releaser); ok {
		r.ReleaseData()
	}

	var downstream []node.Handle
	for _, c := range removed {
		if c.FromNode == h && c.ToNode != h {
			downstream = append(downstream, c.ToNode)
		}
	}
	m.refreshDynamic(ctx, downstream...)

	ctxlog.FromContext(ctx).Debug("Removed node.", "handle", h, "connections_removed", len(removed))
	return true
}

func (m *Manager) LocationForNode(ctx context.Context, h node.Handle) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Location(ctx, h)
}

func (m *Manager) SetNodeLocation(ctx context.Context, h node.Handle, location string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.SetLocation(ctx, h, location)
}

// ConvertValue adapts v from one pin type to another for evaluators: equal
// types pass through, otherwise a registered conversion is applied. Values
// accepted by a dynamic pin's extended info are passed through unchanged.
func (m *Manager) ConvertValue(ctx context.Context, from, to datatype.DataType, v datatype.Value) (datatype.Value, error) {
	if from.IsSameType(to) {
		return v, nil
	}
	if c, ok := m.conversions.Resolve(from, to); ok {
		return conversion.Apply(c, v)
	}
	// Dynamic pins accept values as they arrive.
	if (to.Dynamic && dynamicAccepts(to, from, from, to)) || (from.Dynamic && dynamicAccepts(from, to, from, to)) {
		return v, nil
	}
	if to.Format == datatype.FormatNative && v.Format == datatype.FormatNative && to.NativeType().Equals(cty.DynamicPseudoType) {
		return v, nil
	}
	return datatype.Value{}, grapherr.New(grapherr.ErrTypeMismatch, "no conversion from %s to %s", from, to)
}

func (m *Manager) warn(format string, args ...any) {
	m.out.AppendLine(fmt.Sprintf(format, args...), graphoutput.GraphWarning)
}
