package flow

import (
	"context"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/inmemorytopology"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type env struct {
	reg *registry.Registry
	g   *graph.Manager
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	r := registry.New()
	require.NoError(t, r.RegisterModules(ctx, &Module{}))
	require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
		Identity: nodetype.Identity{Library: "Test", Name: "Number"},
		New: func() node.Node {
			b := node.NewBase("Number")
			b.MustAddOutput("value", node.NewOutput(datatype.Of(cty.Number)))
			return b
		},
	}))
	require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
		Identity: nodetype.Identity{Library: "Test", Name: "NumberSink"},
		New: func() node.Node {
			b := node.NewBase("NumberSink")
			b.MustAddInput("value", node.NewInput(datatype.Of(cty.Number), node.FlagNone))
			return b
		},
	}))
	require.NoError(t, r.Validate(ctx))
	return &env{reg: r, g: graph.New(inmemorytopology.New(), r.Types, r.Conversions)}
}

func (e *env) create(t *testing.T, library, name string) node.Info {
	t.Helper()
	ctx := context.Background()
	nt, err := e.reg.Types.Resolve(ctx, library, name, "")
	require.NoError(t, err)
	info, err := e.g.CreateNewNodeOfType(ctx, nt, node.InvalidHandle)
	require.NoError(t, err)
	return info
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	base, err := e.reg.Types.Resolve(ctx, Library, "Base", "")
	require.NoError(t, err)
	assert.False(t, base.Instantiable())
	assert.Equal(t, "Flow Control", base.Category)

	seq, err := e.reg.Types.Resolve(ctx, "Control", "Then", "")
	require.NoError(t, err)
	assert.Equal(t, "Sequence", seq.Name)

	_, err = e.g.CreateNewNodeOfType(ctx, base, node.InvalidHandle)
	assert.Error(t, err)
}

func TestPassthrough_FollowsInput(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	num := e.create(t, "Test", "Number")
	pass := e.create(t, Library, "Passthrough")
	sink := e.create(t, "Test", "NumberSink")

	dt, ok := e.g.NodeOutputType(ctx, pass.Handle, "out")
	require.True(t, ok)
	assert.True(t, dt.IsSameType(datatype.Default))

	require.True(t, e.g.TryAddConnection(ctx, connection.Data(num.Handle, "value", pass.Handle, "in")))
	dt, _ = e.g.NodeOutputType(ctx, pass.Handle, "out")
	assert.True(t, dt.IsSameType(datatype.Of(cty.Number)))

	out := connection.Data(pass.Handle, "out", sink.Handle, "value")
	require.True(t, e.g.TryAddConnection(ctx, out))
	assert.Equal(t, connection.StateOK, e.g.ConnectionState(ctx, out))

	require.True(t, e.g.RemoveConnection(ctx, connection.Data(num.Handle, "value", pass.Handle, "in")))
	dt, _ = e.g.NodeOutputType(ctx, pass.Handle, "out")
	assert.True(t, dt.IsSameType(datatype.Default))
	assert.Equal(t, connection.StateTypeMismatch, e.g.ConnectionState(ctx, out))

	gen, ok := pass.Node.(node.CodeGenerator)
	require.True(t, ok)
	assert.Equal(t, []string{"out"}, gen.CodeOutputNames())
	assert.Equal(t, "b = a", gen.GenerateCode([]string{"a"}, []string{"b"}))
}

func TestSequenceAndBranch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	seq := e.create(t, Library, "Sequence")
	br := e.create(t, Library, "Branch")

	require.True(t, e.g.TryAddConnection(ctx, connection.Sequence(seq.Handle, "", br.Handle, "")))
	assert.Len(t, e.g.EnumerateConnections(ctx, connection.KindSequence), 1)

	v, ok := e.g.NodeConstantValue(ctx, br.Handle, "condition")
	require.True(t, ok)
	assert.True(t, v.Native.False())
	assert.True(t, e.g.SetNodeConstantValue(ctx, br.Handle, "condition", datatype.NativeValue(cty.StringVal("true"))))
	v, _ = e.g.NodeConstantValue(ctx, br.Handle, "condition")
	assert.True(t, v.Native.True())

	assert.Equal(t, "if ok {", br.Node.(node.CodeGenerator).GenerateCode([]string{"ok"}, nil))
}

func TestCollect_VariableInputs(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	col := e.create(t, Library, "Collect")

	names := func() []string {
		info, ok := e.g.FindNode(ctx, col.Handle)
		require.True(t, ok)
		var out []string
		for _, in := range info.Node.Inputs() {
			out = append(out, in.Name)
		}
		return out
	}
	assert.Equal(t, []string{"item0"}, names())

	require.True(t, e.g.AddVariableInput(ctx, col.Handle))
	require.True(t, e.g.AddVariableInput(ctx, col.Handle))
	assert.Equal(t, []string{"item0", "item1", "item2"}, names())

	assert.False(t, e.g.RemoveVariableInput(ctx, col.Handle, 0))
	require.True(t, e.g.RemoveVariableInput(ctx, col.Handle, -1))
	require.True(t, e.g.RemoveVariableInput(ctx, col.Handle, 1))
	assert.False(t, e.g.RemoveVariableInput(ctx, col.Handle, -1))
	assert.Equal(t, []string{"item0"}, names())

	gen := col.Node.(node.CodeGenerator)
	assert.Equal(t, "items = [a, b]", gen.GenerateCode([]string{"a", "b"}, gen.CodeOutputNames()))
}
