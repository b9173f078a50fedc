package restore

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/graphoutput"
	"github.com/specialistvlad/nodegraph/internal/inmemorytopology"
	"github.com/specialistvlad/nodegraph/internal/manifest"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const testManifest = `
library "Math" {
  mapped_names = ["Arith"]

  node "Add_v2p0" {
    mapped_names = ["Plus"]

    input "a" {
      type    = number
      default = 0
    }
    input "b" { type = number }
    output "result" { type = number }
  }

  node "Add" {
    input "a" { type = number }
    output "result" { type = number }
  }

  node "Number" {
    output "value" { type = number }
  }
}

library "Text" {
  node "Show" {
    input "text" { type = string }
  }
}

conversion {
  from = number
  to   = string
}
`

type fixture struct {
	types       *nodetype.Registry
	conversions *conversion.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	m, diags := manifest.LoadSource(ctx, []byte(testManifest), "restore_test.hcl")
	require.False(t, diags.HasErrors(), diags.Error())

	f := &fixture{types: nodetype.NewRegistry(), conversions: conversion.New()}
	require.NoError(t, manifest.Apply(ctx, m, f.types, f.conversions))
	require.NoError(t, f.types.Seal(ctx))
	return f
}

func (f *fixture) graph(out graphoutput.Output) *graph.Manager {
	return graph.New(inmemorytopology.New(), f.types, f.conversions, graph.WithOutput(out))
}

func (f *fixture) resolve(t *testing.T, lib, name string) *nodetype.NodeType {
	t.Helper()
	nt, err := f.types.Resolve(context.Background(), lib, name, "")
	require.NoError(t, err)
	return nt
}

var valueComparer = cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })

func TestCaptureRestore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	src := f.graph(nil)

	num, err := src.CreateNewNodeOfType(ctx, f.resolve(t, "Math", "Number"), 4)
	require.NoError(t, err)
	add, err := src.CreateNewNodeOfType(ctx, f.resolve(t, "Math", "Add"), node.InvalidHandle)
	require.NoError(t, err)
	show, err := src.CreateNewNodeOfType(ctx, f.resolve(t, "Text", "Show"), node.InvalidHandle)
	require.NoError(t, err)

	require.True(t, src.SetNodeConstantValue(ctx, add.Handle, "b", datatype.NativeValue(cty.NumberIntVal(7))))
	require.True(t, src.TryAddConnection(ctx, connection.Data(num.Handle, "value", add.Handle, "a")))
	require.True(t, src.TryAddConnection(ctx, connection.Data(add.Handle, "result", show.Handle, "text")))
	require.True(t, src.TryAddConnection(ctx, connection.Sequence(num.Handle, "", add.Handle, "")))
	require.True(t, src.SetNodeLocation(ctx, show.Handle, "10,20"))

	snap := Capture(ctx, src)
	require.Len(t, snap.Nodes, 3)
	assert.Equal(t, []node.Handle{4, 5, 6}, []node.Handle{snap.Nodes[0].Handle, snap.Nodes[1].Handle, snap.Nodes[2].Handle})
	assert.Equal(t, "Add", snap.Nodes[1].Name)
	assert.Equal(t, "2.0", snap.Nodes[1].Version)

	out := &graphoutput.Buffer{}
	dst := f.graph(out)
	report := Restore(ctx, dst, f.types, snap, out)

	assert.True(t, report.OK(), "issues: %v", report.Issues)
	assert.Equal(t, []node.Handle{4, 5, 6}, report.Created)
	assert.Equal(t, 3, report.Connected)
	assert.Empty(t, out.Lines())

	again := Capture(ctx, dst)
	assert.NotEqual(t, snap.ID, again.ID)
	assert.NotEqual(t, uuid.Nil, again.ID)
	if diff := cmp.Diff(snap, again, valueComparer, cmpopts.IgnoreFields(Snapshot{}, "ID")); diff != "" {
		t.Errorf("restored graph differs (-want +got):\n%s", diff)
	}
	for _, c := range snap.Connections {
		assert.Equal(t, connection.StateOK, dst.ConnectionState(ctx, c), c.String())
	}
}

func TestRestore_ResolvesHistoricalNames(t *testing.T) {
	tests := []struct {
		name        string
		rec         NodeRecord
		wantVersion nodeversion.Version
	}{
		{
			name:        "current name without version",
			rec:         NodeRecord{Handle: 1, Library: "Math", Name: "Add"},
			wantVersion: nodeversion.New(2, 0),
		},
		{
			name:        "inline revision",
			rec:         NodeRecord{Handle: 1, Library: "Math", Name: "Add_v1p0"},
			wantVersion: nodeversion.New(1, 0),
		},
		{
			name:        "explicit revision wins over inline",
			rec:         NodeRecord{Handle: 1, Library: "Math", Name: "Add_v1p0", Version: "2.0"},
			wantVersion: nodeversion.New(2, 0),
		},
		{
			name:        "old library and node name",
			rec:         NodeRecord{Handle: 1, Library: "Arith", Name: "Plus"},
			wantVersion: nodeversion.New(2, 0),
		},
		{
			name:        "missing revision falls back to latest",
			rec:         NodeRecord{Handle: 1, Library: "Math", Name: "Add", Version: "3.5"},
			wantVersion: nodeversion.New(2, 0),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixture(t)
			g := f.graph(nil)

			report := Restore(ctx, g, f.types, Snapshot{Nodes: []NodeRecord{tc.rec}}, nil)
			require.True(t, report.OK(), "issues: %v", report.Issues)

			nt, ok := g.NodeTypeOf(ctx, tc.rec.Handle)
			require.True(t, ok)
			assert.Equal(t, nodetype.Identity{Library: "Math", Name: "Add"}, nt.Identity)
			assert.Equal(t, tc.wantVersion, nt.Version)
		})
	}
}

func TestRestore_UnknownTypeBecomesPlaceholder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	out := &graphoutput.Buffer{}
	g := f.graph(out)

	snap := Snapshot{
		Nodes: []NodeRecord{
			{Handle: 1, Library: "Math", Name: "Number"},
			{Handle: 2, Library: "Gone", Name: "Widget", Location: "5,5"},
			{Handle: 3, Library: "Text", Name: "Show"},
		},
		Connections: []connection.Connection{
			connection.Data(1, "value", 2, "in"),
			connection.Data(1, "value", 3, "text"),
		},
	}
	report := Restore(ctx, g, f.types, snap, out)

	require.Len(t, report.Placeholders, 1)
	ph := report.Placeholders[0]
	assert.Equal(t, node.Handle(2), ph.Handle)
	assert.Equal(t, "Widget", ph.Record.Name)
	assert.ErrorIs(t, ph.Err, grapherr.ErrUnknownNodeType)

	nt, ok := g.NodeTypeOf(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, nodetype.PlaceholderIdentity, nt.Identity)
	loc, ok := g.LocationForNode(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "5,5", loc)

	assert.Equal(t, 1, report.Connected)
	require.Len(t, report.Issues, 1)
	require.NotNil(t, report.Issues[0].Connection)
	assert.Equal(t, node.Handle(2), report.Issues[0].Connection.ToNode)

	// Placeholder notice, the graph's own rejection and the restore issue.
	warnings := out.Filter(graphoutput.GraphWarning)
	require.Len(t, warnings, 3)
	assert.Contains(t, warnings[0], "placeholder")
	assert.Contains(t, warnings[2], "not restored")
	assert.Len(t, g.EnumerateNodes(ctx), 3)
}

func TestCaptureRestore_KeepsUnresolvedReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	widget := NodeRecord{
		Handle:    3,
		Library:   "Gone",
		Name:      "Widget",
		Version:   "2.1",
		Constants: map[string]cty.Value{"x": cty.NumberIntVal(5)},
		Location:  "5,5",
	}
	wire := connection.Data(1, "value", 3, "in")
	snap := Snapshot{
		Nodes:       []NodeRecord{{Handle: 1, Library: "Math", Name: "Number"}, widget},
		Connections: []connection.Connection{wire},
	}

	g := f.graph(nil)
	report := Restore(ctx, g, f.types, snap, nil)
	require.Len(t, report.Placeholders, 1)
	assert.Equal(t, 0, report.Connected)

	saved := Capture(ctx, g)
	require.Len(t, saved.Nodes, 2)
	if diff := cmp.Diff(widget, saved.Nodes[1], valueComparer); diff != "" {
		t.Errorf("placeholder record changed (-want +got):\n%s", diff)
	}
	assert.Equal(t, []connection.Connection{wire}, saved.Connections)

	again := f.graph(nil)
	report = Restore(ctx, again, f.types, saved, nil)
	require.Len(t, report.Placeholders, 1)
	if diff := cmp.Diff(saved, Capture(ctx, again), valueComparer, cmpopts.IgnoreFields(Snapshot{}, "ID")); diff != "" {
		t.Errorf("second save differs (-want +got):\n%s", diff)
	}

	// Held wires are dropped once the other end is gone.
	require.True(t, again.RemoveNode(ctx, 1))
	assert.Empty(t, Capture(ctx, again).Connections)
}

func TestRestore_Issues(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	out := &graphoutput.Buffer{}
	g := f.graph(out)

	snap := Snapshot{
		Nodes: []NodeRecord{
			{Handle: 1, Library: "Math", Name: "Add", Constants: map[string]cty.Value{
				"b":       cty.NumberIntVal(3),
				"missing": cty.True,
			}},
			{Handle: 1, Library: "Text", Name: "Show"},
		},
	}
	report := Restore(ctx, g, f.types, snap, out)

	assert.False(t, report.OK())
	assert.Equal(t, []node.Handle{1}, report.Created)
	require.Len(t, report.Issues, 2)
	assert.Contains(t, report.Issues[0].Message, `"missing"`)
	assert.Contains(t, report.Issues[1].Message, "invalid node type")
	assert.Len(t, out.Filter(graphoutput.GraphError), 1)

	v, ok := g.NodeConstantValue(ctx, 1, "b")
	require.True(t, ok)
	assert.True(t, v.Native.RawEquals(cty.NumberIntVal(3)))
}
