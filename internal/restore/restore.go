// Package restore rebuilds a graph from plain in-memory records, resolving
// stored node references through the node type registry's remap table.
//
// Restoring never aborts. A node whose type cannot be resolved becomes a
// placeholder, and a connection the graph refuses is dropped; both are
// recorded in the Report and written to the graph output. A placeholder
// keeps its stored record and the wires dropped around it, and Capture
// writes them back.
package restore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/graph"
	"github.com/specialistvlad/nodegraph/internal/graphoutput"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/zclconf/go-cty/cty"
)

// NodeRecord is a stored node reference.
type NodeRecord struct {
	Handle  node.Handle
	Library string
	// Name may carry an inline revision such as "Add_v2p0".
	Name    string
	Version string
	Variant string
	// Constants holds native constant values by input name.
	Constants map[string]cty.Value
	Location  string
}

// Snapshot is a stored graph. ID only correlates log records; the zero
// UUID is valid.
type Snapshot struct {
	ID          uuid.UUID
	Nodes       []NodeRecord
	Connections []connection.Connection
}

// Target is what Restore writes into.
type Target interface {
	graph.Graph
	graph.LayoutProvider
}

// Placeholder records a node restored without its type.
type Placeholder struct {
	Handle node.Handle
	Record NodeRecord
	Err    error
}

// Issue is one non-fatal problem found while restoring.
type Issue struct {
	Handle     node.Handle
	Connection *connection.Connection
	Message    string
}

// Report summarizes a restore.
type Report struct {
	Created      []node.Handle
	Placeholders []Placeholder
	Issues       []Issue
	Connected    int
}

// OK reports whether everything was restored as stored.
func (r *Report) OK() bool {
	return len(r.Placeholders) == 0 && len(r.Issues) == 0
}

// Restore creates every stored node in g under its stored handle, applies
// constants and layout, then re-adds every stored connection.
func Restore(ctx context.Context, g Target, types *nodetype.Registry, snap Snapshot, out graphoutput.Output) *Report {
	logger := ctxlog.FromContext(ctx).With("snapshot", snap.ID.String())
	if out == nil {
		out = graphoutput.Discard
	}
	report := &Report{}
	placeholders := make(map[node.Handle]*heldReference)

	issue := func(i Issue, kind graphoutput.Kind) {
		report.Issues = append(report.Issues, i)
		out.AppendLine(i.Message, kind)
	}

	for _, rec := range snap.Nodes {
		t, resolveErr := resolve(ctx, types, rec)
		isPlaceholder := false
		if resolveErr != nil {
			if !errors.Is(resolveErr, grapherr.ErrUnknownNodeType) {
				issue(Issue{Handle: rec.Handle, Message: fmt.Sprintf("node %s: %v", rec.Handle, resolveErr)}, graphoutput.GraphError)
				continue
			}
			t = types.Placeholder()
			isPlaceholder = true
		}

		info, err := g.CreateNewNodeOfType(ctx, t, rec.Handle)
		if err != nil {
			issue(Issue{Handle: rec.Handle, Message: fmt.Sprintf("node %s: %v", rec.Handle, err)}, graphoutput.GraphError)
			continue
		}
		report.Created = append(report.Created, info.Handle)

		if isPlaceholder {
			if ph, ok := info.Node.(*nodetype.PlaceholderNode); ok {
				held := &heldReference{record: rec}
				ph.Stored = held
				placeholders[info.Handle] = held
			}
			report.Placeholders = append(report.Placeholders, Placeholder{Handle: info.Handle, Record: rec, Err: resolveErr})
			out.AppendLine(fmt.Sprintf("node %s: type %s.%s not found, using placeholder", info.Handle, rec.Library, rec.Name), graphoutput.GraphWarning)
		} else {
			for _, name := range sortedInputs(rec.Constants) {
				if _, err := g.ResolveInput(ctx, info.Handle, name); err != nil {
					issue(Issue{Handle: info.Handle, Message: fmt.Sprintf("constant not restored: %v", err)}, graphoutput.GraphWarning)
					continue
				}
				if !g.SetNodeConstantValue(ctx, info.Handle, name, datatype.NativeValue(rec.Constants[name])) {
					issue(Issue{Handle: info.Handle, Message: fmt.Sprintf("node %s: constant for input %q not restored", info.Handle, name)}, graphoutput.GraphWarning)
				}
			}
		}
		if rec.Location != "" {
			g.SetNodeLocation(ctx, info.Handle, rec.Location)
		}
	}

	for _, c := range snap.Connections {
		if g.TryAddConnection(ctx, c) {
			report.Connected++
			continue
		}
		if held, ok := placeholders[c.ToNode]; ok {
			held.connections = append(held.connections, c)
		} else if held, ok := placeholders[c.FromNode]; ok {
			held.connections = append(held.connections, c)
		}
		c := c
		issue(Issue{Handle: c.ToNode, Connection: &c, Message: fmt.Sprintf("connection %s not restored", c)}, graphoutput.GraphWarning)
	}

	logger.Info("Graph restored.",
		"nodes", len(report.Created),
		"placeholders", len(report.Placeholders),
		"connections", report.Connected,
		"issues", len(report.Issues))
	return report
}

// heldReference is kept on a placeholder node: the stored record and the
// connections dropped because they touch it.
type heldReference struct {
	record      NodeRecord
	connections []connection.Connection
}

func resolve(ctx context.Context, types *nodetype.Registry, rec NodeRecord) (*nodetype.NodeType, error) {
	t, err := types.Resolve(ctx, rec.Library, rec.Name, rec.Version)
	if err != nil {
		return nil, err
	}
	if rec.Variant == "" || rec.Variant == t.Variant {
		return t, nil
	}
	if v, ok := types.LookupVariant(t.Identity, t.Version, rec.Variant); ok {
		return v, nil
	}
	return t, nil
}

func sortedInputs(m map[string]cty.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
