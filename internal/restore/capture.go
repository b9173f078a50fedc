package restore

import (
	"context"
	"maps"

	"github.com/google/uuid"
	"github.com/specialistvlad/nodegraph/internal/connection"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/zclconf/go-cty/cty"
)

// Capture records g as a Snapshot. Every defined native constant is kept.
// Placeholders left by Restore are captured with the reference they stand
// in for, so an unresolved node survives being saved again.
func Capture(ctx context.Context, g Target) Snapshot {
	snap := Snapshot{ID: uuid.New()}
	var held []connection.Connection
	for _, info := range g.EnumerateNodes(ctx) {
		if h, ok := heldBy(info); ok {
			rec := h.record
			rec.Handle = info.Handle
			rec.Constants = maps.Clone(rec.Constants)
			rec.Location, _ = g.LocationForNode(ctx, info.Handle)
			snap.Nodes = append(snap.Nodes, rec)
			held = append(held, h.connections...)
			continue
		}
		rec := NodeRecord{Handle: info.Handle}
		if t, ok := g.NodeTypeOf(ctx, info.Handle); ok {
			rec.Library = t.Library
			rec.Name = t.Name
			rec.Version = t.Version.String()
			rec.Variant = t.Variant
		}
		for _, in := range info.Node.Inputs() {
			v, defined := in.Input.ConstantValue()
			if !defined || v.Format != datatype.FormatNative {
				continue
			}
			if rec.Constants == nil {
				rec.Constants = make(map[string]cty.Value)
			}
			rec.Constants[in.Name] = v.Native
		}
		rec.Location, _ = g.LocationForNode(ctx, info.Handle)
		snap.Nodes = append(snap.Nodes, rec)
	}
	snap.Connections = append(snap.Connections, g.EnumerateConnections(ctx, connection.KindData)...)
	snap.Connections = append(snap.Connections, g.EnumerateConnections(ctx, connection.KindSequence)...)
	for _, c := range held {
		_, fromOK := g.FindNode(ctx, c.FromNode)
		_, toOK := g.FindNode(ctx, c.ToNode)
		if fromOK && toOK {
			snap.Connections = append(snap.Connections, c)
		}
	}
	return snap
}

func heldBy(info node.Info) (*heldReference, bool) {
	ph, ok := info.Node.(*nodetype.PlaceholderNode)
	if !ok {
		return nil, false
	}
	h, ok := ph.Stored.(*heldReference)
	return h, ok
}
