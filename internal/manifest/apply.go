// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
)

// Apply registers the manifest's libraries, node types and conversions.
// Every problem is collected; registration continues past failures.
func Apply(ctx context.Context, m *Manifest, types *nodetype.Registry, conversions *conversion.Registry) error {
	if m == nil {
		return nil
	}
	logger := ctxlog.FromContext(ctx)
	var errs []error

	for _, lib := range m.Libraries {
		if lib.Name != "" {
			err := types.RegisterLibrary(ctx, nodetype.Library{
				Name:        lib.Name,
				Category:    lib.Category,
				MappedNames: lib.MappedNames,
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", lib.DefRange, err))
				continue
			}
		}
		for _, n := range lib.Nodes {
			if err := types.Register(ctx, NodeType(lib, n)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", n.DefRange, err))
			}
		}
	}

	for _, c := range m.Conversions {
		if err := conversions.RegisterCty(ctx, c.From, c.To); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.DefRange, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	logger.Debug("Manifest applied.", "nodes", m.NodeCount(), "conversions", len(m.Conversions))
	return nil
}

// NodeType builds the registry entry for a declared node. Its factory
// returns a fresh node.Base carrying the declared pins and constants.
func NodeType(lib *Library, n *Node) *nodetype.NodeType {
	category := n.Category
	if category == "" {
		category = lib.Category
	}
	t := &nodetype.NodeType{
		Identity:      nodetype.Identity{Library: lib.Name, Name: n.Name},
		UIName:        n.UIName,
		Category:      category,
		Variant:       n.Variant,
		HierarchyOnly: n.HierarchyOnly,
		System:        n.System,
		MappedNames:   n.MappedNames,
	}
	if n.Version != "" {
		t.Version = nodeversion.Parse(n.Version)
	}
	if !n.HierarchyOnly {
		t.New = factory(n)
	}
	return t
}

func factory(n *Node) func() node.Node {
	base := n.Name
	if b, _, ok := nodeversion.ParseVersionedName(n.Name); ok && b != "" {
		base = b
	}
	return func() node.Node {
		b := node.NewBase(base)
		for _, p := range n.Inputs {
			flags := node.FlagNone
			if p.Constant {
				flags = node.FlagNodeConstant
			}
			var in *node.BasicInput
			if p.Default != nil {
				in = node.NewInputWithConstant(p.dataType(true), flags, datatype.NativeValue(*p.Default))
			} else {
				in = node.NewInput(p.dataType(true), flags)
			}
			// Pin names were deduplicated while parsing.
			b.MustAddInput(p.Name, in)
		}
		for _, p := range n.Outputs {
			b.MustAddOutput(p.Name, node.NewOutput(p.dataType(false)))
		}
		return b
	}
}
