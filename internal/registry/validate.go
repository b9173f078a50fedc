package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/zclconf/go-cty/cty"
)

// Validate seals the node type registry and checks every registered type.
// Each instantiable type is built once; the probe node is released
// afterwards.
func (r *Registry) Validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	if err := r.Types.Seal(ctx); err != nil {
		return err
	}

	var errs []string
	for _, t := range r.Types.All() {
		if t.HierarchyOnly {
			continue
		}
		if t.New == nil {
			errs = append(errs, fmt.Sprintf("node type %s: no factory and not marked hierarchy-only", t))
			continue
		}
		errs = append(errs, probe(ctx, t)...)
	}

	if len(errs) > 0 {
		return grapherr.New(grapherr.ErrConfiguration, "registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Info("Registry validated.", "node_types", len(r.Types.All()), "conversions", r.Conversions.Len())
	return nil
}

func probe(ctx context.Context, t *nodetype.NodeType) []string {
	logger := ctxlog.FromContext(ctx)
	n, err := build(t)
	if err != nil {
		return []string{fmt.Sprintf("node type %s: factory panicked: %v", t, err)}
	}
	if n == nil {
		return []string{fmt.Sprintf("node type %s: factory returned no node", t)}
	}
	if r, ok := n.(node.Releaser); ok {
		defer r.ReleaseData()
	}

	var errs []string
	seen := make(map[string]struct{})
	for _, in := range n.Inputs() {
		if _, dup := seen[in.Name]; dup {
			errs = append(errs, fmt.Sprintf("node type %s: duplicate input %q", t, in.Name))
		}
		seen[in.Name] = struct{}{}

		if in.IsNodeConstant() {
			if _, defined := in.Input.ConstantValue(); !defined {
				errs = append(errs, fmt.Sprintf("node type %s: node-constant input %q has no value", t, in.Name))
			}
		}
		dt := in.Input.DataType()
		if dt.NativeType().Equals(cty.DynamicPseudoType) && !dt.Dynamic {
			logger.Warn("Node input has type 'any' without accepting arbitrary connections; only exact matches and registered conversions will connect.", "type", t.String(), "input", in.Name)
		}
	}
	clear(seen)
	for _, out := range n.Outputs() {
		if _, dup := seen[out.Name]; dup {
			errs = append(errs, fmt.Sprintf("node type %s: duplicate output %q", t, out.Name))
		}
		seen[out.Name] = struct{}{}
	}
	return errs
}

func build(t *nodetype.NodeType) (n node.Node, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%v", p)
		}
	}()
	return t.New(), nil
}
