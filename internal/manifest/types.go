// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file turns HCL type expressions such as `string` or `list(number)`
// into cty types.

package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToCtyType converts a type expression into its cty.Type.
func typeExprToCtyType(expr hcl.Expression) (cty.Type, hcl.Diagnostics) {
	if expr == nil {
		return cty.DynamicPseudoType, nil
	}

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		if v.Name == "object" {
			return objectType(v)
		}
		if len(v.Args) != 1 {
			return cty.DynamicPseudoType, typeDiag(expr, fmt.Sprintf("The %s() type constructor requires exactly one argument, got %d.", v.Name, len(v.Args)))
		}
		elem, diags := typeExprToCtyType(v.Args[0])
		if diags.HasErrors() {
			return cty.DynamicPseudoType, diags
		}
		if elem.Equals(cty.DynamicPseudoType) {
			return cty.DynamicPseudoType, typeDiag(expr, "Collection types cannot contain type 'any'.")
		}
		switch v.Name {
		case "list":
			return cty.List(elem), nil
		case "map":
			return cty.Map(elem), nil
		case "set":
			return cty.Set(elem), nil
		default:
			return cty.DynamicPseudoType, typeDiag(expr, fmt.Sprintf("Unknown type constructor %q.", v.Name))
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return cty.DynamicPseudoType, typeDiag(expr, "A type keyword must be a single identifier.")
		}
		switch name := v.Traversal.RootName(); name {
		case "string":
			return cty.String, nil
		case "number":
			return cty.Number, nil
		case "bool":
			return cty.Bool, nil
		case "any":
			return cty.DynamicPseudoType, nil
		default:
			return cty.DynamicPseudoType, typeDiag(expr, fmt.Sprintf("The keyword %q is not a valid type. Supported types are string, number, bool, any, list(T), map(T), set(T) and object({...}).", name))
		}

	default:
		return cty.DynamicPseudoType, typeDiag(expr, fmt.Sprintf("Unsupported expression for a type: %T.", v))
	}
}

func objectType(call *hclsyntax.FunctionCallExpr) (cty.Type, hcl.Diagnostics) {
	if len(call.Args) != 1 {
		return cty.DynamicPseudoType, typeDiag(call, fmt.Sprintf("The object() type constructor requires exactly one argument, got %d.", len(call.Args)))
	}
	cons, ok := call.Args[0].(*hclsyntax.ObjectConsExpr)
	if !ok {
		return cty.DynamicPseudoType, typeDiag(call.Args[0], "The argument to object() must be an object literal like { key = type }.")
	}

	var diags hcl.Diagnostics
	attrs := make(map[string]cty.Type, len(cons.Items))
	for _, item := range cons.Items {
		key := objectKey(item.KeyExpr)
		if key == "" {
			diags = append(diags, typeDiag(item.KeyExpr, "Object type keys must be identifiers or quoted strings.")...)
			continue
		}
		t, itemDiags := typeExprToCtyType(item.ValueExpr)
		diags = append(diags, itemDiags...)
		attrs[key] = t
	}
	if diags.HasErrors() {
		return cty.DynamicPseudoType, diags
	}
	return cty.Object(attrs), nil
}

func objectKey(expr hcl.Expression) string {
	wrapper, ok := expr.(*hclsyntax.ObjectConsKeyExpr)
	if !ok {
		return ""
	}
	switch k := wrapper.Wrapped.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(k.Traversal) == 1 {
			return k.Traversal.RootName()
		}
	case *hclsyntax.TemplateExpr:
		if len(k.Parts) == 1 {
			if lit, ok := k.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type().Equals(cty.String) {
				return lit.Val.AsString()
			}
		}
	}
	return ""
}

func typeDiag(expr hcl.Expression, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}
