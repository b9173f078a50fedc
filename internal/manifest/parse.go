// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// fileSchema is the top-level structure of a manifest file.
type fileSchema struct {
	Libraries   []*hclLabeled    `hcl:"library,block"`
	Nodes       []*hclLabeled    `hcl:"node,block"`
	Conversions []*hclConversion `hcl:"conversion,block"`
}

type hclLabeled struct {
	Name     string    `hcl:"name,label"`
	Body     hcl.Body  `hcl:",remain"`
	DefRange hcl.Range `hcl:",def_range"`
}

type hclConversion struct {
	From     hcl.Expression `hcl:"from"`
	To       hcl.Expression `hcl:"to"`
	DefRange hcl.Range      `hcl:",def_range"`
}

var libraryBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "category"},
		{Name: "description"},
		{Name: "mapped_names"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "node", LabelNames: []string{"name"}},
	},
}

var nodeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "ui_name"},
		{Name: "category"},
		{Name: "description"},
		{Name: "variant"},
		{Name: "version"},
		{Name: "mapped_names"},
		{Name: "hierarchy_only"},
		{Name: "system"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "input", LabelNames: []string{"name"}},
		{Type: "output", LabelNames: []string{"name"}},
	},
}

var inputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but checked by hand for a better message.
		{Name: "type"},
		{Name: "description"},
		{Name: "default"},
		{Name: "constant"},
		{Name: "format"},
		{Name: "handle"},
	},
}

var outputBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type"},
		{Name: "description"},
		{Name: "format"},
		{Name: "handle"},
	},
}

// ParseFile decodes one parsed manifest file.
func ParseFile(ctx context.Context, file *hcl.File, filePath string) (*Manifest, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Parsing manifest.", "file_path", filePath)

	if file == nil {
		return nil, hcl.Diagnostics{{Severity: hcl.DiagError, Summary: "HCL file is nil"}}
	}

	var root fileSchema
	diags := gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	m := &Manifest{}
	for _, block := range root.Libraries {
		lib, libDiags := parseLibrary(block)
		diags = append(diags, libDiags...)
		if lib != nil {
			m.Libraries = append(m.Libraries, lib)
		}
	}

	if len(root.Nodes) > 0 {
		loose := &Library{DefRange: root.Nodes[0].DefRange}
		for _, block := range root.Nodes {
			n, nodeDiags := parseNode(block.Name, block.Body, block.DefRange)
			diags = append(diags, nodeDiags...)
			if n != nil {
				loose.Nodes = append(loose.Nodes, n)
			}
		}
		m.Libraries = append(m.Libraries, loose)
	}

	for _, block := range root.Conversions {
		c, convDiags := parseConversion(block)
		diags = append(diags, convDiags...)
		if c != nil {
			m.Conversions = append(m.Conversions, c)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	logger.Debug("Parsed manifest.", "file_path", filePath, "libraries", len(m.Libraries), "nodes", m.NodeCount(), "conversions", len(m.Conversions))
	return m, diags
}

func parseLibrary(block *hclLabeled) (*Library, hcl.Diagnostics) {
	content, diags := block.Body.Content(libraryBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	lib := &Library{Name: block.Name, DefRange: block.DefRange}
	diags = append(diags, decodeAttr(content.Attributes, "category", &lib.Category)...)
	diags = append(diags, decodeAttr(content.Attributes, "description", &lib.Description)...)
	diags = append(diags, decodeAttr(content.Attributes, "mapped_names", &lib.MappedNames)...)

	seen := make(map[string]bool)
	for _, nb := range content.Blocks.OfType("node") {
		name := nb.Labels[0]
		if seen[name] {
			diags = append(diags, duplicateDiag("node", name, nb.DefRange))
			continue
		}
		seen[name] = true
		n, nodeDiags := parseNode(name, nb.Body, nb.DefRange)
		diags = append(diags, nodeDiags...)
		if n != nil {
			lib.Nodes = append(lib.Nodes, n)
		}
	}
	return lib, diags
}

func parseNode(name string, body hcl.Body, defRange hcl.Range) (*Node, hcl.Diagnostics) {
	content, diags := body.Content(nodeBodySchema)
	if diags.HasErrors() {
		return nil, diags
	}

	n := &Node{Name: name, DefRange: defRange}
	diags = append(diags, decodeAttr(content.Attributes, "ui_name", &n.UIName)...)
	diags = append(diags, decodeAttr(content.Attributes, "category", &n.Category)...)
	diags = append(diags, decodeAttr(content.Attributes, "description", &n.Description)...)
	diags = append(diags, decodeAttr(content.Attributes, "variant", &n.Variant)...)
	diags = append(diags, decodeAttr(content.Attributes, "version", &n.Version)...)
	diags = append(diags, decodeAttr(content.Attributes, "mapped_names", &n.MappedNames)...)
	diags = append(diags, decodeAttr(content.Attributes, "hierarchy_only", &n.HierarchyOnly)...)
	diags = append(diags, decodeAttr(content.Attributes, "system", &n.System)...)

	if n.Version != "" && !nodeversion.Validate(n.Version) {
		attr := content.Attributes["version"]
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid version",
			Detail:   fmt.Sprintf("The version %q of node %q must look like \"major.minor\".", n.Version, name),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}

	var pinDiags hcl.Diagnostics
	n.Inputs, pinDiags = parsePins(content.Blocks.OfType("input"), inputBodySchema, true)
	diags = append(diags, pinDiags...)
	n.Outputs, pinDiags = parsePins(content.Blocks.OfType("output"), outputBodySchema, false)
	diags = append(diags, pinDiags...)

	if diags.HasErrors() {
		return nil, diags
	}
	return n, diags
}

func parsePins(blocks hcl.Blocks, schema *hcl.BodySchema, isInput bool) ([]*Pin, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	var pins []*Pin
	kind := "output"
	if isInput {
		kind = "input"
	}

	seen := make(map[string]bool)
	for _, block := range blocks {
		name := block.Labels[0]
		if seen[name] {
			diags = append(diags, duplicateDiag(kind, name, block.DefRange))
			continue
		}
		seen[name] = true

		content, contentDiags := block.Body.Content(schema)
		diags = append(diags, contentDiags...)
		if contentDiags.HasErrors() {
			continue
		}

		typeAttr, exists := content.Attributes["type"]
		if !exists {
			missing := block.Body.MissingItemRange()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Missing 'type' attribute",
				Detail:   fmt.Sprintf("The 'type' attribute is required for every %s block.", kind),
				Subject:  &missing,
			})
			continue
		}
		ctyType, typeDiags := typeExprToCtyType(typeAttr.Expr)
		diags = append(diags, typeDiags...)
		if typeDiags.HasErrors() {
			continue
		}

		pin := &Pin{Name: name, Type: ctyType}
		diags = append(diags, decodeAttr(content.Attributes, "description", &pin.Description)...)
		diags = append(diags, decodeAttr(content.Attributes, "format", &pin.Format)...)
		diags = append(diags, decodeAttr(content.Attributes, "handle", &pin.Handle)...)
		if pin.Format != "" {
			if _, ok := datatype.ParseFormat(pin.Format); !ok {
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Unknown data format",
					Detail:   fmt.Sprintf("The format %q of %s %q is not one of native, script, struct, client1, client2.", pin.Format, kind, name),
					Subject:  content.Attributes["format"].Expr.Range().Ptr(),
				})
				continue
			}
		}

		if isInput {
			diags = append(diags, decodeAttr(content.Attributes, "constant", &pin.Constant)...)
			if defaultAttr, ok := content.Attributes["default"]; ok {
				// Defaults are literals, so no evaluation context.
				val, valDiags := defaultAttr.Expr.Value(nil)
				diags = append(diags, valDiags...)
				if valDiags.HasErrors() {
					continue
				}
				converted, err := convert.Convert(val, ctyType)
				if err != nil {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Invalid default value type",
						Detail:   fmt.Sprintf("The default value for input %q is not compatible with its type %s: %s.", name, ctyType.FriendlyName(), err),
						Subject:  defaultAttr.Expr.Range().Ptr(),
					})
					continue
				}
				if f, _ := datatype.ParseFormat(pin.Format); f != datatype.FormatNative {
					diags = append(diags, &hcl.Diagnostic{
						Severity: hcl.DiagError,
						Summary:  "Default on foreign input",
						Detail:   fmt.Sprintf("Input %q carries %s data and cannot declare a literal default.", name, pin.Format),
						Subject:  defaultAttr.Expr.Range().Ptr(),
					})
					continue
				}
				pin.Default = &converted
			} else if pin.Constant {
				missing := block.Body.MissingItemRange()
				diags = append(diags, &hcl.Diagnostic{
					Severity: hcl.DiagError,
					Summary:  "Missing default for constant input",
					Detail:   fmt.Sprintf("Input %q is a node constant and needs a default value.", name),
					Subject:  &missing,
				})
				continue
			}
		}

		pins = append(pins, pin)
	}
	return pins, diags
}

func parseConversion(block *hclConversion) (*Conversion, hcl.Diagnostics) {
	from, diags := typeExprToCtyType(block.From)
	to, toDiags := typeExprToCtyType(block.To)
	diags = append(diags, toDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	if convert.GetConversionUnsafe(from, to) == nil {
		return nil, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Unknown conversion",
			Detail:   fmt.Sprintf("There is no built-in conversion from %s to %s.", from.FriendlyName(), to.FriendlyName()),
			Subject:  block.DefRange.Ptr(),
		}}
	}
	return &Conversion{From: from, To: to, DefRange: block.DefRange}, nil
}

// decodeAttr decodes an optional attribute into target when present.
func decodeAttr(attrs hcl.Attributes, name string, target any) hcl.Diagnostics {
	attr, ok := attrs[name]
	if !ok {
		return nil
	}
	return gohcl.DecodeExpression(attr.Expr, nil, target)
}

func duplicateDiag(kind, name string, subject hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  fmt.Sprintf("Duplicate %s definition", kind),
		Detail:   fmt.Sprintf("A %s named %q has already been defined.", kind, name),
		Subject:  &subject,
	}
}

// dataType builds the pin's descriptor. Inputs typed any accept every
// native type.
func (p *Pin) dataType(isInput bool) datatype.DataType {
	if p.Format != "" {
		if f, _ := datatype.ParseFormat(p.Format); f != datatype.FormatNative {
			var handle any
			if p.Handle != "" {
				handle = p.Handle
			}
			return datatype.Foreign(f, p.Type, handle)
		}
	}
	if isInput && p.Type.Equals(cty.DynamicPseudoType) {
		return datatype.MakeDynamic(cty.DynamicPseudoType, nil)
	}
	return datatype.Of(p.Type)
}
