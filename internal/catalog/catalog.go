// Package catalog describes everything a registry offers: node types with
// their pins, libraries with their historical names, and conversions. It is
// what the command-line tool prints and what editors read to populate a
// node palette.
package catalog

import (
	"github.com/specialistvlad/nodegraph/internal/conversion"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Catalog is a snapshot of a registry.
type Catalog struct {
	Libraries   []Library    `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	Nodes       []Entry      `json:"nodes" yaml:"nodes"`
	Conversions []Conversion `json:"conversions,omitempty" yaml:"conversions,omitempty"`
}

type Library struct {
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	MappedNames []string `json:"mapped_names,omitempty" yaml:"mapped_names,omitempty"`
}

// Entry describes one registered node type.
type Entry struct {
	Library     string   `json:"library,omitempty" yaml:"library,omitempty"`
	Name        string   `json:"name" yaml:"name"`
	Version     string   `json:"version" yaml:"version"`
	Variant     string   `json:"variant,omitempty" yaml:"variant,omitempty"`
	UIName      string   `json:"ui_name" yaml:"ui_name"`
	Category    string   `json:"category" yaml:"category"`
	Flags       []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	MappedNames []string `json:"mapped_names,omitempty" yaml:"mapped_names,omitempty"`
	Inputs      []Pin    `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Outputs     []Pin    `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// Pin describes an input or output of a freshly created node.
type Pin struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Constant bool   `json:"constant,omitempty" yaml:"constant,omitempty"`
	Default  string `json:"default,omitempty" yaml:"default,omitempty"`
}

type Conversion struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Entry flags.
const (
	FlagHierarchyOnly = "hierarchy_only"
	FlagSystem        = "system"
)

// Build describes types and conversions. Instantiable types are created
// once to read their pins; the probe node is released afterwards.
func Build(types *nodetype.Registry, conversions *conversion.Registry) *Catalog {
	c := &Catalog{Nodes: []Entry{}}
	for _, lib := range types.Libraries() {
		c.Libraries = append(c.Libraries, Library{
			Name:        lib.Name,
			Category:    lib.Category,
			MappedNames: lib.MappedNames,
		})
	}
	for _, t := range types.All() {
		c.Nodes = append(c.Nodes, entry(t))
	}
	if conversions != nil {
		for _, conv := range conversions.All() {
			c.Conversions = append(c.Conversions, Conversion{From: conv.From.String(), To: conv.To.String()})
		}
	}
	return c
}

// Library returns the part of c that belongs to the named library. ok is
// false when no node type lives there.
func (c *Catalog) Library(name string) (*Catalog, bool) {
	out := &Catalog{Nodes: []Entry{}}
	for _, lib := range c.Libraries {
		if lib.Name == name {
			out.Libraries = append(out.Libraries, lib)
		}
	}
	for _, e := range c.Nodes {
		if e.Library == name {
			out.Nodes = append(out.Nodes, e)
		}
	}
	return out, len(out.Nodes) > 0
}

func entry(t *nodetype.NodeType) Entry {
	e := Entry{
		Library:     t.Library,
		Name:        t.Name,
		Version:     t.Version.String(),
		Variant:     t.Variant,
		UIName:      t.UIName,
		Category:    t.Category,
		MappedNames: t.MappedNames,
	}
	if t.HierarchyOnly {
		e.Flags = append(e.Flags, FlagHierarchyOnly)
	}
	if t.System {
		e.Flags = append(e.Flags, FlagSystem)
	}
	if !t.Instantiable() {
		return e
	}

	n := t.New()
	if n == nil {
		return e
	}
	if r, ok := n.(node.Releaser); ok {
		defer r.ReleaseData()
	}
	for _, in := range n.Inputs() {
		p := Pin{Name: in.Name, Type: in.Input.DataType().String(), Constant: in.IsNodeConstant()}
		if v, ok := in.Input.ConstantValue(); ok {
			p.Default = renderValue(v)
		}
		e.Inputs = append(e.Inputs, p)
	}
	for _, out := range n.Outputs() {
		e.Outputs = append(e.Outputs, Pin{Name: out.Name, Type: out.Output.DataType().String()})
	}
	return e
}

// renderValue prints native values as JSON and foreign values by format.
func renderValue(v datatype.Value) string {
	if v.Format != datatype.FormatNative || v.Native.IsNull() || !v.Native.IsWhollyKnown() {
		return v.String()
	}
	b, err := ctyjson.Marshal(v.Native, v.Native.Type())
	if err != nil {
		return v.String()
	}
	return string(b)
}
