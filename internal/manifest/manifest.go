// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Manifest is the format-agnostic content of one or more manifest files.
type Manifest struct {
	Libraries   []*Library
	Conversions []*Conversion
}

// Library groups node definitions. The unnamed library holds nodes declared
// at the top level of a file.
type Library struct {
	Name        string
	Category    string
	Description string
	MappedNames []string
	Nodes       []*Node
	DefRange    hcl.Range
}

// Node is one declared node type.
type Node struct {
	// Name is the block label, possibly with an inline revision.
	Name          string
	UIName        string
	Category      string
	Description   string
	Variant       string
	Version       string
	MappedNames   []string
	HierarchyOnly bool
	System        bool
	Inputs        []*Pin
	Outputs       []*Pin
	DefRange      hcl.Range
}

// Pin is one declared input or output.
type Pin struct {
	Name        string
	Type        cty.Type
	Description string
	// Default is the constant of an input; nil when none was declared.
	Default *cty.Value
	// Constant marks an input that accepts no wire.
	Constant bool
	// Format and Handle describe foreign data; Format is empty for native.
	Format string
	Handle string
}

// Conversion declares a built-in native conversion.
type Conversion struct {
	From     cty.Type
	To       cty.Type
	DefRange hcl.Range
}

// Merge appends other's content to m.
func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	m.Libraries = append(m.Libraries, other.Libraries...)
	m.Conversions = append(m.Conversions, other.Conversions...)
}

// NodeCount returns the number of declared nodes.
func (m *Manifest) NodeCount() int {
	n := 0
	for _, lib := range m.Libraries {
		n += len(lib.Nodes)
	}
	return n
}
