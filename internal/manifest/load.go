// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/fsutil"
)

// Extension is the file suffix Load looks for.
const Extension = ".hcl"

// Load parses every manifest file under the given paths. Directories are
// walked recursively in lexical order; files are read as given.
func Load(ctx context.Context, paths ...string) (*Manifest, hcl.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	var diags hcl.Diagnostics

	var files []string
	for _, root := range paths {
		found, err := fsutil.FindFilesByExtension(root, Extension)
		if err != nil {
			logger.Error("Failed to walk manifest path.", "path", root, "error", err)
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Cannot read manifest path",
				Detail:   fmt.Sprintf("Reading %s: %s.", root, err),
			})
			continue
		}
		files = append(files, found...)
	}
	if diags.HasErrors() {
		return nil, diags
	}
	if len(files) == 0 {
		logger.Warn("No manifest files found.", "paths", paths)
		return &Manifest{}, diags
	}
	logger.Debug("Found manifest files to load.", "files", files)

	parser := hclparse.NewParser()
	merged := &Manifest{}
	for _, path := range files {
		file, parseDiags := parser.ParseHCLFile(path)
		diags = append(diags, parseDiags...)
		if parseDiags.HasErrors() {
			continue
		}
		m, fileDiags := ParseFile(ctx, file, path)
		diags = append(diags, fileDiags...)
		merged.Merge(m)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Info("Manifests loaded.", "files", len(files), "nodes", merged.NodeCount(), "conversions", len(merged.Conversions))
	return merged, diags
}

// LoadSource parses manifest text held in memory.
func LoadSource(ctx context.Context, src []byte, filename string) (*Manifest, hcl.Diagnostics) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	return ParseFile(ctx, file, filename)
}
