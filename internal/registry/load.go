package registry

import (
	"context"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/manifest"
)

// LoadManifests reads every manifest under paths and registers what it
// declares.
func (r *Registry) LoadManifests(ctx context.Context, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading manifests...", "paths", paths)

	m, diags := manifest.Load(ctx, paths...)
	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			logger.Warn("Manifest warning.", "summary", d.Summary, "detail", d.Detail)
		}
	}
	if diags.HasErrors() {
		return grapherr.Wrap(grapherr.ErrConfiguration, diags, "loading manifests")
	}
	return r.apply(ctx, m)
}

// LoadManifestSource registers the declarations of one in-memory manifest.
func (r *Registry) LoadManifestSource(ctx context.Context, src []byte, filename string) error {
	m, diags := manifest.LoadSource(ctx, src, filename)
	if diags.HasErrors() {
		return grapherr.Wrap(grapherr.ErrConfiguration, diags, "loading manifest %s", filename)
	}
	return r.apply(ctx, m)
}

func (r *Registry) apply(ctx context.Context, m *manifest.Manifest) error {
	if err := manifest.Apply(ctx, m, r.Types, r.Conversions); err != nil {
		return grapherr.Wrap(grapherr.ErrConfiguration, err, "registering manifest declarations")
	}
	r.definitions.Merge(m)
	ctxlog.FromContext(ctx).Info("Registry loaded manifests.", "node_definitions_loaded", m.NodeCount(), "conversions_loaded", len(m.Conversions))
	return nil
}
