package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/node"
	"github.com/specialistvlad/nodegraph/internal/nodetype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type moduleFunc func(ctx context.Context, r *Registry) error

func (f moduleFunc) Register(ctx context.Context, r *Registry) error { return f(ctx, r) }

func sourceType(name string) *nodetype.NodeType {
	return &nodetype.NodeType{
		Identity: nodetype.Identity{Library: "Go", Name: name},
		New: func() node.Node {
			b := node.NewBase(name)
			b.MustAddOutput("value", node.NewOutput(datatype.Of(cty.Number)))
			return b
		},
	}
}

func TestRegisterModules(t *testing.T) {
	ctx := context.Background()
	r := New()

	calls := 0
	ok := moduleFunc(func(ctx context.Context, r *Registry) error {
		calls++
		if err := r.RegisterLibrary(ctx, nodetype.Library{Name: "Go", MappedNames: []string{"Golang"}}); err != nil {
			return err
		}
		if err := r.RegisterNode(ctx, sourceType("Source")); err != nil {
			return err
		}
		return r.RegisterCtyConversion(ctx, cty.Number, cty.String)
	})
	failing := moduleFunc(func(context.Context, *Registry) error {
		calls++
		return errors.New("boom")
	})
	never := moduleFunc(func(context.Context, *Registry) error {
		calls++
		return nil
	})

	err := r.RegisterModules(ctx, ok, failing, never)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, 2, calls)

	require.NoError(t, r.Validate(ctx))
	nt, err := r.Types.Resolve(ctx, "Golang", "Source", "")
	require.NoError(t, err)
	assert.Equal(t, "Go", nt.Library)
	assert.Equal(t, 1, r.Conversions.Len())
}

func TestRegisterConversion(t *testing.T) {
	ctx := context.Background()
	r := New()
	from := datatype.Of(cty.Bool)
	to := datatype.Of(cty.Number)
	require.NoError(t, r.RegisterConversion(ctx, from, to, func(in datatype.Value) (datatype.Value, error) {
		if in.Native.True() {
			return datatype.NativeValue(cty.NumberIntVal(1)), nil
		}
		return datatype.NativeValue(cty.NumberIntVal(0)), nil
	}))
	_, ok := r.Conversions.Resolve(from, to)
	assert.True(t, ok)
}

func TestLoadManifests(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := `
library "Text" {
  node "Upper" {
    input "text" { type = string }
    output "result" { type = string }
  }
}

conversion {
  from = bool
  to   = string
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.hcl"), []byte(src), 0o644))

	r := New()
	require.NoError(t, r.LoadManifests(ctx, dir))
	require.NoError(t, r.Validate(ctx))

	_, err := r.Types.Resolve(ctx, "Text", "Upper", "")
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Conversions.Len())
	require.Len(t, r.Definitions().Libraries, 1)
	assert.Equal(t, "Text", r.Definitions().Libraries[0].Name)
}

func TestLoadManifests_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing path", func(t *testing.T) {
		err := New().LoadManifests(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, grapherr.ErrConfiguration)
	})

	t.Run("bad source", func(t *testing.T) {
		err := New().LoadManifestSource(ctx, []byte(`node "N" { colour = "red" }`), "bad.hcl")
		assert.ErrorIs(t, err, grapherr.ErrConfiguration)
	})

	t.Run("duplicate of a Go type", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterNode(ctx, sourceType("Source")))
		err := r.LoadManifestSource(ctx, []byte(`
library "Go" {
  node "Source" {
    output "value" { type = number }
  }
}
`), "dup.hcl")
		assert.ErrorIs(t, err, grapherr.ErrConfiguration)
		assert.Empty(t, r.Definitions().Libraries)
	})
}

type releasing struct {
	*node.Base
	released *int
}

func (r releasing) ReleaseData() { *r.released++ }

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("collects every problem", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity: nodetype.Identity{Library: "Bad", Name: "NoFactory"},
		}))
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity: nodetype.Identity{Library: "Bad", Name: "Nil"},
			New:      func() node.Node { return nil },
		}))
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity: nodetype.Identity{Library: "Bad", Name: "Constant"},
			New: func() node.Node {
				b := node.NewBase("Constant")
				b.MustAddInput("mode", node.NewInput(datatype.Of(cty.String), node.FlagNodeConstant))
				return b
			},
		}))
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity:      nodetype.Identity{Library: "Bad", Name: "Abstract"},
			HierarchyOnly: true,
		}))

		err := r.Validate(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, grapherr.ErrConfiguration)
		assert.Contains(t, err.Error(), "(Bad.NoFactory)")
		assert.Contains(t, err.Error(), "factory returned no node")
		assert.Contains(t, err.Error(), `node-constant input "mode" has no value`)
		assert.NotContains(t, err.Error(), "Abstract")
		assert.True(t, r.Types.Sealed())
	})

	t.Run("panicking factory is reported", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity: nodetype.Identity{Library: "Bad", Name: "Twice"},
			New: func() node.Node {
				b := node.NewBase("Twice")
				b.MustAddOutput("value", node.NewOutput(datatype.Of(cty.Number)))
				b.MustAddOutput("value", node.NewOutput(datatype.Of(cty.Number)))
				return b
			},
		}))

		err := r.Validate(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, grapherr.ErrConfiguration)
		assert.Contains(t, err.Error(), "factory panicked")
		assert.Contains(t, err.Error(), `duplicate output "value"`)
	})

	t.Run("releases probe nodes", func(t *testing.T) {
		r := New()
		released := 0
		require.NoError(t, r.RegisterNode(ctx, &nodetype.NodeType{
			Identity: nodetype.Identity{Library: "Go", Name: "Holder"},
			New:      func() node.Node { return releasing{Base: node.NewBase("Holder"), released: &released} },
		}))
		require.NoError(t, r.Validate(ctx))
		assert.Equal(t, 1, released)
	})

	t.Run("seal conflicts surface", func(t *testing.T) {
		r := New()
		require.NoError(t, r.RegisterNode(ctx, sourceType("Source")))
		t2 := sourceType("Other")
		t2.MappedNames = []string{"Source"}
		require.NoError(t, r.RegisterNode(ctx, t2))
		assert.ErrorIs(t, r.Validate(ctx), grapherr.ErrConfiguration)
	})
}
