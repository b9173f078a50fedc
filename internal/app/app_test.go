package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nodegraph/internal/catalog"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathManifest = `
library "Math" {
  category = "Arithmetic"

  node "Add" {
    input "a" { type = number }
    input "b" { type = number }
    output "result" { type = number }
  }
}
`

func writeManifest(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "math.hcl"), []byte(src), 0o644))
	return dir
}

func testConfig(modulesPath, format string) *Config {
	cfg := Defaults
	cfg.ModulesPath = modulesPath
	cfg.OutputFormat = format
	return &cfg
}

func TestRun_PrintsCatalog(t *testing.T) {
	dir := writeManifest(t, mathManifest)
	a, out, logs := SetupAppTest(t, testConfig(dir, catalog.FormatJSON))

	require.NoError(t, a.Run(context.Background()))

	var cat catalog.Catalog
	require.NoError(t, json.Unmarshal([]byte(out.String()), &cat))

	names := map[string]bool{}
	for _, e := range cat.Nodes {
		names[e.Library+"."+e.Name] = true
	}
	for _, want := range []string{"Math.Add", "Flow.Passthrough", "Debug.Print", "Env.Lookup", "system.Placeholder"} {
		assert.True(t, names[want], "missing %s", want)
	}
	assert.NotEmpty(t, cat.Conversions)
	assert.Contains(t, logs.String(), "Registry validation passed.")
}

func TestRun_MissingModulesPath(t *testing.T) {
	a, out, logs := SetupAppTest(t, testConfig(filepath.Join(t.TempDir(), "none"), catalog.FormatText))

	require.NoError(t, a.Run(context.Background()))
	assert.Contains(t, out.String(), "Flow.Passthrough")
	assert.Contains(t, logs.String(), "Modules path not found")
}

func TestRun_BadManifest(t *testing.T) {
	dir := writeManifest(t, `node "N" {`)
	a, _, _ := SetupAppTest(t, testConfig(dir, catalog.FormatText))

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, grapherr.ErrConfiguration)
}

func TestRun_DuplicateOfCoreModule(t *testing.T) {
	dir := writeManifest(t, `
library "Flow" {
  node "Passthrough" {
    output "out" { type = number }
  }
}
`)
	a, _, _ := SetupAppTest(t, testConfig(dir, catalog.FormatText))
	assert.ErrorIs(t, a.Run(context.Background()), grapherr.ErrConfiguration)
}

func TestRoutes(t *testing.T) {
	dir := writeManifest(t, mathManifest)
	a, _, _ := SetupAppTest(t, testConfig(dir, catalog.FormatText))
	a.ctx = context.Background()

	h := a.routes()
	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		return rec
	}

	assert.Equal(t, http.StatusServiceUnavailable, get("/catalog").Code)

	require.NoError(t, a.Load(context.Background()))

	rec := get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())

	rec = get("/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var cat catalog.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cat))
	assert.NotEmpty(t, cat.Nodes)

	rec = get("/catalog?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "library: Math")

	assert.Equal(t, http.StatusBadRequest, get("/catalog?format=xml").Code)

	rec = get("/catalog/Math")
	require.Equal(t, http.StatusOK, rec.Code)
	var math catalog.Catalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &math))
	require.Len(t, math.Nodes, 1)
	assert.Equal(t, "Add", math.Nodes[0].Name)
	assert.Empty(t, math.Conversions)

	assert.Equal(t, http.StatusNotFound, get("/catalog/Nope").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, func() int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
		return rec.Code
	}())
}

func TestRun_NoServerWithoutPort(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "none"), catalog.FormatText)
	cfg.HealthcheckPort = 0
	a, _, _ := SetupAppTest(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, a.Run(ctx))
	assert.Nil(t, a.httpServer)
}
