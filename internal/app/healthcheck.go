package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/specialistvlad/nodegraph/internal/catalog"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
)

// healthHandler answers liveness probes.
func (app *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// catalogHandler serves the loaded catalog, or one library of it when the
// route carries {library}. ?format= picks json (default), yaml or text.
func (app *App) catalogHandler(w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(app.ctx)
	if app.registry == nil {
		http.Error(w, "registry not loaded", http.StatusServiceUnavailable)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = catalog.FormatJSON
	}
	contentType := "application/json"
	switch format {
	case catalog.FormatYAML:
		contentType = "application/yaml"
	case catalog.FormatText:
		contentType = "text/plain; charset=utf-8"
	}

	cat := catalog.Build(app.registry.Types, app.registry.Conversions)
	if lib := chi.URLParam(r, "library"); lib != "" {
		var ok bool
		if cat, ok = cat.Library(lib); !ok {
			http.Error(w, fmt.Sprintf("library %q not found", lib), http.StatusNotFound)
			return
		}
	}
	w.Header().Set("Content-Type", contentType)
	if err := catalog.Encode(w, cat, format); err != nil {
		logger.Debug("Catalog request rejected.", "format", format, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", app.healthHandler)
	r.Get("/catalog", app.catalogHandler)
	r.Get("/catalog/{library}", app.catalogHandler)
	return r
}

// healthCheckServer initializes and runs the health check HTTP server.
func (app *App) healthCheckServer() {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Configuring health check server.")

	addr := fmt.Sprintf(":%d", app.config.HealthcheckPort)
	app.httpServer = &http.Server{
		Addr:              addr,
		Handler:           app.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("Health check server starting.", "address", fmt.Sprintf("http://localhost%s/health", addr))
		// ListenAndServe returns ErrServerClosed on graceful shutdown.
		if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health check server failed unexpectedly.", "error", err)
		}
	}()
}

func (app *App) closeHealthCheckServer() error {
	logger := ctxlog.FromContext(app.ctx)
	logger.Debug("Closing health check server...")

	if app.httpServer == nil {
		logger.Debug("Health check server was not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(app.ctx), 5*time.Second)
	defer cancel()

	logger.Info("Shutting down health check server...")
	if err := app.httpServer.Shutdown(ctx); err != nil {
		logger.Error("Health check server shutdown failed.", "error", err)
		return err
	}

	logger.Debug("Health check server shut down gracefully.")
	return nil
}
