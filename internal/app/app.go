package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/specialistvlad/nodegraph/internal/catalog"
	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	modules    []registry.Module
	registry   *registry.Registry
	ctx        context.Context
	httpServer *http.Server
}

// NewApp is the constructor for the main application. Catalog output goes
// to outW and log records to logW. Without modules, the core modules are
// registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")
	if len(modules) == 0 {
		modules = coreModules
	}
	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		modules: modules,
	}
}

// Registry returns the registry built by Load. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Load registers the modules, loads the manifests and validates the result.
func (a *App) Load(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	reg := registry.New()

	if err := reg.RegisterModules(ctx, a.modules...); err != nil {
		return err
	}
	a.logger.Debug("All Go modules registered.", "count", len(a.modules))

	if _, err := os.Stat(a.config.ModulesPath); err == nil {
		if err := reg.LoadManifests(ctx, a.config.ModulesPath); err != nil {
			return err
		}
	} else if os.IsNotExist(err) {
		a.logger.Warn("Modules path not found, only compiled modules are available.", "path", a.config.ModulesPath)
	} else {
		return fmt.Errorf("checking modules path: %w", err)
	}

	if err := reg.Validate(ctx); err != nil {
		return err
	}
	a.logger.Debug("Registry validation passed.")
	a.registry = reg
	return nil
}

// Run loads the registry and prints its catalog. With a health check port
// set it then serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if err := a.Load(a.ctx); err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	cat := catalog.Build(a.registry.Types, a.registry.Conversions)
	if err := catalog.Encode(a.outW, cat, a.config.OutputFormat); err != nil {
		return fmt.Errorf("failed to print catalog: %w", err)
	}
	a.logger.Info("Catalog printed.", "node_types", len(cat.Nodes), "conversions", len(cat.Conversions))

	if a.config.HealthcheckPort > 0 {
		a.healthCheckServer()
		<-a.ctx.Done()
		return a.closeHealthCheckServer()
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
