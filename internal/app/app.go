package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/flowgrid/internal/catalog"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/inspector"
	"github.com/vk/flowgrid/internal/runtime"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: the kind catalog, the runtime, and the inspector server.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	catalog   *catalog.Catalog
	runtime   *runtime.Runtime
	inspector *inspector.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and catalog.
// When no modules are given the built-in kind library is registered.
func NewApp(outW io.Writer, cfg *Config, modules ...catalog.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat := catalog.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(cat)
	}
	logger.Debug("All kind modules registered.", "count", len(modules), "kinds", cat.Len())

	if cfg.ManifestsPath != "" {
		manifests, err := catalog.DiscoverManifests(ctx, cfg.ManifestsPath)
		if err != nil {
			// A failure to load manifests is a fatal startup error.
			panic(fmt.Errorf("failed to load kind manifests: %w", err))
		}
		if err := cat.Validate(ctx, manifests); err != nil {
			// Manifest/implementation mismatch is a programmer error.
			panic(err)
		}
		logger.Debug("Kind manifest validation passed.", "manifests", len(manifests))
	}

	rt := runtime.New(cat)
	return &App{
		outW:      outW,
		logger:    logger,
		catalog:   cat,
		runtime:   rt,
		inspector: inspector.NewServer(rt.Queue(), cat),
	}
}

// Runtime returns the application's runtime. This is primarily for testing.
func (a *App) Runtime() *runtime.Runtime {
	return a.runtime
}

// Catalog returns the application's kind catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Inspector returns the application's inspector server.
func (a *App) Inspector() *inspector.Server {
	return a.inspector
}
