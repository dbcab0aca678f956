package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/specialistvlad/flowrecon/internal/catalog"
	"github.com/specialistvlad/flowrecon/internal/clock"
	"github.com/specialistvlad/flowrecon/internal/config"
	"github.com/specialistvlad/flowrecon/internal/ctxlog"
	"github.com/specialistvlad/flowrecon/internal/metrics"
)

type Option func(*App)

// WithClock replaces the wall clock used by stepwise simulations.
func WithClock(c clock.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithRegistry makes the app register its collectors on reg instead of a
// private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) { a.registry = reg }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx    context.Context
	logger *slog.Logger
	config *Config

	// outMu serialises report writes; stepwise progress arrives from timer
	// goroutines.
	outMu sync.Mutex
	outW  io.Writer

	catalog  *catalog.Catalog
	registry *prometheus.Registry
	metrics  *metrics.Recorder
	clock    clock.Clock

	httpServer *http.Server
}

// NewApp builds the catalog from the built-in examples plus cfg.CatalogPaths
// and prepares the metrics registry. Reports go to outW, log records to logW.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		ctx:    ctx,
		logger: logger,
		config: cfg,
		outW:   outW,
		clock:  clock.Real(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	a.metrics = metrics.New(a.registry)

	cat, err := catalog.Load(ctx, loader, cfg.CatalogPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	a.catalog = cat
	logger.Debug("Catalog loaded.", "examples", len(cat.List()), "extra_paths", cfg.CatalogPaths)

	return a, nil
}

// Catalog returns the loaded examples.
func (a *App) Catalog() *catalog.Catalog { return a.catalog }

// Registry returns the metrics registry. This is primarily for testing.
func (a *App) Registry() *prometheus.Registry { return a.registry }

// Start brings up the metrics server if an address is configured.
func (a *App) Start() error {
	return a.startMetricsServer()
}

// Close shuts the metrics server down.
func (a *App) Close() error {
	return a.closeMetricsServer()
}
