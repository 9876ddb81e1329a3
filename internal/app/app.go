package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/voxview/internal/active"
	"github.com/specialistvlad/voxview/internal/broadcast"
	"github.com/specialistvlad/voxview/internal/config"
	"github.com/specialistvlad/voxview/internal/ctxlog"
	"github.com/specialistvlad/voxview/internal/headless"
	"github.com/specialistvlad/voxview/internal/manager"
	"github.com/specialistvlad/voxview/internal/metrics"
	"github.com/specialistvlad/voxview/internal/recentfiles"
	"github.com/specialistvlad/voxview/internal/registry"
	"github.com/specialistvlad/voxview/internal/statestore"
)

// App encapsulates one session: the proxy manager, the module registry, the
// scene graph and every store attached to it.
type App struct {
	outW   io.Writer
	ctx    context.Context
	logger *slog.Logger
	config *Config
	model  *config.Model

	providers []registry.Provider
	pm        *headless.Manager
	registry  *registry.Registry
	active    *active.Objects
	manager   *manager.Manager

	store       statestore.Store
	recent      *recentfiles.Store
	metrics     *metrics.Collector
	emitter     broadcast.Emitter
	broadcaster *broadcast.Broadcaster

	httpServer *http.Server
}

// Option customizes NewApp.
type Option func(*App)

// WithProviders replaces the compiled-in module variants.
func WithProviders(providers ...registry.Provider) Option {
	return func(a *App) { a.providers = providers }
}

// WithStateStore replaces the store selected by the configuration.
func WithStateStore(s statestore.Store) Option {
	return func(a *App) { a.store = s }
}

// WithEmitter broadcasts to e instead of dialing the configured endpoint.
func WithEmitter(e broadcast.Emitter) Option {
	return func(a *App) { a.emitter = e }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App with its own logger, registry and scene. Startup errors
// are programmer or configuration errors and panic.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cfgModel, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "readers", len(cfgModel.Readers), "default_modules", cfgModel.Session.DefaultModules)

	a := &App{
		outW:      outW,
		ctx:       ctx,
		logger:    logger,
		config:    appConfig,
		model:     cfgModel,
		providers: coreModules,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.registry = registry.New()
	for _, p := range a.providers {
		p.Register(a.registry)
	}
	logger.Debug("All module variants registered.", "types", a.registry.Types())

	if err := a.registry.ValidateRegistry(ctx, cfgModel.Session.DefaultModules...); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	a.pm = headless.New()
	a.active = active.New(a.pm)
	a.manager = manager.New(a.pm, a.registry, a.active)
	a.metrics = metrics.New(a.registry)
	a.manager.Subscribe(a.metrics)

	if a.store == nil {
		if a.store, err = openStateStore(ctx, cfgModel.StateStore); err != nil {
			panic(fmt.Errorf("failed to open state store: %w", err))
		}
	}
	logger.Debug("State store ready.", "driver", a.store.Driver())

	if a.recent, err = recentfiles.Open(ctx, cfgModel.RecentFiles.Path, cfgModel.RecentFiles.Limit); err != nil {
		panic(fmt.Errorf("failed to open recent files: %w", err))
	}

	if a.emitter == nil && cfgModel.Broadcast.URL != "" {
		em, err := broadcast.Dial(ctx, broadcast.Options{URL: cfgModel.Broadcast.URL, Namespace: cfgModel.Broadcast.Namespace})
		if err != nil {
			logger.Warn("Broadcast disabled.", "error", err)
		} else {
			a.emitter = em
		}
	}
	if a.emitter != nil {
		a.broadcaster = broadcast.New(a.emitter, a.registry)
		a.manager.Subscribe(a.broadcaster)
		a.active.Watch(a.broadcaster.SelectionChanged)
	}

	if err := a.ensureView(); err != nil {
		panic(fmt.Errorf("failed to create the default view: %w", err))
	}
	return a
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry { return a.registry }

// Manager returns the session's scene graph owner.
func (a *App) Manager() *manager.Manager { return a.manager }

// Active returns the session's selection.
func (a *App) Active() *active.Objects { return a.active }

// Store returns the state store.
func (a *App) Store() statestore.Store { return a.store }

// Recent returns the recent files list.
func (a *App) Recent() *recentfiles.Store { return a.recent }

// Metrics returns the session's Prometheus collector.
func (a *App) Metrics() *metrics.Collector { return a.metrics }

// Close releases the scene, the recent files database and the broadcast
// connection.
func (a *App) Close() error {
	errs := []error{a.manager.Reset()}
	if a.recent != nil {
		errs = append(errs, a.recent.Close())
	}
	if a.broadcaster != nil {
		errs = append(errs, a.broadcaster.Close())
	}
	return errors.Join(errs...)
}
