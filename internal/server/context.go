package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/calfewer/internal/availability"
	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/gateway"
	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/store"
)

// ServerContext holds the shared dependencies for the MCP server
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	store    store.Store
	engine   *availability.Engine
	gateway  *gateway.Gateway
	presets  filter.PresetConfig
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	mu       sync.RWMutex
	shutdown bool
}

// Options configures a ServerContext.
type Options struct {
	// Store is the rate-gated calendar store all tools share.
	Store store.Store
	// Presets configures which accounts count as personal for the
	// calendar filter presets. Zero value falls back to the defaults.
	Presets filter.PresetConfig
	Logger  *slog.Logger
	// Metrics may be nil when instrumentation is disabled.
	Metrics *instrumentation.Metrics
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	presets := opts.Presets
	if len(presets.PersonalAccounts) == 0 {
		presets = filter.DefaultPresetConfig()
	}

	return &ServerContext{
		ctx:     shutdownCtx,
		cancel:  cancel,
		store:   opts.Store,
		engine:  availability.NewEngine(opts.Store, logger),
		gateway: gateway.New(opts.Store, logger),
		presets: presets,
		logger:  logger,
		metrics: opts.Metrics,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Store returns the shared calendar store.
func (sc *ServerContext) Store() store.Store {
	return sc.store
}

// Engine returns the availability engine.
func (sc *ServerContext) Engine() *availability.Engine {
	return sc.engine
}

// Gateway returns the event mutation gateway.
func (sc *ServerContext) Gateway() *gateway.Gateway {
	return sc.gateway
}

// Presets returns the calendar filter preset configuration.
func (sc *ServerContext) Presets() filter.PresetConfig {
	return sc.presets
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
