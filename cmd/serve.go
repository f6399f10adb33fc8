package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/teemow/calfewer/internal/filter"
	"github.com/teemow/calfewer/internal/instrumentation"
	"github.com/teemow/calfewer/internal/logging"
	"github.com/teemow/calfewer/internal/rpc"
	"github.com/teemow/calfewer/internal/server"
	"github.com/teemow/calfewer/internal/store"
	"github.com/teemow/calfewer/internal/tools/calendar_tools"
)

// serveConfig collects the flag values of the serve command.
type serveConfig struct {
	Debug            bool
	StoreBackend     string
	DBPath           string
	SeedFile         string
	MinSpacing       time.Duration
	PersonalAccounts []string
	MetricsEnabled   bool
	MetricsAddr      string
}

func newServeCmd() *cobra.Command {
	var cfg serveConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server on stdin/stdout.

The server exposes calendar availability tools for AI assistants:
conflict checks, free-slot search, event listing, calendar listing,
and event creation, modification, and deletion.

Store backends:
  memory  Ephemeral in-process store, optionally seeded from a JSON
          fixture via --seed. Useful for development and testing.
  sqlite  Single-file store at --db-path that survives restarts.

Logs go to stderr; stdout carries only protocol frames.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cfg)
		},
	}

	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging on stderr")
	cmd.Flags().StringVar(&cfg.StoreBackend, "store", "memory", "Store backend: memory or sqlite")
	cmd.Flags().StringVar(&cfg.DBPath, "db-path", defaultDBPath(), "Database file for the sqlite backend")
	cmd.Flags().StringVar(&cfg.SeedFile, "seed", "", "JSON fixture to load into the memory backend")
	cmd.Flags().DurationVar(&cfg.MinSpacing, "min-spacing", store.DefaultMinSpacing, "Minimum spacing between store operations")
	cmd.Flags().StringSliceVar(&cfg.PersonalAccounts, "personal-accounts", nil, "Account names the personal calendar preset includes")
	cmd.Flags().BoolVar(&cfg.MetricsEnabled, "metrics-enabled", false, "Serve Prometheus metrics on a dedicated port")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address")

	return cmd
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "calfewer.db"
	}
	return home + "/.calfewer/calfewer.db"
}

func runServe(cfg serveConfig) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// stdout is reserved for protocol frames.
	logger := logging.NewLogger(cfg.Debug)

	backing, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown", logging.Err(err))
		}
	}()

	serverContext := server.NewServerContext(shutdownCtx, server.Options{
		Store: store.NewInstrumented(
			store.NewGated(backing, cfg.MinSpacing),
			provider.Metrics(),
		),
		Presets: filter.PresetConfig{PersonalAccounts: cfg.PersonalAccounts},
		Logger:  logger,
		Metrics: provider.Metrics(),
	})
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown", logging.Err(err))
		}
	}()

	if cfg.MetricsEnabled && provider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.MetricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
			Health:                  server.NewHealthChecker(serverContext),
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server", logging.Err(err))
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", logging.Err(err))
			}
		}()
		logger.Info("metrics server listening", "addr", metricsServer.Addr())
	}

	audit := instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)
	registry := calendar_tools.NewRegistry(serverContext, audit)
	dispatcher := rpc.NewDispatcher(registry, mcp.Implementation{
		Name:    "calfewer",
		Version: version,
	}, logger, provider.Metrics())

	logger.Info("serving on stdio", "version", version, "store", cfg.StoreBackend)
	return rpc.NewServer(dispatcher, logger).Serve(shutdownCtx, os.Stdin, os.Stdout)
}

// openStore builds the configured store backend and returns it with its
// cleanup function.
func openStore(cfg serveConfig) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		mem := store.NewMemory()
		if cfg.SeedFile != "" {
			if err := mem.LoadSeedFile(cfg.SeedFile); err != nil {
				return nil, nil, fmt.Errorf("failed to seed store: %w", err)
			}
		}
		return mem, func() {}, nil
	case "sqlite":
		if cfg.SeedFile != "" {
			return nil, nil, fmt.Errorf("--seed is only supported with the memory backend")
		}
		db := store.NewSQLite(cfg.DBPath)
		if err := db.Open(); err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend: %s (supported: memory, sqlite)", cfg.StoreBackend)
	}
}
