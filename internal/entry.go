// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/nordlund/linkwise/internal/api"
	"github.com/nordlund/linkwise/internal/index"
	"github.com/nordlund/linkwise/internal/mcpserver"
	"github.com/nordlund/linkwise/internal/noteservice"
	"github.com/nordlund/linkwise/internal/rewrite"
	"github.com/nordlund/linkwise/internal/settings"
	"github.com/nordlund/linkwise/internal/sse"
	"github.com/nordlund/linkwise/internal/storage"
)

// components holds the shared application wiring built from a Config.
type components struct {
	store    storage.Provider
	db       *index.DB
	settings *settings.Store
	rewriter *rewrite.Rewriter
	logger   *slog.Logger
}

// buildComponents initialises logging, storage, index, settings, and the
// rewriter, and runs the initial vault sync. The caller owns db.Close.
func buildComponents(cfg *Config) (*components, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	st, err := settings.Load(cfg.Settings.Path)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}

	return &components{
		store:    store,
		db:       db,
		settings: st,
		rewriter: rewrite.New(store, db, st, logger),
		logger:   logger,
	}, nil
}

// Run starts the full application (HTTP API, SSE, vault watcher) with the
// given options and blocks until shutdown.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer c.db.Close()
	logger := c.logger

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("settings_path", cfg.Settings.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	// Build API service and router.
	svc := noteservice.NewService(c.store, c.db)
	apiRouter := api.NewRouter(svc, c.rewriter, c.settings, broker,
		cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher. Every created or updated note gets a rewrite pass;
	// a pass that changes nothing does not write, so the event chain settles
	// after at most one extra cycle.
	g.Go(func() error {
		return index.Watch(gCtx, c.db, c.store, cfg.Vault.Path, logger, func(kind, path string) {
			broker.PublishDocEvent(kind, path)
			if kind != "created" && kind != "updated" {
				return
			}
			changed, rwErr := c.rewriter.Document(path)
			if rwErr != nil {
				logger.Warn("rewrite on change failed",
					slog.String("path", path),
					slog.String("error", rwErr.Error()))
				return
			}
			if changed {
				broker.PublishDocEvent("rewritten", path)
			}
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RewriteOnce runs a single rewrite pass and exits: over one note when path
// is non-empty, otherwise over the whole vault. Used by the CLI.
func RewriteOnce(_ context.Context, cfg *Config, path string) error {
	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer c.db.Close()

	if path != "" {
		changed, err := c.rewriter.Document(path)
		if err != nil {
			return fmt.Errorf("rewrite %s: %w", path, err)
		}
		c.logger.Info("rewrite finished",
			slog.String("path", path),
			slog.Bool("changed", changed))
		return nil
	}

	changed, err := c.rewriter.All()
	if err != nil {
		return fmt.Errorf("rewrite vault: %w", err)
	}
	c.logger.Info("rewrite finished", slog.Int("changed", len(changed)))
	return nil
}

// ServeMCP runs the MCP stdio server until the client disconnects.
func ServeMCP(_ context.Context, cfg *Config) error {
	c, err := buildComponents(cfg)
	if err != nil {
		return err
	}
	defer c.db.Close()

	srv := mcpserver.New(c.store, c.db, c.rewriter, c.settings)
	c.logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}
