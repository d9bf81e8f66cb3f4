// Package internal provides the backend bootstrap: it wires the
// host-integration plugins, builds the command dispatch table, and runs the
// blocking bridge loop until process exit.
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

	"github.com/starford/dagaz/internal/bridge"
	"github.com/starford/dagaz/internal/commands"
	"github.com/starford/dagaz/internal/mcpserver"
	"github.com/starford/dagaz/internal/plugins"
	"github.com/starford/dagaz/internal/sse"
	"github.com/starford/dagaz/internal/watch"
)

const appName = "Dagaz"

// Run starts the backend with the given options and blocks until process
// exit. Any startup failure is returned to main, which terminates the
// process with a diagnostic; there is no recovery path.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	if app.stdio {
		// Stdout carries the stdio bridge protocol in MCP mode.
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: cfg.App.LogLevel,
		}))
	}
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("workspace_root", cfg.Workspace.Root),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Register host-integration plugins. They are exposed for the GUI
	// layer through the bridge; the commands below never call them.
	pluginReg := plugins.NewRegistry()
	for _, p := range []plugins.Plugin{
		plugins.NewNotifications(appName),
		plugins.NewDialogs(),
		plugins.NewShell(cfg.Shell.Allow),
	} {
		if err := pluginReg.Register(p); err != nil {
			return fmt.Errorf("register plugins: %w", err)
		}
		logger.Info("Plugin registered", slog.String("plugin", p.Name()))
	}

	// Build the command dispatch table: the complete set of externally
	// callable operations.
	reg := commands.NewRegistry()
	lister := commands.NewLister(int64(cfg.App.MaxListings))
	for _, cmd := range []commands.Command{
		commands.NewGreet(),
		commands.NewListFiles(lister),
	} {
		if err := reg.Register(cmd); err != nil {
			return fmt.Errorf("register commands: %w", err)
		}
		logger.Info("Command registered", slog.String("command", cmd.Name))
	}

	// MCP mode: the stdio serve loop is the blocking run loop.
	if app.stdio {
		logger.Info("Serving command bridge over stdio")
		return mcpserver.New(reg).ServeStdio()
	}

	// SSE broker for workspace change events.
	broker := sse.NewBroker()
	defer broker.Close()

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

	// Mount bridge routes under /api.
	r.Mount("/api", bridge.NewRouter(reg, pluginReg, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Bridge starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start the workspace watcher feeding SSE events to the shell.
	if cfg.Workspace.Watch && cfg.Workspace.Root != "" {
		g.Go(func() error {
			return watch.Watch(gCtx, cfg.Workspace.Root, logger, broker.PublishEntryEvent)
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP bridge", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP bridge error: %w", err)
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

		logger.Info("Shutting down bridge...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP bridge shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Bridge stopped successfully")
	return nil
}
