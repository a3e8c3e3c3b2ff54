package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/reshape/internal/config"
	"github.com/JonMunkholm/reshape/internal/core"
	"github.com/JonMunkholm/reshape/internal/logging"
	"github.com/JonMunkholm/reshape/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"session_max_active", cfg.Session.MaxActive,
		"session_idle_timeout", cfg.Session.IdleTimeout,
		"input_shape_policy", cfg.Input.ShapePolicy,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	// Validate already rejected unknown policies.
	policy, _ := core.ParseShapePolicy(cfg.Input.ShapePolicy)

	service := core.NewService(core.ServiceOptions{
		MaxSessions: cfg.Session.MaxActive,
		IdleTimeout: cfg.Session.IdleTimeout,
		ShapePolicy: policy,
		Options: core.TextOptions{
			UseTab:      cfg.Output.UseTab,
			SingleLine:  cfg.Output.SingleLine,
			StartIndent: cfg.Output.StartIndent,
		},
	})

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	logSweep := func(closed int) {
		if closed == 0 {
			slog.Debug("session sweep found nothing idle")
			return
		}
		slog.Info("swept idle sessions",
			"sessions_closed", closed,
			"sessions_open", service.Count(),
		)
	}
	if err := service.StartSweeper(jobCtx, cfg.Session.SweepSchedule, server.OnSweep, logSweep); err != nil {
		slog.Error("failed to start session sweeper", "error", err)
		os.Exit(1)
	}
	slog.Info("session sweeper started",
		"schedule", cfg.Session.SweepSchedule,
		"idle_timeout", cfg.Session.IdleTimeout,
	)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...", "sessions_open", service.Count())

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
