package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	"expensetracker/internal/data"
	"expensetracker/internal/data/memory"
	"expensetracker/internal/data/rest"
	apphttp "expensetracker/internal/http"
	applog "expensetracker/internal/log"
	"expensetracker/internal/session"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, applog.ComponentApp)
	cli.MustValidate(logger.Logger, cfg)

	var (
		store data.Accessor
		ready func(context.Context) error
	)
	switch cfg.DataBackend {
	case "memory":
		store = memory.NewDemo()
		logger.Info("Initialized memory backend with demo data")
	default:
		client, err := rest.New(cfg.APIBaseURL,
			rest.WithTimeout(cfg.RemoteTimeout),
			rest.WithLogger(logger.WithComponent(applog.ComponentBackend).Logger))
		if err != nil {
			logger.Error("Failed to initialize data endpoint client", "error", err, "base_url", cfg.APIBaseURL)
			os.Exit(1)
		}
		store = client
		ready = func(ctx context.Context) error {
			_, err := client.ListUsers(ctx)
			return err
		}
		logger.Info("Using data endpoint", "base_url", cfg.APIBaseURL, "timeout", cfg.RemoteTimeout)
	}

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		ReportFontPath:     cfg.ReportFontPath,
		Logger:             logger,
		RemoteTimeout:      cfg.RemoteTimeout,
		Ready:              ready,
	}, store, session.New())
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting expense tracker", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
