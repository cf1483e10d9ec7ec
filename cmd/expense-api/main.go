package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"expensetracker/internal/api"
	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/config"
	applog "expensetracker/internal/log"
	"expensetracker/internal/seed"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.LoadAPI()
	logger := cli.SetupLogger(cfg.LogLevel, cfg.LogFormat, applog.ComponentAPI)
	cli.MustValidate(logger.Logger, cfg)

	storeCfg, err := backend.FromAPIConfig(cfg)
	if err != nil {
		logger.Error("Invalid store configuration", "error", err)
		os.Exit(1)
	}

	startupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	res, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).CreateStore(startupCtx, storeCfg)
	if err != nil {
		cancel()
		logger.Error("Failed to initialize store", "error", err, "store", cfg.Store)
		os.Exit(1)
	}

	err = seed.Run(startupCtx, res.Store, seed.Options{
		Demo:         cfg.SeedDemo,
		FakeExpenses: cfg.SeedFakeExpenses,
	}, logger.WithComponent(applog.ComponentSeed).Logger)
	cancel()
	if err != nil {
		logger.Error("Failed to seed store", "error", err)
		_ = res.Cleanup()
		os.Exit(1)
	}

	srv := api.NewServer(api.Options{
		Addr:           ":" + cfg.Port,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	}, res.Store)

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := res.Cleanup(); err != nil {
			logger.Error("Store cleanup error", "error", err)
		}
	})

	logger.Info("Starting data endpoint", "port", cfg.Port, "store", cfg.Store, "amqp_enabled", cfg.AMQPURL != "")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Data endpoint stopped gracefully")
}
