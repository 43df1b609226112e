package main

import (
	"net/http"
	"os"
	"time"

	"dinamifin/internal/backend"
	"dinamifin/internal/cli"
	apphttp "dinamifin/internal/http"
	"dinamifin/internal/log"
	"dinamifin/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	result, err := backend.Build(cfg, logger)
	if err != nil {
		logger.Error("Failed to build data backend", log.FieldError, err.Error())
		os.Exit(1)
	}

	records := services.NewRecordService(result.Store, result.Events)
	loader := services.NewSnapshotLoader(result.Store)
	dashboards := services.NewDashboardService(loader)
	histories := services.NewHistoryService(result.Store)

	srv := apphttp.NewServer(":"+cfg.Port, records, dashboards, histories, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := cli.ShutdownContext(30 * time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err.Error())
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", log.FieldError, err.Error())
			}
		}
	})

	logger.Info("Starting dinamifin server",
		"port", cfg.Port,
		"backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
