package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinamifin/internal/amqp"
	"dinamifin/internal/cli"
	"dinamifin/internal/core"
	"dinamifin/internal/log"
	"dinamifin/internal/sheets"
	gsheet "dinamifin/internal/sheets/google"
	"dinamifin/internal/storage"
	"dinamifin/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting dinamifin-worker")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err.Error(),
			"path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Sheets export is optional
	var exporter sheets.SummaryExporter
	if cfg.SheetsExportEnabled() {
		client, err := gsheet.NewClient(context.Background(), gsheet.Config{
			SpreadsheetID:   cfg.GoogleSpreadsheetID,
			SheetName:       cfg.GoogleSheetName,
			CredentialsFile: cfg.GoogleCredentialsFile,
			CredentialsJSON: cfg.GoogleCredentialsJSON,
		})
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err.Error())
			os.Exit(1)
		}
		exporter = client
		logger.Info("Google Sheets export enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled, no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err.Error())
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refreshWorker := worker.NewRefreshWorker(repo, exporter)

	go func() {
		handler := func(msg *amqp.RecordChangeMessage) error {
			return refreshWorker.HandleChangeMessage(ctx, msg)
		}
		if err := amqpClient.ConsumeRecordChanges(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", log.FieldError, err.Error())
			}
			cancel()
		}
	}()

	// Periodic recovery pass catches summaries whose change messages were
	// lost while the worker was down.
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				users, err := repo.ActiveUsers(ctx, cfg.RefreshBatchSize)
				if err != nil {
					logger.Error("Failed to list active users", log.FieldError, err.Error())
					continue
				}
				for _, userID := range users {
					if err := refreshWorker.RefreshWindow(ctx, userID, core.Window1Month, time.Now()); err != nil {
						logger.Error("Periodic refresh failed",
							log.FieldUserID, userID,
							log.FieldError, err.Error())
					}
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := cli.ShutdownContext(30 * time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
