// budgeteer-worker exports ledger entries to the external spreadsheet. It
// consumes the change feed and periodically sweeps entries still pending.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"budgeteer/internal/amqp"
	"budgeteer/internal/config"
	"budgeteer/internal/log"
	"budgeteer/internal/sheets"
	gsheet "budgeteer/internal/sheets/google"
	"budgeteer/internal/sheets/memory"
	"budgeteer/internal/storage"
	"budgeteer/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{Component: log.ComponentWorker})
	log.SetDefault(logger)

	logger.Info("starting budgeteer-worker")

	cfg := config.Load()
	// The worker has no HTTP surface and no interactive identity.
	cfg.GuestMode = true
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to initialize repository", log.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var writer sheets.LedgerWriter
	if cfg.SheetsSpreadsheetID != "" {
		client, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("failed to initialize sheets client", log.FieldError, err)
			os.Exit(1)
		}
		writer = client
		logger.Info("sheets client initialized", "spreadsheet_id", cfg.SheetsSpreadsheetID)
	} else {
		writer = memory.NewWriter()
		logger.Warn("no GOOGLE_SPREADSHEET_ID set, exporting to in-memory writer")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exportWorker := worker.NewExportWorker(repo, writer, logger, cfg.ExportBatchSize)

	if err := exportWorker.StartupCheck(ctx); err != nil {
		logger.Error("startup export check failed", log.FieldError, err)
	}

	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Error("failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()

		go func() {
			err := client.ConsumeChangesWithRetry(ctx, func(msg *amqp.ChangeMessage) error {
				return exportWorker.HandleChange(ctx, msg)
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("change feed consumption failed", log.FieldError, err)
				stop()
			}
		}()
	} else {
		logger.Info("no AMQP URL set, relying on periodic pending sweep only")
	}

	ticker := time.NewTicker(cfg.ExportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("budgeteer-worker shutting down")
			return
		case <-ticker.C:
			if err := exportWorker.ProcessPending(ctx); err != nil {
				logger.Error("pending export sweep failed", log.FieldError, err)
			}
		}
	}
}
