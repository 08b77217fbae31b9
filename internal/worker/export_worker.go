// Package worker exports ledger entries to the external spreadsheet, driven
// by the change feed with a pending-scan backstop.
package worker

import (
	"context"
	"fmt"

	"budgeteer/internal/amqp"
	"budgeteer/internal/core"
	"budgeteer/internal/log"
	"budgeteer/internal/sheets"
	"budgeteer/internal/storage"
)

type ExportWorker struct {
	repo      *storage.SQLiteRepository
	writer    sheets.LedgerWriter
	logger    *log.Logger
	batchSize int
}

func NewExportWorker(repo *storage.SQLiteRepository, writer sheets.LedgerWriter, logger *log.Logger, batchSize int) *ExportWorker {
	return &ExportWorker{
		repo:      repo,
		writer:    writer,
		logger:    logger.WithComponent(log.ComponentWorker),
		batchSize: batchSize,
	}
}

// HandleChange processes a single change feed message. Only transaction
// creations are exported; everything else is acknowledged and skipped.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Entity != amqp.EntityTransaction || msg.Action != amqp.ActionCreate {
		w.logger.Debug("skipping change message", log.FieldEntity, msg.Entity, log.FieldAction, msg.Action)
		return nil
	}

	tx, err := w.repo.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("load transaction %d: %w", msg.ID, err)
	}

	return w.export(ctx, tx)
}

// ProcessPending exports entries still marked pending, recovering from lost
// feed messages or worker downtime.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.repo.ListPendingExportTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending exports", "count", len(pending))

	for _, p := range pending {
		tx, err := w.repo.GetTransaction(ctx, p.ID)
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to load pending transaction", log.FieldID, p.ID, log.FieldError, err)
			if markErr := w.repo.MarkExportError(ctx, p.ID); markErr != nil {
				w.logger.ErrorContext(ctx, "failed to mark export error", log.FieldID, p.ID, log.FieldError, markErr)
			}
			continue
		}
		if err := w.export(ctx, tx); err != nil {
			w.logger.ErrorContext(ctx, "failed to export transaction", log.FieldID, p.ID, log.FieldError, err)
			continue
		}
	}

	return nil
}

// StartupCheck drains a larger pending batch once at worker start.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.repo.ListPendingExportTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "no pending exports on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "found pending exports on startup", "count", len(pending))

	exported, failed := 0, 0
	for _, p := range pending {
		tx, err := w.repo.GetTransaction(ctx, p.ID)
		if err != nil {
			w.logger.ErrorContext(ctx, "failed to load transaction on startup", log.FieldID, p.ID, log.FieldError, err)
			failed++
			continue
		}
		if err := w.export(ctx, tx); err != nil {
			w.logger.ErrorContext(ctx, "failed to export on startup", log.FieldID, p.ID, log.FieldError, err)
			failed++
			continue
		}
		exported++
	}

	w.logger.InfoContext(ctx, "startup export completed",
		"total", len(pending), "exported", exported, "errors", failed)
	return nil
}

func (w *ExportWorker) export(ctx context.Context, tx core.Transaction) error {
	ref, err := w.writer.Append(ctx, tx)
	if err != nil {
		if markErr := w.repo.MarkExportError(ctx, tx.ID); markErr != nil {
			w.logger.ErrorContext(ctx, "failed to mark export error", log.FieldID, tx.ID, log.FieldError, markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	// The row is written; a failed status update is logged, not fatal.
	if err := w.repo.MarkExported(ctx, tx.ID); err != nil {
		w.logger.ErrorContext(ctx, "failed to mark exported", log.FieldID, tx.ID, log.FieldError, err)
	}

	w.logger.InfoContext(ctx, "transaction exported",
		log.FieldID, tx.ID, "sheet_ref", ref, log.FieldAmountCents, tx.Amount.Cents)
	return nil
}
