// Package worker recomputes monthly reports in response to ledger events and
// exports them to a spreadsheet.
package worker

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/sheets"
)

// MonthlyReporter produces the monthly summary the worker exports. The
// report service satisfies it.
type MonthlyReporter interface {
	MonthlyReport(ctx context.Context, userID int64, year, month int) (core.MonthlyReport, error)
}

// ReportWorker consumes ledger events, recomputes the touched month's report
// and appends a row to the export sheet.
type ReportWorker struct {
	reports   MonthlyReporter
	writer    sheets.ReportWriter
	batchSize int
	offset    int
	logger    *log.Logger
}

// NewReportWorker wires the worker. batchSize caps how many users one
// periodic tick exports; zero or negative means no cap.
func NewReportWorker(reports MonthlyReporter, writer sheets.ReportWriter, batchSize int, logger *log.Logger) *ReportWorker {
	return &ReportWorker{
		reports:   reports,
		writer:    writer,
		batchSize: batchSize,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// HandleLedgerEvent recomputes the report for the month the transaction
// landed in and exports it. Both created and deleted events trigger the same
// recomputation.
func (w *ReportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldUserID, msg.UserID,
		log.FieldTransactionID, msg.TransactionID,
		"action", msg.Action,
		log.FieldYear, msg.Year,
		log.FieldMonth, msg.Month)

	report, err := w.reports.MonthlyReport(ctx, msg.UserID, msg.Year, msg.Month)
	if err != nil {
		return fmt.Errorf("recompute monthly report: %w", err)
	}

	if w.writer == nil {
		w.logger.WarnContext(ctx, "No report writer configured, skipping export",
			log.FieldUserID, msg.UserID)
		return nil
	}

	if err := w.writer.AppendReportRow(ctx, msg.UserID, report); err != nil {
		return fmt.Errorf("export report: %w", err)
	}

	return nil
}

// RunPeriodicExport exports the current month for each listed user on every
// tick until ctx is cancelled. It backstops events lost while the worker was
// down.
func (w *ReportWorker) RunPeriodicExport(ctx context.Context, interval time.Duration, userIDs func(context.Context) ([]int64, error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.exportCurrentMonth(ctx, userIDs); err != nil {
				w.logger.ErrorContext(ctx, "Periodic export failed", log.FieldError, err)
			}
		}
	}
}

func (w *ReportWorker) exportCurrentMonth(ctx context.Context, userIDs func(context.Context) ([]int64, error)) error {
	if w.writer == nil {
		return nil
	}

	ids, err := userIDs(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	// Each tick handles at most batchSize users, resuming where the
	// previous tick stopped.
	batch := ids
	if w.batchSize > 0 && len(ids) > w.batchSize {
		if w.offset >= len(ids) {
			w.offset = 0
		}
		end := w.offset + w.batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch = ids[w.offset:end]
		w.offset = end
	}

	now := time.Now().UTC()
	for _, id := range batch {
		report, err := w.reports.MonthlyReport(ctx, id, now.Year(), int(now.Month()))
		if err != nil {
			w.logger.ErrorContext(ctx, "Skipping user in periodic export",
				log.FieldUserID, id, log.FieldError, err)
			continue
		}
		if err := w.writer.AppendReportRow(ctx, id, report); err != nil {
			w.logger.ErrorContext(ctx, "Export failed for user",
				log.FieldUserID, id, log.FieldError, err)
		}
	}
	return nil
}
