package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
)

type fakeReporter struct {
	report core.MonthlyReport
	err    error
	calls  int
}

func (f *fakeReporter) MonthlyReport(_ context.Context, userID int64, year, month int) (core.MonthlyReport, error) {
	f.calls++
	if f.err != nil {
		return core.MonthlyReport{}, f.err
	}
	r := f.report
	r.Year = year
	r.Month = month
	return r, nil
}

type fakeWriter struct {
	rows []core.MonthlyReport
	err  error
}

func (f *fakeWriter) AppendReportRow(_ context.Context, _ int64, report core.MonthlyReport) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, report)
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestHandleLedgerEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes and exports", func(t *testing.T) {
		reporter := &fakeReporter{report: core.MonthlyReport{
			Summary: core.Summary{Income: core.Money{Cents: 100000}},
		}}
		writer := &fakeWriter{}
		w := NewReportWorker(reporter, writer, 0, testLogger())

		msg := amqp.NewLedgerEventMessage(1, 42, amqp.ActionCreated, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
		if err := w.HandleLedgerEvent(ctx, msg); err != nil {
			t.Fatalf("HandleLedgerEvent() error = %v", err)
		}

		if len(writer.rows) != 1 {
			t.Fatalf("exported %d rows, want 1", len(writer.rows))
		}
		if writer.rows[0].Year != 2025 || writer.rows[0].Month != 3 {
			t.Errorf("exported period = %d-%d, want 2025-3", writer.rows[0].Year, writer.rows[0].Month)
		}
	})

	t.Run("report error propagates for requeue", func(t *testing.T) {
		reporter := &fakeReporter{err: errors.New("storage down")}
		w := NewReportWorker(reporter, &fakeWriter{}, 0, testLogger())

		msg := amqp.NewLedgerEventMessage(1, 42, amqp.ActionDeleted, time.Now())
		if err := w.HandleLedgerEvent(ctx, msg); err == nil {
			t.Error("expected error when report recompute fails")
		}
	})

	t.Run("writer error propagates", func(t *testing.T) {
		w := NewReportWorker(&fakeReporter{}, &fakeWriter{err: errors.New("quota")}, 0, testLogger())

		msg := amqp.NewLedgerEventMessage(1, 42, amqp.ActionCreated, time.Now())
		if err := w.HandleLedgerEvent(ctx, msg); err == nil {
			t.Error("expected error when export fails")
		}
	})

	t.Run("nil writer skips export", func(t *testing.T) {
		reporter := &fakeReporter{}
		w := NewReportWorker(reporter, nil, 0, testLogger())

		msg := amqp.NewLedgerEventMessage(1, 42, amqp.ActionCreated, time.Now())
		if err := w.HandleLedgerEvent(ctx, msg); err != nil {
			t.Fatalf("HandleLedgerEvent() error = %v", err)
		}
		if reporter.calls != 1 {
			t.Errorf("reporter called %d times, want 1", reporter.calls)
		}
	})
}

func TestExportBatching(t *testing.T) {
	ctx := context.Background()
	reporter := &fakeReporter{}
	writer := &fakeWriter{}
	w := NewReportWorker(reporter, writer, 2, testLogger())

	users := func(context.Context) ([]int64, error) {
		return []int64{1, 2, 3}, nil
	}

	// First tick covers the first two users, the second the remainder.
	if err := w.exportCurrentMonth(ctx, users); err != nil {
		t.Fatalf("exportCurrentMonth() error = %v", err)
	}
	if len(writer.rows) != 2 {
		t.Fatalf("first tick exported %d rows, want 2", len(writer.rows))
	}
	if err := w.exportCurrentMonth(ctx, users); err != nil {
		t.Fatalf("exportCurrentMonth() error = %v", err)
	}
	if len(writer.rows) != 3 {
		t.Fatalf("second tick exported %d rows total, want 3", len(writer.rows))
	}

	// Third tick wraps back to the start.
	if err := w.exportCurrentMonth(ctx, users); err != nil {
		t.Fatalf("exportCurrentMonth() error = %v", err)
	}
	if len(writer.rows) != 5 {
		t.Errorf("third tick exported %d rows total, want 5", len(writer.rows))
	}
}

func TestRunPeriodicExport(t *testing.T) {
	reporter := &fakeReporter{}
	writer := &fakeWriter{}
	w := NewReportWorker(reporter, writer, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.RunPeriodicExport(ctx, 10*time.Millisecond, func(context.Context) ([]int64, error) {
			return []int64{1, 2}, nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("RunPeriodicExport() error = %v, want context.Canceled", err)
	}
	if len(writer.rows) < 2 {
		t.Errorf("exported %d rows, want at least one tick for both users", len(writer.rows))
	}
}
