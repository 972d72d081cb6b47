// Package sheets defines the outbound ports for spreadsheet export.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

// ReportWriter exports a user's monthly summary to an external spreadsheet.
type ReportWriter interface {
	AppendReportRow(ctx context.Context, userID int64, report core.MonthlyReport) error
}
