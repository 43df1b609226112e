package sheets

import (
	"context"

	"dinamifin/internal/core"
)

// SummaryExporter pushes a user's materialized monthly summaries to an
// external spreadsheet.
type SummaryExporter interface {
	ExportSummaries(ctx context.Context, userID string, summaries []core.MonthlySummary) error
}
