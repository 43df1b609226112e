// Package worker keeps the materialized monthly summaries fresh. It
// consumes record change messages from AMQP, recomputes the affected
// (user, period) rollup, and optionally exports the user's summaries to
// Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"dinamifin/internal/amqp"
	"dinamifin/internal/core"
	"dinamifin/internal/services"
	"dinamifin/internal/sheets"
)

type RefreshWorker struct {
	store    services.Store
	exporter sheets.SummaryExporter
}

// NewRefreshWorker creates a worker. The exporter may be nil, in which
// case summaries are refreshed but never exported.
func NewRefreshWorker(store services.Store, exporter sheets.SummaryExporter) *RefreshWorker {
	return &RefreshWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleChangeMessage processes one record change message: it recomputes
// the summary for the message's period and exports the user's summaries
// when an exporter is configured. An export failure does not fail the
// refresh; the summary is already persisted and the next change retries.
func (w *RefreshWorker) HandleChangeMessage(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	period := core.Period(msg.Period)
	if !period.Valid() {
		slog.WarnContext(ctx, "Dropping change message with malformed period",
			"user_id", msg.UserID,
			"period", msg.Period)
		return nil
	}

	slog.InfoContext(ctx, "Processing record change",
		"user_id", msg.UserID,
		"record_type", msg.RecordType,
		"period", msg.Period)

	if err := w.store.RefreshMonthlySummary(ctx, msg.UserID, period); err != nil {
		return fmt.Errorf("refresh summary for %s/%s: %w", msg.UserID, period, err)
	}

	if w.exporter == nil {
		return nil
	}

	summaries, err := w.store.SummariesForUser(ctx, msg.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load summaries for export",
			"user_id", msg.UserID,
			"error", err)
		return nil
	}

	if err := w.exporter.ExportSummaries(ctx, msg.UserID, summaries); err != nil {
		slog.ErrorContext(ctx, "Failed to export summaries",
			"user_id", msg.UserID,
			"error", err)
	}

	return nil
}

// RefreshWindow recomputes the summaries for every period in the trailing
// window. Used at startup to recover from missed change messages.
func (w *RefreshWorker) RefreshWindow(ctx context.Context, userID string, window core.Window, now time.Time) error {
	periods, err := window.Periods(now)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, period := range periods {
		if err := w.store.RefreshMonthlySummary(ctx, userID, period); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh summary",
				"user_id", userID,
				"period", period,
				"error", err)
			continue
		}
		refreshed++
	}

	slog.InfoContext(ctx, "Window refresh completed",
		"user_id", userID,
		"window", window,
		"refreshed", refreshed,
		"total", len(periods))

	return nil
}
