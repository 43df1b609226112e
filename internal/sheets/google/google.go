package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"dinamifin/internal/core"
	ports "dinamifin/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client exports monthly summaries to a Google Sheet using service
// account credentials.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.SummaryExporter = (*Client)(nil)

// Config holds what the client needs besides credentials.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

// NewClient creates a Sheets client from service account credentials,
// either inline JSON or a file path.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}

	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = "Summaries"
	}

	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created",
		"sheet", sheetName)

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// ExportSummaries appends one row per summary for the user. Amounts are
// written as decimal currency values.
func (c *Client) ExportSummaries(ctx context.Context, userID string, summaries []core.MonthlySummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(summaries) == 0 {
		return nil
	}

	values := make([][]any, 0, len(summaries))
	for _, s := range summaries {
		values = append(values, []any{
			userID,
			string(s.Period),
			s.Totals.Expenses.Dollars(),
			s.Totals.Savings.Dollars(),
			s.Totals.Investments.Dollars(),
			s.Totals.Income.Dollars(),
			s.UpdatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	rng := fmt.Sprintf("%s!A:G", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}

	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append summaries to sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Exported monthly summaries",
		"user_id", userID,
		"rows", len(values),
		"sheet", c.sheetName)

	return nil
}
