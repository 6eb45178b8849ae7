package sheets

import (
	"context"
	"fmt"
	"net/http"

	"employee-sync/core/utils"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// valueInputRaw stores cells exactly as sent, without formula or number parsing.
const valueInputRaw = "RAW"

// Client defines the spreadsheet operations the reconciler depends on.
type Client interface {
	// GetAllRows returns every row in the range, header row included.
	// Trailing empty cells and rows are omitted by the API.
	GetAllRows(ctx context.Context, readRange string) ([][]string, error)
	// OverwriteRange replaces the range with the grid and returns the number of cells updated.
	OverwriteRange(ctx context.Context, writeRange string, grid [][]string) (int64, error)
}

type sheetsClient struct {
	service       *gsheets.Service
	spreadsheetID string
}

// NewClient creates a Sheets client for the configured spreadsheet.
// The HTTP client must already carry credentials (see NewHTTPClient).
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client, opts ...option.ClientOption) (Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &sheetsClient{service: service, spreadsheetID: cfg.SpreadsheetID}, nil
}

// GetAllRows implements Client.GetAllRows.
func (c *sheetsClient) GetAllRows(ctx context.Context, readRange string) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", readRange, err)
	}

	grid := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = utils.ToString(v)
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// OverwriteRange implements Client.OverwriteRange.
func (c *sheetsClient) OverwriteRange(ctx context.Context, writeRange string, grid [][]string) (int64, error) {
	values := make([][]interface{}, len(grid))
	for i, row := range grid {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values[i] = cells
	}

	body := &gsheets.ValueRange{
		MajorDimension: "ROWS",
		Values:         values,
	}
	resp, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, body).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("failed to write range %s: %w", writeRange, err)
	}
	return resp.UpdatedCells, nil
}
