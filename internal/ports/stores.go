package ports

import "context"

// SheetStore is the backing-store abstraction the sync engine operates
// against. The production implementation talks to Google Sheets; tests use an
// in-memory sheet. All row and column indices are 1-based to match
// spreadsheet addressing.
type SheetStore interface {
	// HeaderRow returns row 1 of the named tab, empty when the tab is blank.
	HeaderRow(ctx context.Context, sheet string) ([]string, error)
	// Rows returns all rows of the tab starting at firstRow, in order.
	Rows(ctx context.Context, sheet string, firstRow int) ([][]string, error)
	// AppendRow appends a row after the last non-empty row and returns the
	// sheet row number it landed on.
	AppendRow(ctx context.Context, sheet string, row []string) (int, error)
	// WriteRange overwrites len(values) cells on one row starting at
	// firstColumn. Cells outside the range are untouched.
	WriteRange(ctx context.Context, sheet string, row, firstColumn int, values []string) error
	// AppendAudit appends an entry to the audit tab.
	AppendAudit(ctx context.Context, sheet string, entry []string) error
	// Ping verifies the store is reachable with the configured credentials.
	Ping(ctx context.Context) error
	// Describe returns the spreadsheet title and its tab names.
	Describe(ctx context.Context) (SheetInfo, error)
}

// SheetInfo describes the backing spreadsheet.
type SheetInfo struct {
	Title string   `json:"title"`
	Tabs  []string `json:"tabs"`
}
