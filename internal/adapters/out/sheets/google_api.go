package sheets

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/pkg/errs"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// GoogleRowAPI implements rowAPI against the Google Sheets v4 service.
// Tab titles are mapped to sheet IDs lazily and cached; the cache refreshes
// whenever a title is not found, so tabs created by other processes are
// picked up.
type GoogleRowAPI struct {
	service       *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewGoogleRowAPI creates the API wrapper for one spreadsheet, reading
// credentials from the JSON key file.
func NewGoogleRowAPI(ctx context.Context, spreadsheetID, credentialsFile string) (*GoogleRowAPI, error) {
	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &GoogleRowAPI{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// NewGoogleMirror creates a Mirror backed by the Google Sheets API.
func NewGoogleMirror(ctx context.Context, spreadsheetID, credentialsFile string) (*Mirror, error) {
	api, err := NewGoogleRowAPI(ctx, spreadsheetID, credentialsFile)
	if err != nil {
		return nil, err
	}
	return NewMirror(api), nil
}

// ListTabs returns the titles of all tabs, in sheet order.
func (g *GoogleRowAPI) ListTabs(ctx context.Context) ([]string, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	titles := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		titles = append(titles, sheet.Properties.Title)
		g.sheetIDs[sheet.Properties.Title] = sheet.Properties.SheetId
	}
	return titles, nil
}

// AddTab creates an empty tab with the given title.
func (g *GoogleRowAPI) AddTab(ctx context.Context, title string) error {
	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}

	response, err := g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, request).Context(ctx).Do()
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, reply := range response.Replies {
		if reply.AddSheet != nil {
			g.sheetIDs[title] = reply.AddSheet.Properties.SheetId
		}
	}
	return nil
}

// ReadColumn returns the first column of a tab, one value per row.
func (g *GoogleRowAPI) ReadColumn(ctx context.Context, tab string) ([]string, error) {
	values, err := g.service.Spreadsheets.Values.
		Get(g.spreadsheetID, fmt.Sprintf("%s!A:A", tab)).
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	column := make([]string, 0, len(values.Values))
	for _, row := range values.Values {
		if len(row) == 0 {
			column = append(column, "")
			continue
		}
		column = append(column, fmt.Sprint(row[0]))
	}
	return column, nil
}

// WriteRow overwrites the 1-based row of a tab with values.
func (g *GoogleRowAPI) WriteRow(ctx context.Context, tab string, row int, values []any) error {
	rangeName := fmt.Sprintf("%s!A%d:%s%d", tab, row, columnLetter(columnCount-1), row)
	_, err := g.service.Spreadsheets.Values.
		Update(g.spreadsheetID, rangeName, &sheets.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

// AppendRow adds values after the last non-empty row of a tab.
func (g *GoogleRowAPI) AppendRow(ctx context.Context, tab string, values []any) error {
	rangeName := fmt.Sprintf("%s!A:%s", tab, columnLetter(columnCount-1))
	_, err := g.service.Spreadsheets.Values.
		Append(g.spreadsheetID, rangeName, &sheets.ValueRange{Values: [][]any{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

// WriteCell overwrites a single cell; col is 0-based.
func (g *GoogleRowAPI) WriteCell(ctx context.Context, tab string, row, col int, value any) error {
	rangeName := fmt.Sprintf("%s!%s%d", tab, columnLetter(col), row)
	_, err := g.service.Spreadsheets.Values.
		Update(g.spreadsheetID, rangeName, &sheets.ValueRange{Values: [][]any{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	return err
}

// DeleteRow removes the 1-based row of a tab, shifting rows below up.
func (g *GoogleRowAPI) DeleteRow(ctx context.Context, tab string, row int) error {
	sheetID, err := g.sheetID(ctx, tab)
	if err != nil {
		return err
	}

	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}

	_, err = g.service.Spreadsheets.BatchUpdate(g.spreadsheetID, request).Context(ctx).Do()
	return err
}

func (g *GoogleRowAPI) sheetID(ctx context.Context, tab string) (int64, error) {
	g.mu.Lock()
	id, ok := g.sheetIDs[tab]
	g.mu.Unlock()
	if ok {
		return id, nil
	}

	// Cache miss; another process may have created the tab.
	if _, err := g.ListTabs(ctx); err != nil {
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	id, ok = g.sheetIDs[tab]
	if !ok {
		return 0, errs.NewObjectNotFoundError("sheetTab", tab)
	}
	return id, nil
}

// columnLetter converts a 0-based column index to its A1 letter. The
// mirror uses ten columns, so a single letter always suffices.
func columnLetter(col int) string {
	return string(rune('A' + col))
}
