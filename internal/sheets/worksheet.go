package sheets

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/teemow/sheettodo/internal/instrumentation"
)

// Worksheet is one tab of the spreadsheet. It is safe for concurrent use.
type Worksheet struct {
	client    *Client
	wantTitle string

	mu       sync.Mutex
	resolved bool
	title    string
	sheetID  int64
}

// Title returns the resolved worksheet title.
func (w *Worksheet) Title(ctx context.Context) (string, error) {
	if err := w.resolve(ctx); err != nil {
		return "", err
	}
	return w.title, nil
}

// Ping checks that the spreadsheet is reachable and the worksheet exists.
func (w *Worksheet) Ping(ctx context.Context) error {
	return w.resolve(ctx)
}

// resolve looks up the worksheet title and numeric sheet id once. Failures
// are not cached.
func (w *Worksheet) resolve(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.resolved {
		return nil
	}

	var props *sheetsapi.SheetProperties
	err := w.client.call(ctx, instrumentation.OperationMetadata, func(ctx context.Context) error {
		ss, err := w.client.svc.Spreadsheets.Get(w.client.spreadsheetID).
			Fields("sheets.properties(sheetId,title)").
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		props = findSheet(ss.Sheets, w.wantTitle)
		if props == nil {
			if w.wantTitle == "" {
				return fmt.Errorf("%w: spreadsheet has no worksheets", ErrWorksheetNotFound)
			}
			return fmt.Errorf("%w: %q", ErrWorksheetNotFound, w.wantTitle)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.title = props.Title
	w.sheetID = props.SheetId
	w.resolved = true
	return nil
}

func findSheet(sheets []*sheetsapi.Sheet, title string) *sheetsapi.SheetProperties {
	for _, s := range sheets {
		if s == nil || s.Properties == nil {
			continue
		}
		if title == "" || s.Properties.Title == title {
			return s.Properties
		}
	}
	return nil
}

// Records returns every data row as a header -> cell map, in sheet order.
// Record i lives in sheet row i+2. Blank rows inside the table are returned
// as records with empty values so that positions stay aligned.
func (w *Worksheet) Records(ctx context.Context) ([]map[string]string, error) {
	if err := w.resolve(ctx); err != nil {
		return nil, err
	}

	var values [][]interface{}
	err := w.client.call(ctx, instrumentation.OperationRead, func(ctx context.Context) error {
		resp, err := w.client.svc.Spreadsheets.Values.Get(w.client.spreadsheetID, quoteTitle(w.title)).
			ValueRenderOption(valueRenderFormatted).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toRecords(values), nil
}

func toRecords(values [][]interface{}) []map[string]string {
	if len(values) == 0 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = cellString(v)
	}

	records := make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		rec := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(row) {
				rec[name] = cellString(row[i])
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records
}

func cellString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// AppendRow appends a row after the last non-empty row of the table.
func (w *Worksheet) AppendRow(ctx context.Context, values []string) error {
	if err := w.resolve(ctx); err != nil {
		return err
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toRow(values)}}
	return w.client.call(ctx, instrumentation.OperationAppend, func(ctx context.Context) error {
		_, err := w.client.svc.Spreadsheets.Values.Append(w.client.spreadsheetID, quoteTitle(w.title), vr).
			ValueInputOption(valueInputRaw).
			InsertDataOption(insertRows).
			Context(ctx).
			Do()
		return err
	})
}

// UpdateRow overwrites the cells of row starting at column A.
func (w *Worksheet) UpdateRow(ctx context.Context, row int, values []string) error {
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}
	if len(values) == 0 {
		return nil
	}
	if err := w.resolve(ctx); err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", quoteTitle(w.title), row, columnName(len(values)), row)
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toRow(values)}}
	return w.client.call(ctx, instrumentation.OperationUpdate, func(ctx context.Context) error {
		_, err := w.client.svc.Spreadsheets.Values.Update(w.client.spreadsheetID, rng, vr).
			ValueInputOption(valueInputRaw).
			Context(ctx).
			Do()
		return err
	}, attribute.Int(instrumentation.SpanAttrRow, row))
}

// UpdateCell overwrites a single cell addressed by 1-based row and column.
func (w *Worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell (%d, %d)", row, col)
	}
	if err := w.resolve(ctx); err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!%s%d", quoteTitle(w.title), columnName(col), row)
	vr := &sheetsapi.ValueRange{Values: [][]interface{}{{value}}}
	return w.client.call(ctx, instrumentation.OperationUpdate, func(ctx context.Context) error {
		_, err := w.client.svc.Spreadsheets.Values.Update(w.client.spreadsheetID, rng, vr).
			ValueInputOption(valueInputRaw).
			Context(ctx).
			Do()
		return err
	}, attribute.Int(instrumentation.SpanAttrRow, row))
}

// DeleteRow removes row, shifting the rows below it up by one.
func (w *Worksheet) DeleteRow(ctx context.Context, row int) error {
	if row < 1 {
		return fmt.Errorf("invalid row %d", row)
	}
	if err := w.resolve(ctx); err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:         w.sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(row - 1),
					EndIndex:        int64(row),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
			},
		}},
	}
	return w.client.call(ctx, instrumentation.OperationDelete, func(ctx context.Context) error {
		_, err := w.client.svc.Spreadsheets.BatchUpdate(w.client.spreadsheetID, req).
			Context(ctx).
			Do()
		return err
	}, attribute.Int(instrumentation.SpanAttrRow, row))
}
