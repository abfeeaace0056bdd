package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const testSpreadsheetID = "sheet-key-123"

var rowRange = regexp.MustCompile(`!([A-Z]+)(\d+)(?::[A-Z]+\d+)?$`)

// fakeSheetsAPI serves the subset of the Sheets v4 REST surface the client
// uses, backed by an in-memory grid.
type fakeSheetsAPI struct {
	mu      sync.Mutex
	title   string
	sheetID int64
	rows    [][]string // rows[0] is the header row
	ranges  []string
	fail    int // respond with this status code when non-zero
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.fail)
		_, _ = w.Write([]byte(`{"error":{"code":` + strconv.Itoa(f.fail) + `,"message":"injected failure"}}`))
		return
	}

	prefix := "/v4/spreadsheets/" + testSpreadsheetID
	path := r.URL.Path

	switch {
	case r.Method == http.MethodGet && path == prefix:
		writeJSON(w, &sheetsapi.Spreadsheet{Sheets: []*sheetsapi.Sheet{
			{Properties: &sheetsapi.SheetProperties{SheetId: 1, Title: "Archive"}},
			{Properties: &sheetsapi.SheetProperties{SheetId: f.sheetID, Title: f.title}},
		}})

	case r.Method == http.MethodPost && path == prefix+":batchUpdate":
		var req sheetsapi.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			d := rq.DeleteDimension.Range
			if d.SheetId != f.sheetID || d.Dimension != "ROWS" {
				http.Error(w, "bad delete", http.StatusBadRequest)
				return
			}
			f.rows = append(f.rows[:d.StartIndex], f.rows[d.EndIndex:]...)
		}
		writeJSON(w, &sheetsapi.BatchUpdateSpreadsheetResponse{})

	case strings.HasPrefix(path, prefix+"/values/"):
		rng := strings.TrimPrefix(path, prefix+"/values/")
		f.ranges = append(f.ranges, rng)
		f.values(w, r, rng)

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSheetsAPI) values(w http.ResponseWriter, r *http.Request, rng string) {
	switch r.Method {
	case http.MethodGet:
		out := make([][]interface{}, len(f.rows))
		for i, row := range f.rows {
			out[i] = make([]interface{}, len(row))
			for j, v := range row {
				out[i][j] = v
			}
		}
		writeJSON(w, &sheetsapi.ValueRange{Range: rng, Values: out})

	case http.MethodPost: // :append
		var vr sheetsapi.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		for _, row := range vr.Values {
			f.rows = append(f.rows, stringsOf(row))
		}
		writeJSON(w, &sheetsapi.AppendValuesResponse{})

	case http.MethodPut:
		var vr sheetsapi.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		m := rowRange.FindStringSubmatch(rng)
		if m == nil {
			http.Error(w, "bad range", http.StatusBadRequest)
			return
		}
		col := int(m[1][0]-'A') + 1
		row, _ := strconv.Atoi(m[2])
		cells := stringsOf(vr.Values[0])
		target := f.rows[row-1]
		for len(target) < col-1+len(cells) {
			target = append(target, "")
		}
		copy(target[col-1:], cells)
		f.rows[row-1] = target
		writeJSON(w, &sheetsapi.UpdateValuesResponse{})
	}
}

func stringsOf(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i], _ = v.(string)
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestWorksheet(t *testing.T, fake *fakeSheetsAPI, title string) *Worksheet {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewWithHTTPClient(context.Background(), srv.Client(), testSpreadsheetID, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return client.Worksheet(title)
}

func newFake() *fakeSheetsAPI {
	return &fakeSheetsAPI{
		title:   "Tasks",
		sheetID: 42,
		rows: [][]string{
			{"タスクID", "タイトル", "完了フラグ"},
			{"001", "Buy milk", "False"},
			{},
			{"003", "Call mom"},
		},
	}
}

func TestWorksheet_Records(t *testing.T) {
	fake := newFake()
	ws := newTestWorksheet(t, fake, "Tasks")

	records, err := ws.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, map[string]string{"タスクID": "001", "タイトル": "Buy milk", "完了フラグ": "False"}, records[0])
	assert.Equal(t, map[string]string{"タスクID": "", "タイトル": "", "完了フラグ": ""}, records[1])
	assert.Equal(t, "", records[2]["完了フラグ"])
	assert.Equal(t, []string{"'Tasks'"}, fake.ranges)
}

func TestWorksheet_DefaultsToFirstSheet(t *testing.T) {
	ws := newTestWorksheet(t, newFake(), "")

	title, err := ws.Title(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Archive", title)
}

func TestWorksheet_UnknownTitle(t *testing.T) {
	ws := newTestWorksheet(t, newFake(), "Nope")

	err := ws.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWorksheetNotFound))
}

func TestWorksheet_AppendUpdateDelete(t *testing.T) {
	fake := newFake()
	ws := newTestWorksheet(t, fake, "Tasks")
	ctx := context.Background()

	require.NoError(t, ws.AppendRow(ctx, []string{"004", "Write report", "False"}))
	assert.Equal(t, []string{"004", "Write report", "False"}, fake.rows[4])

	require.NoError(t, ws.UpdateRow(ctx, 2, []string{"001", "Buy oat milk", "False"}))
	assert.Equal(t, []string{"001", "Buy oat milk", "False"}, fake.rows[1])

	require.NoError(t, ws.UpdateCell(ctx, 2, 3, "True"))
	assert.Equal(t, "True", fake.rows[1][2])

	require.NoError(t, ws.DeleteRow(ctx, 3))
	require.Len(t, fake.rows, 4)
	assert.Equal(t, "003", fake.rows[2][0])

	assert.Contains(t, fake.ranges, "'Tasks'!A2:C2")
	assert.Contains(t, fake.ranges, "'Tasks'!C2")
}

func TestWorksheet_APIError(t *testing.T) {
	fake := newFake()
	ws := newTestWorksheet(t, fake, "Tasks")
	require.NoError(t, ws.Ping(context.Background()))

	fake.mu.Lock()
	fake.fail = http.StatusForbidden
	fake.mu.Unlock()

	_, err := ws.Records(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "read", apiErr.Op)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.False(t, apiErr.Timeout())
}

func TestWorksheet_InvalidRow(t *testing.T) {
	ws := newTestWorksheet(t, newFake(), "Tasks")
	ctx := context.Background()

	assert.Error(t, ws.UpdateRow(ctx, 0, []string{"x"}))
	assert.Error(t, ws.UpdateCell(ctx, 1, 0, "x"))
	assert.Error(t, ws.DeleteRow(ctx, 0))
}

func TestNewWithHTTPClient_RequiresSpreadsheetID(t *testing.T) {
	_, err := NewWithHTTPClient(context.Background(), http.DefaultClient, "")
	assert.Error(t, err)
}

func TestColumnName(t *testing.T) {
	tests := map[int]string{1: "A", 5: "E", 9: "I", 26: "Z", 27: "AA", 52: "AZ", 53: "BA"}
	for col, want := range tests {
		assert.Equal(t, want, columnName(col), "column %d", col)
	}
}

func TestQuoteTitle(t *testing.T) {
	assert.Equal(t, "'Tasks'", quoteTitle("Tasks"))
	assert.Equal(t, "'Bob''s list'", quoteTitle("Bob's list"))
}
