// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"
)

// Call records one mutating call made against a FakeSheet.
type Call struct {
	Op     string // append, update_row, update_cell, delete_row
	Row    int
	Col    int
	Values []string
}

// FakeSheet is an in-memory worksheet: a header row followed by data rows.
// Row numbers are 1-based sheet rows, so the first data row is row 2.
type FakeSheet struct {
	mu     sync.RWMutex
	header []string
	rows   [][]string
	calls  []Call

	// Error injection for testing
	RecordsErr    error
	AppendErr     error
	UpdateRowErr  error
	UpdateCellErr error
	DeleteRowErr  error
}

// NewFakeSheet creates a sheet with the given header and data rows.
func NewFakeSheet(header []string, rows ...[]string) *FakeSheet {
	f := &FakeSheet{header: append([]string(nil), header...)}
	for _, r := range rows {
		f.rows = append(f.rows, append([]string(nil), r...))
	}
	return f
}

// Rows returns a copy of the data rows.
func (f *FakeSheet) Rows() [][]string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([][]string, len(f.rows))
	for i, r := range f.rows {
		out[i] = append([]string(nil), r...)
	}
	return out
}

// Calls returns the mutating calls made so far.
func (f *FakeSheet) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Call(nil), f.calls...)
}

// Records implements tasks.Sheet.
func (f *FakeSheet) Records(ctx context.Context) ([]map[string]string, error) {
	if f.RecordsErr != nil {
		return nil, f.RecordsErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	recs := make([]map[string]string, 0, len(f.rows))
	for _, row := range f.rows {
		rec := make(map[string]string, len(f.header))
		for i, name := range f.header {
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// AppendRow implements tasks.Sheet.
func (f *FakeSheet) AppendRow(ctx context.Context, values []string) error {
	if f.AppendErr != nil {
		return f.AppendErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.rows = append(f.rows, append([]string(nil), values...))
	f.calls = append(f.calls, Call{Op: "append", Row: len(f.rows) + 1, Values: values})
	return nil
}

// UpdateRow implements tasks.Sheet.
func (f *FakeSheet) UpdateRow(ctx context.Context, row int, values []string) error {
	if f.UpdateRowErr != nil {
		return f.UpdateRowErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx, err := f.index(row)
	if err != nil {
		return err
	}
	updated := append([]string(nil), f.rows[idx]...)
	for len(updated) < len(values) {
		updated = append(updated, "")
	}
	copy(updated, values)
	f.rows[idx] = updated
	f.calls = append(f.calls, Call{Op: "update_row", Row: row, Values: values})
	return nil
}

// UpdateCell implements tasks.Sheet.
func (f *FakeSheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	if f.UpdateCellErr != nil {
		return f.UpdateCellErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx, err := f.index(row)
	if err != nil {
		return err
	}
	if col < 1 {
		return fmt.Errorf("invalid column %d", col)
	}
	for len(f.rows[idx]) < col {
		f.rows[idx] = append(f.rows[idx], "")
	}
	f.rows[idx][col-1] = value
	f.calls = append(f.calls, Call{Op: "update_cell", Row: row, Col: col, Values: []string{value}})
	return nil
}

// DeleteRow implements tasks.Sheet.
func (f *FakeSheet) DeleteRow(ctx context.Context, row int) error {
	if f.DeleteRowErr != nil {
		return f.DeleteRowErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	idx, err := f.index(row)
	if err != nil {
		return err
	}
	f.rows = append(f.rows[:idx], f.rows[idx+1:]...)
	f.calls = append(f.calls, Call{Op: "delete_row", Row: row})
	return nil
}

func (f *FakeSheet) index(row int) (int, error) {
	idx := row - 2
	if idx < 0 || idx >= len(f.rows) {
		return 0, fmt.Errorf("row %d out of range", row)
	}
	return idx, nil
}
