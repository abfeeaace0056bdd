package tasks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Sheet is the row store behind the repository. Rows are 1-based sheet rows;
// Records returns data rows only, record i being row i+2.
type Sheet interface {
	Records(ctx context.Context) ([]map[string]string, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateRow(ctx context.Context, row int, values []string) error
	UpdateCell(ctx context.Context, row, col int, value string) error
	DeleteRow(ctx context.Context, row int) error
}

// firstDataRow is the sheet row of the first record, below the header.
const firstDataRow = 2

// Input carries the caller-supplied fields of a create or update.
type Input struct {
	Title    string
	Content  string
	Due      string
	Category string
	Priority string
}

// normalized trims the fields and defaults an unknown priority to medium.
func (in Input) normalized() Input {
	return Input{
		Title:    strings.TrimSpace(in.Title),
		Content:  strings.TrimSpace(in.Content),
		Due:      strings.TrimSpace(in.Due),
		Category: strings.TrimSpace(in.Category),
		Priority: normalizePriority(in.Priority),
	}
}

// ValidateInput checks that title and due date are present.
func ValidateInput(in Input) error {
	in = in.normalized()
	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Due == "" {
		missing = append(missing, "due date")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, " and "))
	}
	return nil
}

// Repository implements task operations on top of a Sheet.
//
// Create is not atomic: two concurrent creators can compute the same next
// identifier. This is an accepted limitation of the spreadsheet backend.
type Repository struct {
	sheet Sheet
}

// NewRepository returns a repository backed by sheet.
func NewRepository(sheet Sheet) *Repository {
	return &Repository{sheet: sheet}
}

func (r *Repository) records(ctx context.Context) ([]map[string]string, error) {
	recs, err := r.sheet.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}
	return recs, nil
}

// find returns the raw record and sheet row of the first row whose identifier equals id.
func (r *Repository) find(ctx context.Context, id string) (map[string]string, int, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return nil, 0, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, 0, ErrNotFound
	}
	for i, rec := range recs {
		if strings.TrimSpace(rec[ColID]) == id {
			return rec, i + firstDataRow, nil
		}
	}
	return nil, 0, ErrNotFound
}

// List returns every task, sorted by priority then due date.
func (r *Repository) List(ctx context.Context) ([]Task, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return nil, err
	}

	ts := make([]Task, 0, len(recs))
	for i, rec := range recs {
		t := Normalize(rec)
		t.Row = i + firstDataRow
		ts = append(ts, t)
	}
	SortByPriority(ts)
	return ts, nil
}

// Get returns the task with the given identifier.
func (r *Repository) Get(ctx context.Context, id string) (Task, error) {
	rec, row, err := r.find(ctx, id)
	if err != nil {
		return Task{}, err
	}
	t := Normalize(rec)
	t.Row = row
	return t, nil
}

// NextID returns the identifier following the largest numeric identifier in
// recs, zero-padded to three digits. Non-numeric identifiers are ignored.
func NextID(recs []map[string]string) string {
	maxID := 0
	for _, rec := range recs {
		n, err := strconv.Atoi(strings.TrimSpace(rec[ColID]))
		if err != nil {
			continue
		}
		if n > maxID {
			maxID = n
		}
	}
	return fmt.Sprintf("%03d", maxID+1)
}

// Create appends a new incomplete task and returns its identifier.
func (r *Repository) Create(ctx context.Context, in Input) (string, error) {
	if err := ValidateInput(in); err != nil {
		return "", err
	}
	in = in.normalized()

	recs, err := r.records(ctx)
	if err != nil {
		return "", err
	}

	id := NextID(recs)
	row := []string{id, in.Title, in.Content, in.Due, flagFalse, SourceManual, "", in.Category, in.Priority}
	if err := r.sheet.AppendRow(ctx, row); err != nil {
		return "", fmt.Errorf("failed to append task %s: %w", id, err)
	}
	return id, nil
}

// Update overwrites the editable fields of the task. The completion flag,
// source and event reference of the stored row are kept.
func (r *Repository) Update(ctx context.Context, id string, in Input) error {
	if err := ValidateInput(in); err != nil {
		return err
	}
	in = in.normalized()

	rec, row, err := r.find(ctx, id)
	if err != nil {
		return err
	}

	values := []string{
		strings.TrimSpace(id),
		in.Title,
		in.Content,
		in.Due,
		valueOr(rec[ColCompleted], flagFalse),
		valueOr(rec[ColSource], SourceManual),
		rec[ColEventID],
		in.Category,
		in.Priority,
	}
	if err := r.sheet.UpdateRow(ctx, row, values); err != nil {
		return fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return nil
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// Toggle flips the completion flag and returns the new state.
func (r *Repository) Toggle(ctx context.Context, id string) (bool, error) {
	rec, row, err := r.find(ctx, id)
	if err != nil {
		return false, err
	}

	completed := !isTrue(rec[ColCompleted])
	if err := r.sheet.UpdateCell(ctx, row, completedColumn, formatFlag(completed)); err != nil {
		return false, fmt.Errorf("failed to toggle task %s: %w", id, err)
	}
	return completed, nil
}

// Delete removes the task's row.
func (r *Repository) Delete(ctx context.Context, id string) error {
	_, row, err := r.find(ctx, id)
	if err != nil {
		return err
	}
	if err := r.sheet.DeleteRow(ctx, row); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}

// DeleteCompleted removes every completed task and returns how many rows were
// deleted. Rows are deleted bottom-up from one snapshot so that earlier
// deletions do not shift the rows still to be deleted.
func (r *Repository) DeleteCompleted(ctx context.Context) (int, error) {
	recs, err := r.records(ctx)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for i := len(recs) - 1; i >= 0; i-- {
		if !isTrue(recs[i][ColCompleted]) {
			continue
		}
		if err := r.sheet.DeleteRow(ctx, i+firstDataRow); err != nil {
			return deleted, fmt.Errorf("failed to delete completed task at row %d: %w", i+firstDataRow, err)
		}
		deleted++
	}
	return deleted, nil
}
