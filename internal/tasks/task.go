package tasks

import (
	"strings"
	"time"
)

// Column headers of the task worksheet, in sheet order (A..I).
const (
	ColID        = "タスクID"
	ColTitle     = "タイトル"
	ColContent   = "内容"
	ColDue       = "期日"
	ColCompleted = "完了フラグ"
	ColSource    = "登録元"
	ColEventID   = "イベントID"
	ColCategory  = "カテゴリ"
	ColPriority  = "優先度"
)

// Columns lists the headers in sheet order.
var Columns = []string{
	ColID, ColTitle, ColContent, ColDue, ColCompleted, ColSource, ColEventID, ColCategory, ColPriority,
}

// completedColumn is the 1-based column of the completion flag (E).
const completedColumn = 5

// Priorities
const (
	PriorityHigh   = "高"
	PriorityMedium = "中"
	PriorityLow    = "低"

	DefaultPriority = PriorityMedium
)

// Priorities lists the valid priorities from highest to lowest.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

var priorityRank = map[string]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Well-known categories offered by the UI. Any other value is accepted.
var Categories = []string{"仕事", "家庭", "学習"}

const (
	// Uncategorized is the category of tasks with a blank category cell.
	Uncategorized = "未分類"

	// SourceManual marks tasks created by hand.
	SourceManual = "manual"

	flagTrue  = "True"
	flagFalse = "False"
)

// Task is one row of the task worksheet.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Due       string `json:"due"`
	Completed bool   `json:"completed"`
	Source    string `json:"source"`
	EventID   string `json:"event_id,omitempty"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`

	// Row is the 1-based sheet row the task was read from.
	Row int `json:"-"`
}

// DueTime returns the due date parsed with ParseDue.
func (t Task) DueTime() time.Time {
	return ParseDue(t.Due)
}

// Overdue reports whether an incomplete task is past its due date at now.
// Tasks without a parseable due date are never overdue.
func (t Task) Overdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due := t.DueTime()
	if due.Equal(FarFuture) {
		return false
	}
	// Due dates carry no zone; compare wall clocks.
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), 0, time.UTC)
	return due.Before(wall)
}

// Normalize converts a raw row (header -> cell) into a Task with defaults
// applied. It never fails: missing optional fields get their defaults.
func Normalize(rec map[string]string) Task {
	t := Task{
		ID:        strings.TrimSpace(rec[ColID]),
		Title:     strings.TrimSpace(rec[ColTitle]),
		Content:   rec[ColContent],
		Due:       strings.TrimSpace(rec[ColDue]),
		Completed: isTrue(rec[ColCompleted]),
		Source:    strings.TrimSpace(rec[ColSource]),
		EventID:   rec[ColEventID],
		Category:  strings.TrimSpace(rec[ColCategory]),
		Priority:  normalizePriority(rec[ColPriority]),
	}
	if t.Source == "" {
		t.Source = SourceManual
	}
	if t.Category == "" {
		t.Category = Uncategorized
	}
	return t
}

func isTrue(flag string) bool {
	return strings.EqualFold(strings.TrimSpace(flag), "true")
}

func formatFlag(b bool) string {
	if b {
		return flagTrue
	}
	return flagFalse
}

func normalizePriority(p string) string {
	p = strings.TrimSpace(p)
	if _, ok := priorityRank[p]; ok {
		return p
	}
	return DefaultPriority
}

// PriorityRank returns 0 for high, 1 for medium and 2 for low priority.
// Unknown values rank as medium.
func PriorityRank(p string) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[DefaultPriority]
}
