package reminder

import (
	"slices"
	"strings"
	"time"

	"github.com/teemow/sheettodo/internal/tasks"
)

// Day labels
const (
	LabelToday    = "【今日】"
	LabelTomorrow = "【明日】"
)

const (
	// EmptyMessage is sent when nothing is due today or tomorrow.
	EmptyMessage = "📭 今日・明日期日の未完了タスクはありません。"

	header = "📌 今日・明日の未完了タスク\n"

	defaultCategoryIcon = "📌"
	defaultPriorityIcon = "🟡"
)

var categoryIcons = map[string]string{
	"仕事": "💼",
	"家庭": "🏠",
	"学習": "📓",
}

var priorityIcons = map[string]string{
	tasks.PriorityHigh:   "🔴",
	tasks.PriorityMedium: "🟡",
	tasks.PriorityLow:    "⚪",
}

// Item is one task selected for the reminder.
type Item struct {
	Label    string
	Title    string
	Category string
	Priority string
	Due      time.Time
}

// Select picks the incomplete rows due on now's JST date or the day after,
// ordered by due time. Rows with a blank or unparseable due date are skipped.
func Select(recs []map[string]string, now time.Time) []Item {
	today := dateOf(now.In(JST))
	tomorrow := today.AddDate(0, 0, 1)

	var items []Item
	for _, rec := range recs {
		if strings.EqualFold(strings.TrimSpace(rec[tasks.ColCompleted]), "true") {
			continue
		}
		raw := strings.TrimSpace(rec[tasks.ColDue])
		if raw == "" {
			continue
		}
		due, err := ParseDueStrict(raw)
		if err != nil {
			continue
		}

		var label string
		switch day := dateOf(due); {
		case day.Equal(today):
			label = LabelToday
		case day.Equal(tomorrow):
			label = LabelTomorrow
		default:
			continue
		}

		items = append(items, Item{
			Label:    label,
			Title:    rec[tasks.ColTitle],
			Category: strings.TrimSpace(rec[tasks.ColCategory]),
			Priority: strings.TrimSpace(rec[tasks.ColPriority]),
			Due:      due,
		})
	}

	slices.SortStableFunc(items, func(a, b Item) int {
		return a.Due.Compare(b.Due)
	})
	return items
}

// dateOf truncates t to midnight in its own location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// CategoryIcon returns the icon for a category, 📌 for unknown ones.
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return defaultCategoryIcon
}

// PriorityIcon returns the icon for a priority, 🟡 for unknown ones.
func PriorityIcon(priority string) string {
	if icon, ok := priorityIcons[priority]; ok {
		return icon
	}
	return defaultPriorityIcon
}

// BuildMessage renders the reminder text.
func BuildMessage(items []Item) string {
	if len(items) == 0 {
		return EmptyMessage
	}

	blocks := make([]string, 0, len(items)+1)
	blocks = append(blocks, header)
	for _, it := range items {
		blocks = append(blocks,
			it.Label+" "+CategoryIcon(it.Category)+PriorityIcon(it.Priority)+"\n"+
				it.Title+"\n"+
				"⏰ "+it.Due.In(JST).Format("01/02 15:04"))
	}
	return strings.Join(blocks, "\n\n")
}
