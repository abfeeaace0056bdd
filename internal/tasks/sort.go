package tasks

import (
	"slices"
	"strings"
)

// SortByPriority orders tasks by priority (high first), then by due date.
// The sort is stable.
func SortByPriority(ts []Task) {
	slices.SortStableFunc(ts, func(a, b Task) int {
		if ra, rb := PriorityRank(a.Priority), PriorityRank(b.Priority); ra != rb {
			return ra - rb
		}
		return a.DueTime().Compare(b.DueTime())
	})
}

// SortByDue orders tasks by due date only. The sort is stable.
func SortByDue(ts []Task) {
	slices.SortStableFunc(ts, func(a, b Task) int {
		return a.DueTime().Compare(b.DueTime())
	})
}

// Filter selects tasks for list views.
type Filter struct {
	// TodoOnly drops completed tasks.
	TodoOnly bool

	// Category keeps only tasks of this category when non-empty.
	Category string
}

// Apply returns the tasks matching f, preserving order.
func (f Filter) Apply(ts []Task) []Task {
	category := strings.TrimSpace(f.Category)
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		if f.TodoOnly && t.Completed {
			continue
		}
		if category != "" && t.Category != category {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Sort orders ts in place: by priority then due date when byPriority is set,
// else by due date only.
func Sort(ts []Task, byPriority bool) {
	if byPriority {
		SortByPriority(ts)
		return
	}
	SortByDue(ts)
}
