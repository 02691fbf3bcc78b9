package session

import (
	"sort"

	"github.com/tech2hard/taskly/internal/model"
)

// StatusFilter narrows the list by completion state.
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// SortKey picks the display ordering.
type SortKey string

const (
	SortByDate     SortKey = "date"
	SortByPriority SortKey = "priority"
	SortByCreated  SortKey = "createdAt"
)

// CategoryAll matches every category.
const CategoryAll model.Category = "all"

// FilterAndSort narrows entries by status and category, then orders them.
// Sorting is stable. The date comparator is not a total order: dated pairs
// compare ascending by due date, but any comparison involving an undated
// entry falls back to descending creation time, so an undated entry's final
// position depends on which comparisons the sort happens to make.
func FilterAndSort(entries []Entry, status StatusFilter, category model.Category, key SortKey) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if status == StatusPending && e.Completed {
			continue
		}
		if status == StatusCompleted && !e.Completed {
			continue
		}
		if category != "" && category != CategoryAll && e.Category != category {
			continue
		}
		out = append(out, e)
	}

	switch key {
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			a, b := out[i], out[j]
			if a.DueDate == nil || b.DueDate == nil {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return *a.DueDate < *b.DueDate
		})
	case SortByPriority:
		sort.SliceStable(out, func(i, j int) bool {
			ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
			if ri != rj {
				return ri < rj
			}
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}
