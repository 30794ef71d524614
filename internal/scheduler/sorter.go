package scheduler

import (
	"sort"

	"github.com/alexanderramin/backplan/internal/domain"
)

// SortStages sorts stages in place by the canonical display order:
// 1. Order: ascending
// 2. Stage ID: lexical ascending
func SortStages(stages []domain.WorkStage) {
	sort.SliceStable(stages, func(i, j int) bool {
		a, b := stages[i], stages[j]

		// 1. Order
		if a.Order != b.Order {
			return a.Order < b.Order
		}

		// 2. Stage ID (lexical)
		return a.ID < b.ID
	})
}
