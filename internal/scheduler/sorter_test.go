package scheduler

import (
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func stageIDs(stages []domain.WorkStage) []string {
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID
	}
	return ids
}

func TestSortStages_ByOrder(t *testing.T) {
	stages := []domain.WorkStage{
		{ID: "c", Order: 3},
		{ID: "a", Order: 1},
		{ID: "b", Order: 2},
	}

	SortStages(stages)

	assert.Equal(t, []string{"a", "b", "c"}, stageIDs(stages))
}

func TestSortStages_DecimalSubOrders(t *testing.T) {
	stages := []domain.WorkStage{
		{ID: "x.2", Order: 1.2},
		{ID: "x.10", Order: 1.10},
		{ID: "x.1", Order: 1.1},
	}

	SortStages(stages)

	// 1.10 == 1.1 as a decimal, so the id breaks the tie.
	assert.Equal(t, []string{"x.1", "x.10", "x.2"}, stageIDs(stages))
}

func TestSortStages_IDTiebreak(t *testing.T) {
	stages := []domain.WorkStage{
		{ID: "zeta", Order: 1},
		{ID: "alpha", Order: 1},
	}

	SortStages(stages)

	assert.Equal(t, "alpha", stages[0].ID, "equal order should fall back to id")
}
