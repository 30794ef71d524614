package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2026, time.January, day, hour, 0, 0, 0, time.UTC)
}

func sampleResult() *CalculationResult {
	return &CalculationResult{
		Tables: map[TableID][]ScheduleEntry{
			Table1: {
				{ID: "a", Index: 1, StageName: "Design", Start: at(5, 9), End: at(9, 18), Children: []ScheduleEntry{
					{ID: "a1", Index: 1, StageName: "Review", Start: at(8, 9), End: at(9, 18)},
				}},
				{ID: "b", Index: 2, StageName: "QA", Start: at(20, 9), End: at(27, 18)},
			},
			Table3: {
				{ID: "c", Index: 1, StageName: "Store", Start: at(2, 9), End: at(3, 18)},
			},
		},
	}
}

func TestCalculationResult_Rows(t *testing.T) {
	rows := sampleResult().Rows(Table1)
	require.Len(t, rows, 3)

	var labels []string
	for _, r := range rows {
		labels = append(labels, r.Label)
		assert.Equal(t, Table1, r.Table)
	}
	assert.Equal(t, []string{"1", "1-1", "2"}, labels)
	assert.True(t, rows[1].Child)
	assert.Equal(t, "Review", rows[1].Entry.StageName)

	assert.Empty(t, sampleResult().Rows(Table2))
}

func TestCalculationResult_Span(t *testing.T) {
	first, last, ok := sampleResult().Span()
	require.True(t, ok)
	assert.Equal(t, at(2, 9), first)
	assert.Equal(t, at(27, 18), last)

	_, _, ok = (&CalculationResult{}).Span()
	assert.False(t, ok)
}
