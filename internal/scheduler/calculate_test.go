package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseFixture() (*domain.Project, []domain.WorkStage) {
	p := &domain.Project{
		HeadsUpOffset:     15,
		ShowIOSReviewDate: true,
		IOSReviewOffset:   intPtr(7),
	}
	stages := []domain.WorkStage{
		topStage("design", 1, domain.Table1),
		subStage("design.review", "design", 1.1, domain.Table1, domain.Table2),
		topStage("qa", 2, domain.Table1, domain.Table3),
		topStage("store", 3, domain.Table3),
	}
	return p, stages
}

func TestCalculate_AllTablesAndMilestones(t *testing.T) {
	p, stages := releaseFixture()
	holidays := domain.NewHolidaySet(date(2026, time.January, 28), date(2026, time.January, 29), date(2026, time.January, 30))

	result, err := Calculate(testAnchor, p, stages, holidays, Options{NewID: seqIDs()})
	require.NoError(t, err)

	assert.Equal(t, testAnchor, result.AnchorDate)
	assert.Equal(t, ResolveBusinessDate(testAnchor, 15, holidays), result.HeadsUpDate)
	assert.True(t, result.IOSReviewDate.IsPresent())
	assert.True(t, result.PaidProductDate.IsAbsent())

	require.Len(t, result.Tables, 3)
	assert.Len(t, result.Tables[domain.Table1], 2)
	// design is pulled into table2 by its sub-stage.
	require.Len(t, result.Tables[domain.Table2], 1)
	assert.Equal(t, "design", result.Tables[domain.Table2][0].StageID)
	assert.Len(t, result.Tables[domain.Table3], 2)
}

func TestCalculate_SameStageResolvedPerTable(t *testing.T) {
	p, stages := releaseFixture()

	result, err := Calculate(testAnchor, p, stages, domain.HolidaySet{}, Options{NewID: seqIDs()})
	require.NoError(t, err)

	qa1 := result.Tables[domain.Table1][1]
	qa3 := result.Tables[domain.Table3][0]
	assert.Equal(t, "qa", qa1.StageID)
	assert.Equal(t, "qa", qa3.StageID)
	assert.NotEqual(t, qa1.ID, qa3.ID, "entries are not shared across tables")
	assert.Equal(t, qa1.Start, qa3.Start)
	assert.Equal(t, 2, qa1.Index)
	assert.Equal(t, 1, qa3.Index)
}

func TestCalculate_Walk(t *testing.T) {
	p, stages := releaseFixture()
	result, err := Calculate(testAnchor, p, stages, domain.HolidaySet{}, Options{NewID: seqIDs()})
	require.NoError(t, err)

	var visited []string
	result.Walk(func(table domain.TableID, e *domain.ScheduleEntry) {
		visited = append(visited, string(table)+":"+e.StageID)
	})
	assert.Equal(t, []string{
		"table1:design", "table1:design.review", "table1:qa",
		"table2:design", "table2:design.review",
		"table3:qa", "table3:store",
	}, visited)
}

func TestCalculate_ConcurrentCallersAgree(t *testing.T) {
	p, stages := releaseFixture()
	holidays := domain.NewHolidaySet(date(2026, time.February, 2))

	want, err := Calculate(testAnchor, p, stages, holidays, Options{NewID: seqIDs()})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*domain.CalculationResult, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := Calculate(testAnchor, p, stages, holidays, Options{NewID: seqIDs()})
			if err == nil {
				results[i] = r
			}
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		require.NotNil(t, got, "goroutine %d failed", i)
		assert.Equal(t, want, got, "goroutine %d", i)
	}
}
