package generation

import (
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestResolveStageDefaults_Cascade(t *testing.T) {
	got := ResolveStageDefaults(
		StageDefaultsInput{EndTime: "17:00"},
		StageDefaultsInput{StartTime: "10:00", EndTime: "19:00", Tables: []domain.TableID{domain.Table2}},
	)
	assert.Equal(t, "10:00", got.StartTime)
	assert.Equal(t, "17:00", got.EndTime)
	assert.Equal(t, []domain.TableID{domain.Table2}, got.Tables)
}

func TestResolveStageDefaults_Hardcoded(t *testing.T) {
	got := ResolveStageDefaults(StageDefaultsInput{}, StageDefaultsInput{})
	assert.Equal(t, DefaultStartTime, got.StartTime)
	assert.Equal(t, DefaultEndTime, got.EndTime)
	assert.Equal(t, []domain.TableID{domain.Table1}, got.Tables)
}

func TestResolveStageFallbacks(t *testing.T) {
	got := ResolveStageFallbacks(StageDefaultsInput{StartTime: "07:30"})
	assert.Equal(t, "07:30", got.StartTime)
	assert.Equal(t, DefaultEndTime, got.EndTime)
	assert.Equal(t, []domain.TableID{domain.Table1}, got.Tables)

	in := []domain.TableID{domain.Table2}
	got = ResolveStageFallbacks(StageDefaultsInput{Tables: in})
	got.Tables[0] = domain.Table1
	assert.Equal(t, domain.Table2, in[0], "result must not alias the input slice")
}

func TestNextTopOrder(t *testing.T) {
	assert.Equal(t, 1.0, NextTopOrder(nil))
	assert.Equal(t, 4.0, NextTopOrder([]float64{1, 3, 2}))
	assert.Equal(t, 3.0, NextTopOrder([]float64{2.5}))
}

func TestNextChildOrder(t *testing.T) {
	assert.Equal(t, 2.1, NextChildOrder(2, nil))
	assert.Equal(t, 2.3, NextChildOrder(2, []float64{2.1, 2.2}))

	nearCeiling := NextChildOrder(2, []float64{2.9})
	assert.Greater(t, nearCeiling, 2.9)
	assert.Less(t, nearCeiling, 3.0)
}
