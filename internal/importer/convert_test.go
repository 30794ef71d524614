package importer

import (
	"path/filepath"
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_ReleaseTemplate(t *testing.T) {
	schema, err := LoadImportSchema(filepath.Join("testdata", "release.json"))
	require.NoError(t, err)
	require.Empty(t, ValidateImportSchema(schema))

	gen, err := Convert(schema)
	require.NoError(t, err)

	p := gen.Project
	assert.Equal(t, "APP01", p.ShortID)
	assert.Equal(t, 20, p.HeadsUpOffset)
	assert.True(t, p.ShowIOSReviewDate)
	assert.Equal(t, 7, *p.IOSReviewOffset)
	assert.False(t, p.ShowPaidProductDate)
	assert.Equal(t, "Dev", p.TableName(domain.Table1))
	assert.Equal(t, "table2", p.TableName(domain.Table2))
	assert.Equal(t, "Store", p.TableName(domain.Table3))

	require.Len(t, gen.Stages, 4)
	design, review, qa, store := gen.Stages[0], gen.Stages[1], gen.Stages[2], gen.Stages[3]

	assert.Equal(t, 1.0, design.Order)
	assert.Equal(t, "10:00", design.StartTime, "defaults.start_time applies")
	assert.Equal(t, "18:00", design.EndTime, "hardcoded end time applies")
	assert.Equal(t, []domain.TableID{domain.Table1}, design.TableTargets)

	assert.Equal(t, domain.DepthSub, review.Depth)
	require.NotNil(t, review.ParentStageID)
	assert.Equal(t, design.ID, *review.ParentStageID)
	assert.Equal(t, 1.1, review.Order)
	assert.Equal(t, []domain.TableID{domain.Table1, domain.Table2}, review.TableTargets)

	assert.Equal(t, 2.0, qa.Order)
	assert.Equal(t, "19:00", qa.EndTime)

	assert.Equal(t, 9.0, store.Order)
	assert.Equal(t, []domain.TableID{domain.Table3}, store.TableTargets)

	for _, s := range gen.Stages {
		assert.Equal(t, p.ID, s.ProjectID)
		assert.NoError(t, s.Validate())
	}
}

func TestConvert_DefaultHeadsUpOffset(t *testing.T) {
	gen, err := Convert(validMinimalSchema())
	require.NoError(t, err)
	assert.Equal(t, DefaultHeadsUpOffset, gen.Project.HeadsUpOffset)
	assert.Nil(t, gen.Project.TableNames)
}

func TestConvert_PaidProductEnablesMilestone(t *testing.T) {
	s := validMinimalSchema()
	s.Project.PaidProductOffset = ptrInt(3)
	gen, err := Convert(s)
	require.NoError(t, err)
	assert.True(t, gen.Project.ShowPaidProductDate)
	assert.Equal(t, 3, *gen.Project.PaidProductOffset)
}
