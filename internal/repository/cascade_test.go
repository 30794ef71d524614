package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/backplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCascadeDelete_ProjectToStages verifies that deleting a project cascades to its stages.
func TestCascadeDelete_ProjectToStages(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	stageRepo := NewSQLiteStageRepo(db)

	proj := testutil.NewTestProject("CascadeProj")
	require.NoError(t, projRepo.Create(ctx, proj))

	stage := testutil.NewTestStage(proj.ID, "Design")
	require.NoError(t, stageRepo.Create(ctx, stage))

	require.NoError(t, projRepo.Delete(ctx, proj.ID))

	_, err := stageRepo.GetByID(ctx, stage.ID)
	assert.ErrorIs(t, err, ErrNotFound, "stage should be cascade-deleted when project is deleted")
}

// TestCascadeDelete_ParentStageToChildren verifies work_stages -> sub-stages cascade.
func TestCascadeDelete_ParentStageToChildren(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(db)
	stageRepo := NewSQLiteStageRepo(db)

	proj := testutil.NewTestProject("CascadeProj2")
	require.NoError(t, projRepo.Create(ctx, proj))

	parent := testutil.NewTestStage(proj.ID, "Release")
	require.NoError(t, stageRepo.Create(ctx, parent))
	child := testutil.NewTestStage(proj.ID, "Store", testutil.WithParent(parent.ID))
	require.NoError(t, stageRepo.Create(ctx, child))

	require.NoError(t, stageRepo.Delete(ctx, parent.ID))

	_, err := stageRepo.GetByID(ctx, child.ID)
	assert.ErrorIs(t, err, ErrNotFound, "sub-stage should be cascade-deleted with its parent")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM stage_tables`).Scan(&n))
	assert.Equal(t, 0, n)
}
