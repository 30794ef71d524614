package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedProject(t *testing.T, env testEnv) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Release")
	require.NoError(t, env.projects.Create(context.Background(), p))
	return p
}

func TestStageService_Create_AppliesDefaultsAndAutoOrder(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, env)
	svc := NewStageService(env.stages, env.uow)

	design := &domain.WorkStage{ProjectID: proj.ID, Name: "Design", StartOffsetDays: 25, EndOffsetDays: 20}
	require.NoError(t, svc.Create(ctx, design))
	assert.NotEmpty(t, design.ID)
	assert.Equal(t, 1.0, design.Order)
	assert.Equal(t, "09:00", design.StartTime)
	assert.Equal(t, "18:00", design.EndTime)
	assert.Equal(t, []domain.TableID{domain.Table1}, design.TableTargets)
	assert.Equal(t, domain.DepthTop, design.Depth)

	qa := &domain.WorkStage{ProjectID: proj.ID, Name: "QA", StartOffsetDays: 13, EndOffsetDays: 10}
	require.NoError(t, svc.Create(ctx, qa))
	assert.Equal(t, 2.0, qa.Order)

	review := &domain.WorkStage{ProjectID: proj.ID, Name: "Review", ParentStageID: strPtr(design.ID)}
	require.NoError(t, svc.Create(ctx, review))
	assert.Equal(t, domain.DepthSub, review.Depth)
	assert.InDelta(t, 1.1, review.Order, 1e-9)

	signoff := &domain.WorkStage{ProjectID: proj.ID, Name: "Sign-off", ParentStageID: strPtr(design.ID)}
	require.NoError(t, svc.Create(ctx, signoff))
	assert.InDelta(t, 1.2, signoff.Order, 1e-9)

	stored, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestStageService_Create_ExplicitOrderKept(t *testing.T) {
	env := setupRepos(t)
	proj := seedProject(t, env)
	svc := NewStageService(env.stages, env.uow)

	s := &domain.WorkStage{ProjectID: proj.ID, Name: "Store", Order: 9, TableTargets: []domain.TableID{domain.Table3}}
	require.NoError(t, svc.Create(context.Background(), s))

	got, err := svc.GetByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Order)
	assert.Equal(t, []domain.TableID{domain.Table3}, got.TableTargets)
}

func TestStageService_Create_Rejections(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, env)
	other := testutil.NewTestProject("Other")
	require.NoError(t, env.projects.Create(ctx, other))
	svc := NewStageService(env.stages, env.uow)

	top := testutil.NewTestStage(proj.ID, "Design")
	require.NoError(t, env.stages.Create(ctx, top))
	sub := testutil.NewTestStage(proj.ID, "Review", testutil.WithParent(top.ID), testutil.WithOrder(1.1))
	require.NoError(t, env.stages.Create(ctx, sub))
	foreign := testutil.NewTestStage(other.ID, "Foreign")
	require.NoError(t, env.stages.Create(ctx, foreign))

	tests := []struct {
		name  string
		stage *domain.WorkStage
		want  string
	}{
		{"missing project", &domain.WorkStage{ProjectID: "nope", Name: "X"}, "loading project"},
		{"blank name", &domain.WorkStage{ProjectID: proj.ID, Name: "  "}, "name is required"},
		{"bad clock", &domain.WorkStage{ProjectID: proj.ID, Name: "X", StartTime: "25:00"}, "start time"},
		{"unknown table", &domain.WorkStage{ProjectID: proj.ID, Name: "X", TableTargets: []domain.TableID{"table4"}}, "unknown table"},
		{"parent in other project", &domain.WorkStage{ProjectID: proj.ID, Name: "X", ParentStageID: strPtr(foreign.ID)}, "another project"},
		{"parent is sub-stage", &domain.WorkStage{ProjectID: proj.ID, Name: "X", ParentStageID: strPtr(sub.ID)}, "one level"},
		{"missing parent", &domain.WorkStage{ProjectID: proj.ID, Name: "X", ParentStageID: strPtr("ghost")}, "parent stage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, tt.stage)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	stages, err := env.stages.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, stages, 2, "rejected stages must not be stored")
}

func TestStageService_Update(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, env)
	other := testutil.NewTestProject("Other")
	require.NoError(t, env.projects.Create(ctx, other))
	svc := NewStageService(env.stages, env.uow)

	stage := testutil.NewTestStage(proj.ID, "QA", testutil.WithOffsets(13, 10))
	require.NoError(t, env.stages.Create(ctx, stage))

	stage.ProjectID = other.ID
	stage.EndOffsetDays = 9
	stage.TableTargets = []domain.TableID{domain.Table2, domain.Table3}
	require.NoError(t, svc.Update(ctx, stage))

	got, err := svc.GetByID(ctx, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, got.ProjectID, "project is immutable")
	assert.Equal(t, 9, got.EndOffsetDays)
	assert.ElementsMatch(t, []domain.TableID{domain.Table2, domain.Table3}, got.TableTargets)
}

func TestStageService_Update_ParentWithChildrenCannotNest(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, env)
	svc := NewStageService(env.stages, env.uow)

	a := testutil.NewTestStage(proj.ID, "A", testutil.WithOrder(1))
	b := testutil.NewTestStage(proj.ID, "B", testutil.WithOrder(2))
	require.NoError(t, env.stages.Create(ctx, a))
	require.NoError(t, env.stages.Create(ctx, b))
	require.NoError(t, env.stages.Create(ctx, testutil.NewTestStage(proj.ID, "A.1", testutil.WithParent(a.ID), testutil.WithOrder(1.1))))

	a.ParentStageID = strPtr(b.ID)
	err := svc.Update(ctx, a)
	assert.ErrorContains(t, err, "cannot become a sub-stage")

	a.ParentStageID = strPtr(a.ID)
	err = svc.Update(ctx, a)
	assert.ErrorContains(t, err, "own parent")
}

func TestStageService_Delete_CascadesChildren(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	proj := seedProject(t, env)
	svc := NewStageService(env.stages, env.uow)

	parent := testutil.NewTestStage(proj.ID, "Design")
	require.NoError(t, env.stages.Create(ctx, parent))
	require.NoError(t, env.stages.Create(ctx, testutil.NewTestStage(proj.ID, "Review", testutil.WithParent(parent.ID))))

	require.NoError(t, svc.Delete(ctx, parent.ID))

	stages, err := svc.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Empty(t, stages)
}
