package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/importer"
	"github.com/alexanderramin/backplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportService_ImportProject_JSONAndTOML(t *testing.T) {
	for _, file := range []string{"release.json", "release.toml"} {
		t.Run(file, func(t *testing.T) {
			env := setupRepos(t)
			ctx := context.Background()
			svc := NewImportService(env.uow)

			res, err := svc.ImportProject(ctx, filepath.Join("..", "importer", "testdata", file))
			require.NoError(t, err)
			assert.Equal(t, "APP01", res.ShortID)
			assert.Equal(t, "Shop App 3.2", res.ProjectName)
			assert.Equal(t, 3, res.StageCount)
			assert.Equal(t, 1, res.SubStageCount)

			proj, err := env.projects.GetByShortID(ctx, "APP01")
			require.NoError(t, err)
			assert.Equal(t, 20, proj.HeadsUpOffset)
			assert.True(t, proj.ShowIOSReviewDate)
			assert.Equal(t, "Dev", proj.TableName(domain.Table1))

			stages, err := env.stages.ListByProject(ctx, proj.ID)
			require.NoError(t, err)
			assert.Len(t, stages, 4)
		})
	}
}

func TestImportService_DuplicateShortIDRejected(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := NewImportService(env.uow)
	path := filepath.Join("..", "importer", "testdata", "release.json")

	_, err := svc.ImportProject(ctx, path)
	require.NoError(t, err)
	_, err = svc.ImportProject(ctx, path)
	assert.ErrorContains(t, err, "already in use")

	projects, err := env.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

func TestImportService_ValidationErrors(t *testing.T) {
	env := setupRepos(t)
	svc := NewImportService(env.uow)

	schema := &importer.ImportSchema{
		Project: importer.ProjectImport{ShortID: "x", Name: "Bad"},
	}
	_, err := svc.ImportProjectFromSchema(context.Background(), schema)
	var verrs importer.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.GreaterOrEqual(t, len(verrs), 2, "bad short ID and missing stages")
}

func TestImportService_RollsBackOnStageFailure(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	injected := errors.New("injected failure")
	// Exec 1 is the project insert; exec 2 is the first stage insert.
	uow := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 2, Err: injected}
	svc := NewImportService(uow)

	_, err := svc.ImportProject(ctx, filepath.Join("..", "importer", "testdata", "release.json"))
	require.ErrorIs(t, err, injected)

	projects, err := env.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects, "project insert must be rolled back")
}

func TestImportService_ValidateFile(t *testing.T) {
	env := setupRepos(t)
	svc := NewImportService(env.uow)

	assert.NoError(t, svc.ValidateFile(filepath.Join("..", "importer", "testdata", "release.toml")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"project":{"short_id":"APP01","name":"A"},"stages":[{"ref":"a","parent_ref":"zzz","name":"A","start_offset":1,"end_offset":0}]}`), 0o644))
	err := svc.ValidateFile(bad)
	assert.ErrorContains(t, err, "zzz")

	projects, err := env.projects.List(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
