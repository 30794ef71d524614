package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/alexanderramin/backplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleService(env testEnv) ScheduleService {
	return NewScheduleService(env.projects, env.stages, env.holidays)
}

func TestScheduleService_Calculate_UsesStoredHolidays(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Release", testutil.WithShortID("REL01"), testutil.WithHeadsUpOffset(10))
	require.NoError(t, env.projects.Create(ctx, proj))
	qa := testutil.NewTestStage(proj.ID, "QA", testutil.WithOffsets(13, 10))
	require.NoError(t, env.stages.Create(ctx, qa))

	req := app.NewScheduleRequest("rel01", d(2026, time.February, 10))
	req.NewID = testutil.SeqIDs("row")

	resp, err := newScheduleService(env).Calculate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, proj.ID, resp.Project.ID)
	assert.Equal(t, d(2026, time.January, 27), resp.Result.HeadsUpDate)

	rows := resp.Result.Tables[domain.Table1]
	require.Len(t, rows, 1)
	assert.Equal(t, "row-1", rows[0].ID)
	assert.Equal(t, time.Date(2026, time.January, 22, 9, 0, 0, 0, time.UTC), rows[0].Start)
	assert.Equal(t, time.Date(2026, time.January, 27, 18, 0, 0, 0, time.UTC), rows[0].End)
	assert.Empty(t, resp.Warnings)

	// A stored holiday inside the window pushes both ends back a day.
	require.NoError(t, env.holidays.Upsert(ctx, testutil.NewTestHoliday(d(2026, time.February, 2), "Office move")))
	resp, err = newScheduleService(env).Calculate(ctx, req)
	require.NoError(t, err)
	rows = resp.Result.Tables[domain.Table1]
	assert.Equal(t, d(2026, time.January, 21), domain.DateOf(rows[0].Start))
	assert.Equal(t, d(2026, time.January, 26), domain.DateOf(rows[0].End))
	assert.True(t, resp.Holidays.Contains(d(2026, time.February, 2)))
}

func TestScheduleService_Calculate_Location(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	proj := testutil.NewTestProject("Release")
	require.NoError(t, env.projects.Create(ctx, proj))
	require.NoError(t, env.stages.Create(ctx, testutil.NewTestStage(proj.ID, "Launch", testutil.WithOffsets(0, 0), testutil.WithClock("10:00", "11:00"))))

	req := app.NewScheduleRequest(proj.ID, d(2026, time.February, 10))
	req.Location = seoul
	resp, err := newScheduleService(env).Calculate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10T10:00:00+09:00", resp.Result.Tables[domain.Table1][0].Start.Format(time.RFC3339))
}

func TestScheduleService_Calculate_Warnings(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()

	proj := testutil.NewTestProject("Release")
	require.NoError(t, env.projects.Create(ctx, proj))
	odd := testutil.NewTestStage(proj.ID, "Odd", testutil.WithOffsets(2, 5), testutil.WithTables(domain.Table1, domain.Table2))
	require.NoError(t, env.stages.Create(ctx, odd))

	// 2026-02-14 is a Saturday.
	resp, err := newScheduleService(env).Calculate(ctx, app.NewScheduleRequest(proj.ID, d(2026, time.February, 14)))
	require.NoError(t, err, "inverted stages are warnings, not errors")

	var codes []app.ScheduleWarningCode
	var tables []domain.TableID
	for _, w := range resp.Warnings {
		codes = append(codes, w.Code)
		if w.Code == app.WarnEndBeforeStart {
			tables = append(tables, w.Table)
			assert.Equal(t, odd.ID, w.StageID)
		}
	}
	assert.Equal(t, []app.ScheduleWarningCode{app.WarnAnchorNotBusinessDay, app.WarnEndBeforeStart, app.WarnEndBeforeStart}, codes)
	assert.Equal(t, []domain.TableID{domain.Table1, domain.Table2}, tables)
}

func TestScheduleService_Calculate_Errors(t *testing.T) {
	env := setupRepos(t)
	ctx := context.Background()
	svc := newScheduleService(env)

	proj := testutil.NewTestProject("Empty")
	require.NoError(t, env.projects.Create(ctx, proj))

	_, err := svc.Calculate(ctx, app.NewScheduleRequest(proj.ID, d(2026, time.February, 10)))
	assert.ErrorContains(t, err, "no work stages")

	_, err = svc.Calculate(ctx, app.NewScheduleRequest(proj.ID, domain.Date{}))
	assert.ErrorContains(t, err, "update date")

	_, err = svc.Calculate(ctx, app.NewScheduleRequest("missing", d(2026, time.February, 10)))
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
