package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/alexanderramin/backplan/internal/scheduler"
)

type scheduleService struct {
	projects repository.ProjectRepo
	stages   repository.StageRepo
	holidays repository.HolidayRepo
	observer UseCaseObserver
}

func NewScheduleService(
	projects repository.ProjectRepo,
	stages repository.StageRepo,
	holidays repository.HolidayRepo,
	observers ...UseCaseObserver,
) ScheduleService {
	return &scheduleService{
		projects: projects,
		stages:   stages,
		holidays: holidays,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Calculate loads everything the scheduler needs for one project and runs
// it. Input problems the scheduler tolerates come back as warnings.
func (s *scheduleService) Calculate(ctx context.Context, req app.ScheduleRequest) (resp *app.ScheduleResponse, err error) {
	fields := map[string]any{"project": req.ProjectID, "anchor": req.AnchorDate.String()}
	defer observe(ctx, s.observer, "calculate-schedule", time.Now(), fields, &err)

	if req.AnchorDate.IsZero() {
		return nil, fmt.Errorf("update date is required")
	}

	project, err := resolveProject(ctx, s.projects, req.ProjectID)
	if err != nil {
		return nil, err
	}
	stages, err := s.stages.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading stages: %w", err)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("project %s has no work stages", project.DisplayID())
	}
	stored, err := s.holidays.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading holidays: %w", err)
	}
	holidays := domain.HolidaySetFrom(stored)

	result, err := scheduler.Calculate(req.AnchorDate, project, stageValues(stages), holidays, scheduler.Options{
		Location: req.Location,
		NewID:    req.NewID,
	})
	if err != nil {
		return nil, fmt.Errorf("calculating schedule: %w", err)
	}

	warnings := scheduleWarnings(req.AnchorDate, result, holidays)
	fields["stages"] = len(stages)
	fields["warnings"] = len(warnings)

	return &app.ScheduleResponse{
		Project:  project,
		Result:   result,
		Holidays: holidays,
		Warnings: warnings,
	}, nil
}

func scheduleWarnings(anchor domain.Date, result *domain.CalculationResult, holidays domain.HolidaySet) []app.ScheduleWarning {
	var warnings []app.ScheduleWarning
	if !scheduler.IsBusinessDay(anchor, holidays) {
		warnings = append(warnings, app.ScheduleWarning{
			Code:    app.WarnAnchorNotBusinessDay,
			Message: fmt.Sprintf("update date %s (%s) is not a business day", anchor, anchor.Weekday()),
		})
	}
	result.Walk(func(table domain.TableID, e *domain.ScheduleEntry) {
		if !e.Inverted() {
			return
		}
		warnings = append(warnings, app.ScheduleWarning{
			Code:    app.WarnEndBeforeStart,
			Table:   table,
			StageID: e.StageID,
			Message: fmt.Sprintf("%s: end %s is before start %s",
				e.StageName, e.End.Format("2006-01-02 15:04"), e.Start.Format("2006-01-02 15:04")),
		})
	})
	return warnings
}
