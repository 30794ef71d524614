package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/generation"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/google/uuid"
)

type stageService struct {
	stages   repository.StageRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewStageService(stages repository.StageRepo, uow db.UnitOfWork, observers ...UseCaseObserver) StageService {
	return &stageService{stages: stages, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create stores a new stage. Blank clocks and tables take the defaults,
// depth follows ParentStageID, and a zero Order is assigned after the
// stage's existing siblings.
func (s *stageService) Create(ctx context.Context, stage *domain.WorkStage) (err error) {
	fields := map[string]any{"project_id": stage.ProjectID, "stage": stage.Name}
	defer observe(ctx, s.observer, "create-stage", time.Now(), fields, &err)

	if stage.ID == "" {
		stage.ID = uuid.New().String()
	}
	applyStageDefaults(stage)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txStages := repository.NewSQLiteStageRepo(tx)

		if _, err := txProjects.GetByID(ctx, stage.ProjectID); err != nil {
			return fmt.Errorf("loading project: %w", err)
		}
		parent, err := checkParent(ctx, txStages, stage)
		if err != nil {
			return err
		}

		if stage.Order == 0 {
			siblings, err := txStages.ListByProject(ctx, stage.ProjectID)
			if err != nil {
				return fmt.Errorf("listing stages: %w", err)
			}
			stage.Order = nextOrder(parent, siblings)
		}
		fields["order"] = stage.Order

		if err := stage.Validate(); err != nil {
			return err
		}

		now := time.Now().UTC().Truncate(time.Second)
		stage.CreatedAt = now
		stage.UpdatedAt = now
		return txStages.Create(ctx, stage)
	})
}

func (s *stageService) GetByID(ctx context.Context, id string) (*domain.WorkStage, error) {
	return s.stages.GetByID(ctx, id)
}

func (s *stageService) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkStage, error) {
	return s.stages.ListByProject(ctx, projectID)
}

// Update rewrites a stage in place. The owning project never changes, and a
// stage that has sub-stages cannot itself become a sub-stage.
func (s *stageService) Update(ctx context.Context, stage *domain.WorkStage) (err error) {
	defer observe(ctx, s.observer, "update-stage", time.Now(), map[string]any{"stage_id": stage.ID}, &err)

	applyStageDefaults(stage)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStages := repository.NewSQLiteStageRepo(tx)

		existing, err := txStages.GetByID(ctx, stage.ID)
		if err != nil {
			return err
		}
		stage.ProjectID = existing.ProjectID
		stage.CreatedAt = existing.CreatedAt

		if _, err := checkParent(ctx, txStages, stage); err != nil {
			return err
		}
		if stage.Depth == domain.DepthSub {
			children, err := txStages.ListChildren(ctx, stage.ID)
			if err != nil {
				return fmt.Errorf("listing sub-stages: %w", err)
			}
			if len(children) > 0 {
				return fmt.Errorf("stage %q has %d sub-stage(s) and cannot become a sub-stage", stage.Name, len(children))
			}
		}
		if err := stage.Validate(); err != nil {
			return err
		}

		stage.UpdatedAt = time.Now().UTC().Truncate(time.Second)
		return txStages.Update(ctx, stage)
	})
}

// Delete removes a stage and, through the schema's cascade, its sub-stages.
func (s *stageService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-stage", time.Now(), map[string]any{"stage_id": id}, &err)
	return s.stages.Delete(ctx, id)
}

func applyStageDefaults(stage *domain.WorkStage) {
	stage.Name = strings.TrimSpace(stage.Name)
	if stage.ParentStageID != nil && *stage.ParentStageID == "" {
		stage.ParentStageID = nil
	}
	if stage.ParentStageID != nil {
		stage.Depth = domain.DepthSub
	} else {
		stage.Depth = domain.DepthTop
	}
	resolved := generation.ResolveStageFallbacks(generation.StageDefaultsInput{
		StartTime: stage.StartTime,
		EndTime:   stage.EndTime,
		Tables:    stage.TableTargets,
	})
	stage.StartTime = resolved.StartTime
	stage.EndTime = resolved.EndTime
	stage.TableTargets = resolved.Tables
}

// checkParent loads the parent of a sub-stage and enforces that it is a
// top-level stage of the same project. It returns nil for top-level stages.
func checkParent(ctx context.Context, stages repository.StageRepo, stage *domain.WorkStage) (*domain.WorkStage, error) {
	if stage.ParentStageID == nil {
		return nil, nil
	}
	if *stage.ParentStageID == stage.ID {
		return nil, fmt.Errorf("stage %q cannot be its own parent", stage.Name)
	}
	parent, err := stages.GetByID(ctx, *stage.ParentStageID)
	if err != nil {
		return nil, fmt.Errorf("loading parent stage: %w", err)
	}
	if parent.ProjectID != stage.ProjectID {
		return nil, fmt.Errorf("parent stage %q belongs to another project", parent.Name)
	}
	if parent.Depth != domain.DepthTop {
		return nil, fmt.Errorf("parent stage %q is itself a sub-stage (only one level of nesting is supported)", parent.Name)
	}
	return parent, nil
}

func nextOrder(parent *domain.WorkStage, all []*domain.WorkStage) float64 {
	if parent == nil {
		return generation.NextTopOrder(stageOrders(all, func(s *domain.WorkStage) bool {
			return s.Depth == domain.DepthTop
		}))
	}
	return generation.NextChildOrder(parent.Order, stageOrders(all, func(s *domain.WorkStage) bool {
		return s.ParentStageID != nil && *s.ParentStageID == parent.ID
	}))
}
