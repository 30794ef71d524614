package repository

import (
	"context"

	"github.com/alexanderramin/backplan/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// StageRepo persists work stages together with their table targets.
type StageRepo interface {
	Create(ctx context.Context, s *domain.WorkStage) error
	GetByID(ctx context.Context, id string) (*domain.WorkStage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkStage, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.WorkStage, error)
	Update(ctx context.Context, s *domain.WorkStage) error
	Delete(ctx context.Context, id string) error
}

// HolidayRepo persists holidays keyed by date.
type HolidayRepo interface {
	Upsert(ctx context.Context, h *domain.Holiday) error
	GetByDate(ctx context.Context, d domain.Date) (*domain.Holiday, error)
	ListRange(ctx context.Context, from, to domain.Date) ([]*domain.Holiday, error)
	ListAll(ctx context.Context) ([]*domain.Holiday, error)
	Delete(ctx context.Context, d domain.Date) error
}
