package service

import (
	"context"
	"io"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/domain"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts a project UUID or a short ID (case-insensitive).
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type StageService interface {
	Create(ctx context.Context, s *domain.WorkStage) error
	GetByID(ctx context.Context, id string) (*domain.WorkStage, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.WorkStage, error)
	Update(ctx context.Context, s *domain.WorkStage) error
	Delete(ctx context.Context, id string) error
}

type HolidayService interface {
	Add(ctx context.Context, d domain.Date, name string) (*domain.Holiday, error)
	Remove(ctx context.Context, d domain.Date) error
	// List returns the holidays of year, or every holiday when year is 0.
	List(ctx context.Context, year int) ([]*domain.Holiday, error)
	ImportCSV(ctx context.Context, r io.Reader) (*app.HolidayImportResult, error)
	SyncFromAPI(ctx context.Context, year int) (*app.HolidayImportResult, error)
}

type ScheduleService interface {
	app.ScheduleUseCase
}

type ImportService interface {
	app.ImportProjectUseCase
	ValidateFile(filePath string) error
}
