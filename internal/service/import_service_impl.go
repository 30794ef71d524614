package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/importer"
	"github.com/alexanderramin/backplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*app.ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*app.ImportResult, error) {
	return s.importSchema(ctx, schema)
}

// ValidateFile runs every import check without touching the database.
func (s *importService) ValidateFile(filePath string) error {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return err
	}
	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return importer.ValidationErrors(errs)
	}
	return nil
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *app.ImportResult, err error) {
	fields := map[string]any{"short_id": schema.Project.ShortID}
	defer observe(ctx, s.observer, "import-project", time.Now(), fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, importer.ValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txStages := repository.NewSQLiteStageRepo(tx)

		if _, err := txProjects.GetByShortID(ctx, generated.Project.ShortID); err == nil {
			return fmt.Errorf("short ID %q is already in use", generated.Project.ShortID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := txProjects.Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, stage := range generated.Stages {
			if err := txStages.Create(ctx, stage); err != nil {
				return fmt.Errorf("creating stage %q: %w", stage.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result = &app.ImportResult{
		ProjectID:   generated.Project.ID,
		ProjectName: generated.Project.Name,
		ShortID:     generated.Project.ShortID,
	}
	for _, stage := range generated.Stages {
		if stage.Depth == domain.DepthSub {
			result.SubStageCount++
		} else {
			result.StageCount++
		}
	}
	fields["stages"] = result.StageCount
	fields["sub_stages"] = result.SubStageCount
	return result, nil
}
