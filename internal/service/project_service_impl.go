package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "create-project", time.Now(), map[string]any{"short_id": p.ShortID}, &err)

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err = p.ValidateShortID(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if err = validateProjectSettings(p); err != nil {
		return err
	}
	if _, lookupErr := s.projects.GetByShortID(ctx, p.ShortID); lookupErr == nil {
		return fmt.Errorf("short ID %q is already in use", p.ShortID)
	} else if !errors.Is(lookupErr, repository.ErrNotFound) {
		return lookupErr
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Second)
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, ref)
}

func (s *projectService) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	return s.projects.List(ctx, includeArchived)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) (err error) {
	defer observe(ctx, s.observer, "update-project", time.Now(), map[string]any{"project_id": p.ID}, &err)

	p.ShortID = strings.ToUpper(strings.TrimSpace(p.ShortID))
	if err = p.ValidateShortID(); err != nil {
		return err
	}
	if err = validateProjectSettings(p); err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return s.projects.Update(ctx, p)
}

func (s *projectService) Archive(ctx context.Context, id string) error {
	return s.projects.Archive(ctx, id)
}

func (s *projectService) Unarchive(ctx context.Context, id string) error {
	return s.projects.Unarchive(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "delete-project", time.Now(), map[string]any{"project_id": id, "force": force}, &err)

	if !force {
		var p *domain.Project
		p, err = s.projects.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.Status != domain.ProjectArchived {
			return fmt.Errorf("project must be archived before deletion (use --force to override)")
		}
	}
	return s.projects.Delete(ctx, id)
}

// validateProjectSettings rejects milestone flags without an offset and
// table names for unknown tables.
func validateProjectSettings(p *domain.Project) error {
	if p.ShowIOSReviewDate && p.IOSReviewOffset == nil {
		return fmt.Errorf("iOS review date is enabled but has no offset")
	}
	if p.ShowPaidProductDate && p.PaidProductOffset == nil {
		return fmt.Errorf("paid product date is enabled but has no offset")
	}
	for t := range p.TableNames {
		if !t.Valid() {
			return fmt.Errorf("unknown table %q in table names", t)
		}
	}
	return nil
}

