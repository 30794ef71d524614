package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/repository"
)

// resolveProject looks ref up as a UUID first, then as a short ID.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("project reference is required")
	}
	p, err := projects.GetByID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	p, err = projects.GetByShortID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project %q: %w", ref, repository.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

// stageValues copies stored stages into the value slice the scheduler takes.
func stageValues(stages []*domain.WorkStage) []domain.WorkStage {
	out := make([]domain.WorkStage, 0, len(stages))
	for _, s := range stages {
		if s != nil {
			out = append(out, *s)
		}
	}
	return out
}

func stageOrders(stages []*domain.WorkStage, keep func(*domain.WorkStage) bool) []float64 {
	var out []float64
	for _, s := range stages {
		if keep(s) {
			out = append(out, s.Order)
		}
	}
	return out
}
