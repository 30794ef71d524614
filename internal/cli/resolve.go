package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
)

// resolveStage finds a stage by full ID, or, when projectRef is given, by
// case-insensitive name or ID prefix within that project. A name or prefix
// matching more than one stage is an error.
func resolveStage(ctx context.Context, app *App, projectRef, input string) (*domain.WorkStage, error) {
	if input == "" {
		return nil, fmt.Errorf("stage ID is required")
	}
	if projectRef == "" {
		return app.Stages.GetByID(ctx, input)
	}

	p, err := app.Projects.Resolve(ctx, projectRef)
	if err != nil {
		return nil, err
	}
	stages, err := app.Stages.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	var named []*domain.WorkStage
	for _, s := range stages {
		if s.ID == input {
			return s, nil
		}
		if strings.EqualFold(s.Name, input) {
			named = append(named, s)
		}
	}
	switch len(named) {
	case 0:
	case 1:
		return named[0], nil
	default:
		return nil, fmt.Errorf("stage name %q is ambiguous (%d matches); use the stage ID", input, len(named))
	}

	var matches []*domain.WorkStage
	for _, s := range stages {
		if strings.HasPrefix(s.ID, input) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("stage not found in %s: %q", p.DisplayID(), input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("stage ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// parseTables parses and de-duplicates --tables values.
func parseTables(values []string) ([]domain.TableID, error) {
	var out []domain.TableID
	seen := map[domain.TableID]bool{}
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		t, err := domain.ParseTableID(v)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// parseDateFlag parses a required date flag value.
func parseDateFlag(name, value string) (domain.Date, error) {
	if value == "" {
		return domain.Date{}, fmt.Errorf("--%s is required (YYYY-MM-DD)", name)
	}
	return domain.ParseDate(value)
}
