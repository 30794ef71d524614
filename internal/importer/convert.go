package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/generation"
	"github.com/google/uuid"
)

// DefaultHeadsUpOffset applies when a template leaves heads_up_offset unset.
const DefaultHeadsUpOffset = 15

// GeneratedProject is the domain output of Convert, ready for persistence.
// Stages are ordered so every parent precedes its children.
type GeneratedProject struct {
	Project *domain.Project
	Stages  []*domain.WorkStage
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedProject, error) {
	now := time.Now().UTC()

	p := schema.Project
	project := &domain.Project{
		ID:                  uuid.New().String(),
		ShortID:             strings.ToUpper(p.ShortID),
		Name:                p.Name,
		Status:              domain.ProjectActive,
		HeadsUpOffset:       intOr(p.HeadsUpOffset, DefaultHeadsUpOffset),
		ShowIOSReviewDate:   p.IOSReviewOffset != nil,
		IOSReviewOffset:     p.IOSReviewOffset,
		ShowPaidProductDate: p.PaidProductOffset != nil,
		PaidProductOffset:   p.PaidProductOffset,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	for key, name := range p.TableNames {
		table, err := domain.ParseTableID(key)
		if err != nil {
			return nil, fmt.Errorf("project.table_names: %w", err)
		}
		if project.TableNames == nil {
			project.TableNames = make(map[domain.TableID]string, len(p.TableNames))
		}
		project.TableNames[table] = name
	}

	var defaults generation.StageDefaultsInput
	if schema.Defaults != nil {
		tables, err := parseTables(schema.Defaults.Tables)
		if err != nil {
			return nil, fmt.Errorf("defaults.tables: %w", err)
		}
		defaults = generation.StageDefaultsInput{
			StartTime: schema.Defaults.StartTime,
			EndTime:   schema.Defaults.EndTime,
			Tables:    tables,
		}
	}

	refMap := make(map[string]*domain.WorkStage, len(schema.Stages))
	var topOrders []float64
	childOrders := make(map[string][]float64)

	stages := make([]*domain.WorkStage, 0, len(schema.Stages))
	for _, s := range schema.Stages {
		tables, err := parseTables(s.Tables)
		if err != nil {
			return nil, fmt.Errorf("stage %q: %w", s.Ref, err)
		}
		resolved := generation.ResolveStageDefaults(generation.StageDefaultsInput{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Tables:    tables,
		}, defaults)

		stage := &domain.WorkStage{
			ID:              uuid.New().String(),
			ProjectID:       project.ID,
			Name:            s.Name,
			StartOffsetDays: s.StartOffset,
			EndOffsetDays:   s.EndOffset,
			StartTime:       resolved.StartTime,
			EndTime:         resolved.EndTime,
			Depth:           domain.DepthTop,
			TableTargets:    resolved.Tables,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if s.ParentRef != nil && *s.ParentRef != "" {
			parent, ok := refMap[*s.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for stage %q", *s.ParentRef, s.Ref)
			}
			parentID := parent.ID
			stage.Depth = domain.DepthSub
			stage.ParentStageID = &parentID
			if s.Order != nil {
				stage.Order = *s.Order
			} else {
				stage.Order = generation.NextChildOrder(parent.Order, childOrders[parent.ID])
			}
			childOrders[parent.ID] = append(childOrders[parent.ID], stage.Order)
		} else {
			if s.Order != nil {
				stage.Order = *s.Order
			} else {
				stage.Order = generation.NextTopOrder(topOrders)
			}
			topOrders = append(topOrders, stage.Order)
		}

		if err := stage.Validate(); err != nil {
			return nil, err
		}
		refMap[s.Ref] = stage
		stages = append(stages, stage)
	}

	return &GeneratedProject{Project: project, Stages: stages}, nil
}

func parseTables(raw []string) ([]domain.TableID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tables := make([]domain.TableID, 0, len(raw))
	for _, r := range raw {
		t, err := domain.ParseTableID(r)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
