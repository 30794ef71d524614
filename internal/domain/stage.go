package domain

import (
	"fmt"
	"time"
)

// WorkStage is a reusable template for one piece of release work. Offsets
// count business days back from the anchor date (negative = forward).
type WorkStage struct {
	ID              string
	ProjectID       string
	Name            string
	StartOffsetDays int
	EndOffsetDays   int
	StartTime       string // HH:MM
	EndTime         string // HH:MM
	Order           float64
	Depth           StageDepth
	ParentStageID   *string
	TableTargets    []TableID
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TargetsTable reports whether the stage is explicitly tagged for t.
func (s *WorkStage) TargetsTable(t TableID) bool {
	for _, target := range s.TableTargets {
		if target == t {
			return true
		}
	}
	return false
}

// IsSubStage reports whether the stage hangs under a parent stage.
func (s *WorkStage) IsSubStage() bool {
	return s.Depth == DepthSub && s.ParentStageID != nil
}

// Validate checks the structural rules a stage must satisfy before it is
// stored. The scheduler itself assumes stages already passed this.
func (s *WorkStage) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("stage name is required")
	}
	switch s.Depth {
	case DepthTop:
		if s.ParentStageID != nil {
			return fmt.Errorf("top-level stage %q must not have a parent", s.Name)
		}
	case DepthSub:
		if s.ParentStageID == nil || *s.ParentStageID == "" {
			return fmt.Errorf("sub-stage %q requires a parent stage", s.Name)
		}
		if *s.ParentStageID == s.ID {
			return fmt.Errorf("stage %q cannot be its own parent", s.Name)
		}
	default:
		return fmt.Errorf("stage %q has unsupported depth %d (only 0 and 1 are allowed)", s.Name, s.Depth)
	}
	if _, err := ParseClock(s.StartTime); err != nil {
		return fmt.Errorf("stage %q start time: %w", s.Name, err)
	}
	if _, err := ParseClock(s.EndTime); err != nil {
		return fmt.Errorf("stage %q end time: %w", s.Name, err)
	}
	if len(s.TableTargets) == 0 {
		return fmt.Errorf("stage %q must target at least one table", s.Name)
	}
	for _, t := range s.TableTargets {
		if !t.Valid() {
			return fmt.Errorf("stage %q has unknown table %q", s.Name, t)
		}
	}
	return nil
}
