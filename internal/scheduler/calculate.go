package scheduler

import (
	"fmt"

	"github.com/alexanderramin/backplan/internal/domain"
)

// Calculate resolves the milestone dates and all three tables for anchor.
// It keeps no state between calls and is safe for concurrent use.
func Calculate(anchor domain.Date, p *domain.Project, stages []domain.WorkStage, holidays domain.HolidaySet, opts Options) (*domain.CalculationResult, error) {
	opts = opts.withDefaults()

	result := &domain.CalculationResult{
		AnchorDate:      anchor,
		HeadsUpDate:     HeadsUpDate(anchor, p, holidays),
		IOSReviewDate:   IOSReviewDate(anchor, p, holidays),
		PaidProductDate: PaidProductDate(anchor, p, holidays),
		Tables:          make(map[domain.TableID][]domain.ScheduleEntry, len(domain.AllTables)),
	}

	for _, table := range domain.AllTables {
		entries, err := Expand(anchor, stages, table, holidays, opts)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", table, err)
		}
		result.Tables[table] = entries
	}
	return result, nil
}
