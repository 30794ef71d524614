package app

import (
	"context"

	"github.com/alexanderramin/backplan/internal/importer"
)

type ScheduleUseCase interface {
	Calculate(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error)
}

type ImportResult struct {
	ProjectID     string
	ProjectName   string
	ShortID       string
	StageCount    int
	SubStageCount int
}

type ImportProjectUseCase interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}

// HolidayImportResult counts what an import or sync did to the holiday table.
type HolidayImportResult struct {
	Added   int
	Updated int
	// Unchanged counts incoming rows identical to what is stored.
	Unchanged int
	// Skipped counts incoming rows that collided with a manual entry.
	Skipped int
}
