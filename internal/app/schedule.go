package app

import (
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
)

type ScheduleRequest struct {
	// ProjectID accepts a project UUID or short ID.
	ProjectID  string
	AnchorDate domain.Date
	// Location places stage clocks; nil means UTC.
	Location *time.Location
	// NewID overrides entry id generation; nil means random UUIDs.
	NewID func() string
}

func NewScheduleRequest(projectID string, anchor domain.Date) ScheduleRequest {
	return ScheduleRequest{
		ProjectID:  projectID,
		AnchorDate: anchor,
		Location:   time.UTC,
	}
}

type ScheduleResponse struct {
	Project  *domain.Project
	Result   *domain.CalculationResult
	Holidays domain.HolidaySet
	Warnings []ScheduleWarning
}
