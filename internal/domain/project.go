package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Project holds the release-level settings the schedule is computed from.
type Project struct {
	ID      string
	ShortID string
	Name    string
	Status  ProjectStatus

	// Milestone offsets, in business days before the update date.
	HeadsUpOffset       int
	ShowIOSReviewDate   bool
	IOSReviewOffset     *int
	ShowPaidProductDate bool
	PaidProductOffset   *int

	// Optional display names for the three tables.
	TableNames map[TableID]string

	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. APP01, SHOP0234).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. APP01)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// TableName returns the configured display name for t, falling back to the
// table id itself.
func (p *Project) TableName(t TableID) string {
	if name := p.TableNames[t]; name != "" {
		return name
	}
	return string(t)
}
