package app

import "github.com/alexanderramin/backplan/internal/domain"

type ScheduleWarningCode string

const (
	// WarnEndBeforeStart flags an entry whose resolved end precedes its start.
	WarnEndBeforeStart ScheduleWarningCode = "END_BEFORE_START"
	// WarnAnchorNotBusinessDay flags an update date on a weekend or holiday.
	WarnAnchorNotBusinessDay ScheduleWarningCode = "ANCHOR_NOT_BUSINESS_DAY"
)

type ScheduleWarning struct {
	Code    ScheduleWarningCode
	Table   domain.TableID
	StageID string
	Message string
}
