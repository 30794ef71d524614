package scheduler

import (
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/samber/mo"
)

// HeadsUpDate is always computed from the project's heads-up offset.
func HeadsUpDate(anchor domain.Date, p *domain.Project, holidays domain.HolidaySet) domain.Date {
	return ResolveBusinessDate(anchor, p.HeadsUpOffset, holidays)
}

// IOSReviewDate is present only when the project enables it and sets an offset.
func IOSReviewDate(anchor domain.Date, p *domain.Project, holidays domain.HolidaySet) mo.Option[domain.Date] {
	return optionalMilestone(anchor, p.ShowIOSReviewDate, p.IOSReviewOffset, holidays)
}

// PaidProductDate is present only when the project enables it and sets an offset.
func PaidProductDate(anchor domain.Date, p *domain.Project, holidays domain.HolidaySet) mo.Option[domain.Date] {
	return optionalMilestone(anchor, p.ShowPaidProductDate, p.PaidProductOffset, holidays)
}

func optionalMilestone(anchor domain.Date, enabled bool, offset *int, holidays domain.HolidaySet) mo.Option[domain.Date] {
	if !enabled || offset == nil {
		return mo.None[domain.Date]()
	}
	return mo.Some(ResolveBusinessDate(anchor, *offset, holidays))
}
