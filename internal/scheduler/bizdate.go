package scheduler

import "github.com/alexanderramin/backplan/internal/domain"

// IsBusinessDay reports whether d is a weekday that is not a listed holiday.
func IsBusinessDay(d domain.Date, holidays domain.HolidaySet) bool {
	return !d.IsWeekend() && !holidays.Contains(d)
}

// ResolveBusinessDate walks offsetDays business days away from anchor and
// returns the last counted day. Positive offsets walk into the past, negative
// offsets into the future.
//
// An offset of zero always returns anchor unchanged, even when anchor is a
// weekend or a holiday.
func ResolveBusinessDate(anchor domain.Date, offsetDays int, holidays domain.HolidaySet) domain.Date {
	if offsetDays == 0 {
		return anchor
	}

	step, remaining := 1, -offsetDays
	if offsetDays > 0 {
		step, remaining = -1, offsetDays
	}

	day := anchor
	for remaining > 0 {
		day = day.AddDays(step)
		if IsBusinessDay(day, holidays) {
			remaining--
		}
	}
	return day
}
