package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
)

// StageTimes is the resolved start/end pair for one stage.
type StageTimes struct {
	Start time.Time
	End   time.Time
}

// ResolveStageTimes resolves a stage's start and end timestamps. The two
// offsets are resolved independently from the same anchor; the end walk does
// not start from the resolved start. No ordering is enforced between them.
//
// A nil loc means UTC.
func ResolveStageTimes(anchor domain.Date, stage domain.WorkStage, holidays domain.HolidaySet, loc *time.Location) (StageTimes, error) {
	startClock, err := domain.ParseClock(stage.StartTime)
	if err != nil {
		return StageTimes{}, fmt.Errorf("stage %s start time: %w", stage.ID, err)
	}
	endClock, err := domain.ParseClock(stage.EndTime)
	if err != nil {
		return StageTimes{}, fmt.Errorf("stage %s end time: %w", stage.ID, err)
	}

	startDate := ResolveBusinessDate(anchor, stage.StartOffsetDays, holidays)
	endDate := ResolveBusinessDate(anchor, stage.EndOffsetDays, holidays)

	return StageTimes{
		Start: startDate.At(startClock, loc),
		End:   endDate.At(endClock, loc),
	}, nil
}
