// Package export renders a calculated schedule as an iCalendar feed.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/emersion/go-ical"
)

const productID = "-//backplan//Release Schedule//EN"

// ErrNoEvents is returned when the selected tables have no rows and
// milestones are skipped. A VCALENDAR needs at least one component.
var ErrNoEvents = errors.New("no events to export")

// ICSOptions controls which rows are exported.
type ICSOptions struct {
	// Tables limits the feed; empty means every table.
	Tables []domain.TableID
	// Stamp is written as DTSTAMP; zero means now.
	Stamp time.Time
	// SkipMilestones leaves out the all-day heads-up, iOS review and paid
	// product events.
	SkipMilestones bool
}

// ICS encodes result as a VCALENDAR. Each schedule entry becomes a timed
// VEVENT whose UID is the entry id; milestones become all-day events.
func ICS(result *domain.CalculationResult, project *domain.Project, opts ICSOptions) ([]byte, error) {
	stamp := opts.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}
	stamp = stamp.UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	cal.Props.SetText(ical.PropName, fmt.Sprintf("%s %s", project.DisplayID(), project.Name))

	tables := opts.Tables
	if len(tables) == 0 {
		tables = domain.AllTables
	}
	for _, t := range tables {
		for _, row := range result.Rows(t) {
			ev := ical.NewEvent()
			ev.Props.SetText(ical.PropUID, row.Entry.ID)
			ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
			ev.Props.SetText(ical.PropSummary, fmt.Sprintf("[%s] %s %s", project.TableName(t), row.Label, row.Entry.StageName))
			ev.Props.SetDateTime(ical.PropDateTimeStart, row.Entry.Start.UTC())
			ev.Props.SetDateTime(ical.PropDateTimeEnd, eventEnd(row.Entry))
			ev.Props.SetText(ical.PropCategories, project.TableName(t))
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if !opts.SkipMilestones {
		for _, m := range Milestones(result) {
			ev := ical.NewEvent()
			ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s-%s-%s@backplan", project.ID, m.Key, m.Date))
			ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
			ev.Props.SetText(ical.PropSummary, fmt.Sprintf("%s: %s", project.DisplayID(), m.Label))
			ev.Props.SetDate(ical.PropDateTimeStart, m.Date.Time())
			ev.Props.SetDate(ical.PropDateTimeEnd, m.Date.AddDays(1).Time())
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if len(cal.Children) == 0 {
		return nil, ErrNoEvents
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encoding calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// eventEnd keeps DTEND after DTSTART; calendar clients reject inverted
// events, so those collapse to a zero-length event at the start.
func eventEnd(e *domain.ScheduleEntry) time.Time {
	if e.Inverted() {
		return e.Start.UTC()
	}
	return e.End.UTC()
}

// Milestone is a derived date worth showing next to the stage rows.
type Milestone struct {
	Key   string
	Label string
	Date  domain.Date
}

// Milestones lists the update date and every present derived date, latest
// last.
func Milestones(result *domain.CalculationResult) []Milestone {
	out := []Milestone{{Key: "heads-up", Label: "Heads-up", Date: result.HeadsUpDate}}
	if d, ok := result.IOSReviewDate.Get(); ok {
		out = append(out, Milestone{Key: "ios-review", Label: "iOS review submission", Date: d})
	}
	if d, ok := result.PaidProductDate.Get(); ok {
		out = append(out, Milestone{Key: "paid-product", Label: "Paid product registration", Date: d})
	}
	out = append(out, Milestone{Key: "update", Label: "Update", Date: result.AnchorDate})

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
