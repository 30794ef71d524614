package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/google/uuid"
)

// IDFunc produces a fresh schedule entry id.
type IDFunc func() string

// Options tunes how timestamps and entry ids are produced. The zero value
// resolves in UTC and uses random UUIDs.
type Options struct {
	Location *time.Location
	NewID    IDFunc
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Expand builds the entry tree for one table.
//
// A top-level stage appears when it is tagged for the table, or when at least
// one of its sub-stages is (the parent is then a structural container).
// Parents are ordered by Order, then stage id; children likewise within their
// parent. Index is 1-based among siblings. Sub-stages are only ever shown if
// tagged for the table themselves, and a sub-stage whose parent is missing
// from stages is dropped.
func Expand(anchor domain.Date, stages []domain.WorkStage, table domain.TableID, holidays domain.HolidaySet, opts Options) ([]domain.ScheduleEntry, error) {
	opts = opts.withDefaults()

	children := make(map[string][]domain.WorkStage)
	for _, s := range stages {
		if s.IsSubStage() && s.TargetsTable(table) {
			children[*s.ParentStageID] = append(children[*s.ParentStageID], s)
		}
	}

	seen := make(map[string]bool)
	var parents []domain.WorkStage
	for _, s := range stages {
		if s.Depth != domain.DepthTop || seen[s.ID] {
			continue
		}
		if s.TargetsTable(table) || len(children[s.ID]) > 0 {
			seen[s.ID] = true
			parents = append(parents, s)
		}
	}
	SortStages(parents)

	entries := make([]domain.ScheduleEntry, 0, len(parents))
	for i, parent := range parents {
		entry, err := resolveEntry(anchor, parent, i+1, holidays, opts)
		if err != nil {
			return nil, err
		}

		kids := children[parent.ID]
		SortStages(kids)
		for j, kid := range kids {
			child, err := resolveEntry(anchor, kid, j+1, holidays, opts)
			if err != nil {
				return nil, err
			}
			parentID := entry.ID
			child.ParentID = &parentID
			entry.Children = append(entry.Children, child)
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func resolveEntry(anchor domain.Date, stage domain.WorkStage, index int, holidays domain.HolidaySet, opts Options) (domain.ScheduleEntry, error) {
	times, err := ResolveStageTimes(anchor, stage, holidays, opts.Location)
	if err != nil {
		return domain.ScheduleEntry{}, fmt.Errorf("resolving stage %q: %w", stage.Name, err)
	}
	return domain.ScheduleEntry{
		ID:        opts.NewID(),
		Index:     index,
		StageID:   stage.ID,
		StageName: stage.Name,
		Start:     times.Start,
		End:       times.End,
	}, nil
}
