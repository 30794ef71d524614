package domain

import (
	"fmt"
	"time"

	"github.com/samber/mo"
)

// ScheduleEntry is one resolved row of a table. Entries are rebuilt from
// scratch on every calculation; IDs are not stable across runs.
type ScheduleEntry struct {
	ID        string          `json:"id"`
	Index     int             `json:"index"`
	StageID   string          `json:"stage_id"`
	StageName string          `json:"stage_name"`
	Start     time.Time       `json:"start"`
	End       time.Time       `json:"end"`
	Children  []ScheduleEntry `json:"children,omitempty"`
	ParentID  *string         `json:"parent_id,omitempty"`
}

// Inverted reports whether the resolved end precedes the resolved start.
func (e *ScheduleEntry) Inverted() bool {
	return e.End.Before(e.Start)
}

// CalculationResult is the full schedule for one anchor date.
type CalculationResult struct {
	AnchorDate      Date                        `json:"anchor_date"`
	HeadsUpDate     Date                        `json:"heads_up_date"`
	IOSReviewDate   mo.Option[Date]             `json:"ios_review_date"`
	PaidProductDate mo.Option[Date]             `json:"paid_product_date"`
	Tables          map[TableID][]ScheduleEntry `json:"tables"`
}

// Walk visits every entry of every table in display order, parents before
// their children.
func (r *CalculationResult) Walk(fn func(table TableID, entry *ScheduleEntry)) {
	for _, t := range AllTables {
		entries := r.Tables[t]
		for i := range entries {
			fn(t, &entries[i])
			for j := range entries[i].Children {
				fn(t, &entries[i].Children[j])
			}
		}
	}
}

// Row is an entry flattened for display, labelled "2" for a parent and
// "2-1" for its first child.
type Row struct {
	Table TableID
	Label string
	Child bool
	Entry *ScheduleEntry
}

// Rows flattens one table in display order.
func (r *CalculationResult) Rows(t TableID) []Row {
	entries := r.Tables[t]
	var rows []Row
	for i := range entries {
		parent := &entries[i]
		rows = append(rows, Row{Table: t, Label: fmt.Sprintf("%d", parent.Index), Entry: parent})
		for j := range parent.Children {
			child := &parent.Children[j]
			rows = append(rows, Row{
				Table: t,
				Label: fmt.Sprintf("%d-%d", parent.Index, child.Index),
				Child: true,
				Entry: child,
			})
		}
	}
	return rows
}

// Span returns the earliest start and latest end across every entry. ok is
// false when the result holds no entries.
func (r *CalculationResult) Span() (first, last time.Time, ok bool) {
	r.Walk(func(_ TableID, e *ScheduleEntry) {
		for _, ts := range []time.Time{e.Start, e.End} {
			if !ok || ts.Before(first) {
				first = ts
			}
			if !ok || ts.After(last) {
				last = ts
			}
			ok = true
		}
	})
	return first, last, ok
}
