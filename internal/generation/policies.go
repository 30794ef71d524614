package generation

import (
	"cmp"
	"math"

	"github.com/alexanderramin/backplan/internal/domain"
)

const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "18:00"
)

// StageDefaultsInput contains stage fields participating in the defaults cascade.
type StageDefaultsInput struct {
	StartTime string
	EndTime   string
	Tables    []domain.TableID
}

// ResolvedStageDefaults is the resolved result of the defaults cascade.
type ResolvedStageDefaults struct {
	StartTime string
	EndTime   string
	Tables    []domain.TableID
}

// ResolveStageDefaults applies defaults cascade: stage > defaults > hardcoded.
// Tables fall back to table1 only when neither level names any.
func ResolveStageDefaults(stage, defaults StageDefaultsInput) ResolvedStageDefaults {
	tables := stage.Tables
	if len(tables) == 0 {
		tables = defaults.Tables
	}
	return ResolveStageFallbacks(StageDefaultsInput{
		StartTime: cmp.Or(stage.StartTime, defaults.StartTime),
		EndTime:   cmp.Or(stage.EndTime, defaults.EndTime),
		Tables:    tables,
	})
}

// ResolveStageFallbacks fills blank fields from the hardcoded defaults only.
func ResolveStageFallbacks(stage StageDefaultsInput) ResolvedStageDefaults {
	tables := stage.Tables
	if len(tables) == 0 {
		tables = []domain.TableID{domain.Table1}
	}
	return ResolvedStageDefaults{
		StartTime: cmp.Or(stage.StartTime, DefaultStartTime),
		EndTime:   cmp.Or(stage.EndTime, DefaultEndTime),
		Tables:    append([]domain.TableID(nil), tables...),
	}
}

// NextTopOrder returns the order for a new top-level stage: the next whole
// number after the largest existing order.
func NextTopOrder(existing []float64) float64 {
	highest := 0.0
	for _, o := range existing {
		if o > highest {
			highest = o
		}
	}
	return math.Floor(highest) + 1
}

// NextChildOrder returns the order for a new sub-stage of a parent at
// parentOrder. Children count up in tenths (2.1, 2.2, ...) and never reach
// the next whole number; past 2.9 they halve the remaining gap.
func NextChildOrder(parentOrder float64, siblings []float64) float64 {
	last := parentOrder
	for _, o := range siblings {
		if o > last {
			last = o
		}
	}
	ceiling := math.Floor(parentOrder) + 1
	if next := roundTenth(last + 0.1); next < ceiling {
		return next
	}
	return last + (ceiling-last)/2
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
