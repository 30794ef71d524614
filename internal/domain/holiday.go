package domain

import "time"

// Holiday is a non-business day. Name and IsManual are informational; only
// Date takes part in scheduling.
type Holiday struct {
	ID        string
	Date      Date
	Name      string
	IsManual  bool
	CreatedAt time.Time
}

// HolidaySet is an unordered set of non-business dates. The zero value is an
// empty set ready to use.
type HolidaySet struct {
	days map[Date]struct{}
}

// NewHolidaySet builds a set from the given dates. Duplicates collapse.
func NewHolidaySet(dates ...Date) HolidaySet {
	s := HolidaySet{days: make(map[Date]struct{}, len(dates))}
	for _, d := range dates {
		s.days[d] = struct{}{}
	}
	return s
}

// HolidaySetFrom builds a set from holiday records, ignoring name and provenance.
func HolidaySetFrom(holidays []*Holiday) HolidaySet {
	s := HolidaySet{days: make(map[Date]struct{}, len(holidays))}
	for _, h := range holidays {
		if h == nil {
			continue
		}
		s.days[h.Date] = struct{}{}
	}
	return s
}

// Contains reports whether d is a listed holiday.
func (s HolidaySet) Contains(d Date) bool {
	_, ok := s.days[d]
	return ok
}

func (s HolidaySet) Len() int {
	return len(s.days)
}
