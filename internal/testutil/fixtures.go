package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithHeadsUpOffset(n int) ProjectOption {
	return func(p *domain.Project) {
		p.HeadsUpOffset = n
	}
}

func WithIOSReview(offset int) ProjectOption {
	return func(p *domain.Project) {
		p.ShowIOSReviewDate = true
		p.IOSReviewOffset = &offset
	}
}

func WithPaidProduct(offset int) ProjectOption {
	return func(p *domain.Project) {
		p.ShowPaidProductDate = true
		p.PaidProductOffset = &offset
	}
}

func WithTableName(t domain.TableID, name string) ProjectOption {
	return func(p *domain.Project) {
		if p.TableNames == nil {
			p.TableNames = make(map[domain.TableID]string)
		}
		p.TableNames[t] = name
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:            uuid.New().String(),
		ShortID:       defaultShortID(name),
		Name:          name,
		Status:        domain.ProjectActive,
		HeadsUpOffset: 15,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WorkStage options
type StageOption func(*domain.WorkStage)

func WithOffsets(start, end int) StageOption {
	return func(s *domain.WorkStage) {
		s.StartOffsetDays = start
		s.EndOffsetDays = end
	}
}

func WithClock(start, end string) StageOption {
	return func(s *domain.WorkStage) {
		s.StartTime = start
		s.EndTime = end
	}
}

func WithOrder(o float64) StageOption {
	return func(s *domain.WorkStage) {
		s.Order = o
	}
}

func WithTables(tables ...domain.TableID) StageOption {
	return func(s *domain.WorkStage) {
		s.TableTargets = tables
	}
}

// WithParent makes the stage a sub-stage of parentID.
func WithParent(parentID string) StageOption {
	return func(s *domain.WorkStage) {
		s.Depth = domain.DepthSub
		s.ParentStageID = &parentID
	}
}

func NewTestStage(projectID, name string, opts ...StageOption) *domain.WorkStage {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.WorkStage{
		ID:              uuid.New().String(),
		ProjectID:       projectID,
		Name:            name,
		StartOffsetDays: 5,
		EndOffsetDays:   3,
		StartTime:       "09:00",
		EndTime:         "18:00",
		Order:           1,
		Depth:           domain.DepthTop,
		TableTargets:    []domain.TableID{domain.Table1},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Holiday options
type HolidayOption func(*domain.Holiday)

func WithManual() HolidayOption {
	return func(h *domain.Holiday) {
		h.IsManual = true
	}
}

func NewTestHoliday(d domain.Date, name string, opts ...HolidayOption) *domain.Holiday {
	h := &domain.Holiday{
		ID:        uuid.New().String(),
		Date:      d,
		Name:      name,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SeqIDs returns an id source yielding prefix-1, prefix-2, ... so schedule
// output can be compared exactly. Not safe for concurrent use.
func SeqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
