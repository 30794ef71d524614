package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/app"
	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/holiday"
	"github.com/alexanderramin/backplan/internal/repository"
	"github.com/google/uuid"
)

type holidayService struct {
	holidays repository.HolidayRepo
	fetcher  holiday.Fetcher
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewHolidayService wires holiday storage. fetcher may be nil when no API
// key is configured; SyncFromAPI then fails.
func NewHolidayService(holidays repository.HolidayRepo, fetcher holiday.Fetcher, uow db.UnitOfWork, observers ...UseCaseObserver) HolidayService {
	return &holidayService{
		holidays: holidays,
		fetcher:  fetcher,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Add stores a manual holiday, replacing any imported entry on that date.
func (s *holidayService) Add(ctx context.Context, d domain.Date, name string) (_ *domain.Holiday, err error) {
	defer observe(ctx, s.observer, "add-holiday", time.Now(), map[string]any{"date": d.String()}, &err)
	if d.IsZero() {
		return nil, fmt.Errorf("holiday date is required")
	}
	h := &domain.Holiday{
		ID:        uuid.New().String(),
		Date:      d,
		Name:      strings.TrimSpace(name),
		IsManual:  true,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err = s.holidays.Upsert(ctx, h); err != nil {
		return nil, err
	}
	return s.holidays.GetByDate(ctx, d)
}

func (s *holidayService) Remove(ctx context.Context, d domain.Date) (err error) {
	defer observe(ctx, s.observer, "remove-holiday", time.Now(), map[string]any{"date": d.String()}, &err)
	return s.holidays.Delete(ctx, d)
}

func (s *holidayService) List(ctx context.Context, year int) ([]*domain.Holiday, error) {
	if year == 0 {
		return s.holidays.ListAll(ctx)
	}
	from := domain.NewDate(year, time.January, 1)
	to := domain.NewDate(year, time.December, 31)
	return s.holidays.ListRange(ctx, from, to)
}

func (s *holidayService) ImportCSV(ctx context.Context, r io.Reader) (result *app.HolidayImportResult, err error) {
	fields := map[string]any{"source": "csv"}
	defer observe(ctx, s.observer, "import-holidays", time.Now(), fields, &err)

	items, err := holiday.ParseCSV(r)
	if err != nil {
		return nil, err
	}
	fields["rows"] = len(items)
	return s.store(ctx, items)
}

func (s *holidayService) SyncFromAPI(ctx context.Context, year int) (result *app.HolidayImportResult, err error) {
	fields := map[string]any{"source": "api", "year": year}
	defer observe(ctx, s.observer, "sync-holidays", time.Now(), fields, &err)

	if s.fetcher == nil {
		return nil, fmt.Errorf("holiday API is not configured (set holiday_api.service_key)")
	}
	items, err := s.fetcher.FetchYear(ctx, year)
	if err != nil {
		return nil, err
	}
	fields["rows"] = len(items)
	return s.store(ctx, items)
}

// store upserts imported holidays in one transaction. Manual entries win
// over imported ones on the same date.
func (s *holidayService) store(ctx context.Context, items []domain.Holiday) (*app.HolidayImportResult, error) {
	result := &app.HolidayImportResult{}
	now := time.Now().UTC().Truncate(time.Second)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHolidays := repository.NewSQLiteHolidayRepo(tx)

		for i := range items {
			h := items[i]
			h.IsManual = false
			if h.ID == "" {
				h.ID = uuid.New().String()
			}
			h.CreatedAt = now

			existing, err := txHolidays.GetByDate(ctx, h.Date)
			switch {
			case errors.Is(err, repository.ErrNotFound):
				result.Added++
			case err != nil:
				return err
			case existing.IsManual:
				result.Skipped++
				continue
			case existing.Name == h.Name:
				result.Unchanged++
				continue
			default:
				result.Updated++
			}

			if err := txHolidays.Upsert(ctx, &h); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
