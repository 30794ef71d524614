package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
)

const holidayColumns = `id, date, name, is_manual, created_at`

// SQLiteHolidayRepo implements HolidayRepo using a SQLite database.
type SQLiteHolidayRepo struct {
	db db.DBTX
}

// NewSQLiteHolidayRepo creates a new SQLiteHolidayRepo.
func NewSQLiteHolidayRepo(conn db.DBTX) *SQLiteHolidayRepo {
	return &SQLiteHolidayRepo{db: conn}
}

// Upsert inserts h or, when its date already exists, replaces the name and
// manual flag of the existing row. The existing row keeps its id.
func (r *SQLiteHolidayRepo) Upsert(ctx context.Context, h *domain.Holiday) error {
	query := `INSERT INTO holidays (` + holidayColumns + `) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET name = excluded.name, is_manual = excluded.is_manual`
	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.Date.String(),
		h.Name,
		boolToInt(h.IsManual),
		h.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting holiday %s: %w", h.Date, err)
	}
	return nil
}

func (r *SQLiteHolidayRepo) GetByDate(ctx context.Context, d domain.Date) (*domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date = ?`
	h, err := scanHoliday(r.db.QueryRowContext(ctx, query, d.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("holiday %s: %w", d, ErrNotFound)
		}
		return nil, err
	}
	return h, nil
}

// ListRange returns holidays with from <= date <= to, ordered by date.
func (r *SQLiteHolidayRepo) ListRange(ctx context.Context, from, to domain.Date) ([]*domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays WHERE date >= ? AND date <= ? ORDER BY date`
	return r.list(ctx, query, from.String(), to.String())
}

func (r *SQLiteHolidayRepo) ListAll(ctx context.Context) ([]*domain.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays ORDER BY date`
	return r.list(ctx, query)
}

func (r *SQLiteHolidayRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing holidays: %w", err)
	}
	defer rows.Close()

	var holidays []*domain.Holiday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating holidays: %w", err)
	}
	return holidays, nil
}

func (r *SQLiteHolidayRepo) Delete(ctx context.Context, d domain.Date) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = ?`, d.String())
	if err != nil {
		return fmt.Errorf("deleting holiday: %w", err)
	}
	return requireAffected(res, "holiday", d.String())
}

func scanHoliday(row scanner) (*domain.Holiday, error) {
	var h domain.Holiday
	var dateStr, createdAtStr string
	var manual int

	if err := row.Scan(&h.ID, &dateStr, &h.Name, &manual, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning holiday: %w", err)
	}

	var err error
	if h.Date, err = domain.ParseDate(dateStr); err != nil {
		return nil, fmt.Errorf("parsing holiday date: %w", err)
	}
	if h.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	h.IsManual = intToBool(manual)
	return &h, nil
}
