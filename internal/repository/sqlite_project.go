package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
)

// projectColumns is the canonical SELECT column list for projects.
const projectColumns = `id, short_id, name, status, heads_up_offset,
		show_ios_review, ios_review_offset, show_paid_product, paid_product_offset,
		table1_name, table2_name, table3_name, archived_at, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		string(p.Status),
		p.HeadsUpOffset,
		boolToInt(p.ShowIOSReviewDate),
		nullableIntToValue(p.IOSReviewOffset),
		boolToInt(p.ShowPaidProductDate),
		nullableIntToValue(p.PaidProductOffset),
		p.TableNames[domain.Table1],
		p.TableNames[domain.Table2],
		p.TableNames[domain.Table3],
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return r.getOne(ctx, query, id)
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE UPPER(short_id) = UPPER(?)`
	return r.getOne(ctx, query, shortID)
}

func (r *SQLiteProjectRepo) getOne(ctx context.Context, query string, arg string) (*domain.Project, error) {
	p, err := scanProject(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project %s: %w", arg, ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE archived_at IS NULL ORDER BY created_at, short_id`
	if includeArchived {
		query = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, short_id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET short_id = ?, name = ?, status = ?, heads_up_offset = ?,
		show_ios_review = ?, ios_review_offset = ?, show_paid_product = ?, paid_product_offset = ?,
		table1_name = ?, table2_name = ?, table3_name = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Name,
		string(p.Status),
		p.HeadsUpOffset,
		boolToInt(p.ShowIOSReviewDate),
		nullableIntToValue(p.IOSReviewOffset),
		boolToInt(p.ShowPaidProductDate),
		nullableIntToValue(p.PaidProductOffset),
		p.TableNames[domain.Table1],
		p.TableNames[domain.Table2],
		p.TableNames[domain.Table3],
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE projects SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) Unarchive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE projects SET status = 'active', archived_at = NULL, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("unarchiving project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM projects WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// scanProject scans a single project row. sql.ErrNoRows is returned unwrapped.
func scanProject(row scanner) (*domain.Project, error) {
	var p domain.Project
	var statusStr, createdAtStr, updatedAtStr string
	var showIOS, showPaid int
	var iosOffset, paidOffset sql.NullInt64
	var t1, t2, t3 string
	var archivedAtStr sql.NullString

	err := row.Scan(
		&p.ID, &p.ShortID, &p.Name, &statusStr, &p.HeadsUpOffset,
		&showIOS, &iosOffset, &showPaid, &paidOffset,
		&t1, &t2, &t3, &archivedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.ShowIOSReviewDate = intToBool(showIOS)
	p.IOSReviewOffset = intFromNull(iosOffset)
	p.ShowPaidProductDate = intToBool(showPaid)
	p.PaidProductOffset = intFromNull(paidOffset)

	for table, name := range map[domain.TableID]string{domain.Table1: t1, domain.Table2: t2, domain.Table3: t3} {
		if name == "" {
			continue
		}
		if p.TableNames == nil {
			p.TableNames = make(map[domain.TableID]string, 3)
		}
		p.TableNames[table] = name
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	p.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

	return &p, nil
}

// requireAffected turns a zero-row UPDATE into ErrNotFound.
func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s rows affected: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
