package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/db"
	"github.com/alexanderramin/backplan/internal/domain"
)

// stageColumns is the canonical SELECT column list for work_stages.
const stageColumns = `id, project_id, parent_stage_id, name, start_offset_days, end_offset_days,
		start_time, end_time, sort_order, depth, created_at, updated_at`

// SQLiteStageRepo implements StageRepo using a SQLite database. Writes touch
// both work_stages and stage_tables, so callers should run them inside a
// unit of work.
type SQLiteStageRepo struct {
	db db.DBTX
}

// NewSQLiteStageRepo creates a new SQLiteStageRepo.
func NewSQLiteStageRepo(conn db.DBTX) *SQLiteStageRepo {
	return &SQLiteStageRepo{db: conn}
}

func (r *SQLiteStageRepo) Create(ctx context.Context, s *domain.WorkStage) error {
	query := `INSERT INTO work_stages (` + stageColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.ProjectID,
		s.ParentStageID, // *string: nil becomes SQL NULL
		s.Name,
		s.StartOffsetDays,
		s.EndOffsetDays,
		s.StartTime,
		s.EndTime,
		s.Order,
		int(s.Depth),
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting stage: %w", err)
	}
	return r.insertTables(ctx, s.ID, s.TableTargets)
}

func (r *SQLiteStageRepo) GetByID(ctx context.Context, id string) (*domain.WorkStage, error) {
	query := `SELECT ` + stageColumns + ` FROM work_stages WHERE id = ?`
	s, err := scanStage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("stage %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if err := r.attachTables(ctx, []*domain.WorkStage{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// ListByProject returns every stage of the project, top-level and sub, in
// sort_order.
func (r *SQLiteStageRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.WorkStage, error) {
	query := `SELECT ` + stageColumns + ` FROM work_stages
		WHERE project_id = ? ORDER BY sort_order, id`
	return r.list(ctx, query, projectID)
}

func (r *SQLiteStageRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.WorkStage, error) {
	query := `SELECT ` + stageColumns + ` FROM work_stages
		WHERE parent_stage_id = ? ORDER BY sort_order, id`
	return r.list(ctx, query, parentID)
}

func (r *SQLiteStageRepo) list(ctx context.Context, query string, arg string) ([]*domain.WorkStage, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing stages: %w", err)
	}

	var stages []*domain.WorkStage
	for rows.Next() {
		s, err := scanStage(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		stages = append(stages, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating stages: %w", err)
	}
	rows.Close()

	if err := r.attachTables(ctx, stages); err != nil {
		return nil, err
	}
	return stages, nil
}

func (r *SQLiteStageRepo) Update(ctx context.Context, s *domain.WorkStage) error {
	query := `UPDATE work_stages SET parent_stage_id = ?, name = ?, start_offset_days = ?,
		end_offset_days = ?, start_time = ?, end_time = ?, sort_order = ?, depth = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.ParentStageID,
		s.Name,
		s.StartOffsetDays,
		s.EndOffsetDays,
		s.StartTime,
		s.EndTime,
		s.Order,
		int(s.Depth),
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating stage: %w", err)
	}
	if err := requireAffected(res, "stage", s.ID); err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM stage_tables WHERE stage_id = ?`, s.ID); err != nil {
		return fmt.Errorf("clearing stage tables: %w", err)
	}
	return r.insertTables(ctx, s.ID, s.TableTargets)
}

// Delete removes the stage; sub-stages and table targets cascade.
func (r *SQLiteStageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM work_stages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stage: %w", err)
	}
	return nil
}

func (r *SQLiteStageRepo) insertTables(ctx context.Context, stageID string, tables []domain.TableID) error {
	for _, t := range tables {
		_, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO stage_tables (stage_id, table_id) VALUES (?, ?)`, stageID, string(t))
		if err != nil {
			return fmt.Errorf("inserting stage table %s: %w", t, err)
		}
	}
	return nil
}

// attachTables loads table targets for stages in one query.
func (r *SQLiteStageRepo) attachTables(ctx context.Context, stages []*domain.WorkStage) error {
	if len(stages) == 0 {
		return nil
	}

	byID := make(map[string]*domain.WorkStage, len(stages))
	placeholders := make([]string, 0, len(stages))
	args := make([]any, 0, len(stages))
	for _, s := range stages {
		byID[s.ID] = s
		placeholders = append(placeholders, "?")
		args = append(args, s.ID)
	}

	query := `SELECT stage_id, table_id FROM stage_tables
		WHERE stage_id IN (` + strings.Join(placeholders, ",") + `) ORDER BY stage_id, table_id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("loading stage tables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stageID, tableID string
		if err := rows.Scan(&stageID, &tableID); err != nil {
			return fmt.Errorf("scanning stage table: %w", err)
		}
		if s := byID[stageID]; s != nil {
			s.TableTargets = append(s.TableTargets, domain.TableID(tableID))
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating stage tables: %w", err)
	}
	return nil
}

// scanStage scans a single stage row without its table targets.
// sql.ErrNoRows is returned unwrapped.
func scanStage(row scanner) (*domain.WorkStage, error) {
	var s domain.WorkStage
	var parentID sql.NullString
	var depth int
	var createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &s.ProjectID, &parentID, &s.Name,
		&s.StartOffsetDays, &s.EndOffsetDays,
		&s.StartTime, &s.EndTime, &s.Order, &depth,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning stage: %w", err)
	}

	s.Depth = domain.StageDepth(depth)
	if parentID.Valid {
		pid := parentID.String
		s.ParentStageID = &pid
	}

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &s, nil
}
