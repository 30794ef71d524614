package db

import (
	"database/sql"
	"fmt"
)

// Migrate creates any missing tables and indexes. Every statement is
// idempotent, so it runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id              TEXT PRIMARY KEY,
		short_id        TEXT NOT NULL DEFAULT '',
		name            TEXT NOT NULL,
		status          TEXT NOT NULL DEFAULT 'active'
		                CHECK(status IN ('active','archived')),
		heads_up_offset INTEGER NOT NULL DEFAULT 0,
		show_ios_review INTEGER NOT NULL DEFAULT 0,
		ios_review_offset INTEGER,
		table1_name     TEXT NOT NULL DEFAULT '',
		table2_name     TEXT NOT NULL DEFAULT '',
		table3_name     TEXT NOT NULL DEFAULT '',
		show_paid_product   INTEGER NOT NULL DEFAULT 0,
		paid_product_offset INTEGER,
		archived_at     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS work_stages (
		id                TEXT PRIMARY KEY,
		project_id        TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_stage_id   TEXT REFERENCES work_stages(id) ON DELETE CASCADE,
		name              TEXT NOT NULL,
		start_offset_days INTEGER NOT NULL DEFAULT 0,
		end_offset_days   INTEGER NOT NULL DEFAULT 0,
		start_time        TEXT NOT NULL DEFAULT '09:00',
		end_time          TEXT NOT NULL DEFAULT '18:00',
		sort_order        REAL NOT NULL DEFAULT 0,
		depth             INTEGER NOT NULL DEFAULT 0 CHECK(depth IN (0, 1)),
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_stages_project ON work_stages(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_work_stages_parent ON work_stages(parent_stage_id)`,

	`CREATE TABLE IF NOT EXISTS stage_tables (
		stage_id TEXT NOT NULL REFERENCES work_stages(id) ON DELETE CASCADE,
		table_id TEXT NOT NULL CHECK(table_id IN ('table1','table2','table3')),
		PRIMARY KEY (stage_id, table_id)
	)`,

	`CREATE TABLE IF NOT EXISTS holidays (
		id         TEXT PRIMARY KEY,
		date       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL DEFAULT '',
		is_manual  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
}
