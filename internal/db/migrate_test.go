package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	return names
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_RerunKeepsStoredRows(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO holidays (id, date, name, is_manual, created_at)
		VALUES ('h1', '2026-03-01', 'Independence Movement Day', 1, '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var date string
	var manual int
	require.NoError(t, db.QueryRow(`SELECT date, is_manual FROM holidays WHERE id = 'h1'`).Scan(&date, &manual))
	assert.Equal(t, "2026-03-01", date)
	assert.Equal(t, 1, manual)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"projects", "work_stages", "stage_tables", "holidays"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_projects_short_id",
		"idx_work_stages_project",
		"idx_work_stages_parent",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_ProjectsPaidProductColumns(t *testing.T) {
	db := openTestDB(t)

	cols := columnNames(t, db, "projects")
	assert.Contains(t, cols, "show_paid_product")
	assert.Contains(t, cols, "paid_product_offset")
}

func TestMigrate_StageDepthCheckConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'APP01', 'App', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO work_stages (id, project_id, name, depth, created_at, updated_at)
		VALUES ('s1', 'p1', 'Deep', 2, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err, "depth 2 should be rejected by CHECK constraint")

	_, err = db.Exec(`INSERT INTO work_stages (id, project_id, name, depth, created_at, updated_at)
		VALUES ('s1', 'p1', 'Top', 0, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	assert.NoError(t, err)
}

func TestMigrate_StageTablesRejectUnknownTable(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'APP01', 'App', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO work_stages (id, project_id, name, created_at, updated_at)
		VALUES ('s1', 'p1', 'QA', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO stage_tables (stage_id, table_id) VALUES ('s1', 'table4')`)
	assert.Error(t, err)
	_, err = db.Exec(`INSERT INTO stage_tables (stage_id, table_id) VALUES ('s1', 'table2')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stage_tables (stage_id, table_id) VALUES ('s1', 'table2')`)
	assert.Error(t, err, "duplicate stage/table pair should violate primary key")
}

func TestMigrate_DeleteProjectCascadesToStages(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES ('p1', 'APP01', 'App', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO work_stages (id, project_id, name, created_at, updated_at)
		VALUES ('s1', 'p1', 'QA', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO work_stages (id, project_id, parent_stage_id, name, depth, created_at, updated_at)
		VALUES ('s2', 'p1', 's1', 'QA sub', 1, '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stage_tables (stage_id, table_id) VALUES ('s2', 'table1')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM work_stages`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM stage_tables`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestMigrate_HolidayDateUnique(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO holidays (id, date, name, created_at) VALUES ('h1', '2026-03-01', 'A', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO holidays (id, date, name, created_at) VALUES ('h2', '2026-03-01', 'B', '2026-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func TestMigrate_ProjectsShortIDPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)

	insert := `INSERT INTO projects (id, short_id, name, created_at, updated_at)
		VALUES (?, ?, 'App', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`

	_, err := db.Exec(insert, "p1", "")
	require.NoError(t, err)
	_, err = db.Exec(insert, "p2", "")
	require.NoError(t, err)

	_, err = db.Exec(insert, "p3", "DUP01")
	require.NoError(t, err)
	_, err = db.Exec(insert, "p4", "DUP01")
	assert.Error(t, err)
}
