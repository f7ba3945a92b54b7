package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/ciquab/nomutore/internal/db"
	"github.com/ciquab/nomutore/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nomutore.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

// testDay returns local noon of a fixed base date shifted by offset days.
func testDay(offset int) time.Time {
	return time.Date(2026, 5, 13, 12, 0, 0, 0, time.Local).AddDate(0, 0, offset)
}

func boolPtr(v bool) *bool { return &v }

// insertRawLog writes a log row directly so tests can pin exact kcal values.
func insertRawLog(t *testing.T, sqldb *sql.DB, logType model.LogType, at time.Time, kcal float64) int64 {
	t.Helper()
	res, err := sqldb.Exec(`
INSERT INTO logs(log_type, logged_at, kcal, name, minutes, exercise_key, raw_minutes)
VALUES(?, ?, ?, '', 0, '', 0)
`, string(logType), at.Format(time.RFC3339), kcal)
	if err != nil {
		t.Fatalf("insert raw log: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("raw log id: %v", err)
	}
	return id
}
