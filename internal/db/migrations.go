package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS logs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  log_type TEXT NOT NULL CHECK(log_type IN ('beer', 'exercise')),
  logged_at DATETIME NOT NULL,
  kcal REAL NOT NULL,
  name TEXT NOT NULL DEFAULT '',
  style TEXT NOT NULL DEFAULT '',
  size TEXT NOT NULL DEFAULT '',
  count INTEGER NOT NULL DEFAULT 1 CHECK(count >= 1),
  abv REAL NOT NULL DEFAULT 0 CHECK(abv >= 0 AND abv <= 100),
  brewery TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  rating INTEGER NOT NULL DEFAULT 0 CHECK(rating >= 0 AND rating <= 5),
  is_custom INTEGER NOT NULL DEFAULT 0,
  custom_type TEXT NOT NULL DEFAULT '',
  raw_amount_ml REAL NOT NULL DEFAULT 0 CHECK(raw_amount_ml >= 0),
  minutes REAL NOT NULL DEFAULT 0 CHECK(minutes >= 0),
  exercise_key TEXT NOT NULL DEFAULT '',
  raw_minutes REAL NOT NULL DEFAULT 0 CHECK(raw_minutes >= 0),
  memo TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_logs_logged_at ON logs(logged_at);
CREATE INDEX IF NOT EXISTS idx_logs_log_type ON logs(log_type);

CREATE TABLE IF NOT EXISTS checks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  checked_at DATETIME NOT NULL,
  is_dry_day INTEGER,
  waist_ease INTEGER NOT NULL DEFAULT 0,
  foot_lightness INTEGER NOT NULL DEFAULT 0,
  water_ok INTEGER NOT NULL DEFAULT 0,
  fiber_ok INTEGER NOT NULL DEFAULT 0,
  extra_items_json TEXT NOT NULL DEFAULT '',
  weight_kg REAL CHECK(weight_kg > 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_checks_checked_at ON checks(checked_at);

CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 2,
		name:    "period_archives",
		sql: `
CREATE TABLE IF NOT EXISTS period_archives (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  start_date DATETIME NOT NULL,
  end_date DATETIME NOT NULL,
  mode TEXT NOT NULL CHECK(mode IN ('weekly', 'monthly')),
  total_balance REAL NOT NULL DEFAULT 0,
  logs_json TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_period_archives_start_date ON period_archives(start_date);
CREATE INDEX IF NOT EXISTS idx_period_archives_end_date ON period_archives(end_date);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
