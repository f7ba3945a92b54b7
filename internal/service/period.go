package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

// PeriodStart is the boundary the given instant belongs to. Weekly
// periods start on Monday, monthly periods on the first of the month,
// and the permanent mode has a single period anchored at the epoch.
func PeriodStart(mode model.PeriodMode, now time.Time) time.Time {
	day := energy.StartOfDay(now)
	switch mode {
	case model.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case model.PeriodMonthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.Local)
	default:
		return time.UnixMilli(0)
	}
}

// LoadPeriodSettings reads the configured mode and the live period's
// start. A zero start means no period has been opened yet.
func LoadPeriodSettings(db *sql.DB) (model.PeriodMode, time.Time, error) {
	mode := model.PeriodWeekly
	if raw, ok, err := GetConfig(db, ConfigKeyPeriodMode); err != nil {
		return "", time.Time{}, err
	} else if ok {
		parsed, err := ParsePeriodMode(raw)
		if err != nil {
			return "", time.Time{}, err
		}
		mode = parsed
	}

	var start time.Time
	if raw, ok, err := GetConfig(db, ConfigKeyPeriodStartMs); err != nil {
		return "", time.Time{}, err
	} else if ok {
		ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("parse period start: %w", err)
		}
		if ms > 0 {
			start = time.UnixMilli(ms).Local()
		}
	}
	return mode, start, nil
}

func ParsePeriodMode(raw string) (model.PeriodMode, error) {
	mode := model.PeriodMode(strings.ToLower(strings.TrimSpace(raw)))
	switch mode {
	case model.PeriodWeekly, model.PeriodMonthly, model.PeriodPermanent:
		return mode, nil
	}
	return "", fmt.Errorf("invalid period mode %q (use weekly, monthly or permanent)", raw)
}

// CheckPeriodRollover closes the live period when "now" has crossed
// into a newer one. The crossed period's logs are frozen into a single
// archive row and removed from the live set in one transaction, then
// the new period start is persisted. Multiple missed periods collapse
// into one archive spanning the whole gap.
//
// Returns true when a rollover actually happened.
func CheckPeriodRollover(db *sql.DB, now time.Time) (bool, error) {
	mode, start, err := LoadPeriodSettings(db)
	if err != nil {
		return false, err
	}
	if mode == model.PeriodPermanent {
		return false, nil
	}

	boundary := PeriodStart(mode, now)
	if start.IsZero() {
		if err := SetConfig(db, ConfigKeyPeriodStartMs, strconv.FormatInt(boundary.UnixMilli(), 10)); err != nil {
			return false, err
		}
		return false, nil
	}
	if !energy.StartOfDay(boundary).After(energy.StartOfDay(start)) {
		return false, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin rollover tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	cutoff := boundary.Format(time.RFC3339)
	rows, err := tx.Query(`SELECT `+logColumns+` FROM logs WHERE logged_at < ? ORDER BY logged_at ASC, id ASC`, cutoff)
	if err != nil {
		return false, fmt.Errorf("load rollover logs: %w", err)
	}
	archived := make([]model.LogRecord, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			rows.Close()
			return false, err
		}
		archived = append(archived, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, fmt.Errorf("iterate rollover logs: %w", err)
	}
	rows.Close()

	if len(archived) > 0 {
		logsJSON, err := encodeArchiveLogs(archived)
		if err != nil {
			return false, err
		}
		endDate := boundary.Add(-time.Millisecond)
		_, err = tx.Exec(`
INSERT INTO period_archives(start_date, end_date, mode, total_balance, logs_json)
VALUES(?, ?, ?, ?, ?)
`, start.Format(time.RFC3339Nano), endDate.Format(time.RFC3339Nano), string(mode), sumLogsKcal(archived), logsJSON)
		if err != nil {
			return false, fmt.Errorf("insert period archive: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM logs WHERE logged_at < ?`, cutoff); err != nil {
			return false, fmt.Errorf("clear rolled-over logs: %w", err)
		}
	}

	_, err = tx.Exec(`
INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, ConfigKeyPeriodStartMs, strconv.FormatInt(boundary.UnixMilli(), 10))
	if err != nil {
		return false, fmt.Errorf("advance period start: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit rollover tx: %w", err)
	}
	return true, nil
}

// UpdatePeriodSettings switches the accounting mode. Selecting the
// mode that is already active is a no-op. Switching to permanent
// dissolves every archive back into the live set, with fresh ids, so
// the whole history becomes one open-ended period again.
func UpdatePeriodSettings(db *sql.DB, mode model.PeriodMode, now time.Time) error {
	if _, err := ParsePeriodMode(string(mode)); err != nil {
		return err
	}
	current, _, err := LoadPeriodSettings(db)
	if err != nil {
		return err
	}
	// Re-anchoring the active mode would cancel a rollover that is
	// still due, stranding the elapsed period's logs.
	if mode == current {
		return nil
	}

	if mode != model.PeriodPermanent {
		if err := SetConfig(db, ConfigKeyPeriodMode, string(mode)); err != nil {
			return err
		}
		return SetConfig(db, ConfigKeyPeriodStartMs, strconv.FormatInt(PeriodStart(mode, now).UnixMilli(), 10))
	}

	archives, err := loadAllArchives(db)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin mode switch tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, a := range archives {
		for _, l := range a.Logs {
			_, err := tx.Exec(`
INSERT INTO logs(log_type, logged_at, kcal, name, style, size, count, abv, brewery, brand, rating, is_custom, custom_type, raw_amount_ml, minutes, exercise_key, raw_minutes, memo)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, string(l.Type), l.LoggedAt.Format(time.RFC3339), l.Kcal, l.Name, l.Style, l.Size, l.Count, l.ABV,
				l.Brewery, l.Brand, l.Rating, boolToInt(l.IsCustom), l.CustomType, l.RawAmountML,
				l.Minutes, l.ExerciseKey, l.RawMinutes, l.Memo)
			if err != nil {
				return fmt.Errorf("restore archived log: %w", err)
			}
		}
	}
	if _, err := tx.Exec(`DELETE FROM period_archives`); err != nil {
		return fmt.Errorf("clear archives: %w", err)
	}
	for _, pair := range [][2]string{
		{ConfigKeyPeriodMode, string(model.PeriodPermanent)},
		{ConfigKeyPeriodStartMs, "0"},
	} {
		_, err := tx.Exec(`
INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("set config %q: %w", pair[0], err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit mode switch tx: %w", err)
	}
	return nil
}

const archiveColumns = `id, start_date, end_date, mode, total_balance, logs_json, created_at, updated_at`

func scanArchive(s rowScanner) (model.PeriodArchive, error) {
	var a model.PeriodArchive
	var mode, startRaw, endRaw, logsJSON, createdRaw string
	var updatedRaw sql.NullString
	if err := s.Scan(&a.ID, &startRaw, &endRaw, &mode, &a.TotalBalance, &logsJSON, &createdRaw, &updatedRaw); err != nil {
		return model.PeriodArchive{}, fmt.Errorf("scan archive: %w", err)
	}
	a.Mode = model.PeriodMode(mode)
	// End dates carry millisecond precision so the archive window meets
	// the next period start exactly.
	start, err := time.Parse(time.RFC3339Nano, startRaw)
	if err != nil {
		return model.PeriodArchive{}, fmt.Errorf("parse archive start: %w", err)
	}
	end, err := time.Parse(time.RFC3339Nano, endRaw)
	if err != nil {
		return model.PeriodArchive{}, fmt.Errorf("parse archive end: %w", err)
	}
	a.StartDate, a.EndDate = start, end
	logs, err := decodeArchiveLogs(logsJSON)
	if err != nil {
		return model.PeriodArchive{}, err
	}
	a.Logs = logs
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	if updatedRaw.Valid {
		if t, err := time.Parse(time.RFC3339, updatedRaw.String); err == nil {
			a.UpdatedAt = &t
		}
	}
	return a, nil
}

func loadAllArchives(db *sql.DB) ([]model.PeriodArchive, error) {
	rows, err := db.Query(`SELECT ` + archiveColumns + ` FROM period_archives ORDER BY start_date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load archives: %w", err)
	}
	defer rows.Close()

	items := make([]model.PeriodArchive, 0)
	for rows.Next() {
		a, err := scanArchive(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archives: %w", err)
	}
	return items, nil
}

func ListArchives(db *sql.DB) ([]model.PeriodArchive, error) {
	return loadAllArchives(db)
}

func GetArchive(db *sql.DB, id int64) (model.PeriodArchive, error) {
	if id <= 0 {
		return model.PeriodArchive{}, fmt.Errorf("archive id must be > 0")
	}
	row := db.QueryRow(`SELECT `+archiveColumns+` FROM period_archives WHERE id = ?`, id)
	a, err := scanArchive(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PeriodArchive{}, fmt.Errorf("archive %d not found", id)
		}
		return model.PeriodArchive{}, err
	}
	return a, nil
}
