package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

type CheckInput struct {
	Day           time.Time
	IsDryDay      *bool
	WaistEase     bool
	FootLightness bool
	WaterOk       bool
	FiberOk       bool
	ExtraItems    map[string]bool
	WeightKg      *float64
}

type ListChecksFilter struct {
	FromDate  string
	ToDate    string
	Ascending bool
	Limit     int
}

// UpsertCheck writes the daily check row for the input's day. Each
// calendar day owns at most one row, so a second write for the same
// day updates the existing record in place.
func UpsertCheck(db *sql.DB, in CheckInput) (int64, error) {
	if in.Day.IsZero() {
		in.Day = time.Now()
	}
	if in.WeightKg != nil && (*in.WeightKg <= 0 || *in.WeightKg > 500) {
		return 0, fmt.Errorf("weight must be between 0 and 500 kg")
	}
	extraJSON, err := encodeExtraItems(in.ExtraItems)
	if err != nil {
		return 0, err
	}

	existing, err := GetCheckForDay(db, in.Day)
	if err != nil {
		return 0, err
	}
	checkedAt := energy.LocalNoon(in.Day).Format(time.RFC3339)

	if existing == nil {
		res, err := db.Exec(`
INSERT INTO checks(checked_at, is_dry_day, waist_ease, foot_lightness, water_ok, fiber_ok, extra_items_json, weight_kg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, checkedAt, nullableBool(in.IsDryDay), boolToInt(in.WaistEase), boolToInt(in.FootLightness),
			boolToInt(in.WaterOk), boolToInt(in.FiberOk), extraJSON, nullableFloat(in.WeightKg))
		if err != nil {
			return 0, fmt.Errorf("insert check: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("resolve check id: %w", err)
		}
		return id, nil
	}

	_, err = db.Exec(`
UPDATE checks
SET is_dry_day = ?, waist_ease = ?, foot_lightness = ?, water_ok = ?, fiber_ok = ?, extra_items_json = ?, weight_kg = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, nullableBool(in.IsDryDay), boolToInt(in.WaistEase), boolToInt(in.FootLightness),
		boolToInt(in.WaterOk), boolToInt(in.FiberOk), extraJSON, nullableFloat(in.WeightKg), existing.ID)
	if err != nil {
		return 0, fmt.Errorf("update check %d: %w", existing.ID, err)
	}
	return existing.ID, nil
}

// EnsureTodayCheck creates today's check row with every field blank if
// none exists yet. The dry flag stays NULL until the user answers, so
// an auto-created row never counts as a declared drinking day.
func EnsureTodayCheck(db *sql.DB, now time.Time) (bool, error) {
	existing, err := GetCheckForDay(db, now)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = db.Exec(`INSERT INTO checks(checked_at) VALUES(?)`, energy.LocalNoon(now).Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("seed today check: %w", err)
	}
	return true, nil
}

// GetCheckForDay returns the check row for the given calendar day, or
// nil when the day has none.
func GetCheckForDay(db *sql.DB, day time.Time) (*model.CheckRecord, error) {
	start, end := dayBounds(day)
	row := db.QueryRow(`SELECT `+checkColumns+` FROM checks WHERE checked_at >= ? AND checked_at < ? ORDER BY id ASC LIMIT 1`, start, end)
	c, err := scanCheck(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func ListChecks(db *sql.DB, f ListChecksFilter) ([]model.CheckRecord, error) {
	query := `SELECT ` + checkColumns + ` FROM checks WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDayString(f.FromDate)
		if err != nil {
			return nil, err
		}
		start, _ := dayBounds(from)
		query += ` AND checked_at >= ?`
		args = append(args, start)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDayString(f.ToDate)
		if err != nil {
			return nil, err
		}
		_, end := dayBounds(to)
		query += ` AND checked_at < ?`
		args = append(args, end)
	}
	if f.Ascending {
		query += ` ORDER BY checked_at ASC, id ASC`
	} else {
		query += ` ORDER BY checked_at DESC, id DESC`
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, f.Limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	items := make([]model.CheckRecord, 0)
	for rows.Next() {
		c, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return items, nil
}
