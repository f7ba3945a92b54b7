package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/model"
)

const logColumns = `id, log_type, logged_at, kcal, name, style, size, count, abv, brewery, brand, rating, is_custom, custom_type, raw_amount_ml, minutes, exercise_key, raw_minutes, memo, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(s rowScanner) (model.LogRecord, error) {
	var l model.LogRecord
	var logType string
	var loggedAtRaw, createdRaw, updatedRaw string
	var isCustom int
	if err := s.Scan(
		&l.ID, &logType, &loggedAtRaw, &l.Kcal, &l.Name, &l.Style, &l.Size, &l.Count,
		&l.ABV, &l.Brewery, &l.Brand, &l.Rating, &isCustom, &l.CustomType, &l.RawAmountML,
		&l.Minutes, &l.ExerciseKey, &l.RawMinutes, &l.Memo, &createdRaw, &updatedRaw,
	); err != nil {
		return model.LogRecord{}, fmt.Errorf("scan log: %w", err)
	}
	l.Type = model.LogType(logType)
	l.IsCustom = isCustom != 0

	loggedAt, err := time.Parse(time.RFC3339, loggedAtRaw)
	if err != nil {
		return model.LogRecord{}, fmt.Errorf("parse logged_at: %w", err)
	}
	l.LoggedAt = loggedAt
	l.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedRaw)
	return l, nil
}

const checkColumns = `id, checked_at, is_dry_day, waist_ease, foot_lightness, water_ok, fiber_ok, IFNULL(extra_items_json, ''), weight_kg, created_at, updated_at`

func scanCheck(s rowScanner) (model.CheckRecord, error) {
	var c model.CheckRecord
	var checkedAtRaw, createdRaw, updatedRaw string
	var dry sql.NullInt64
	var waist, foot, water, fiber int
	var extraRaw string
	var weight sql.NullFloat64
	if err := s.Scan(&c.ID, &checkedAtRaw, &dry, &waist, &foot, &water, &fiber, &extraRaw, &weight, &createdRaw, &updatedRaw); err != nil {
		return model.CheckRecord{}, fmt.Errorf("scan check: %w", err)
	}
	checkedAt, err := time.Parse(time.RFC3339, checkedAtRaw)
	if err != nil {
		return model.CheckRecord{}, fmt.Errorf("parse checked_at: %w", err)
	}
	c.CheckedAt = checkedAt
	if dry.Valid {
		v := dry.Int64 != 0
		c.IsDryDay = &v
	}
	c.WaistEase = waist != 0
	c.FootLightness = foot != 0
	c.WaterOk = water != 0
	c.FiberOk = fiber != 0
	if weight.Valid {
		v := weight.Float64
		c.WeightKg = &v
	}
	extras, err := decodeExtraItems(extraRaw)
	if err != nil {
		return model.CheckRecord{}, err
	}
	c.ExtraItems = extras
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedRaw)
	return c, nil
}

func decodeExtraItems(raw string) (map[string]bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	out := map[string]bool{}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode extra items: %w", err)
	}
	return out, nil
}

func encodeExtraItems(items map[string]bool) (string, error) {
	if len(items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode extra items: %w", err)
	}
	return string(b), nil
}

func dayBounds(day time.Time) (string, string) {
	y, m, d := day.Local().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, 1)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}

func parseDayString(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func nullableBool(v *bool) any {
	if v == nil {
		return nil
	}
	if *v {
		return 1
	}
	return 0
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func loadAllLogs(db *sql.DB) ([]model.LogRecord, error) {
	rows, err := db.Query(`SELECT ` + logColumns + ` FROM logs ORDER BY logged_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load logs: %w", err)
	}
	defer rows.Close()

	items := make([]model.LogRecord, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return items, nil
}

func loadAllChecks(db *sql.DB) ([]model.CheckRecord, error) {
	rows, err := db.Query(`SELECT ` + checkColumns + ` FROM checks ORDER BY checked_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("load checks: %w", err)
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
