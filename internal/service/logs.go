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

type BeerLogInput struct {
	Name        string
	Style       string
	Size        string
	Count       int
	ABV         float64
	Brewery     string
	Brand       string
	Rating      int
	Memo        string
	IsCustom    bool
	CustomType  string
	RawAmountML float64
	Day         time.Time
}

type ExerciseLogInput struct {
	ExerciseKey string
	Minutes     float64
	Memo        string
	Day         time.Time
}

type UpdateBeerLogInput struct {
	ID int64
	BeerLogInput
}

type UpdateExerciseLogInput struct {
	ID int64
	ExerciseLogInput
}

type ListLogsFilter struct {
	Date      string
	FromDate  string
	ToDate    string
	Type      string
	Ascending bool
	Limit     int
	Offset    int
}

// SaveBeerLog validates and inserts a beer event. The kcal debit is
// fixed at creation time from the static formulas and never revised by
// the recalculation engine.
func SaveBeerLog(db *sql.DB, in BeerLogInput) (int64, error) {
	normalized, err := normalizeBeerInput(in)
	if err != nil {
		return 0, err
	}
	record := beerRecordFromInput(normalized)
	res, err := db.Exec(`
INSERT INTO logs(log_type, logged_at, kcal, name, style, size, count, abv, brewery, brand, rating, is_custom, custom_type, raw_amount_ml, memo)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, string(model.LogTypeBeer), record.LoggedAt.Format(time.RFC3339), record.Kcal, record.Name, record.Style, record.Size, record.Count,
		record.ABV, record.Brewery, record.Brand, record.Rating, boolToInt(record.IsCustom), record.CustomType, record.RawAmountML, record.Memo)
	if err != nil {
		return 0, fmt.Errorf("add beer log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve beer log id: %w", err)
	}
	return id, nil
}

// SaveExerciseLog inserts an exercise event with its base burn. The
// streak bonus is applied by the recalculation pass that follows every
// mutation, so the stored kcal starts at multiplier 1.0.
func SaveExerciseLog(db *sql.DB, p model.Profile, in ExerciseLogInput) (int64, error) {
	normalized, err := normalizeExerciseInput(in)
	if err != nil {
		return 0, err
	}
	loggedAt := energy.LocalNoon(normalized.Day)
	kcal := energy.ExerciseBurn(energy.METsFor(normalized.ExerciseKey), normalized.Minutes, p)
	res, err := db.Exec(`
INSERT INTO logs(log_type, logged_at, kcal, name, minutes, exercise_key, raw_minutes, memo)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, string(model.LogTypeExercise), loggedAt.Format(time.RFC3339), kcal, normalized.ExerciseKey, normalized.Minutes, normalized.ExerciseKey, normalized.Minutes, normalized.Memo)
	if err != nil {
		return 0, fmt.Errorf("add exercise log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve exercise log id: %w", err)
	}
	return id, nil
}

func UpdateBeerLog(db *sql.DB, in UpdateBeerLogInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("log id must be > 0")
	}
	normalized, err := normalizeBeerInput(in.BeerLogInput)
	if err != nil {
		return err
	}
	record := beerRecordFromInput(normalized)
	res, err := db.Exec(`
UPDATE logs
SET logged_at = ?, kcal = ?, name = ?, style = ?, size = ?, count = ?, abv = ?, brewery = ?, brand = ?, rating = ?, is_custom = ?, custom_type = ?, raw_amount_ml = ?, memo = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND log_type = ?
`, record.LoggedAt.Format(time.RFC3339), record.Kcal, record.Name, record.Style, record.Size, record.Count, record.ABV,
		record.Brewery, record.Brand, record.Rating, boolToInt(record.IsCustom), record.CustomType, record.RawAmountML, record.Memo,
		in.ID, string(model.LogTypeBeer))
	if err != nil {
		return fmt.Errorf("update beer log %d: %w", in.ID, err)
	}
	return requireAffected(res, "beer log", in.ID)
}

func UpdateExerciseLog(db *sql.DB, p model.Profile, in UpdateExerciseLogInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("log id must be > 0")
	}
	normalized, err := normalizeExerciseInput(in.ExerciseLogInput)
	if err != nil {
		return err
	}
	loggedAt := energy.LocalNoon(normalized.Day)
	kcal := energy.ExerciseBurn(energy.METsFor(normalized.ExerciseKey), normalized.Minutes, p)
	res, err := db.Exec(`
UPDATE logs
SET logged_at = ?, kcal = ?, name = ?, minutes = ?, exercise_key = ?, raw_minutes = ?, memo = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND log_type = ?
`, loggedAt.Format(time.RFC3339), kcal, normalized.ExerciseKey, normalized.Minutes, normalized.ExerciseKey, normalized.Minutes, normalized.Memo,
		in.ID, string(model.LogTypeExercise))
	if err != nil {
		return fmt.Errorf("update exercise log %d: %w", in.ID, err)
	}
	return requireAffected(res, "exercise log", in.ID)
}

func GetLog(db *sql.DB, id int64) (model.LogRecord, error) {
	if id <= 0 {
		return model.LogRecord{}, fmt.Errorf("log id must be > 0")
	}
	row := db.QueryRow(`SELECT `+logColumns+` FROM logs WHERE id = ?`, id)
	l, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.LogRecord{}, fmt.Errorf("log %d not found", id)
		}
		return model.LogRecord{}, err
	}
	return l, nil
}

func ListLogs(db *sql.DB, f ListLogsFilter) ([]model.LogRecord, error) {
	if strings.TrimSpace(f.Date) != "" && (strings.TrimSpace(f.FromDate) != "" || strings.TrimSpace(f.ToDate) != "") {
		return nil, fmt.Errorf("--date cannot be combined with --from or --to")
	}

	query := `SELECT ` + logColumns + ` FROM logs WHERE 1=1`
	args := make([]any, 0)
	if strings.TrimSpace(f.Date) != "" {
		day, err := parseDayString(f.Date)
		if err != nil {
			return nil, err
		}
		start, end := dayBounds(day)
		query += ` AND logged_at >= ? AND logged_at < ?`
		args = append(args, start, end)
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := parseDayString(f.FromDate)
		if err != nil {
			return nil, err
		}
		start, _ := dayBounds(from)
		query += ` AND logged_at >= ?`
		args = append(args, start)
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := parseDayString(f.ToDate)
		if err != nil {
			return nil, err
		}
		_, end := dayBounds(to)
		query += ` AND logged_at < ?`
		args = append(args, end)
	}
	if strings.TrimSpace(f.Type) != "" {
		logType := strings.ToLower(strings.TrimSpace(f.Type))
		if logType != string(model.LogTypeBeer) && logType != string(model.LogTypeExercise) {
			return nil, fmt.Errorf("invalid log type %q (use beer or exercise)", f.Type)
		}
		query += ` AND log_type = ?`
		args = append(args, logType)
	}

	if f.Ascending {
		query += ` ORDER BY logged_at ASC, id ASC`
	} else {
		query += ` ORDER BY logged_at DESC, id DESC`
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	query += ` LIMIT ?`
	args = append(args, f.Limit)
	if f.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, f.Offset)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
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

func DeleteLog(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("log id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete log %d: %w", id, err)
	}
	return requireAffected(res, "log", id)
}

func BulkDeleteLogs(db *sql.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin bulk delete tx: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(`DELETE FROM logs WHERE id = ?`, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk delete log %d: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk delete tx: %w", err)
	}
	return nil
}

func CountLogsInRange(db *sql.DB, from, to time.Time) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(1) FROM logs WHERE logged_at >= ? AND logged_at < ?`,
		from.Format(time.RFC3339), to.Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count logs: %w", err)
	}
	return count, nil
}

func sumKcalInRange(db *sql.DB, from, to time.Time) (float64, error) {
	var sum float64
	err := db.QueryRow(`SELECT IFNULL(SUM(kcal), 0) FROM logs WHERE logged_at >= ? AND logged_at <= ?`,
		from.Format(time.RFC3339), to.Format(time.RFC3339)).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum kcal: %w", err)
	}
	return sum, nil
}

func normalizeBeerInput(in BeerLogInput) (BeerLogInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Brewery = strings.TrimSpace(in.Brewery)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Memo = strings.TrimSpace(in.Memo)
	in.Style = strings.ToLower(strings.TrimSpace(in.Style))
	in.Size = strings.ToLower(strings.TrimSpace(in.Size))
	in.CustomType = strings.ToLower(strings.TrimSpace(in.CustomType))

	if in.Count < 1 {
		in.Count = 1
	}
	if in.ABV < 0 || in.ABV > 100 {
		return BeerLogInput{}, fmt.Errorf("abv must be between 0 and 100")
	}
	if in.Rating < 0 || in.Rating > 5 {
		return BeerLogInput{}, fmt.Errorf("rating must be between 0 and 5")
	}
	if in.IsCustom {
		if in.RawAmountML <= 0 {
			return BeerLogInput{}, fmt.Errorf("custom drinks require an amount in ml")
		}
		if in.CustomType != energy.CustomTypeDry && in.CustomType != energy.CustomTypeFermented {
			return BeerLogInput{}, fmt.Errorf("invalid custom type %q (use dry or fermented)", in.CustomType)
		}
	} else {
		if _, ok := energy.SizeToML(in.Size); !ok {
			return BeerLogInput{}, fmt.Errorf("unknown size %q", in.Size)
		}
		if in.Style != "" {
			if _, ok := energy.StyleCarbsPer100ML(in.Style); !ok {
				return BeerLogInput{}, fmt.Errorf("unknown style %q", in.Style)
			}
		}
	}
	if in.Day.IsZero() {
		in.Day = time.Now()
	}
	return in, nil
}

func beerRecordFromInput(in BeerLogInput) model.LogRecord {
	record := model.LogRecord{
		Type:        model.LogTypeBeer,
		LoggedAt:    energy.LocalNoon(in.Day),
		Name:        in.Name,
		Style:       in.Style,
		Size:        in.Size,
		Count:       in.Count,
		ABV:         in.ABV,
		Brewery:     in.Brewery,
		Brand:       in.Brand,
		Rating:      in.Rating,
		IsCustom:    in.IsCustom,
		CustomType:  in.CustomType,
		RawAmountML: in.RawAmountML,
		Memo:        in.Memo,
	}
	record.Kcal = energy.BeerDebit(energy.VolumeForLog(record), record.ABV, energy.CarbsForLog(record), record.Count)
	return record
}

func normalizeExerciseInput(in ExerciseLogInput) (ExerciseLogInput, error) {
	in.ExerciseKey = strings.ToLower(strings.TrimSpace(in.ExerciseKey))
	in.Memo = strings.TrimSpace(in.Memo)
	if in.ExerciseKey == "" {
		return ExerciseLogInput{}, fmt.Errorf("exercise type is required")
	}
	if in.Minutes <= 0 {
		return ExerciseLogInput{}, fmt.Errorf("minutes must be > 0")
	}
	if in.Day.IsZero() {
		in.Day = time.Now()
	}
	return in, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func requireAffected(res sql.Result, kind string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %d not found", kind, id)
	}
	return nil
}
