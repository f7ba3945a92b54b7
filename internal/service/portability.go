package service

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

// backupVersion is the current JSON export format. Older documents are
// accepted on import as long as the shape still parses.
const backupVersion = 4

// backupLog is the wire form of a log. Timestamps travel as epoch
// milliseconds so the document is portable across timezones, and Kcal
// is a pointer because early exports predate the stored balance.
type backupLog struct {
	ID          int64    `json:"id,omitempty"`
	Type        string   `json:"type"`
	Timestamp   int64    `json:"timestamp"`
	Kcal        *float64 `json:"kcal,omitempty"`
	Name        string   `json:"name,omitempty"`
	Style       string   `json:"style,omitempty"`
	Size        string   `json:"size,omitempty"`
	Count       int      `json:"count,omitempty"`
	ABV         float64  `json:"abv,omitempty"`
	Brewery     string   `json:"brewery,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	Rating      int      `json:"rating,omitempty"`
	IsCustom    bool     `json:"isCustom,omitempty"`
	CustomType  string   `json:"customType,omitempty"`
	RawAmountML float64  `json:"rawAmountMl,omitempty"`
	Minutes     float64  `json:"minutes,omitempty"`
	ExerciseKey string   `json:"exerciseKey,omitempty"`
	RawMinutes  float64  `json:"rawMinutes,omitempty"`
	Memo        string   `json:"memo,omitempty"`
}

type backupCheck struct {
	Timestamp     int64           `json:"timestamp"`
	IsDryDay      *bool           `json:"isDryDay,omitempty"`
	WaistEase     bool            `json:"waistEase,omitempty"`
	FootLightness bool            `json:"footLightness,omitempty"`
	WaterOk       bool            `json:"waterOk,omitempty"`
	FiberOk       bool            `json:"fiberOk,omitempty"`
	ExtraItems    map[string]bool `json:"extraItems,omitempty"`
	WeightKg      *float64        `json:"weightKg,omitempty"`
}

type backupArchive struct {
	StartDate    int64       `json:"startDate"`
	EndDate      int64       `json:"endDate"`
	Mode         string      `json:"mode"`
	TotalBalance float64     `json:"totalBalance"`
	Logs         []backupLog `json:"logs"`
}

type BackupDocument struct {
	Version    int               `json:"version"`
	ExportedAt int64             `json:"exportedAt"`
	Logs       []backupLog       `json:"logs"`
	Checks     []backupCheck     `json:"checks"`
	Archives   []backupArchive   `json:"archives"`
	Settings   map[string]string `json:"settings"`
}

type ImportReport struct {
	LogsAdded       int
	LogsSkipped     int
	ChecksAdded     int
	ChecksSkipped   int
	ArchivesAdded   int
	ArchivesSkipped int
	SettingsApplied int
	KcalBackfilled  int
}

func logToBackup(l model.LogRecord) backupLog {
	kcal := l.Kcal
	return backupLog{
		ID: l.ID, Type: string(l.Type), Timestamp: l.LoggedAt.UnixMilli(), Kcal: &kcal,
		Name: l.Name, Style: l.Style, Size: l.Size, Count: l.Count, ABV: l.ABV,
		Brewery: l.Brewery, Brand: l.Brand, Rating: l.Rating,
		IsCustom: l.IsCustom, CustomType: l.CustomType, RawAmountML: l.RawAmountML,
		Minutes: l.Minutes, ExerciseKey: l.ExerciseKey, RawMinutes: l.RawMinutes,
		Memo: l.Memo,
	}
}

func backupToLog(b backupLog) model.LogRecord {
	l := model.LogRecord{
		ID: b.ID, Type: model.LogType(b.Type), LoggedAt: time.UnixMilli(b.Timestamp).Local(),
		Name: b.Name, Style: b.Style, Size: b.Size, Count: b.Count, ABV: b.ABV,
		Brewery: b.Brewery, Brand: b.Brand, Rating: b.Rating,
		IsCustom: b.IsCustom, CustomType: b.CustomType, RawAmountML: b.RawAmountML,
		Minutes: b.Minutes, ExerciseKey: b.ExerciseKey, RawMinutes: b.RawMinutes,
		Memo: b.Memo,
	}
	if l.Count < 1 {
		l.Count = 1
	}
	if b.Kcal != nil {
		l.Kcal = *b.Kcal
	}
	return l
}

func encodeArchiveLogs(logs []model.LogRecord) (string, error) {
	wire := make([]backupLog, 0, len(logs))
	for _, l := range logs {
		wire = append(wire, logToBackup(l))
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode archive logs: %w", err)
	}
	return string(b), nil
}

func decodeArchiveLogs(raw string) ([]model.LogRecord, error) {
	if raw == "" {
		return nil, nil
	}
	var wire []backupLog
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("decode archive logs: %w", err)
	}
	logs := make([]model.LogRecord, 0, len(wire))
	for _, b := range wire {
		logs = append(logs, backupToLog(b))
	}
	return logs, nil
}

// ExportBackup snapshots the entire database into one portable document.
func ExportBackup(db *sql.DB, now time.Time) (BackupDocument, error) {
	doc := BackupDocument{Version: backupVersion, ExportedAt: now.UnixMilli()}

	logs, err := loadAllLogs(db)
	if err != nil {
		return BackupDocument{}, err
	}
	doc.Logs = make([]backupLog, 0, len(logs))
	for _, l := range logs {
		doc.Logs = append(doc.Logs, logToBackup(l))
	}

	checks, err := loadAllChecks(db)
	if err != nil {
		return BackupDocument{}, err
	}
	doc.Checks = make([]backupCheck, 0, len(checks))
	for _, c := range checks {
		doc.Checks = append(doc.Checks, backupCheck{
			Timestamp: c.CheckedAt.UnixMilli(), IsDryDay: c.IsDryDay,
			WaistEase: c.WaistEase, FootLightness: c.FootLightness,
			WaterOk: c.WaterOk, FiberOk: c.FiberOk,
			ExtraItems: c.ExtraItems, WeightKg: c.WeightKg,
		})
	}

	archives, err := loadAllArchives(db)
	if err != nil {
		return BackupDocument{}, err
	}
	doc.Archives = make([]backupArchive, 0, len(archives))
	for _, a := range archives {
		wire := make([]backupLog, 0, len(a.Logs))
		for _, l := range a.Logs {
			wire = append(wire, logToBackup(l))
		}
		doc.Archives = append(doc.Archives, backupArchive{
			StartDate: a.StartDate.UnixMilli(), EndDate: a.EndDate.UnixMilli(),
			Mode: string(a.Mode), TotalBalance: a.TotalBalance, Logs: wire,
		})
	}

	doc.Settings, err = ListConfig(db)
	if err != nil {
		return BackupDocument{}, err
	}
	return doc, nil
}

func ExportBackupJSON(db *sql.DB, now time.Time) ([]byte, error) {
	doc, err := ExportBackup(db, now)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return b, nil
}

// ImportBackup merges a backup document into the database inside one
// transaction. Existing data wins on collision: logs and checks are
// matched by timestamp, archives by start date. Documents exported
// before the balance was stored get their kcal recomputed here.
// A record that fails to parse aborts the whole import; nothing from
// the document is kept.
func ImportBackup(db *sql.DB, p model.Profile, data []byte) (ImportReport, error) {
	var report ImportReport
	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return report, fmt.Errorf("decode backup: %w", err)
	}
	if len(doc.Logs) == 0 && len(doc.Checks) == 0 && len(doc.Settings) == 0 {
		return report, fmt.Errorf("backup contains no logs, checks or settings")
	}

	existingLogs, err := loadAllLogs(db)
	if err != nil {
		return report, err
	}
	logSeen := map[string]bool{}
	for _, l := range existingLogs {
		logSeen[logDedupeKey(string(l.Type), l.LoggedAt.UnixMilli())] = true
	}
	existingChecks, err := loadAllChecks(db)
	if err != nil {
		return report, err
	}
	checkSeen := map[int64]bool{}
	for _, c := range existingChecks {
		checkSeen[c.CheckedAt.UnixMilli()] = true
	}
	existingArchives, err := loadAllArchives(db)
	if err != nil {
		return report, err
	}
	archiveSeen := map[int64]bool{}
	for _, a := range existingArchives {
		archiveSeen[a.StartDate.UnixMilli()] = true
	}

	tx, err := db.Begin()
	if err != nil {
		return report, fmt.Errorf("begin import tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, b := range doc.Logs {
		l := backupToLog(b)
		if l.Type != model.LogTypeBeer && l.Type != model.LogTypeExercise {
			return report, fmt.Errorf("import log: unknown type %q", b.Type)
		}
		key := logDedupeKey(b.Type, b.Timestamp)
		if logSeen[key] {
			report.LogsSkipped++
			continue
		}
		if b.Kcal == nil {
			l.Kcal = backfillKcal(l, p)
			report.KcalBackfilled++
		}
		_, err := tx.Exec(`
INSERT INTO logs(log_type, logged_at, kcal, name, style, size, count, abv, brewery, brand, rating, is_custom, custom_type, raw_amount_ml, minutes, exercise_key, raw_minutes, memo)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, string(l.Type), l.LoggedAt.Format(time.RFC3339), l.Kcal, l.Name, l.Style, l.Size, l.Count, l.ABV,
			l.Brewery, l.Brand, l.Rating, boolToInt(l.IsCustom), l.CustomType, l.RawAmountML,
			l.Minutes, l.ExerciseKey, l.RawMinutes, l.Memo)
		if err != nil {
			return report, fmt.Errorf("import log: %w", err)
		}
		logSeen[key] = true
		report.LogsAdded++
	}

	for _, b := range doc.Checks {
		if checkSeen[b.Timestamp] {
			report.ChecksSkipped++
			continue
		}
		extraJSON, err := encodeExtraItems(b.ExtraItems)
		if err != nil {
			return report, err
		}
		_, err = tx.Exec(`
INSERT INTO checks(checked_at, is_dry_day, waist_ease, foot_lightness, water_ok, fiber_ok, extra_items_json, weight_kg)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, time.UnixMilli(b.Timestamp).Local().Format(time.RFC3339), nullableBool(b.IsDryDay),
			boolToInt(b.WaistEase), boolToInt(b.FootLightness), boolToInt(b.WaterOk), boolToInt(b.FiberOk),
			extraJSON, nullableFloat(b.WeightKg))
		if err != nil {
			return report, fmt.Errorf("import check: %w", err)
		}
		checkSeen[b.Timestamp] = true
		report.ChecksAdded++
	}

	for _, b := range doc.Archives {
		mode, err := ParsePeriodMode(b.Mode)
		if err != nil {
			return report, fmt.Errorf("import archive: %w", err)
		}
		if mode == model.PeriodPermanent {
			return report, fmt.Errorf("import archive: invalid mode %q", b.Mode)
		}
		if archiveSeen[b.StartDate] {
			report.ArchivesSkipped++
			continue
		}
		logs := make([]model.LogRecord, 0, len(b.Logs))
		for _, bl := range b.Logs {
			l := backupToLog(bl)
			if l.Type != model.LogTypeBeer && l.Type != model.LogTypeExercise {
				return report, fmt.Errorf("import archive log: unknown type %q", bl.Type)
			}
			if bl.Kcal == nil {
				l.Kcal = backfillKcal(l, p)
				report.KcalBackfilled++
			}
			logs = append(logs, l)
		}
		logsJSON, err := encodeArchiveLogs(logs)
		if err != nil {
			return report, err
		}
		_, err = tx.Exec(`
INSERT INTO period_archives(start_date, end_date, mode, total_balance, logs_json)
VALUES(?, ?, ?, ?, ?)
`, time.UnixMilli(b.StartDate).Local().Format(time.RFC3339Nano), time.UnixMilli(b.EndDate).Local().Format(time.RFC3339Nano),
			string(mode), b.TotalBalance, logsJSON)
		if err != nil {
			return report, fmt.Errorf("import archive: %w", err)
		}
		archiveSeen[b.StartDate] = true
		report.ArchivesAdded++
	}

	for key, value := range doc.Settings {
		_, err := tx.Exec(`
INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
		if err != nil {
			return report, fmt.Errorf("import setting %q: %w", key, err)
		}
		report.SettingsApplied++
	}

	if err := tx.Commit(); err != nil {
		return report, fmt.Errorf("commit import tx: %w", err)
	}
	return report, nil
}

func logDedupeKey(logType string, timestampMs int64) string {
	return logType + "|" + strconv.FormatInt(timestampMs, 10)
}

func backfillKcal(l model.LogRecord, p model.Profile) float64 {
	if l.Type == model.LogTypeExercise {
		minutes := l.RawMinutes
		if minutes <= 0 {
			minutes = l.Minutes
		}
		return energy.ExerciseBurn(energy.METsFor(l.ExerciseKey), minutes, p)
	}
	return energy.BeerDebit(energy.VolumeForLog(l), l.ABV, energy.CarbsForLog(l), l.Count)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const csvTimeLayout = "2006-01-02 15:04"

// ExportLogsCSV writes the live logs as a spreadsheet-friendly CSV.
// The UTF-8 byte order mark keeps Japanese text readable in Excel.
func ExportLogsCSV(db *sql.DB, w io.Writer) error {
	logs, err := loadAllLogs(db)
	if err != nil {
		return err
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "name", "kcal", "minutes", "raw_minutes", "brewery", "brand", "rating", "memo"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range logs {
		row := []string{
			l.LoggedAt.Local().Format(csvTimeLayout),
			l.Name,
			strconv.FormatFloat(l.Kcal, 'f', 0, 64),
			formatCSVFloat(l.Minutes),
			formatCSVFloat(l.RawMinutes),
			l.Brewery,
			l.Brand,
			formatCSVInt(l.Rating),
			l.Memo,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportChecksCSV writes the daily checks as CSV, one row per day.
func ExportChecksCSV(db *sql.DB, w io.Writer) error {
	checks, err := loadAllChecks(db)
	if err != nil {
		return err
	}
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "is_dry_day", "waist_ease", "foot_lightness", "water_ok", "fiber_ok", "weight_kg"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range checks {
		dry := ""
		if c.IsDryDay != nil {
			dry = strconv.FormatBool(*c.IsDryDay)
		}
		weight := ""
		if c.WeightKg != nil {
			weight = strconv.FormatFloat(*c.WeightKg, 'f', 1, 64)
		}
		row := []string{
			c.CheckedAt.Local().Format(csvTimeLayout),
			dry,
			strconv.FormatBool(c.WaistEase),
			strconv.FormatBool(c.FootLightness),
			strconv.FormatBool(c.WaterOk),
			strconv.FormatBool(c.FiberOk),
			weight,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatCSVFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCSVInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
