package service_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
	"github.com/ciquab/nomutore/internal/service"
)

func TestBackupRoundTrip(t *testing.T) {
	t.Parallel()
	src := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	_, err := service.SaveBeerLog(src, service.BeerLogInput{
		Name: "Aooni", Style: "ipa", Size: "can350", ABV: 7, Brewery: "Yoho", Brand: "Aooni", Rating: 5, Day: testDay(-1),
	})
	require.NoError(t, err)
	_, err = service.SaveExerciseLog(src, p, service.ExerciseLogInput{ExerciseKey: "running", Minutes: 30, Day: testDay(0)})
	require.NoError(t, err)
	_, err = service.UpsertCheck(src, service.CheckInput{Day: testDay(0), IsDryDay: boolPtr(false), WaterOk: true})
	require.NoError(t, err)
	require.NoError(t, service.SetConfig(src, "period_mode", "monthly"))

	data, err := service.ExportBackupJSON(src, testDay(0))
	require.NoError(t, err)
	require.Contains(t, string(data), `"version": 4`)

	dest := newTestDB(t)
	report, err := service.ImportBackup(dest, p, data)
	require.NoError(t, err)
	require.Equal(t, 2, report.LogsAdded)
	require.Equal(t, 1, report.ChecksAdded)
	require.Equal(t, 0, report.LogsSkipped)

	logs, err := service.ListLogs(dest, service.ListLogsFilter{Ascending: true})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.Equal(t, "Aooni", logs[0].Name)

	check, err := service.GetCheckForDay(dest, testDay(0))
	require.NoError(t, err)
	require.NotNil(t, check)
	require.NotNil(t, check.IsDryDay)
	require.False(t, *check.IsDryDay)

	mode, _, err := service.LoadPeriodSettings(dest)
	require.NoError(t, err)
	require.Equal(t, model.PeriodMonthly, mode)

	// Importing the same document again is a pure no-op.
	report, err = service.ImportBackup(dest, p, data)
	require.NoError(t, err)
	require.Equal(t, 0, report.LogsAdded)
	require.Equal(t, 2, report.LogsSkipped)
	require.Equal(t, 1, report.ChecksSkipped)
}

func TestImportBackfillsMissingKcal(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	ts := testDay(0).UnixMilli()
	doc := `{
  "version": 2,
  "logs": [
    {"type": "exercise", "timestamp": ` + formatInt(ts) + `, "exerciseKey": "running", "minutes": 30, "rawMinutes": 30},
    {"type": "beer", "timestamp": ` + formatInt(ts+1000) + `, "style": "lager", "size": "can350", "abv": 5, "count": 1}
  ],
  "checks": [],
  "settings": {}
}`
	report, err := service.ImportBackup(db, p, []byte(doc))
	require.NoError(t, err)
	require.Equal(t, 2, report.LogsAdded)
	require.Equal(t, 2, report.KcalBackfilled)

	logs, err := service.ListLogs(db, service.ListLogsFilter{Ascending: true})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	require.InDelta(t, energy.ExerciseBurn(energy.METsFor("running"), 30, p), logs[0].Kcal, 1e-6)
	require.InDelta(t, energy.BeerDebit(350, 5, 3.0, 1), logs[1].Kcal, 1e-6)
}

func TestImportRejectsEmptyDocument(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	_, err := service.ImportBackup(db, model.Profile{}, []byte(`{"version": 4}`))
	require.ErrorContains(t, err, "no logs, checks or settings")

	_, err = service.ImportBackup(db, model.Profile{}, []byte(`not json`))
	require.ErrorContains(t, err, "decode backup")
}

func TestImportRejectsUnknownLogType(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	ts := testDay(0).UnixMilli()
	doc := `{
  "version": 4,
  "logs": [
    {"type": "beer", "timestamp": ` + formatInt(ts) + `, "style": "lager", "size": "can350", "abv": 5, "count": 1, "kcal": -150},
    {"type": "wine", "timestamp": ` + formatInt(ts+1000) + `, "kcal": -120}
  ],
  "checks": [],
  "settings": {}
}`
	_, err := service.ImportBackup(db, p, []byte(doc))
	require.ErrorContains(t, err, "unknown type")

	// The whole document is rejected, valid records included.
	logs, err := service.ListLogs(db, service.ListLogsFilter{})
	require.NoError(t, err)
	require.Empty(t, logs)
}

func TestImportRejectsInvalidArchiveMode(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	ts := testDay(0).UnixMilli()
	doc := `{
  "version": 4,
  "logs": [
    {"type": "beer", "timestamp": ` + formatInt(ts) + `, "style": "lager", "size": "can350", "abv": 5, "count": 1, "kcal": -150}
  ],
  "checks": [],
  "archives": [
    {"startDate": ` + formatInt(ts-1000000) + `, "endDate": ` + formatInt(ts-1) + `, "mode": "fortnightly", "totalBalance": -100, "logs": []}
  ],
  "settings": {}
}`
	_, err := service.ImportBackup(db, p, []byte(doc))
	require.ErrorContains(t, err, "invalid period mode")

	logs, err := service.ListLogs(db, service.ListLogsFilter{})
	require.NoError(t, err)
	require.Empty(t, logs)

	archives, err := service.ListArchives(db)
	require.NoError(t, err)
	require.Empty(t, archives)
}

func TestExportLogsCSV(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	_, err := service.SaveBeerLog(db, service.BeerLogInput{
		Name: "よなよなエール", Style: "paleale", Size: "can350", ABV: 5.5, Brewery: "Yoho", Brand: "Yona Yona", Rating: 4, Day: testDay(0),
	})
	require.NoError(t, err)
	_, err = service.SaveExerciseLog(db, p, service.ExerciseLogInput{ExerciseKey: "yoga", Minutes: 20, Day: testDay(0)})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, service.ExportLogsCSV(db, &buf))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "csv starts with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(string(out[3:])), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "date,name,kcal,minutes,raw_minutes,brewery,brand,rating,memo", lines[0])
	require.Contains(t, lines[1], "よなよなエール")
	require.Contains(t, lines[1], "Yoho")
}

func TestExportChecksCSV(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	weight := 70.2
	_, err := service.UpsertCheck(db, service.CheckInput{Day: testDay(0), IsDryDay: boolPtr(true), FiberOk: true, WeightKg: &weight})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, service.ExportChecksCSV(db, &buf))

	out := string(buf.Bytes()[3:])
	require.Contains(t, out, "is_dry_day")
	require.Contains(t, out, "true")
	require.Contains(t, out, "70.2")
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
