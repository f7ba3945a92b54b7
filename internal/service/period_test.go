package service_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/model"
	"github.com/ciquab/nomutore/internal/service"
)

func TestPeriodStart(t *testing.T) {
	t.Parallel()

	// 2026-05-13 is a Wednesday; the weekly period opens on Monday the 11th.
	now := testDay(0)
	weekly := service.PeriodStart(model.PeriodWeekly, now)
	require.Equal(t, time.Monday, weekly.Weekday())
	require.Equal(t, 11, weekly.Day())
	require.Equal(t, 0, weekly.Hour())

	monthly := service.PeriodStart(model.PeriodMonthly, now)
	require.Equal(t, 1, monthly.Day())
	require.Equal(t, time.May, monthly.Month())

	permanent := service.PeriodStart(model.PeriodPermanent, now)
	require.Equal(t, int64(0), permanent.UnixMilli())
}

func TestWeeklyRollover(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	lastMonday := service.PeriodStart(model.PeriodWeekly, testDay(-7))
	require.NoError(t, service.SetConfig(db, "period_mode", "weekly"))
	require.NoError(t, service.SetConfig(db, "period_start_ms", strconv.FormatInt(lastMonday.UnixMilli(), 10)))

	insertRawLog(t, db, model.LogTypeBeer, testDay(-7), -300)
	insertRawLog(t, db, model.LogTypeExercise, testDay(-6), 100)
	insertRawLog(t, db, model.LogTypeBeer, testDay(0), -50)

	rolled, err := service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.True(t, rolled)

	archives, err := service.ListArchives(db)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	require.InDelta(t, -200, archives[0].TotalBalance, 1e-6)
	require.Len(t, archives[0].Logs, 2)
	require.Equal(t, model.PeriodWeekly, archives[0].Mode)
	require.Equal(t, lastMonday.UnixMilli(), archives[0].StartDate.UnixMilli())

	// The archive closes one millisecond before the new period opens.
	boundary := service.PeriodStart(model.PeriodWeekly, testDay(0))
	require.Equal(t, boundary.UnixMilli()-1, archives[0].EndDate.UnixMilli())

	// This week's log survives in the live set.
	live, err := service.ListLogs(db, service.ListLogsFilter{})
	require.NoError(t, err)
	require.Len(t, live, 1)
	require.InDelta(t, -50, live[0].Kcal, 1e-6)

	_, start, err := service.LoadPeriodSettings(db)
	require.NoError(t, err)
	require.Equal(t, boundary.UnixMilli(), start.UnixMilli())

	// Same week again: nothing to do.
	rolled, err = service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.False(t, rolled)
}

func TestRolloverBootstrapsFirstPeriod(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	require.NoError(t, service.SetConfig(db, "period_mode", "weekly"))
	insertRawLog(t, db, model.LogTypeBeer, testDay(-20), -300)

	// With no recorded start the first check anchors the period instead
	// of archiving anything.
	rolled, err := service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.False(t, rolled)

	archives, err := service.ListArchives(db)
	require.NoError(t, err)
	require.Empty(t, archives)

	_, start, err := service.LoadPeriodSettings(db)
	require.NoError(t, err)
	require.Equal(t, service.PeriodStart(model.PeriodWeekly, testDay(0)).UnixMilli(), start.UnixMilli())
}

func TestSetSameModeKeepsPendingRollover(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	lastMonday := service.PeriodStart(model.PeriodWeekly, testDay(-7))
	require.NoError(t, service.SetConfig(db, "period_mode", "weekly"))
	require.NoError(t, service.SetConfig(db, "period_start_ms", strconv.FormatInt(lastMonday.UnixMilli(), 10)))
	insertRawLog(t, db, model.LogTypeBeer, testDay(-7), -300)

	// Re-selecting the active mode must not move the period anchor.
	require.NoError(t, service.UpdatePeriodSettings(db, model.PeriodWeekly, testDay(0)))

	_, start, err := service.LoadPeriodSettings(db)
	require.NoError(t, err)
	require.Equal(t, lastMonday.UnixMilli(), start.UnixMilli())

	// The elapsed week still rolls over into an archive.
	rolled, err := service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.True(t, rolled)

	archives, err := service.ListArchives(db)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	require.Len(t, archives[0].Logs, 1)
}

func TestPermanentModeNeverRolls(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	require.NoError(t, service.UpdatePeriodSettings(db, model.PeriodPermanent, testDay(0)))
	insertRawLog(t, db, model.LogTypeBeer, testDay(-400), -300)

	rolled, err := service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.False(t, rolled)
}

func TestSwitchToPermanentRestoresArchives(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	lastMonday := service.PeriodStart(model.PeriodWeekly, testDay(-7))
	require.NoError(t, service.SetConfig(db, "period_mode", "weekly"))
	require.NoError(t, service.SetConfig(db, "period_start_ms", strconv.FormatInt(lastMonday.UnixMilli(), 10)))
	insertRawLog(t, db, model.LogTypeBeer, testDay(-7), -300)
	insertRawLog(t, db, model.LogTypeExercise, testDay(-6), 100)
	insertRawLog(t, db, model.LogTypeBeer, testDay(0), -50)

	rolled, err := service.CheckPeriodRollover(db, testDay(0))
	require.NoError(t, err)
	require.True(t, rolled)

	require.NoError(t, service.UpdatePeriodSettings(db, model.PeriodPermanent, testDay(0)))

	archives, err := service.ListArchives(db)
	require.NoError(t, err)
	require.Empty(t, archives)

	live, err := service.ListLogs(db, service.ListLogsFilter{Ascending: true})
	require.NoError(t, err)
	require.Len(t, live, 3)

	mode, start, err := service.LoadPeriodSettings(db)
	require.NoError(t, err)
	require.Equal(t, model.PeriodPermanent, mode)
	require.True(t, start.IsZero())
}

func TestParsePeriodMode(t *testing.T) {
	t.Parallel()

	mode, err := service.ParsePeriodMode(" Monthly ")
	require.NoError(t, err)
	require.Equal(t, model.PeriodMonthly, mode)

	_, err = service.ParsePeriodMode("fortnightly")
	require.ErrorContains(t, err, "invalid period mode")
}
