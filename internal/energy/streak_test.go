package energy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)
	return base.AddDate(0, 0, offset)
}

func boolPtr(v bool) *bool { return &v }

func TestCurrentStreakBeerThenDryDay(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	logs := []model.LogRecord{{Type: model.LogTypeBeer, LoggedAt: day(0), Kcal: -200}}
	checks := []model.CheckRecord{{CheckedAt: day(1), IsDryDay: boolPtr(true)}}

	require.Equal(t, 1, energy.CurrentStreak(logs, checks, p, day(1)), "day 2 is safe, day 1 has beer")
	require.Equal(t, 0, energy.CurrentStreak(logs, checks, p, day(0)), "reference day itself has beer")
}

func TestCurrentStreakNoData(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, energy.CurrentStreak(nil, nil, model.Profile{}, day(0)))
}

func TestCurrentStreakEmptyReferenceDayStartsPrevious(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	logs := []model.LogRecord{{Type: model.LogTypeExercise, LoggedAt: day(0), Kcal: 150}}

	// Reference day(2) has neither activity nor check: the walk starts
	// at day(1), which is empty but inside history, then day(0).
	require.Equal(t, 2, energy.CurrentStreak(logs, nil, p, day(2)))
}

func TestCurrentStreakExplicitNotDryBreaks(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	checks := []model.CheckRecord{
		{CheckedAt: day(0), IsDryDay: boolPtr(false)},
		{CheckedAt: day(1), IsDryDay: boolPtr(true)},
		{CheckedAt: day(2), IsDryDay: boolPtr(true)},
	}
	require.Equal(t, 2, energy.CurrentStreak(nil, checks, p, day(2)))
}

func TestCurrentStreakUnansweredCheckIsSafe(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	checks := []model.CheckRecord{
		{CheckedAt: day(0)}, // system-created empty check, question unanswered
		{CheckedAt: day(1), IsDryDay: boolPtr(true)},
	}
	require.Equal(t, 2, energy.CurrentStreak(nil, checks, p, day(1)))
}

func TestDaysSinceStart(t *testing.T) {
	t.Parallel()

	logs := []model.LogRecord{{Type: model.LogTypeBeer, LoggedAt: day(-4)}}
	require.Equal(t, 5, energy.DaysSinceStart(logs, nil, day(0)))
	require.Equal(t, 0, energy.DaysSinceStart(nil, nil, day(0)))
}
