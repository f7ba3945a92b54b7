package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestRecentGradeRookieS(t *testing.T) {
	t.Parallel()

	// Five days of history, four-day streak: 0.8 >= 0.70 -> Rookie S.
	checks := []model.CheckRecord{
		{CheckedAt: day(-4), IsDryDay: boolPtr(false)},
		{CheckedAt: day(-3), IsDryDay: boolPtr(true)},
		{CheckedAt: day(-2), IsDryDay: boolPtr(true)},
		{CheckedAt: day(-1), IsDryDay: boolPtr(true)},
		{CheckedAt: day(0), IsDryDay: boolPtr(true)},
	}
	g := energy.RecentGrade(nil, checks, model.Profile{}, day(0))
	require.True(t, g.Rookie)
	require.Equal(t, "S", g.Rank)
	require.Equal(t, "Rookie S", g.Label)
	require.Zero(t, g.NextDelta)
}

func TestRecentGradeRookieThresholds(t *testing.T) {
	t.Parallel()

	// Ten days of history, four-day streak: 0.4 -> Rookie A exactly at
	// the inclusive boundary.
	checks := []model.CheckRecord{
		{CheckedAt: day(-9), IsDryDay: boolPtr(true)},
		{CheckedAt: day(-4), IsDryDay: boolPtr(false)},
		{CheckedAt: day(-3), IsDryDay: boolPtr(true)},
		{CheckedAt: day(-2), IsDryDay: boolPtr(true)},
		{CheckedAt: day(-1), IsDryDay: boolPtr(true)},
		{CheckedAt: day(0), IsDryDay: boolPtr(true)},
	}
	g := energy.RecentGrade(nil, checks, model.Profile{}, day(0))
	require.True(t, g.Rookie)
	require.Equal(t, "A", g.Rank)
	require.Equal(t, "S", g.NextRank)
	require.InDelta(t, 0.30, g.NextDelta, 1e-9)
}

func TestRecentGradeVeteran(t *testing.T) {
	t.Parallel()

	// 30 days of history, 10-day streak: veteran B (>=8).
	checks := make([]model.CheckRecord, 0, 30)
	for i := -29; i <= 0; i++ {
		dry := i >= -9
		checks = append(checks, model.CheckRecord{CheckedAt: day(i), IsDryDay: boolPtr(dry)})
	}
	g := energy.RecentGrade(nil, checks, model.Profile{}, day(0))
	require.False(t, g.Rookie)
	require.Equal(t, "B", g.Rank)
	require.Equal(t, "A", g.NextRank)
	require.InDelta(t, 2, g.NextDelta, 1e-9)
	require.NotEmpty(t, g.Color)
}
