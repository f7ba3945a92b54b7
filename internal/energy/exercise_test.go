package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestStreakMultiplierBoundaries(t *testing.T) {
	t.Parallel()

	cases := map[int]float64{
		0:  1.0,
		2:  1.0,
		3:  1.1,
		6:  1.1,
		7:  1.2,
		13: 1.2,
		14: 1.3,
		30: 1.3,
	}
	for streak, want := range cases {
		require.InDelta(t, want, energy.StreakMultiplier(streak), 1e-9, "streak %d", streak)
	}
}

func TestExerciseCredit(t *testing.T) {
	t.Parallel()

	c := energy.ExerciseCredit(100, 7)
	require.InDelta(t, 1.2, c.Multiplier, 1e-9)
	require.InDelta(t, 120.0, c.Kcal, 1e-9)

	c = energy.ExerciseCredit(100, 1)
	require.InDelta(t, 1.0, c.Multiplier, 1e-9)
	require.InDelta(t, 100.0, c.Kcal, 1e-9)
}

func TestExerciseBurnNonNegative(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	require.Zero(t, energy.ExerciseBurn(8, 0, p))
	require.Greater(t, energy.ExerciseBurn(8, 30, p), 0.0)
}

func TestMETsFallback(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 9.8, energy.METsFor("running"), 1e-9)
	require.InDelta(t, energy.DefaultMETs, energy.METsFor("underwater-basket-weaving"), 1e-9)
}

func TestBonusAnnotation(t *testing.T) {
	t.Parallel()

	require.Equal(t, "morning run [bonus +20%]", energy.AnnotateBonus("morning run", 1.2))
	require.Equal(t, "[bonus +30%]", energy.AnnotateBonus("", 1.3))
	require.Equal(t, "morning run", energy.AnnotateBonus("morning run", 1.0))

	// Re-annotating replaces the old note instead of stacking.
	once := energy.AnnotateBonus("morning run", 1.1)
	require.Equal(t, "morning run [bonus +20%]", energy.AnnotateBonus(once, 1.2))
	require.Equal(t, "morning run", energy.StripBonusNote(once))
}
