package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestRedemptionSuggestionBelowThreshold(t *testing.T) {
	t.Parallel()

	require.Nil(t, energy.RedemptionSuggestion(49, model.Profile{}))
	require.Nil(t, energy.RedemptionSuggestion(-49, model.Profile{}))
}

func TestRedemptionSuggestionQuickWinFirst(t *testing.T) {
	t.Parallel()

	p := model.Profile{}

	// A small debt: the first candidate already clears it inside 30
	// minutes, so list order decides.
	s := energy.RedemptionSuggestion(100, p)
	require.NotNil(t, s)
	require.Equal(t, "hiit", s.Key)
	require.LessOrEqual(t, s.Minutes, 30.0)

	// 300 kcal with the default profile takes ~33 min of intervals:
	// nothing fits the 30-minute tier, so the 60-minute tier picks the
	// first candidate again.
	s = energy.RedemptionSuggestion(-300, p)
	require.NotNil(t, s)
	require.Equal(t, "hiit", s.Key)
	require.InDelta(t, 32.78, s.Minutes, 0.1)

	// Hopeless debt: fall back to the first candidate regardless.
	s = energy.RedemptionSuggestion(5000, p)
	require.NotNil(t, s)
	require.Equal(t, "hiit", s.Key)
	require.Greater(t, s.Minutes, 60.0)
}
