package energy_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestComputeBeerStats(t *testing.T) {
	t.Parallel()

	logs := []model.LogRecord{
		{Type: model.LogTypeBeer, LoggedAt: day(0), Brewery: "Yoho", Brand: "Yona Yona", Style: "paleale", Size: "can350", Count: 2, Rating: 4},
		{Type: model.LogTypeBeer, LoggedAt: day(1), Brewery: "Yoho", Brand: "Yona Yona", Style: "paleale", Size: "can350", Count: 1, Rating: 0},
		{Type: model.LogTypeBeer, LoggedAt: day(1), Brewery: " Yoho ", Brand: "Aooni", Style: "ipa", Size: "can350", Count: 1, Rating: 5},
		{Type: model.LogTypeBeer, LoggedAt: day(0), Style: "lager", Size: "can500", Count: 1, Rating: 3},
		{Type: model.LogTypeExercise, LoggedAt: day(0), Kcal: 100, ExerciseKey: "running", Minutes: 20},
	}

	stats := energy.ComputeBeerStats(logs)
	require.Len(t, stats.Brands, 3)

	top := stats.Brands[0]
	require.Equal(t, "Yoho", top.Brewery)
	require.Equal(t, "Yona Yona", top.Brand)
	require.Equal(t, 3, top.Count)
	require.InDelta(t, 1050, top.TotalML, 1e-9)
	require.InDelta(t, 4.0, top.AvgRating, 1e-9, "zero ratings are excluded from the average")
	require.Equal(t, energy.DayKey(day(1)), energy.DayKey(top.LastDrank))

	foundUnknown := false
	for _, b := range stats.Brands {
		if b.Brewery == "Unknown" && b.Brand == "Unknown" {
			foundUnknown = true
			require.Equal(t, 1, b.Count)
		}
	}
	require.True(t, foundUnknown, "missing brewery/brand falls under the Unknown sentinel")

	require.Equal(t, "paleale", stats.Styles[0].Style)
	require.Equal(t, 3, stats.Styles[0].Count)
}

func TestShareTextTemplate(t *testing.T) {
	t.Parallel()

	l := model.LogRecord{
		Type: model.LogTypeBeer, Name: "Yona Yona Ale", Size: "can350",
		Count: 2, Kcal: -362,
	}
	text := energy.ShareText(l, -120)
	require.True(t, strings.Contains(text, "Yona Yona Ale"))
	require.True(t, strings.Contains(text, "700ml"))
	require.True(t, strings.Contains(text, "362 kcal"))
	require.True(t, strings.Contains(text, "-120 kcal"))
	require.True(t, strings.Contains(text, "#nomutore"))
}
