package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
	"github.com/ciquab/nomutore/internal/service"
)

func TestBeerLogCRUD(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	id, err := service.SaveBeerLog(db, service.BeerLogInput{
		Name:    "Yona Yona Ale",
		Style:   "paleale",
		Size:    "can350",
		Count:   2,
		ABV:     5.5,
		Brewery: "Yoho",
		Brand:   "Yona Yona",
		Rating:  4,
		Day:     testDay(0),
	})
	require.NoError(t, err)

	got, err := service.GetLog(db, id)
	require.NoError(t, err)
	require.Equal(t, model.LogTypeBeer, got.Type)
	require.Equal(t, 2, got.Count)
	require.Negative(t, got.Kcal)
	require.InDelta(t, energy.BeerDebit(350, 5.5, 3.8, 2), got.Kcal, 1e-6)
	require.Equal(t, 12, got.LoggedAt.Hour(), "beer logs are bucketed at local noon")

	err = service.UpdateBeerLog(db, service.UpdateBeerLogInput{
		ID: id,
		BeerLogInput: service.BeerLogInput{
			Name: "Yona Yona Ale", Style: "paleale", Size: "can500",
			Count: 1, ABV: 5.5, Rating: 5, Day: testDay(0),
		},
	})
	require.NoError(t, err)

	got, err = service.GetLog(db, id)
	require.NoError(t, err)
	require.Equal(t, "can500", got.Size)
	require.InDelta(t, energy.BeerDebit(500, 5.5, 3.8, 1), got.Kcal, 1e-6)

	require.NoError(t, service.DeleteLog(db, id))
	_, err = service.GetLog(db, id)
	require.ErrorContains(t, err, "not found")
}

func TestBeerLogValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	_, err := service.SaveBeerLog(db, service.BeerLogInput{Size: "can350", ABV: 120})
	require.ErrorContains(t, err, "abv")

	_, err = service.SaveBeerLog(db, service.BeerLogInput{Size: "keg", ABV: 5})
	require.ErrorContains(t, err, "unknown size")

	_, err = service.SaveBeerLog(db, service.BeerLogInput{Size: "can350", Style: "doppelbock", ABV: 5})
	require.ErrorContains(t, err, "unknown style")

	_, err = service.SaveBeerLog(db, service.BeerLogInput{IsCustom: true, CustomType: "dry", ABV: 40})
	require.ErrorContains(t, err, "amount")

	_, err = service.SaveBeerLog(db, service.BeerLogInput{IsCustom: true, CustomType: "sparkling", RawAmountML: 200, ABV: 9})
	require.ErrorContains(t, err, "custom type")

	// Count below one is clamped, not rejected.
	id, err := service.SaveBeerLog(db, service.BeerLogInput{Size: "can350", Style: "lager", ABV: 5, Count: 0, Day: testDay(0)})
	require.NoError(t, err)
	got, err := service.GetLog(db, id)
	require.NoError(t, err)
	require.Equal(t, 1, got.Count)
}

func TestCustomDrinkKcal(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	// A dry spirit carries no carb term.
	id, err := service.SaveBeerLog(db, service.BeerLogInput{
		Name: "Highball", IsCustom: true, CustomType: "dry", RawAmountML: 350, ABV: 7, Day: testDay(0),
	})
	require.NoError(t, err)
	got, err := service.GetLog(db, id)
	require.NoError(t, err)
	require.InDelta(t, energy.BeerDebit(350, 7, 0, 1), got.Kcal, 1e-6)
}

func TestExerciseLogSaveAndList(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	p := energy.NormalizeProfile(model.Profile{})

	id, err := service.SaveExerciseLog(db, p, service.ExerciseLogInput{
		ExerciseKey: "running", Minutes: 30, Memo: "easy run", Day: testDay(0),
	})
	require.NoError(t, err)

	got, err := service.GetLog(db, id)
	require.NoError(t, err)
	require.Equal(t, model.LogTypeExercise, got.Type)
	require.InDelta(t, energy.ExerciseBurn(energy.METsFor("running"), 30, p), got.Kcal, 1e-6)
	require.InDelta(t, 30, got.RawMinutes, 1e-9)

	_, err = service.SaveExerciseLog(db, p, service.ExerciseLogInput{ExerciseKey: "running", Minutes: 0})
	require.ErrorContains(t, err, "minutes")
	_, err = service.SaveExerciseLog(db, p, service.ExerciseLogInput{Minutes: 30})
	require.ErrorContains(t, err, "exercise type")
}

func TestListLogsFilters(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	insertRawLog(t, db, model.LogTypeBeer, testDay(-2), -100)
	insertRawLog(t, db, model.LogTypeBeer, testDay(0), -200)
	insertRawLog(t, db, model.LogTypeExercise, testDay(0), 150)

	day := testDay(0).Format("2006-01-02")
	items, err := service.ListLogs(db, service.ListLogsFilter{Date: day})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = service.ListLogs(db, service.ListLogsFilter{Date: day, Type: "beer"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.InDelta(t, -200, items[0].Kcal, 1e-9)

	items, err = service.ListLogs(db, service.ListLogsFilter{FromDate: testDay(-1).Format("2006-01-02"), Ascending: true})
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = service.ListLogs(db, service.ListLogsFilter{Date: day, FromDate: day})
	require.ErrorContains(t, err, "cannot be combined")

	_, err = service.ListLogs(db, service.ListLogsFilter{Type: "wine"})
	require.ErrorContains(t, err, "invalid log type")
}
