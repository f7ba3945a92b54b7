package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestAlcoholCaloriesRegression(t *testing.T) {
	t.Parallel()

	// 500ml at 5% abv: 20g ethanol -> 140 kcal, 15g carbs -> 60 kcal.
	require.InDelta(t, 200.0, energy.AlcoholCalories(500, 5, 3.0), 1e-9)
}

func TestBeerDebitNegatedAndScaled(t *testing.T) {
	t.Parallel()

	require.InDelta(t, -200.0, energy.BeerDebit(500, 5, 3.0, 1), 1e-9)
	require.InDelta(t, -400.0, energy.BeerDebit(500, 5, 3.0, 2), 1e-9)
	require.InDelta(t, -200.0, energy.BeerDebit(500, 5, 3.0, 0), 1e-9, "count below 1 is treated as 1")
}

func TestCarbsForLog(t *testing.T) {
	t.Parallel()

	dry := model.LogRecord{Type: model.LogTypeBeer, IsCustom: true, CustomType: energy.CustomTypeDry}
	require.Zero(t, energy.CarbsForLog(dry))

	fermented := model.LogRecord{Type: model.LogTypeBeer, IsCustom: true, CustomType: energy.CustomTypeFermented}
	require.InDelta(t, 3.5, energy.CarbsForLog(fermented), 1e-9)

	stout := model.LogRecord{Type: model.LogTypeBeer, Style: "stout"}
	require.InDelta(t, 4.2, energy.CarbsForLog(stout), 1e-9)

	unknown := model.LogRecord{Type: model.LogTypeBeer, Style: "mystery"}
	lager := model.LogRecord{Type: model.LogTypeBeer, Style: "lager"}
	require.InDelta(t, energy.CarbsForLog(lager), energy.CarbsForLog(unknown), 1e-9)
}

func TestVolumeForLog(t *testing.T) {
	t.Parallel()

	custom := model.LogRecord{IsCustom: true, RawAmountML: 720}
	require.InDelta(t, 720.0, energy.VolumeForLog(custom), 1e-9)

	can := model.LogRecord{Size: "can350"}
	require.InDelta(t, 350.0, energy.VolumeForLog(can), 1e-9)

	unknown := model.LogRecord{Size: "keg"}
	require.Zero(t, energy.VolumeForLog(unknown))
}
