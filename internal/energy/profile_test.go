package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestBMRPinnedValues(t *testing.T) {
	t.Parallel()

	male := model.Profile{WeightKg: 65, HeightCm: 170, AgeYears: 40, Gender: model.GenderMale}
	require.InDelta(t, 1464.166, energy.BMR(male), 0.01)

	female := male
	female.Gender = model.GenderFemale
	require.InDelta(t, 1333.421, energy.BMR(female), 0.01)
}

func TestBMRDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	require.InDelta(t, energy.BMR(model.Profile{WeightKg: 65, HeightCm: 170, AgeYears: 40, Gender: model.GenderMale}), energy.BMR(model.Profile{}), 1e-9)
}

func TestBurnRateMonotonicInMETs(t *testing.T) {
	t.Parallel()

	p := model.Profile{WeightKg: 70, HeightCm: 175, AgeYears: 35, Gender: model.GenderMale}
	prev := 0.0
	for mets := 1.0; mets <= 12.0; mets += 0.5 {
		rate := energy.BurnRate(mets, p)
		require.GreaterOrEqual(t, rate, prev, "burn rate must not decrease at %.1f METs", mets)
		prev = rate
	}
}

func TestBurnRateFloorsLowMETs(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	require.InDelta(t, 0.1, energy.BurnRate(1.0, p), 1e-9)
	require.InDelta(t, 0.1, energy.BurnRate(0.5, p), 1e-9)
}
