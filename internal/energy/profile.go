// Package energy implements the pure calorie, streak and grade
// calculations. Functions here take explicit inputs and never touch
// storage, so they stay deterministic and unit-testable.
package energy

import (
	"math"

	"github.com/ciquab/nomutore/internal/model"
)

const (
	kjPerKcal = 4.186

	defaultWeightKg = 65.0
	defaultHeightCm = 170.0
	defaultAgeYears = 40

	// Low-MET activities still burn something once standing up;
	// the net-METs formula would otherwise floor them at zero.
	minBurnRatePerMin = 0.1
)

func NormalizeProfile(p model.Profile) model.Profile {
	if p.WeightKg <= 0 {
		p.WeightKg = defaultWeightKg
	}
	if p.HeightCm <= 0 {
		p.HeightCm = defaultHeightCm
	}
	if p.AgeYears <= 0 {
		p.AgeYears = defaultAgeYears
	}
	if p.Gender != model.GenderFemale {
		p.Gender = model.GenderMale
	}
	return p
}

// BMR returns the daily basal metabolic rate in kcal, using the
// Ganpule equation (kJ) scaled by the kJ-to-kcal constant.
func BMR(p model.Profile) float64 {
	p = NormalizeProfile(p)
	genderTerm := 0.4235
	if p.Gender == model.GenderFemale {
		genderTerm = 0.9708
	}
	kj := (0.0481*p.WeightKg + 0.0234*p.HeightCm - 0.0138*float64(p.AgeYears) - genderTerm) * 1000
	return kj / kjPerKcal
}

// BurnRate derives a per-minute kcal burn rate from net METs. Resting
// metabolism (1 MET) is already spent, so it is subtracted before scaling.
func BurnRate(mets float64, p model.Profile) float64 {
	rate := (BMR(p) / 24 * math.Max(0, mets-1)) / 60
	if rate < minBurnRatePerMin {
		return minBurnRatePerMin
	}
	return rate
}
