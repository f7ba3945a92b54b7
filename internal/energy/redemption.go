package energy

import (
	"math"

	"github.com/ciquab/nomutore/internal/model"
)

// Debts under this threshold are not worth suggesting a workout for.
const redemptionMinDebtKcal = 50.0

type Redemption struct {
	Key     string
	Label   string
	METs    float64
	Minutes float64
}

// Candidate order is deliberate: the first quick win wins, not the
// mathematically shortest session.
var redemptionCandidates = []struct {
	key   string
	label string
	mets  float64
}{
	{"hiit", "High-intensity intervals", 10.0},
	{"running", "Running", 9.8},
	{"stepper", "Stair stepper", 8.8},
	{"walking", "Brisk walking", 3.5},
}

// RedemptionSuggestion names an activity that clears the given debt:
// the first candidate doable in 30 minutes, else in 60, else the first
// candidate regardless. Returns nil for negligible debts.
func RedemptionSuggestion(debtKcal float64, p model.Profile) *Redemption {
	debt := math.Abs(debtKcal)
	if debt < redemptionMinDebtKcal {
		return nil
	}

	options := make([]Redemption, 0, len(redemptionCandidates))
	for _, c := range redemptionCandidates {
		options = append(options, Redemption{
			Key:     c.key,
			Label:   c.label,
			METs:    c.mets,
			Minutes: debt / BurnRate(c.mets, p),
		})
	}
	for _, limit := range []float64{30, 60} {
		for _, o := range options {
			if o.Minutes <= limit {
				picked := o
				return &picked
			}
		}
	}
	picked := options[0]
	return &picked
}
