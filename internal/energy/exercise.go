package energy

import (
	"fmt"
	"regexp"

	"github.com/ciquab/nomutore/internal/model"
)

// DefaultMETs is the fallback intensity for unrecognized exercise keys.
const DefaultMETs = 4.0

var exerciseMETs = map[string]float64{
	"walking":  3.5,
	"jogging":  7.0,
	"running":  9.8,
	"cycling":  7.5,
	"swimming": 8.3,
	"strength": 6.0,
	"yoga":     2.5,
	"stepper":  8.8,
	"hiit":     10.0,
}

func METsFor(exerciseKey string) float64 {
	if m, ok := exerciseMETs[exerciseKey]; ok {
		return m
	}
	return DefaultMETs
}

func ExerciseKeys() []string {
	keys := make([]string, 0, len(exerciseMETs))
	for k := range exerciseMETs {
		keys = append(keys, k)
	}
	return keys
}

// ExerciseBurn is the base kcal credit for a session, before any streak bonus.
func ExerciseBurn(mets, minutes float64, p model.Profile) float64 {
	if minutes <= 0 {
		return 0
	}
	return minutes * BurnRate(mets, p)
}

// StreakMultiplier is a step function over consecutive safe days.
// Thresholds are inclusive lower bounds.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 14:
		return 1.3
	case streak >= 7:
		return 1.2
	case streak >= 3:
		return 1.1
	default:
		return 1.0
	}
}

type Credit struct {
	Kcal       float64
	Multiplier float64
}

// ExerciseCredit applies the streak multiplier to a base burn.
func ExerciseCredit(baseKcal float64, streak int) Credit {
	m := StreakMultiplier(streak)
	return Credit{Kcal: baseKcal * m, Multiplier: m}
}

var bonusNotePattern = regexp.MustCompile(`\s*\[bonus \+\d+%\]\s*$`)

// StripBonusNote removes a trailing streak-bonus annotation from a memo.
func StripBonusNote(memo string) string {
	return bonusNotePattern.ReplaceAllString(memo, "")
}

// AnnotateBonus rewrites the bonus annotation on a memo. The note is
// appended only when the multiplier actually grants a bonus.
func AnnotateBonus(memo string, multiplier float64) string {
	memo = StripBonusNote(memo)
	if multiplier <= 1.0 {
		return memo
	}
	note := fmt.Sprintf("[bonus +%d%%]", int(multiplier*100+0.5)-100)
	if memo == "" {
		return note
	}
	return memo + " " + note
}
