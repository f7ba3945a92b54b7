package energy

import (
	"time"

	"github.com/ciquab/nomutore/internal/model"
)

type DayStatus string

const (
	DayStatusNone                 DayStatus = "none"
	DayStatusRest                 DayStatus = "rest"
	DayStatusRestExercise         DayStatus = "rest_exercise"
	DayStatusDrink                DayStatus = "drink"
	DayStatusDrinkExercise        DayStatus = "drink_exercise"
	DayStatusDrinkExerciseSuccess DayStatus = "drink_exercise_success"
	DayStatusExercise             DayStatus = "exercise"
)

// StatusForDay classifies a calendar day from its logs and check.
// The success variant requires the day's net balance to be non-negative
// despite drinking.
func StatusForDay(date time.Time, logs []model.LogRecord, checks []model.CheckRecord, p model.Profile) DayStatus {
	key := DayKey(date)

	hasBeer := false
	hasExercise := false
	net := 0.0
	for _, l := range logs {
		if DayKey(l.LoggedAt) != key {
			continue
		}
		net += l.Kcal
		switch l.Type {
		case model.LogTypeBeer:
			hasBeer = true
		case model.LogTypeExercise:
			hasExercise = true
		}
	}

	isDry := false
	for _, c := range checks {
		if DayKey(c.CheckedAt) == key && c.IsDryDay != nil && *c.IsDryDay {
			isDry = true
			break
		}
	}

	switch {
	case hasBeer && hasExercise && net >= 0:
		return DayStatusDrinkExerciseSuccess
	case hasBeer && hasExercise:
		return DayStatusDrinkExercise
	case hasBeer:
		return DayStatusDrink
	case hasExercise && isDry:
		return DayStatusRestExercise
	case hasExercise:
		return DayStatusExercise
	case isDry:
		return DayStatusRest
	default:
		return DayStatusNone
	}
}
