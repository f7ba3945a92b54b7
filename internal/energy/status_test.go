package energy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

func TestStatusForDay(t *testing.T) {
	t.Parallel()

	p := model.Profile{}
	beer := model.LogRecord{Type: model.LogTypeBeer, LoggedAt: day(0), Kcal: -300}
	smallBeer := model.LogRecord{Type: model.LogTypeBeer, LoggedAt: day(0), Kcal: -100}
	run := model.LogRecord{Type: model.LogTypeExercise, LoggedAt: day(0), Kcal: 150}
	dry := model.CheckRecord{CheckedAt: day(0), IsDryDay: boolPtr(true)}

	cases := []struct {
		name   string
		logs   []model.LogRecord
		checks []model.CheckRecord
		want   energy.DayStatus
	}{
		{"empty day", nil, nil, energy.DayStatusNone},
		{"dry check only", nil, []model.CheckRecord{dry}, energy.DayStatusRest},
		{"dry check with exercise", []model.LogRecord{run}, []model.CheckRecord{dry}, energy.DayStatusRestExercise},
		{"beer only", []model.LogRecord{beer}, nil, energy.DayStatusDrink},
		{"beer beats exercise", []model.LogRecord{beer, run}, nil, energy.DayStatusDrinkExercise},
		{"exercise covers beer", []model.LogRecord{smallBeer, run}, nil, energy.DayStatusDrinkExerciseSuccess},
		{"exercise only", []model.LogRecord{run}, nil, energy.DayStatusExercise},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, energy.StatusForDay(day(0), tc.logs, tc.checks, p), tc.name)
	}
}
