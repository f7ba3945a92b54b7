package energy

import (
	"time"

	"github.com/ciquab/nomutore/internal/model"
)

// Users with two weeks of history or less are graded on consistency
// ratio rather than raw streak length.
const rookiePeriodDays = 14

type Grade struct {
	Rank       string
	Label      string
	Rookie     bool
	Color      string
	Background string
	// NextDelta is the distance to the next rank: a ratio delta for
	// rookies, whole days otherwise. Zero at the top rank.
	NextRank  string
	NextDelta float64
}

var gradeColors = map[string][2]string{
	"S":        {"#f5c518", "#3b2f00"},
	"A":        {"#7ddf64", "#0f2e14"},
	"B":        {"#64b5f6", "#0d2238"},
	"C":        {"#b0bec5", "#263238"},
	"Beginner": {"#b0bec5", "#263238"},
}

func newGrade(rank, label string, rookie bool, nextRank string, nextDelta float64) Grade {
	colors := gradeColors[rank]
	return Grade{
		Rank:       rank,
		Label:      label,
		Rookie:     rookie,
		Color:      colors[0],
		Background: colors[1],
		NextRank:   nextRank,
		NextDelta:  nextDelta,
	}
}

// RecentGrade classifies the user. During the rookie period the grade is
// driven by streak/daysSinceStart; afterwards by the raw streak length.
func RecentGrade(logs []model.LogRecord, checks []model.CheckRecord, p model.Profile, now time.Time) Grade {
	streak := CurrentStreak(logs, checks, p, now)
	days := DaysSinceStart(logs, checks, now)
	if days < 1 {
		days = 1
	}

	if days <= rookiePeriodDays {
		rate := float64(streak) / float64(days)
		switch {
		case rate >= 0.70:
			return newGrade("S", "Rookie S", true, "", 0)
		case rate >= 0.40:
			return newGrade("A", "Rookie A", true, "S", 0.70-rate)
		case rate >= 0.25:
			return newGrade("B", "Rookie B", true, "A", 0.40-rate)
		default:
			return newGrade("Beginner", "Beginner", true, "B", 0.25-rate)
		}
	}

	switch {
	case streak >= 20:
		return newGrade("S", "Grade S", false, "", 0)
	case streak >= 12:
		return newGrade("A", "Grade A", false, "S", float64(20-streak))
	case streak >= 8:
		return newGrade("B", "Grade B", false, "A", float64(12-streak))
	default:
		return newGrade("C", "Grade C", false, "B", float64(8-streak))
	}
}
