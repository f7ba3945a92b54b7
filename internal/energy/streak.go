package energy

import (
	"time"

	"github.com/ciquab/nomutore/internal/model"
)

// Hard safety bound for the backward day walk (~10 years).
const maxStreakWalk = 3650

func DayKey(t time.Time) string {
	return t.Local().Format("2006-01-02")
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// LocalNoon buckets a date at local noon so that day membership stays
// unambiguous across timezone and DST edges.
func LocalNoon(t time.Time) time.Time {
	y, m, d := t.Local().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

// CurrentStreak counts consecutive safe days backward from ref.
// A day is unsafe when it carries a beer log or a check explicitly
// marked not-dry; a day with no data at all is given the benefit of
// the doubt. When the reference day itself has neither activity nor a
// check, counting starts from the previous day instead.
func CurrentStreak(logs []model.LogRecord, checks []model.CheckRecord, p model.Profile, ref time.Time) int {
	beerDays := map[string]bool{}
	activityDays := map[string]bool{}
	checkByDay := map[string]model.CheckRecord{}

	var earliest time.Time
	noteDay := func(t time.Time) {
		d := StartOfDay(t)
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	for _, l := range logs {
		key := DayKey(l.LoggedAt)
		activityDays[key] = true
		if l.Type == model.LogTypeBeer {
			beerDays[key] = true
		}
		noteDay(l.LoggedAt)
	}
	for _, c := range checks {
		checkByDay[DayKey(c.CheckedAt)] = c
		noteDay(c.CheckedAt)
	}
	if earliest.IsZero() {
		return 0
	}

	day := StartOfDay(ref)
	if key := DayKey(day); !activityDays[key] {
		if _, ok := checkByDay[key]; !ok {
			day = day.AddDate(0, 0, -1)
		}
	}

	streak := 0
	for i := 0; i < maxStreakWalk; i++ {
		if day.Before(earliest) {
			break
		}
		key := DayKey(day)
		if beerDays[key] {
			break
		}
		if c, ok := checkByDay[key]; ok && c.IsDryDay != nil && !*c.IsDryDay {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// DaysSinceStart is the number of days, inclusive, since the earliest
// log or check. Zero when no data exists at all.
func DaysSinceStart(logs []model.LogRecord, checks []model.CheckRecord, now time.Time) int {
	var earliest time.Time
	note := func(t time.Time) {
		d := StartOfDay(t)
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	for _, l := range logs {
		note(l.LoggedAt)
	}
	for _, c := range checks {
		note(c.CheckedAt)
	}
	if earliest.IsZero() {
		return 0
	}
	days := int(StartOfDay(now).Sub(earliest).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return days
}
