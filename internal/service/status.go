package service

import (
	"database/sql"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

// StatusSummary is everything the status screen needs in one pass.
type StatusSummary struct {
	Balance     float64
	TodayNet    float64
	Streak      int
	Multiplier  float64
	Grade       energy.Grade
	TodayStatus energy.DayStatus
	Redemption  *energy.Redemption
	PeriodMode  model.PeriodMode
	PeriodStart time.Time
	DaysTracked int
	TodayCheck  *model.CheckRecord
}

// BuildStatusSummary computes the live balance and all derived figures
// for "now". The balance covers the live set only; closed periods keep
// their totals in the archive table.
func BuildStatusSummary(db *sql.DB, p model.Profile, now time.Time) (StatusSummary, error) {
	logs, err := loadAllLogs(db)
	if err != nil {
		return StatusSummary{}, err
	}
	checks, err := loadAllChecks(db)
	if err != nil {
		return StatusSummary{}, err
	}
	mode, start, err := LoadPeriodSettings(db)
	if err != nil {
		return StatusSummary{}, err
	}
	todayCheck, err := GetCheckForDay(db, now)
	if err != nil {
		return StatusSummary{}, err
	}

	s := StatusSummary{
		PeriodMode:  mode,
		PeriodStart: start,
		TodayCheck:  todayCheck,
	}
	todayKey := energy.DayKey(now)
	for _, l := range logs {
		s.Balance += l.Kcal
		if energy.DayKey(l.LoggedAt) == todayKey {
			s.TodayNet += l.Kcal
		}
	}
	s.Streak = energy.CurrentStreak(logs, checks, p, now)
	s.Multiplier = energy.StreakMultiplier(s.Streak)
	s.Grade = energy.RecentGrade(logs, checks, p, now)
	s.TodayStatus = energy.StatusForDay(now, logs, checks, p)
	s.DaysTracked = energy.DaysSinceStart(logs, checks, now)
	if s.Balance < 0 {
		s.Redemption = energy.RedemptionSuggestion(s.Balance, p)
	}
	return s, nil
}

// DaySummary is one row of the history view.
type DaySummary struct {
	Day      time.Time
	Status   energy.DayStatus
	Net      float64
	BeerML   float64
	Exercise float64
	Logs     []model.LogRecord
	Check    *model.CheckRecord
}

// RangeSummaries classifies each calendar day in [from, to] inclusive,
// newest first.
func RangeSummaries(db *sql.DB, p model.Profile, from, to time.Time) ([]DaySummary, error) {
	logs, err := loadAllLogs(db)
	if err != nil {
		return nil, err
	}
	checks, err := loadAllChecks(db)
	if err != nil {
		return nil, err
	}

	logsByDay := map[string][]model.LogRecord{}
	for _, l := range logs {
		key := energy.DayKey(l.LoggedAt)
		logsByDay[key] = append(logsByDay[key], l)
	}
	checkByDay := map[string]model.CheckRecord{}
	for _, c := range checks {
		checkByDay[energy.DayKey(c.CheckedAt)] = c
	}

	start := energy.StartOfDay(from)
	end := energy.StartOfDay(to)
	if end.Before(start) {
		start, end = end, start
	}

	out := make([]DaySummary, 0)
	for day := end; !day.Before(start); day = day.AddDate(0, 0, -1) {
		key := energy.DayKey(day)
		s := DaySummary{
			Day:    day,
			Status: energy.StatusForDay(day, logs, checks, p),
			Logs:   logsByDay[key],
		}
		for _, l := range logsByDay[key] {
			s.Net += l.Kcal
			switch l.Type {
			case model.LogTypeBeer:
				s.BeerML += energy.VolumeForLog(l) * float64(l.Count)
			case model.LogTypeExercise:
				s.Exercise += l.Minutes
			}
		}
		if c, ok := checkByDay[key]; ok {
			check := c
			s.Check = &check
		}
		out = append(out, s)
	}
	return out, nil
}

// BeerStatsFromDB folds live and archived beer logs into one ranking so
// a period rollover does not erase drinking history from the stats view.
func BeerStatsFromDB(db *sql.DB) (energy.BeerStats, error) {
	logs, err := loadAllLogs(db)
	if err != nil {
		return energy.BeerStats{}, err
	}
	archives, err := loadAllArchives(db)
	if err != nil {
		return energy.BeerStats{}, err
	}
	for _, a := range archives {
		logs = append(logs, a.Logs...)
	}
	return energy.ComputeBeerStats(logs), nil
}
