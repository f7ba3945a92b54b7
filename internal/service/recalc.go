package service

import (
	"database/sql"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

const (
	// recalcMaxDays bounds a single recalculation walk so a bad "from"
	// date cannot spin through decades of empty days.
	recalcMaxDays = 365

	// kcalEpsilon is the write threshold. Differences below it are
	// floating point noise, not real corrections.
	kcalEpsilon = 0.1
)

var recalcRunning atomic.Bool

type RecalcReport struct {
	DaysScanned     int
	LogsUpdated     int
	ArchivesUpdated int
	Skipped         bool
}

// RecalcImpactedHistory re-derives the streak-dependent bonus for every
// exercise log from the given day forward and refreshes archive totals
// that overlap the window. Only rows whose kcal or memo actually change
// are written, which makes a second pass over unchanged data a no-op.
//
// Concurrent invocations are collapsed: if a walk is already running
// the call returns immediately with Skipped set.
func RecalcImpactedHistory(db *sql.DB, p model.Profile, from, now time.Time) (RecalcReport, error) {
	if !recalcRunning.CompareAndSwap(false, true) {
		return RecalcReport{Skipped: true}, nil
	}
	defer recalcRunning.Store(false)

	var report RecalcReport

	logs, err := loadAllLogs(db)
	if err != nil {
		return report, err
	}
	checks, err := loadAllChecks(db)
	if err != nil {
		return report, err
	}

	today := energy.StartOfDay(now)
	day := energy.StartOfDay(from)
	if day.After(today) {
		day = today
	}
	if today.Sub(day) > time.Duration(recalcMaxDays-1)*24*time.Hour {
		day = today.AddDate(0, 0, -(recalcMaxDays - 1))
	}

	logsByDay := map[string][]model.LogRecord{}
	for _, l := range logs {
		key := energy.DayKey(l.LoggedAt)
		logsByDay[key] = append(logsByDay[key], l)
	}

	for !day.After(today) {
		report.DaysScanned++
		key := energy.DayKey(day)
		if updated, err := recalcDay(db, p, logs, checks, logsByDay[key], day); err != nil {
			slog.Warn("recalc day failed", "day", key, "error", err)
		} else {
			report.LogsUpdated += updated
		}
		day = day.AddDate(0, 0, 1)
	}

	updatedArchives, err := refreshArchiveTotals(db, energy.StartOfDay(from), today)
	if err != nil {
		slog.Warn("archive total refresh failed", "error", err)
	} else {
		report.ArchivesUpdated = updatedArchives
	}
	return report, nil
}

func recalcDay(db *sql.DB, p model.Profile, allLogs []model.LogRecord, allChecks []model.CheckRecord, dayLogs []model.LogRecord, day time.Time) (int, error) {
	updated := 0
	var streak int
	streakKnown := false
	for _, l := range dayLogs {
		if l.Type != model.LogTypeExercise {
			continue
		}
		if !streakKnown {
			streak = energy.CurrentStreak(allLogs, allChecks, p, day)
			streakKnown = true
		}
		minutes := l.RawMinutes
		if minutes <= 0 {
			minutes = l.Minutes
		}
		base := energy.ExerciseBurn(energy.METsFor(l.ExerciseKey), minutes, p)
		credit := energy.ExerciseCredit(base, streak)
		memo := energy.AnnotateBonus(l.Memo, credit.Multiplier)
		if math.Abs(credit.Kcal-l.Kcal) <= kcalEpsilon && memo == l.Memo {
			continue
		}
		_, err := db.Exec(`UPDATE logs SET kcal = ?, memo = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			credit.Kcal, memo, l.ID)
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// refreshArchiveTotals recomputes the stored balance for every archive
// whose period overlaps [from, to]. The total is the archive's own
// frozen logs plus any live logs that still fall inside its window.
func refreshArchiveTotals(db *sql.DB, from, to time.Time) (int, error) {
	archives, err := loadAllArchives(db)
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, a := range archives {
		if a.EndDate.Before(from) || a.StartDate.After(to) {
			continue
		}
		total := sumLogsKcal(a.Logs)
		live, err := sumKcalInRange(db, a.StartDate, a.EndDate)
		if err != nil {
			return updated, err
		}
		total += live
		if math.Abs(total-a.TotalBalance) <= kcalEpsilon {
			continue
		}
		_, err = db.Exec(`UPDATE period_archives SET total_balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, total, a.ID)
		if err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func sumLogsKcal(logs []model.LogRecord) float64 {
	var sum float64
	for _, l := range logs {
		sum += l.Kcal
	}
	return sum
}
