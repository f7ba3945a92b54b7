package service

import (
	"database/sql"
	"log/slog"
	"sync/atomic"
	"time"
)

var resumeRunning atomic.Bool

// Resume runs the start-of-session housekeeping: seed today's check row
// and close the previous period if the calendar has moved on. Both steps
// are best effort; a failure is logged and does not block the command
// that triggered the resume.
func Resume(db *sql.DB, now time.Time) {
	if !resumeRunning.CompareAndSwap(false, true) {
		return
	}
	defer resumeRunning.Store(false)

	if _, err := EnsureTodayCheck(db, now); err != nil {
		slog.Warn("seed today check failed", "error", err)
	}
	if rolled, err := CheckPeriodRollover(db, now); err != nil {
		slog.Warn("period rollover check failed", "error", err)
	} else if rolled {
		slog.Info("period rolled over", "at", now.Format(time.RFC3339))
	}
}
