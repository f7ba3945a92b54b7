package nomutore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ciquab/nomutore/internal/app"
	"github.com/ciquab/nomutore/internal/db"
	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
	"github.com/ciquab/nomutore/internal/service"
)

// withDB opens the database, applies migrations, runs the session
// housekeeping and hands the connection to run.
func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	service.Resume(sqldb, time.Now())
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	return app.DefaultDBPath()
}

func parseInt64Arg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func parseDayOrNow(date string) (time.Time, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
	}
	return t, nil
}

// recalcFrom re-derives streak-dependent credits after a mutation that
// touched the given day. Exercise bonuses depend on history, so every
// write is followed by this pass.
func recalcFrom(sqldb *sql.DB, p model.Profile, day time.Time) error {
	_, err := service.RecalcImpactedHistory(sqldb, p, day, time.Now())
	return err
}

func statusGlyph(s energy.DayStatus) string {
	switch s {
	case energy.DayStatusRest:
		return "🛌"
	case energy.DayStatusRestExercise:
		return "💪"
	case energy.DayStatusDrink:
		return "🍺"
	case energy.DayStatusDrinkExercise:
		return "🍺🏃"
	case energy.DayStatusDrinkExerciseSuccess:
		return "✨"
	case energy.DayStatusExercise:
		return "🏃"
	default:
		return "·"
	}
}
