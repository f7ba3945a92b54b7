package model

import "time"

type LogType string

const (
	LogTypeBeer     LogType = "beer"
	LogTypeExercise LogType = "exercise"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type PeriodMode string

const (
	PeriodWeekly    PeriodMode = "weekly"
	PeriodMonthly   PeriodMode = "monthly"
	PeriodPermanent PeriodMode = "permanent"
)

// Profile holds the body parameters the energy formulas depend on.
// Zero fields are filled with defaults by the energy package.
type Profile struct {
	WeightKg float64
	HeightCm float64
	AgeYears int
	Gender   Gender
}

// LogRecord is one beer-drinking or exercise event. Exactly one of the
// beer or exercise field sets is populated, discriminated by Type.
// Kcal is negative for beer (debit) and non-negative for exercise (credit).
type LogRecord struct {
	ID       int64
	Type     LogType
	LoggedAt time.Time
	Kcal     float64
	Name     string

	Style       string
	Size        string
	Count       int
	ABV         float64
	Brewery     string
	Brand       string
	Rating      int
	IsCustom    bool
	CustomType  string
	RawAmountML float64

	Minutes     float64
	ExerciseKey string
	RawMinutes  float64

	Memo      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckRecord is the daily condition check-in, at most one per calendar day.
// IsDryDay is tri-state: nil means the question was never answered.
type CheckRecord struct {
	ID            int64
	CheckedAt     time.Time
	IsDryDay      *bool
	WaistEase     bool
	FootLightness bool
	WaterOk       bool
	FiberOk       bool
	ExtraItems    map[string]bool
	WeightKg      *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PeriodArchive is an immutable snapshot of a closed accounting period.
// Logs keeps the full copy of the archived records, original ids included;
// ids are stripped only when the logs are restored to the live set.
type PeriodArchive struct {
	ID           int64
	StartDate    time.Time
	EndDate      time.Time
	Mode         PeriodMode
	TotalBalance float64
	Logs         []LogRecord
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
