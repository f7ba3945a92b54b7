package service

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ciquab/nomutore/internal/energy"
	"github.com/ciquab/nomutore/internal/model"
)

// Config keys understood by the rest of the app. Anything else in
// app_config is preserved but not interpreted.
const (
	ConfigKeyWeightKg      = "profile_weight_kg"
	ConfigKeyHeightCm      = "profile_height_cm"
	ConfigKeyAgeYears      = "profile_age_years"
	ConfigKeyGender        = "profile_gender"
	ConfigKeyPeriodMode    = "period_mode"
	ConfigKeyPeriodStartMs = "period_start_ms"
	ConfigKeyCheckItems    = "check_items"
)

func SetConfig(db *sql.DB, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("config key is required")
	}
	_, err := db.Exec(`
INSERT INTO app_config(key, value) VALUES(?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}

// GetConfig returns the stored value, or ("", false, nil) if unset.
func GetConfig(db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM app_config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %q: %w", key, err)
	}
	return value, true, nil
}

func ListConfig(db *sql.DB) (map[string]string, error) {
	rows, err := db.Query(`SELECT key, value FROM app_config ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("list config: %w", err)
	}
	defer rows.Close()

	out := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan config row: %w", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate config: %w", err)
	}
	return out, nil
}

// LoadProfile reads the body profile from app_config. Missing or
// malformed values fall back to the defaults, so a fresh database
// yields a usable profile without setup.
func LoadProfile(db *sql.DB) (model.Profile, error) {
	var p model.Profile
	if raw, ok, err := GetConfig(db, ConfigKeyWeightKg); err != nil {
		return model.Profile{}, err
	} else if ok {
		p.WeightKg, _ = strconv.ParseFloat(raw, 64)
	}
	if raw, ok, err := GetConfig(db, ConfigKeyHeightCm); err != nil {
		return model.Profile{}, err
	} else if ok {
		p.HeightCm, _ = strconv.ParseFloat(raw, 64)
	}
	if raw, ok, err := GetConfig(db, ConfigKeyAgeYears); err != nil {
		return model.Profile{}, err
	} else if ok {
		p.AgeYears, _ = strconv.Atoi(raw)
	}
	if raw, ok, err := GetConfig(db, ConfigKeyGender); err != nil {
		return model.Profile{}, err
	} else if ok {
		p.Gender = model.Gender(strings.ToLower(strings.TrimSpace(raw)))
	}
	return energy.NormalizeProfile(p), nil
}

func SaveProfile(db *sql.DB, p model.Profile) error {
	p = energy.NormalizeProfile(p)
	pairs := []struct{ key, value string }{
		{ConfigKeyWeightKg, strconv.FormatFloat(p.WeightKg, 'f', -1, 64)},
		{ConfigKeyHeightCm, strconv.FormatFloat(p.HeightCm, 'f', -1, 64)},
		{ConfigKeyAgeYears, strconv.Itoa(p.AgeYears)},
		{ConfigKeyGender, string(p.Gender)},
	}
	for _, pair := range pairs {
		if err := SetConfig(db, pair.key, pair.value); err != nil {
			return err
		}
	}
	return nil
}

const checkItemSchemaVersion = 1

type CheckItemDef struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type CheckItemSchema struct {
	Version int            `json:"version"`
	Items   []CheckItemDef `json:"items"`
}

var defaultCheckItems = []CheckItemDef{
	{ID: "waist_ease", Label: "Waist feels loose", Icon: "📏"},
	{ID: "foot_lightness", Label: "Light on my feet", Icon: "🦶"},
	{ID: "water_ok", Label: "Drank enough water", Icon: "💧"},
	{ID: "fiber_ok", Label: "Ate enough fiber", Icon: "🥬"},
}

// LoadCheckItems returns the configured extra check items. An older
// bare-array payload (no version wrapper) is accepted and upgraded on
// the next save.
func LoadCheckItems(db *sql.DB) (CheckItemSchema, error) {
	raw, ok, err := GetConfig(db, ConfigKeyCheckItems)
	if err != nil {
		return CheckItemSchema{}, err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return CheckItemSchema{Version: checkItemSchemaVersion, Items: defaultCheckItems}, nil
	}

	var schema CheckItemSchema
	if err := json.Unmarshal([]byte(raw), &schema); err == nil && schema.Version > 0 {
		return schema, nil
	}
	var bare []CheckItemDef
	if err := json.Unmarshal([]byte(raw), &bare); err != nil {
		return CheckItemSchema{}, fmt.Errorf("decode check items: %w", err)
	}
	return CheckItemSchema{Version: checkItemSchemaVersion, Items: bare}, nil
}

func SaveCheckItems(db *sql.DB, items []CheckItemDef) error {
	seen := map[string]bool{}
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return fmt.Errorf("check item id is required")
		}
		if seen[id] {
			return fmt.Errorf("duplicate check item id %q", id)
		}
		seen[id] = true
	}
	schema := CheckItemSchema{Version: checkItemSchemaVersion, Items: items}
	b, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("encode check items: %w", err)
	}
	return SetConfig(db, ConfigKeyCheckItems, string(b))
}

// ConfigKeys lists the known keys in a stable order for display.
func ConfigKeys() []string {
	keys := []string{
		ConfigKeyWeightKg, ConfigKeyHeightCm, ConfigKeyAgeYears, ConfigKeyGender,
		ConfigKeyPeriodMode, ConfigKeyPeriodStartMs, ConfigKeyCheckItems,
	}
	sort.Strings(keys)
	return keys
}
