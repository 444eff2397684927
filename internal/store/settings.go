package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Setting keys.
const (
	KeyMode       = "mode"
	KeySkillLevel = "skill_level"
)

// SettingsRepository provides access to key-value application settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores a setting value, replacing any previous one.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Mode returns the persisted operating mode name.
func (r *SettingsRepository) Mode() (string, error) {
	return r.Get(KeyMode)
}

// SetMode persists the operating mode name.
func (r *SettingsRepository) SetMode(mode string) error {
	return r.Set(KeyMode, mode)
}

// SkillLevel returns the persisted skill level.
func (r *SettingsRepository) SkillLevel() (int, error) {
	value, err := r.Get(KeySkillLevel)
	if err != nil {
		return 0, err
	}
	level, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return level, nil
}

// SetSkillLevel persists the skill level.
func (r *SettingsRepository) SetSkillLevel(level int) error {
	return r.Set(KeySkillLevel, strconv.Itoa(level))
}
