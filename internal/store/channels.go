package store

import (
	"database/sql"
	"errors"
	"time"
)

// ChannelSetting is a user override for one drum channel, keyed by the
// canonical channel name.
type ChannelSetting struct {
	Channel   string
	Volume    float64
	Enabled   bool
	UpdatedAt time.Time
}

// ChannelRepository provides access to per-channel user settings.
type ChannelRepository struct {
	db *sql.DB
}

// Channels returns the channel settings repository for this store.
func (s *Store) Channels() *ChannelRepository {
	return &ChannelRepository{db: s.db}
}

// Upsert stores the volume and enabled flag for a channel.
func (r *ChannelRepository) Upsert(channel string, volume float64, enabled bool) error {
	enabledInt := 0
	if enabled {
		enabledInt = 1
	}

	_, err := r.db.Exec(
		`INSERT INTO channel_settings (channel, volume, enabled, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(channel) DO UPDATE SET
		   volume = excluded.volume,
		   enabled = excluded.enabled,
		   updated_at = excluded.updated_at`,
		channel, volume, enabledInt, time.Now(),
	)
	return err
}

// Get retrieves the settings for one channel.
func (r *ChannelRepository) Get(channel string) (*ChannelSetting, error) {
	cs := &ChannelSetting{}
	var enabled int

	err := r.db.QueryRow(
		`SELECT channel, volume, enabled, updated_at FROM channel_settings WHERE channel = ?`,
		channel,
	).Scan(&cs.Channel, &cs.Volume, &enabled, &cs.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	cs.Enabled = enabled != 0
	return cs, nil
}

// List retrieves all stored channel settings.
func (r *ChannelRepository) List() ([]ChannelSetting, error) {
	rows, err := r.db.Query(
		`SELECT channel, volume, enabled, updated_at FROM channel_settings ORDER BY channel`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []ChannelSetting
	for rows.Next() {
		var cs ChannelSetting
		var enabled int
		if err := rows.Scan(&cs.Channel, &cs.Volume, &enabled, &cs.UpdatedAt); err != nil {
			return nil, err
		}
		cs.Enabled = enabled != 0
		settings = append(settings, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return settings, nil
}
