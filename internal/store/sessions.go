package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one practice session: the mode and skill level it started
// under and the number of accepted triggers.
type Session struct {
	ID         string
	Mode       string
	SkillLevel int
	Hits       int
	StartedAt  time.Time
	EndedAt    *time.Time
}

// SessionRepository provides access to practice session history.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Begin inserts a new open session and returns its ID.
func (r *SessionRepository) Begin(mode string, skillLevel int) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, mode, skill_level, hits, started_at) VALUES (?, ?, ?, 0, ?)`,
		id, mode, skillLevel, time.Now(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// End closes a session, recording its final hit count.
func (r *SessionRepository) End(id string, hits int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET hits = ?, ended_at = ? WHERE id = ?`,
		hits, time.Now(), id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, mode, skill_level, hits, started_at, ended_at FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.Mode, &sess.SkillLevel, &sess.Hits, &sess.StartedAt, &endedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

// List retrieves the most recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, mode, skill_level, hits, started_at, ended_at
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var endedAt sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.Mode, &sess.SkillLevel, &sess.Hits, &sess.StartedAt, &endedAt); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
