package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"maintenance_dashboard/internal/models"
)

type SessionSQLite struct {
	db *sql.DB
}

func NewSessionSQLite(db *sql.DB) *SessionSQLite {
	return &SessionSQLite{db: db}
}

// Ensure implementation of Sessions interface at compile time.
var _ Sessions = (*SessionSQLite)(nil)

const (
	advanceSessionSQL = `
		INSERT INTO view_sessions (session_id, active_tab, generation, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			active_tab=excluded.active_tab,
			generation=view_sessions.generation + 1,
			updated_at=excluded.updated_at
		RETURNING generation
	`

	selectSessionSQL = `
		SELECT session_id, active_tab, generation, updated_at
		FROM view_sessions WHERE session_id=?
	`
)

// Advance upserts the session row and returns the new state.
func (r *SessionSQLite) Advance(ctx context.Context, sessionID string, tab models.Tab, at time.Time) (models.ViewState, error) {
	if at.IsZero() {
		at = time.Now()
	}
	at = at.UTC()

	var gen int64
	err := r.db.QueryRowContext(ctx, advanceSessionSQL, sessionID, string(tab), at).Scan(&gen)
	if err != nil {
		return models.ViewState{}, fmt.Errorf("advance session %q: %w", sessionID, err)
	}
	return models.ViewState{
		SessionID:  sessionID,
		Active:     tab,
		Generation: gen,
		UpdatedAt:  at,
	}, nil
}

// Load fetches the session row.
func (r *SessionSQLite) Load(ctx context.Context, sessionID string) (models.ViewState, error) {
	var (
		st  models.ViewState
		tab string
	)
	err := r.db.QueryRowContext(ctx, selectSessionSQL, sessionID).
		Scan(&st.SessionID, &tab, &st.Generation, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ViewState{}, nil // new session
		}
		return models.ViewState{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	st.Active = models.Tab(tab)
	st.UpdatedAt = st.UpdatedAt.UTC()
	return st, nil
}
