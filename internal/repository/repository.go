package repository

import (
	"context"
	"database/sql"
	"time"

	"maintenance_dashboard/internal/models"
)

type Operators interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

// Sessions persists the router state of each browser session.
type Sessions interface {
	// Advance makes tab the active view of the session and bumps its
	// generation atomically, creating the session when needed.
	Advance(ctx context.Context, sessionID string, tab models.Tab, at time.Time) (models.ViewState, error)
	// Load returns the zero ViewState when the session is unknown.
	Load(ctx context.Context, sessionID string) (models.ViewState, error)
}

type ActionLog interface {
	Append(ctx context.Context, r models.ActionRecord) error
	List(ctx context.Context, from, to time.Time, action string) ([]models.ActionRecord, error)
}

type Repository struct {
	Sessions  Sessions
	ActionLog ActionLog
	Operators Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Sessions:  NewSessionSQLite(db),
		ActionLog: NewActionLogSQLite(db),
		Operators: NewOperatorRepository(db),
	}
}
