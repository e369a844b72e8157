package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/repository"
)

var ErrUnknownTab = errors.New("unknown tab")

// Router owns the per-session active tab. Every selection bumps the
// session generation so older loads can detect they were superseded.
type Router struct {
	sessions   repository.Sessions
	defaultTab models.Tab
	now        func() time.Time
}

func NewRouter(sessions repository.Sessions, defaultTab models.Tab) *Router {
	if _, ok := models.ParseTab(string(defaultTab)); !ok {
		defaultTab = models.TabDashboard
	}
	return &Router{sessions: sessions, defaultTab: defaultTab, now: time.Now}
}

// DefaultTab is the tab shown to a session that never selected one.
func (r *Router) DefaultTab() models.Tab { return r.defaultTab }

// Current returns the persisted state of the session, or a baseline on the
// default tab when nothing was stored yet.
func (r *Router) Current(ctx context.Context, sessionID string) (models.ViewState, error) {
	st, err := r.sessions.Load(ctx, sessionID)
	if err != nil {
		return models.ViewState{}, fmt.Errorf("load view state: %w", err)
	}
	if st.Active == "" {
		return models.ViewState{SessionID: sessionID, Active: r.defaultTab}, nil
	}
	return st, nil
}

// Select makes tab the session's active tab. Unknown tabs leave the stored
// state untouched.
func (r *Router) Select(ctx context.Context, sessionID, tab string) (models.ViewState, error) {
	t, ok := models.ParseTab(tab)
	if !ok {
		return models.ViewState{}, fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	st, err := r.sessions.Advance(ctx, sessionID, t, r.now().UTC())
	if err != nil {
		return models.ViewState{}, fmt.Errorf("advance view state: %w", err)
	}
	return st, nil
}
