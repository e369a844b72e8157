package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"sync"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/render"
	"maintenance_dashboard/internal/repository"

	"github.com/google/uuid"
)

// ErrStaleView is returned when a load finished after the session moved on.
var ErrStaleView = errors.New("stale view load")

type loadToken struct {
	id     string
	cancel context.CancelFunc
}

// Loader runs the fetch and render cycle of a view. At most one load per
// session is live: starting a new one cancels the previous one.
type Loader struct {
	api      backend.API
	sessions repository.Sessions
	log      *logger.Logger

	mu     sync.Mutex
	tokens map[string]loadToken
}

func NewLoader(api backend.API, sessions repository.Sessions, log *logger.Logger) *Loader {
	return &Loader{api: api, sessions: sessions, log: log, tokens: make(map[string]loadToken)}
}

// Load fetches and renders the view of st.Active. The result is discarded
// with ErrStaleView when a newer load of the same session started, or the
// persisted state no longer matches st.
func (l *Loader) Load(ctx context.Context, st models.ViewState) (template.HTML, error) {
	ctx, id := l.begin(ctx, st.SessionID)
	defer l.finish(st.SessionID, id)

	data, err := Fetch(ctx, l.api, l.log, st.Active)
	if l.superseded(st.SessionID, id) {
		return "", ErrStaleView
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", st.Active, err)
	}
	if stale, err := l.moved(ctx, st); err != nil {
		return "", err
	} else if stale {
		return "", ErrStaleView
	}
	return render.View(data)
}

func (l *Loader) begin(parent context.Context, sessionID string) (context.Context, string) {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()

	l.mu.Lock()
	if prev, ok := l.tokens[sessionID]; ok {
		prev.cancel()
	}
	l.tokens[sessionID] = loadToken{id: id, cancel: cancel}
	l.mu.Unlock()
	return ctx, id
}

func (l *Loader) finish(sessionID, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if tok, ok := l.tokens[sessionID]; ok && tok.id == id {
		tok.cancel()
		delete(l.tokens, sessionID)
	}
}

func (l *Loader) superseded(sessionID, id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	tok, ok := l.tokens[sessionID]
	return !ok || tok.id != id
}

// moved reports whether the session selected another tab, or reselected,
// while st was loading. Sessions that never selected a tab cannot move.
func (l *Loader) moved(ctx context.Context, st models.ViewState) (bool, error) {
	cur, err := l.sessions.Load(ctx, st.SessionID)
	if err != nil {
		return false, fmt.Errorf("load view state: %w", err)
	}
	if cur.SessionID == "" {
		return false, nil
	}
	return cur.Active != st.Active || cur.Generation != st.Generation, nil
}

// Inflight reports the number of sessions with a live load.
func (l *Loader) Inflight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tokens)
}
