package service

import (
	"context"
	"html/template"
	"time"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/repository"
	"maintenance_dashboard/internal/visualizer"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Views selects tabs and loads their fragments.
type Views interface {
	Current(ctx context.Context, sessionID string) (models.ViewState, error)
	Select(ctx context.Context, sessionID, tab string) (models.ViewState, error)
	Load(ctx context.Context, st models.ViewState) (template.HTML, error)
	Refresh(ctx context.Context, sessionID string) (models.ViewState, template.HTML, error)
}

// Actions runs operator commands against the backend.
type Actions interface {
	Prompt(req ActionRequest) (string, error)
	Dispatch(ctx context.Context, req ActionRequest, c Confirmer) (Outcome, error)
}

// ActionLog exposes the audit trail of dispatched actions.
type ActionLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActionRecord, error)
}

type Terminal interface {
	Exec(ctx context.Context, sessionID, cmd string) ([]string, error)
	Scan(ctx context.Context, sessionID string) ([]string, error)
	Console(sessionID string) []string
}

// Visualizer runs the point field animation.
// Stop via context cancellation in main() for graceful shutdown.
type Visualizer interface {
	Run(ctx context.Context, interval time.Duration)
	Alert(d time.Duration)
	Snapshot() visualizer.Frame
}

type Service struct {
	Views
	Actions
	ActionLog
	Terminal
	Visualizer
	Authorization
}

// Config holds the service level settings read from configuration.
type Config struct {
	DefaultTab    models.Tab
	SigningKey    string
	TokenTTL      time.Duration
	AllowSignUp   bool
	ConsoleLimit  int
	AlertDuration time.Duration
}

// ViewService joins the router and the loader.
type ViewService struct {
	*Router
	*Loader
}

// Refresh reloads the session's active tab.
func (v *ViewService) Refresh(ctx context.Context, sessionID string) (models.ViewState, template.HTML, error) {
	st, err := v.Current(ctx, sessionID)
	if err != nil {
		return models.ViewState{}, "", err
	}
	html, err := v.Load(ctx, st)
	return st, html, err
}

// NewService wires the repository layer, the backend client and the
// visualizer into concrete services.
func NewService(repos *repository.Repository, api backend.API, field *visualizer.Field, cfg Config, log *logger.Logger) *Service {
	var (
		alert Alerter
		vis   Visualizer
	)
	if field != nil {
		alert, vis = field, field
	}
	return &Service{
		Views: &ViewService{
			Router: NewRouter(repos.Sessions, cfg.DefaultTab),
			Loader: NewLoader(api, repos.Sessions, log),
		},
		Actions:       NewDispatcher(api, repos.ActionLog, log),
		ActionLog:     NewActionLogService(repos.ActionLog),
		Terminal:      NewTerminalService(api, alert, cfg.ConsoleLimit, cfg.AlertDuration),
		Visualizer:    vis,
		Authorization: NewAuthService(repos.Operators, cfg.SigningKey, cfg.TokenTTL, WithSignUp(cfg.AllowSignUp)),
	}
}
