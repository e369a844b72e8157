package handlers

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/service"
	"maintenance_dashboard/internal/visualizer"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(_ context.Context, username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockViews struct {
	state     models.ViewState
	selectErr error
	content   template.HTML
	loadErr   error
	refresh   template.HTML
	refErr    error

	selected []string
	loads    int
	refreshs int
}

func (m *mockViews) Current(_ context.Context, sid string) (models.ViewState, error) {
	st := m.state
	st.SessionID = sid
	return st, nil
}
func (m *mockViews) Select(_ context.Context, sid, tab string) (models.ViewState, error) {
	m.selected = append(m.selected, tab)
	if m.selectErr != nil {
		return models.ViewState{}, m.selectErr
	}
	t, ok := models.ParseTab(tab)
	if !ok {
		return models.ViewState{}, service.ErrUnknownTab
	}
	m.state.Active = t
	m.state.Generation++
	return m.Current(context.Background(), sid)
}
func (m *mockViews) Load(context.Context, models.ViewState) (template.HTML, error) {
	m.loads++
	return m.content, m.loadErr
}
func (m *mockViews) Refresh(ctx context.Context, sid string) (models.ViewState, template.HTML, error) {
	m.refreshs++
	st, _ := m.Current(ctx, sid)
	return st, m.refresh, m.refErr
}

type mockActions struct {
	out      service.Outcome
	err      error
	prompt   string
	answer   *bool
	askErr   error
	requests []service.ActionRequest
}

// Dispatch mimics the gate: with a prompt set it asks c before answering.
func (m *mockActions) Dispatch(ctx context.Context, req service.ActionRequest, c service.Confirmer) (service.Outcome, error) {
	m.requests = append(m.requests, req)
	if m.prompt != "" {
		if c == nil {
			return service.Outcome{Action: req.Action, Prompt: m.prompt}, service.ErrConfirmationRequired
		}
		yes, err := c.Confirm(ctx, m.prompt)
		m.askErr = err
		if err != nil {
			return service.Outcome{Action: req.Action, Prompt: m.prompt}, err
		}
		m.answer = &yes
		if !yes {
			return service.Outcome{Action: req.Action, Status: service.StatusDeclined, Message: "Acción cancelada"}, nil
		}
	}
	return m.out, m.err
}
func (m *mockActions) Prompt(service.ActionRequest) (string, error) {
	return m.prompt, nil
}

type mockActionLog struct {
	resp       []models.ActionRecord
	err        error
	lastFrom   time.Time
	lastTo     time.Time
	lastAction string
}

func (m *mockActionLog) List(_ context.Context, f service.LogFilter) ([]models.ActionRecord, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastAction = f.Action
	return m.resp, m.err
}

type mockTerminal struct {
	lines   []string
	err     error
	cmds    []string
	scans   int
	console []string
}

func (m *mockTerminal) Exec(_ context.Context, _ string, cmd string) ([]string, error) {
	m.cmds = append(m.cmds, cmd)
	return m.lines, m.err
}
func (m *mockTerminal) Scan(context.Context, string) ([]string, error) {
	m.scans++
	return m.lines, m.err
}
func (m *mockTerminal) Console(string) []string { return m.console }

type mockVisualizer struct {
	mu     sync.Mutex
	frame  visualizer.Frame
	alerts []time.Duration
}

func (m *mockVisualizer) Run(context.Context, time.Duration) {}
func (m *mockVisualizer) Alert(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, d)
}
func (m *mockVisualizer) Snapshot() visualizer.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
