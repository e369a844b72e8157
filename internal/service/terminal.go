package service

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"maintenance_dashboard/internal/backend"

	"github.com/goccy/go-json"
)

const (
	ShellPrompt = "root@ev4:~# "
	NoReply     = "Sin respuesta"

	defaultConsoleLimit = 500

	scanText     = "control critico"
	scanCategory = 1
)

// Alerter recolors the visualizer for a while.
type Alerter interface {
	Alert(d time.Duration)
}

// TerminalService forwards commands to the backend shell and keeps a
// bounded console per session.
type TerminalService struct {
	api   backend.API
	alert Alerter
	limit int
	flash time.Duration

	mu       sync.Mutex
	consoles map[string][]string
}

func NewTerminalService(api backend.API, alert Alerter, limit int, flash time.Duration) *TerminalService {
	if limit <= 0 {
		limit = defaultConsoleLimit
	}
	return &TerminalService{api: api, alert: alert, limit: limit, flash: flash, consoles: make(map[string][]string)}
}

// Exec runs cmd. Blank input is ignored and "clear" only wipes the local
// console. The returned lines are the whole console after the command.
func (t *TerminalService) Exec(ctx context.Context, sessionID, cmd string) ([]string, error) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return t.Console(sessionID), nil
	}
	t.append(sessionID, ShellPrompt+cmd)
	if cmd == "clear" {
		t.mu.Lock()
		delete(t.consoles, sessionID)
		t.mu.Unlock()
		return nil, nil
	}

	reply, err := t.api.Post(ctx, backend.PathTerminal, backend.TerminalRequest{Cmd: cmd})
	if err != nil {
		t.append(sessionID, "ERROR: "+failureReason(err))
		return t.Console(sessionID), err
	}
	out := strings.TrimRight(reply.Out.String(), "\n")
	if out == "" {
		out = NoReply
	}
	t.append(sessionID, strings.Split(out, "\n")...)
	return t.Console(sessionID), nil
}

// Scan triggers a neuro scan and flashes the visualizer once the result
// is in.
func (t *TerminalService) Scan(ctx context.Context, sessionID string) ([]string, error) {
	t.append(sessionID, "INICIANDO NEURO_ESCAN...")
	reply, err := t.api.Post(ctx, backend.PathNeuroEscan, backend.NeuroEscanRequest{Texto: scanText, Cat: scanCategory})
	if err != nil {
		t.append(sessionID, "ERROR: "+failureReason(err))
		return t.Console(sessionID), err
	}
	t.append(sessionID, "RESULTADO: "+compact(reply.Raw))
	if t.alert != nil {
		t.alert.Alert(t.flash)
	}
	return t.Console(sessionID), nil
}

// Console returns a copy of the session console, oldest line first.
func (t *TerminalService) Console(sessionID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := t.consoles[sessionID]
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}

func (t *TerminalService) append(sessionID string, lines ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := append(t.consoles[sessionID], lines...)
	if over := len(c) - t.limit; over > 0 {
		c = append([]string(nil), c[over:]...)
	}
	t.consoles[sessionID] = c
}

func compact(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
