package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/repository"
)

// Dispatch errors.
var (
	ErrUnknownAction        = errors.New("unknown action")
	ErrActionInFlight       = errors.New("action already in progress")
	ErrNothingSelected      = errors.New("no items selected")
	ErrInvalidParams        = errors.New("invalid action parameters")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// Outcome statuses, as stored in the action log.
const (
	StatusDeclined  = "DECLINED"
	StatusRejected  = "REJECTED"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
)

// ActionState is the lifecycle of one action.
type ActionState int

const (
	StateIdle ActionState = iota
	StateConfirming
	StateInFlight
)

func (s ActionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConfirming:
		return "confirming"
	case StateInFlight:
		return "in_flight"
	default:
		return "unknown"
	}
}

// Confirmer asks the operator to approve prompt. Returning
// ErrConfirmationRequired means the answer is not known yet.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// Answer is a Confirmer with a fixed reply.
func Answer(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

// Params carries the inputs of every action; each action reads its own.
type Params struct {
	Cantidad  int    `json:"cantidad,omitempty" form:"cantidad"`
	Preview   bool   `json:"preview,omitempty" form:"preview"`
	Categoria int    `json:"categoria,omitempty" form:"categoria"`
	Prompt    string `json:"prompt,omitempty" form:"prompt"`
	Todas     bool   `json:"todas,omitempty" form:"todas"`
	Accion    string `json:"accion,omitempty" form:"accion"`
	IDs       []int  `json:"ids,omitempty" form:"ids"`
}

type ActionRequest struct {
	Action    string
	SessionID string
	Params    Params
}

// Outcome is the result shown to the operator. Prompt is set when the
// action waits for confirmation.
type Outcome struct {
	Action  string `json:"action"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
	Refresh bool   `json:"refresh"`
}

type actionSpec struct {
	path    string
	body    func(p Params) (any, error)
	prompt  func(p Params) string
	gated   func(p Params) bool
	message func(p Params, r models.ActionReply) string
	refresh func(p Params) bool
}

// batch is a body posted once per element, in order.
type batch []any

func always(Params) bool { return true }

func noBody(Params) (any, error) { return nil, nil }

func staticPrompt(s string) func(Params) string {
	return func(Params) string { return s }
}

// replyOr prefers the backend message over fallback.
func replyOr(fallback string) func(Params, models.ActionReply) string {
	return func(_ Params, r models.ActionReply) string {
		if r.Mensaje != "" {
			return r.Mensaje.String()
		}
		return fallback
	}
}

var actions = map[string]actionSpec{
	"generar_datos": {
		path: backend.PathGenerarDatos,
		body: func(p Params) (any, error) {
			if p.Cantidad <= 0 {
				return nil, fmt.Errorf("%w: cantidad must be > 0", ErrInvalidParams)
			}
			return backend.GenerarDatosRequest{Cantidad: p.Cantidad, Preview: p.Preview}, nil
		},
		prompt:  func(p Params) string { return fmt.Sprintf("Generar %d datos aleatorios?", p.Cantidad) },
		gated:   func(p Params) bool { return !p.Preview },
		message: replyOr("Datos generados"),
		refresh: func(p Params) bool { return !p.Preview },
	},
	"entrenar": {
		path:    backend.PathEntrenar,
		body:    noBody,
		prompt:  staticPrompt("Entrenar IA con datos actuales?"),
		gated:   always,
		message: func(Params, models.ActionReply) string { return "IA entrenada exitosamente" },
		refresh: always,
	},
	"generar_recomendaciones": {
		path:   backend.PathGenerarRecomendaciones,
		body:   noBody,
		prompt: staticPrompt("Generar nuevas recomendaciones?"),
		gated:  always,
		message: func(_ Params, r models.ActionReply) string {
			return fmt.Sprintf("%d recomendaciones generadas", r.Total.Int())
		},
		refresh: always,
	},
	"reset_ia": {
		path:    backend.PathResetIA,
		body:    noBody,
		prompt:  staticPrompt("Resetear conocimiento de IA? (No afecta BD)"),
		gated:   always,
		message: replyOr("Conocimiento de IA reseteado"),
		refresh: always,
	},
	"reset_database": {
		path:    backend.PathResetDatabase,
		body:    noBody,
		prompt:  staticPrompt("ELIMINAR TODA LA BASE DE DATOS? Esta acción NO se puede deshacer."),
		gated:   always,
		message: replyOr("Base de datos reseteada"),
		refresh: always,
	},
	"aprender_web": {
		path: backend.PathAprenderWeb,
		body: func(p Params) (any, error) {
			prompt := strings.TrimSpace(p.Prompt)
			switch {
			case p.Todas && (p.Categoria != 0 || prompt != ""):
				return nil, fmt.Errorf("%w: todas excludes categoria and prompt", ErrInvalidParams)
			case p.Todas:
				reqs := make(batch, 0, len(models.Categorias))
				for _, c := range models.Categorias {
					reqs = append(reqs, backend.AprenderWebRequest{Categoria: c.ID})
				}
				return reqs, nil
			case p.Categoria != 0 && prompt != "":
				return nil, fmt.Errorf("%w: categoria and prompt are exclusive", ErrInvalidParams)
			case prompt != "":
				return backend.AprenderWebRequest{Prompt: prompt}, nil
			case p.Categoria != 0:
				if _, ok := models.CategoriaLabel(p.Categoria); !ok {
					return nil, fmt.Errorf("%w: unknown categoria %d", ErrInvalidParams, p.Categoria)
				}
				return backend.AprenderWebRequest{Categoria: p.Categoria}, nil
			default:
				return nil, fmt.Errorf("%w: categoria or prompt required", ErrInvalidParams)
			}
		},
		prompt: func(p Params) string {
			if p.Todas {
				return "Iniciar scraping de todas las categorías?"
			}
			if label, ok := models.CategoriaLabel(p.Categoria); ok {
				return fmt.Sprintf("Aprender sobre %s desde la web?", label)
			}
			return fmt.Sprintf("Investigar en la web: %q?", strings.TrimSpace(p.Prompt))
		},
		gated: always,
		message: func(p Params, r models.ActionReply) string {
			if p.Todas {
				return fmt.Sprintf("Aprendizaje web iniciado para %d categorías", len(models.Categorias))
			}
			return replyOr("Aprendizaje web iniciado")(p, r)
		},
		refresh: always,
	},
	"gestionar_conocimiento": {
		path: backend.PathGestionarConocimiento,
		body: func(p Params) (any, error) {
			accion := strings.ToLower(strings.TrimSpace(p.Accion))
			if accion == "" {
				return nil, fmt.Errorf("%w: accion required", ErrInvalidParams)
			}
			if len(p.IDs) == 0 {
				return nil, ErrNothingSelected
			}
			return backend.GestionarConocimientoRequest{Accion: accion, IDs: p.IDs}, nil
		},
		prompt: func(p Params) string {
			if strings.EqualFold(strings.TrimSpace(p.Accion), "eliminar") {
				return fmt.Sprintf("Eliminar %d elementos seleccionados?", len(p.IDs))
			}
			return fmt.Sprintf("Aplicar %q a %d elementos?", strings.TrimSpace(p.Accion), len(p.IDs))
		},
		gated: always,
		message: func(p Params, r models.ActionReply) string {
			if r.Mensaje != "" {
				return r.Mensaje.String()
			}
			return fmt.Sprintf("%d elementos procesados", len(p.IDs))
		},
		refresh: always,
	},
}

// ActionNames lists the known action names in a stable order.
func ActionNames() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatcher runs actions through Idle -> Confirming -> InFlight -> Idle.
// A second dispatch of an action that is not Idle is rejected, whichever
// session sends it.
type Dispatcher struct {
	api   backend.API
	audit repository.ActionLog
	log   *logger.Logger
	now   func() time.Time

	mu     sync.Mutex
	states map[string]ActionState
}

func NewDispatcher(api backend.API, audit repository.ActionLog, log *logger.Logger) *Dispatcher {
	return &Dispatcher{api: api, audit: audit, log: log, now: time.Now, states: make(map[string]ActionState)}
}

// State returns the current state of action.
func (d *Dispatcher) State(action string) ActionState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.states[normalizeAction(action)]
}

// Prompt returns the confirmation text of req, or "" when req runs without
// confirmation.
func (d *Dispatcher) Prompt(req ActionRequest) (string, error) {
	def, ok := actions[normalizeAction(req.Action)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
	if !def.gated(req.Params) {
		return "", nil
	}
	return def.prompt(req.Params), nil
}

// Dispatch validates req, asks c for confirmation when the action is gated
// and posts it to the backend. Every decided outcome is appended to the
// action log.
func (d *Dispatcher) Dispatch(ctx context.Context, req ActionRequest, c Confirmer) (Outcome, error) {
	name := normalizeAction(req.Action)
	out := Outcome{Action: name}

	def, ok := actions[name]
	if !ok {
		err := fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
		return d.reject(ctx, req, out, err)
	}
	body, err := def.body(req.Params)
	if err != nil {
		return d.reject(ctx, req, out, err)
	}
	if !d.transition(name, StateIdle, StateConfirming) {
		return d.reject(ctx, req, out, fmt.Errorf("%w: %s", ErrActionInFlight, name))
	}
	defer d.set(name, StateIdle)

	if def.gated(req.Params) {
		out.Prompt = def.prompt(req.Params)
		if c == nil {
			return out, ErrConfirmationRequired
		}
		yes, err := c.Confirm(ctx, out.Prompt)
		if err != nil {
			return out, err
		}
		if !yes {
			out.Status, out.Message = StatusDeclined, "Acción cancelada"
			d.record(ctx, req.SessionID, out, body)
			return out, nil
		}
	}

	d.set(name, StateInFlight)
	reply, err := d.post(ctx, def.path, body)
	if err != nil {
		out.Status, out.Message = StatusFailed, "Error: "+failureReason(err)
		d.record(ctx, req.SessionID, out, body)
		if d.log != nil {
			d.log.Errorw("action_failed", "action", name, "kind", backend.KindOf(err).String(), "err", err)
		}
		return out, err
	}

	out.Status = StatusSucceeded
	out.Message = def.message(req.Params, reply)
	out.Refresh = def.refresh(req.Params)
	d.record(ctx, req.SessionID, out, body)
	if d.log != nil {
		d.log.Infow("action_dispatched", "action", name, "session_id", req.SessionID)
	}
	return out, nil
}

// post sends body, or each element of a batch in order, stopping at the
// first failure.
func (d *Dispatcher) post(ctx context.Context, path string, body any) (models.ActionReply, error) {
	items, ok := body.(batch)
	if !ok {
		return d.api.Post(ctx, path, body)
	}
	var reply models.ActionReply
	for i, item := range items {
		r, err := d.api.Post(ctx, path, item)
		if err != nil {
			return reply, fmt.Errorf("batch item %d of %d: %w", i+1, len(items), err)
		}
		reply = r
	}
	return reply, nil
}

func (d *Dispatcher) reject(ctx context.Context, req ActionRequest, out Outcome, err error) (Outcome, error) {
	out.Status = StatusRejected
	out.Message = rejectMessage(err)
	d.record(ctx, req.SessionID, out, req.Params)
	if d.log != nil {
		d.log.Infow("action_rejected", "action", out.Action, "err", err)
	}
	return out, err
}

func rejectMessage(err error) string {
	switch {
	case errors.Is(err, ErrNothingSelected):
		return "No hay elementos seleccionados"
	case errors.Is(err, ErrActionInFlight):
		return "La acción ya está en curso"
	default:
		return "Error: " + err.Error()
	}
}

// failureReason prefers the message reported by the backend.
func failureReason(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (d *Dispatcher) transition(action string, from, to ActionState) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.states[action] != from {
		return false
	}
	d.states[action] = to
	return true
}

func (d *Dispatcher) set(action string, s ActionState) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s == StateIdle {
		delete(d.states, action)
		return
	}
	d.states[action] = s
}

func (d *Dispatcher) record(ctx context.Context, sessionID string, out Outcome, payload any) {
	if d.audit == nil {
		return
	}
	err := d.audit.Append(context.WithoutCancel(ctx), models.ActionRecord{
		OccurredAt: d.now().UTC(),
		Action:     out.Action,
		Status:     out.Status,
		Message:    out.Message,
		SessionID:  sessionID,
		Payload:    payload,
	})
	if err != nil && d.log != nil {
		d.log.Warnw("action_log_append_failed", "action", out.Action, "err", err)
	}
}
