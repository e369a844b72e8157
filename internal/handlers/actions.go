package handlers

import (
	"context"
	"errors"
	"html/template"
	"io"
	"net/http"
	"sort"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/render"
	"maintenance_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	confirmField = "confirm"
	confirmYes   = "yes"
	confirmNo    = "no"

	noticeNoRefresh = "Seleccione una vista para continuar"
)

// actionBody is the JSON payload of /api/v1/actions/:action. A missing
// confirm asks the caller to confirm first.
type actionBody struct {
	service.Params
	Confirm *bool `json:"confirm,omitempty"`
}

// ActionRequest is an exported model for Swagger docs of the dispatch payload.
type ActionRequest struct {
	// Records to generate (generar_datos)
	Cantidad int `json:"cantidad,omitempty" example:"10"`
	// Dry run of generar_datos, runs without confirmation
	Preview bool `json:"preview,omitempty" example:"false"`
	// Web learning category 1-4 (aprender_web)
	Categoria int `json:"categoria,omitempty" example:"2"`
	// Free web learning prompt (aprender_web)
	Prompt string `json:"prompt,omitempty"`
	// Knowledge management action (gestionar_conocimiento)
	Accion string `json:"accion,omitempty" example:"eliminar"`
	// Selected knowledge ids (gestionar_conocimiento)
	IDs []int `json:"ids,omitempty"`
	// Operator answer to the confirmation prompt
	Confirm *bool `json:"confirm,omitempty" example:"true"`
}

// formConfirmer answers from the confirm field of a submitted form.
func formConfirmer(c *gin.Context) service.Confirmer {
	return service.ConfirmFunc(func(context.Context, string) (bool, error) {
		switch c.PostForm(confirmField) {
		case confirmYes:
			return true, nil
		case confirmNo:
			return false, nil
		default:
			return false, service.ErrConfirmationRequired
		}
	})
}

func bodyConfirmer(answer *bool) service.Confirmer {
	if answer == nil {
		return nil
	}
	return service.Answer(*answer)
}

// actionCode maps a dispatch error to an HTTP status.
func actionCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, service.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, service.ErrActionInFlight):
		return http.StatusConflict
	case errors.Is(err, service.ErrNothingSelected), errors.Is(err, service.ErrInvalidParams):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	default:
		return http.StatusBadGateway
	}
}

func bannerFor(out service.Outcome) *render.Banner {
	level := render.LevelInfo
	switch out.Status {
	case service.StatusRejected:
		level = render.LevelWarning
	case service.StatusFailed:
		level = render.LevelError
	}
	return &render.Banner{Level: level, Text: out.Message}
}

// confirmFields carries the submitted form over to the confirmation step.
func confirmFields(c *gin.Context) []render.Field {
	form := c.Request.PostForm
	keys := make([]string, 0, len(form))
	for k := range form {
		if k != confirmField {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var fields []render.Field
	for _, k := range keys {
		for _, v := range form[k] {
			fields = append(fields, render.Field{Name: k, Value: v})
		}
	}
	return fields
}

func (h *Handler) logOutcome(out service.Outcome, err error, operatorId any) {
	if h.log == nil {
		return
	}
	if err != nil && actionCode(err) == http.StatusBadGateway {
		h.log.Errorw("action_failed", "action", out.Action, "status", out.Status,
			"operator_id", operatorId, "kind", backend.KindOf(err).String(), "err", err)
		return
	}
	h.log.Infow("action_outcome", "action", out.Action, "status", out.Status, "operator_id", operatorId)
}

// @Summary      Submit action form
// @Description  Without confirm the confirmation page is returned; confirm=yes runs the action, confirm=no cancels it.
// @Tags         actions
// @Accept       x-www-form-urlencoded
// @Produce      html
// @Param        action  path  string  true  "Action"  Enums(generar_datos,entrenar,generar_recomendaciones,reset_ia,reset_database,aprender_web,gestionar_conocimiento)
// @Success      200
// @Failure      401
// @Failure      404
// @Failure      409
// @Failure      422
// @Failure      502
// @Router       /actions/{action} [post]
func (h *Handler) submitAction(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	var p service.Params
	if err := c.ShouldBind(&p); err != nil {
		h.writePage(c, http.StatusBadRequest, "", &render.Banner{Level: render.LevelWarning, Text: errInvalidBodyPref + err.Error()}, "")
		return
	}
	req := service.ActionRequest{Action: c.Param("action"), SessionID: sid, Params: p}

	out, err := h.services.Dispatch(ctx, req, formConfirmer(c))
	opId, _ := c.Get(ctxOperatorID)
	if errors.Is(err, service.ErrConfirmationRequired) {
		content, rerr := render.Confirm(render.ConfirmData{Action: out.Action, Prompt: out.Prompt, Fields: confirmFields(c)})
		if rerr != nil {
			h.logAndJSONError(c, http.StatusInternalServerError, "failed to render confirmation", "render_confirm_failed", rerr)
			return
		}
		h.writePage(c, http.StatusOK, "", nil, content)
		return
	}
	h.logOutcome(out, err, opId)

	code := actionCode(err)
	if !out.Refresh {
		h.writePage(c, code, "", bannerFor(out), render.Notice(noticeNoRefresh))
		return
	}
	st, content, rerr := h.services.Refresh(ctx, sid)
	if rerr != nil {
		content, code = h.refreshFailure(st, rerr)
	}
	h.writePage(c, code, st.Active, bannerFor(out), content)
}

func (h *Handler) refreshFailure(st models.ViewState, err error) (template.HTML, int) {
	if errors.Is(err, service.ErrStaleView) {
		return render.Notice(noticeStale), http.StatusOK
	}
	if h.log != nil {
		h.log.Errorw("view_refresh_failed", "err", err, "tab", st.Active, "session_id", st.SessionID)
	}
	return render.Error(err.Error()), http.StatusBadGateway
}

// @Summary      Dispatch action
// @Description  Runs an action. Gated actions need "confirm"; without it 428 is returned with the prompt.
// @Tags         actions
// @Accept       json
// @Produce      json
// @Param        action  path  string         true  "Action"  Enums(generar_datos,entrenar,generar_recomendaciones,reset_ia,reset_database,aprender_web,gestionar_conocimiento)
// @Param        body    body  ActionRequest  false "Action parameters"
// @Success      200  {object}  map[string]interface{}  "outcome, view"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Failure      422  {object}  map[string]interface{}
// @Failure      428  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/v1/actions/{action} [post]
// @Security     BearerAuth
func (h *Handler) dispatchAction(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	req := service.ActionRequest{Action: c.Param("action"), SessionID: sid, Params: body.Params}

	out, err := h.services.Dispatch(ctx, req, bodyConfirmer(body.Confirm))
	opId, _ := c.Get(ctxOperatorID)
	if !errors.Is(err, service.ErrConfirmationRequired) {
		h.logOutcome(out, err, opId)
	}

	resp := gin.H{"outcome": out}
	if err != nil {
		resp["error"] = err.Error()
		c.JSON(actionCode(err), resp)
		return
	}
	if out.Refresh {
		st, content, rerr := h.services.Refresh(ctx, sid)
		switch {
		case rerr == nil:
			resp["active_tab"] = st.Active
			resp["view"] = string(content)
		case !errors.Is(rerr, service.ErrStaleView):
			resp["view_error"] = rerr.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}
