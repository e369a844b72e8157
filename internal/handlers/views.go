package handlers

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"maintenance_dashboard/internal/backend"
	"maintenance_dashboard/internal/models"
	"maintenance_dashboard/internal/render"
	"maintenance_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	noticeUnknownTab = "Vista desconocida: "
	noticeStale      = "La vista cambió mientras se cargaba"
)

// writePage renders the full shell around content. active may be empty.
func (h *Handler) writePage(c *gin.Context, code int, active models.Tab, banner *render.Banner, content template.HTML) {
	p := render.PageData{
		Title:   pageTitle,
		Nav:     render.Nav(active),
		Banner:  banner,
		Content: content,
	}
	if id, ok := h.operator(c); ok {
		p.Operator = fmt.Sprintf("Operador #%d", id)
	}
	body, err := render.Page(p)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to render page", "render_page_failed", err)
		return
	}
	html(c, code, body)
}

// loadContent runs the view load of st and maps its failure to a status
// code and a one-line error fragment.
func (h *Handler) loadContent(ctx context.Context, st models.ViewState) (template.HTML, int) {
	content, err := h.services.Load(ctx, st)
	switch {
	case err == nil:
		return content, http.StatusOK
	case errors.Is(err, service.ErrStaleView):
		return "", http.StatusNoContent
	case backend.IsCanceled(err):
		return render.Error(err.Error()), http.StatusGatewayTimeout
	default:
		if h.log != nil {
			h.log.Errorw("view_load_failed", "err", err, "tab", st.Active,
				"session_id", st.SessionID, "kind", backend.KindOf(err).String())
		}
		return render.Error(err.Error()), http.StatusBadGateway
	}
}

// @Summary      Dashboard page
// @Description  Full page for the session's active tab; ?tab= selects another one.
// @Tags         views
// @Produce      html
// @Param        tab  query  string  false  "Tab"  Enums(dashboard,db,equipos,ia,analytics,recomendaciones,scraping)
// @Success      200
// @Failure      404
// @Failure      502
// @Router       / [get]
func (h *Handler) index(c *gin.Context) {
	ctx := c.Request.Context()
	sid := sessionID(c)

	var (
		st     models.ViewState
		err    error
		banner *render.Banner
		code   = http.StatusOK
	)
	if tab := c.Query("tab"); tab != "" {
		st, err = h.services.Select(ctx, sid, tab)
		if errors.Is(err, service.ErrUnknownTab) {
			code = http.StatusNotFound
			banner = &render.Banner{Level: render.LevelWarning, Text: noticeUnknownTab + tab}
			st, err = h.services.Current(ctx, sid)
		}
	} else {
		st, err = h.services.Current(ctx, sid)
	}
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load view state", "view_state_failed", err, "session_id", sid)
		return
	}

	content, loadCode := h.loadContent(ctx, st)
	if loadCode == http.StatusNoContent {
		content, loadCode = render.Notice(noticeStale), http.StatusOK
	}
	if code == http.StatusOK {
		code = loadCode
	}
	h.writePage(c, code, st.Active, banner, content)
}

// @Summary      View fragment
// @Description  Selects tab and returns its HTML fragment. 204 when a newer load superseded this one.
// @Tags         views
// @Produce      html
// @Param        tab  path  string  true  "Tab"
// @Success      200
// @Success      204
// @Failure      404
// @Failure      502
// @Router       /views/{tab} [get]
func (h *Handler) viewFragment(c *gin.Context) {
	ctx := c.Request.Context()
	tab := c.Param("tab")

	st, err := h.services.Select(ctx, sessionID(c), tab)
	if err != nil {
		if errors.Is(err, service.ErrUnknownTab) {
			html(c, http.StatusNotFound, []byte(render.Notice(noticeUnknownTab+tab)))
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to select view", "view_select_failed", err, "tab", tab)
		return
	}

	content, code := h.loadContent(ctx, st)
	if code == http.StatusNoContent {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header(headerActiveTab, string(st.Active))
	html(c, code, []byte(content))
}
