package handlers

import (
	"net/http"
	"strings"

	"maintenance_dashboard/internal/render"

	"github.com/gin-gonic/gin"
)

const (
	errVisualizerOff    = "visualizer is disabled"
	noticeVisualizerOff = "Visualizador desactivado en esta instancia"
)

// terminalInput is the command line submitted from the visualizer page.
type terminalInput struct {
	Cmd string `json:"cmd" form:"cmd"`
}

// wantsJSON reports whether the client asked for a JSON reply.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON ||
		strings.HasPrefix(c.ContentType(), gin.MIMEJSON)
}

// @Summary      Visualizer page
// @Tags         visualizer
// @Produce      html
// @Success      200
// @Failure      503
// @Router       /visualizer [get]
func (h *Handler) visualizerPage(c *gin.Context) {
	if h.services.Visualizer == nil {
		h.writePage(c, http.StatusServiceUnavailable, "", nil, render.Notice(noticeVisualizerOff))
		return
	}
	fr := h.services.Snapshot()
	v := render.VisualizerData{
		Title:  visualizerTitle,
		Width:  fr.Width,
		Height: fr.Height,
	}
	if h.services.Terminal != nil {
		v.Console = h.services.Console(sessionID(c))
	}
	body, err := render.Visualizer(v)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to render visualizer", "render_visualizer_failed", err)
		return
	}
	html(c, http.StatusOK, body)
}

// @Summary      Current visualizer frame
// @Tags         visualizer
// @Produce      image/svg+xml
// @Success      200
// @Failure      503  {object}  map[string]string
// @Router       /visualizer/frame.svg [get]
func (h *Handler) visualizerFrame(c *gin.Context) {
	if h.services.Visualizer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errVisualizerOff})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, mimeSVG, h.services.Snapshot().SVG())
}

// @Summary      Run NEURO_ESCAN
// @Description  Scans through the backend, logs the result to the console and flashes the field.
// @Tags         visualizer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "console"
// @Success      303
// @Failure      401
// @Failure      503  {object}  map[string]string
// @Router       /visualizer/scan [post]
func (h *Handler) scan(c *gin.Context) {
	if h.services.Terminal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errVisualizerOff})
		return
	}
	sid := sessionID(c)
	lines, err := h.services.Scan(c.Request.Context(), sid)
	if err != nil && h.log != nil {
		h.log.Warnw("neuro_escan_failed", "err", err, "session_id", sid)
	}
	h.consoleReply(c, lines)
}

// @Summary      Run terminal command
// @Description  Sends cmd to the backend terminal. "clear" empties the console without a request.
// @Tags         visualizer
// @Accept       json
// @Produce      json
// @Param        body  body  terminalInput  true  "Command"
// @Success      200  {object}  map[string]interface{}  "console"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      401
// @Failure      503  {object}  map[string]string
// @Router       /visualizer/terminal [post]
func (h *Handler) terminal(c *gin.Context) {
	if h.services.Terminal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errVisualizerOff})
		return
	}
	var in terminalInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	sid := sessionID(c)
	lines, err := h.services.Exec(c.Request.Context(), sid, in.Cmd)
	if err != nil && h.log != nil {
		h.log.Infow("terminal_command_failed", "err", err, "session_id", sid)
	}
	h.consoleReply(c, lines)
}

// consoleReply returns the console as JSON or sends the browser back to the page.
func (h *Handler) consoleReply(c *gin.Context, lines []string) {
	if wantsJSON(c) {
		if lines == nil {
			lines = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"console": lines})
		return
	}
	c.Redirect(http.StatusSeeOther, "/visualizer")
}
