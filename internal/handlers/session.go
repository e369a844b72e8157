package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "dashboard_session"
	tokenCookie   = "dashboard_token"
	cookieMaxAge  = 30 * 24 * 60 * 60

	ctxSessionID  = "sessionId"
	ctxOperatorID = "operatorId"
)

// sessionMiddleware assigns every browser a view session, so the router
// can keep one active tab per visitor.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	id, err := c.Cookie(sessionCookie)
	if err != nil || uuid.Validate(id) != nil {
		id = uuid.NewString()
		setCookie(c, sessionCookie, id, cookieMaxAge)
	}
	c.Set(ctxSessionID, id)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", c.Request.TLS != nil, true)
}
