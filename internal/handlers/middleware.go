package handlers

import (
	"errors"
	"net/http"
	"strings"

	"maintenance_dashboard/internal/render"

	"github.com/gin-gonic/gin"
)

var (
	errMissingToken  = errors.New("missing Authorization header")
	errInvalidHeader = errors.New("invalid Authorization header format")
)

// bearerToken reads the operator token from the Authorization header, or
// from the sign-in cookie for browser requests.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if tok, err := c.Cookie(tokenCookie); err == nil && tok != "" {
			return tok, nil
		}
		return "", errMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errInvalidHeader
	}
	return parts[1], nil
}

func (h *Handler) operatorIdMiddleware(c *gin.Context) {
	token, err := bearerToken(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": err.Error(),
		})
		return
	}

	operatorId, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	// store in Gin context
	c.Set(ctxOperatorID, operatorId)
	c.Next()
}

// operatorPageMiddleware guards form routes; anonymous visitors get the
// login form instead of a JSON error.
func (h *Handler) operatorPageMiddleware(c *gin.Context) {
	if id, ok := h.operator(c); ok {
		c.Set(ctxOperatorID, id)
		c.Next()
		return
	}
	content, err := render.Login()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to render login", "render_login_failed", err)
		c.Abort()
		return
	}
	h.writePage(c, http.StatusUnauthorized, "", &render.Banner{Level: render.LevelWarning, Text: "Inicie sesión para ejecutar acciones"}, content)
	c.Abort()
}

// operator reports the signed-in operator, if any.
func (h *Handler) operator(c *gin.Context) (int, bool) {
	if id, ok := c.Get(ctxOperatorID); ok {
		n, isInt := id.(int)
		return n, isInt
	}
	token, err := bearerToken(c)
	if err != nil || h.services.Authorization == nil {
		return 0, false
	}
	id, err := h.services.ParseToken(token)
	if err != nil {
		return 0, false
	}
	return id, true
}
