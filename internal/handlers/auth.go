package handlers

import (
	"errors"
	"net/http"

	"maintenance_dashboard/internal/render"
	"maintenance_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both sign-up and sign-in.
type authCredentials struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// bindOrBadRequest binds JSON or form bodies into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBind(dst); err != nil {
		// optional structured logging
		if h.log != nil {
			h.log.Infow("auth_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// isForm reports whether the request came from an HTML form.
func isForm(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == gin.MIMEPOSTForm || ct == gin.MIMEMultipartPOSTForm
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Password)
	if errors.Is(err, service.ErrSignUpDisabled) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_up_failed", "username", input.Username, "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Description  Returns a bearer token and stores it in the session cookie. Form posts are redirected to the dashboard.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  authCredentials  true  "Credentials"
// @Success      200  {object}  map[string]string
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input authCredentials
	if ok := h.bindOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "username", input.Username, "err", err)
		}
		if isForm(c) {
			h.loginForm(c, http.StatusUnauthorized, &render.Banner{Level: render.LevelError, Text: "Credenciales inválidas"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	setCookie(c, tokenCookie, token, cookieMaxAge)
	if isForm(c) {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Sign out
// @Tags         auth
// @Success      303
// @Router       /auth/sign-out [post]
func (h *Handler) signOut(c *gin.Context) {
	setCookie(c, tokenCookie, "", -1)
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *Handler) loginPage(c *gin.Context) {
	h.loginForm(c, http.StatusOK, nil)
}

func (h *Handler) loginForm(c *gin.Context, code int, banner *render.Banner) {
	content, err := render.Login()
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to render login", "render_login_failed", err)
		return
	}
	h.writePage(c, code, "", banner, content)
}
