package handlers

import (
	"net/http"

	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/render"
	"maintenance_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	pageTitle       = "Sistema de Mantenimiento IA"
	visualizerTitle = "NEURO_OT // Visualizador"

	headerActiveTab = "X-Active-Tab"
	mimeHTML        = "text/html; charset=utf-8"
	mimeSVG         = "image/svg+xml"

	errInvalidBodyPref = "invalid body: "
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.StaticFS("/static", http.FS(render.Static()))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Server rendered dashboard, keyed by the session cookie
	h.registerPageRoutes(router)
	h.registerVisualizerRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.GET("/login", h.sessionMiddleware, h.loginPage)
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
		auth.POST("/sign-out", h.signOut)
	}
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	pages := r.Group("/", h.sessionMiddleware)
	{
		pages.GET("/", h.index)
		pages.GET("/views/:tab", h.viewFragment)
		pages.POST("/actions/:action", h.operatorPageMiddleware, h.submitAction)
	}
}

func (h *Handler) registerVisualizerRoutes(r *gin.Engine) {
	viz := r.Group("/visualizer", h.sessionMiddleware)
	{
		viz.GET("", h.visualizerPage)
		viz.GET("/frame.svg", h.visualizerFrame)
		viz.GET("/ws", h.wsConnect)
		viz.POST("/scan", h.operatorPageMiddleware, h.scan)
		viz.POST("/terminal", h.operatorPageMiddleware, h.terminal)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.sessionMiddleware, h.operatorIdMiddleware)
	{
		actions := api.Group("/actions")
		{
			actions.GET("", h.getActionLog)
			actions.POST("/:action", h.dispatchAction)
		}
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// html writes an already rendered fragment.
func html(c *gin.Context, code int, body []byte) {
	c.Data(code, mimeHTML, body)
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
