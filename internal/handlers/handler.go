package handlers

import (
	"time"

	"session_auth/internal/logger"
	"session_auth/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	allowedOrigins []string
}

// Option customizes a Handler.
type Option func(*Handler)

// WithAllowedOrigins enables CORS for the given browser origins. "*" allows any origin.
func WithAllowedOrigins(origins []string) Option {
	return func(h *Handler) {
		h.allowedOrigins = origins
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(h.allowedOrigins) > 0 {
		router.Use(h.corsMiddleware())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signin", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/me", h.me)
		api.GET("/audit", h.getAudit)
		api.GET("/audit/ws", h.auditStream)
	}
}

// corsMiddleware exposes the Authorization response header so browser clients can read the token.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Authorization"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range h.allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = h.allowedOrigins
	}
	return cors.New(cfg)
}
