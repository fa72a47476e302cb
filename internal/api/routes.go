package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generate", h.GenerateSite)
		apiGroup.POST("/submit", h.SubmitSite)
		apiGroup.POST("/normalize", h.NormalizeDocument)
	}

	clientGroup := apiGroup.Group("/clients/:slug")
	{
		clientGroup.GET("", h.GetClient)
		clientGroup.POST("/merge", h.MergeClient)
		clientGroup.PUT("/updates", h.SaveUpdates)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// NewRouter builds an engine with request logging, panic recovery and the
// API routes.
func NewRouter(h *APIHandler, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())
	RegisterRoutes(router, h)
	return router
}

// RequestLogger tags every request with an X-Request-ID and logs it once it
// completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header("X-Request-ID", requestID)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
