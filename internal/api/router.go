// Package api exposes the statement pipeline over HTTP.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/splitbill/internal/billing"
)

// maxUpload bounds multipart bodies and plain-text statements.
var maxUpload int64 = 32 << 20

// NewRouter builds the HTTP handler. Every request runs the pipeline
// independently against svc.
func NewRouter(svc *billing.Service, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	router.MaxMultipartMemory = maxUpload

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "splitbill",
		})
	})

	h := NewStatementHandler(svc, log)
	api := router.Group("/api/v1")
	{
		api.POST("/statements", h.Process)
	}
	return router
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
