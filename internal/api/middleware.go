package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/shareit-backend/internal/metrics"
)

const headerRequestID = "X-Request-Id"

// RequestID propagates the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, id)
		c.Set("request_id", id)
		c.Next()
	}
}

// Logger attaches a request-scoped logger to the request context and writes
// one access line per request. It MUST run after RequestID.
func Logger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		log := base.With().Str("request_id", c.GetString("request_id")).Logger()
		c.Request = c.Request.WithContext(log.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("http")
	}
}

// Metrics counts served requests by route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		metrics.IncHTTP(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
