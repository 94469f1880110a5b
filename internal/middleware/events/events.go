// Package events tags each request with an id and writes one access log line per request
package events

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/fring-api/internal/logger"
)

// RequestIDHeader carries the request id in and out of the API
const RequestIDHeader = "X-Request-ID"

const (
	requestIDKey    = "request_id"
	maxRequestIDLen = 64
)

// RequestID returns the id assigned by RequestLog, or "" outside it
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLog reuses a caller supplied X-Request-ID (or mints one), echoes it
// back and logs the outcome once the handler chain returns. Client errors
// log at warn, server errors at error.
func RequestLog() gin.HandlerFunc {
	httpLog := logger.HTTP()

	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLen {
			id = "req_" + uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"request_id", id,
			"method", c.Request.Method,
			"route", routeOf(c),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields = append(fields, "user_id", userID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		httpLog.Log(levelFor(status), "request", fields...)
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return c.Request.URL.Path
}

func levelFor(status int) log.Level {
	switch {
	case status >= 500:
		return log.ErrorLevel
	case status >= 400:
		return log.WarnLevel
	default:
		return log.InfoLevel
	}
}
