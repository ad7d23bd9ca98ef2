package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key for the request ID.
const RequestIDKey = "request_id"

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it
// back in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// AccessLog writes one line per request. Paths in skip are not logged.
func AccessLog(skip ...string) gin.HandlerFunc {
	skipMap := make(map[string]bool, len(skip))
	for _, path := range skip {
		skipMap[path] = true
	}

	return func(c *gin.Context) {
		if skipMap[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		attrs := []any{
			RequestIDKey, GetRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			slog.ErrorContext(c.Request.Context(), "Request failed", attrs...)
		case status >= 400:
			slog.WarnContext(c.Request.Context(), "Request rejected", attrs...)
		default:
			slog.InfoContext(c.Request.Context(), "Request completed", attrs...)
		}
	}
}
