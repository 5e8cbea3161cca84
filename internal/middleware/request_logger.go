package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

// RequestLogger logs every request to the console and, when al is non-nil,
// enqueues it on the activity log. Requests to skipPaths are only logged
// to the console at debug level.
func RequestLogger(al *AsyncLogger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		_, quiet := skip[path]

		event := log.Info()
		switch {
		case quiet:
			event = log.Debug()
		case statusCode >= 500:
			event = log.Error()
		case statusCode >= 400:
			event = log.Warn()
		}
		event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Int("bytes", c.Writer.Size()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")

		if quiet || al == nil {
			return
		}

		entry := &model.LogEntry{
			Timestamp:    time.Now(),
			Level:        getLogLevel(statusCode).String(),
			Message:      "HTTP request",
			RequestID:    GetRequestID(c),
			Method:       c.Request.Method,
			Path:         path,
			StatusCode:   statusCode,
			Duration:     latency.Milliseconds(),
			IP:           c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			ActivityType: model.ActivityRequest,
		}
		if len(c.Errors) > 0 {
			entry.Error = c.Errors.Last().Error()
		}
		al.Log(entry)
	}
}

func getLogLevel(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
