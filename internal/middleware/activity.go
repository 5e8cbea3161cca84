package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DANIELMWENDWA9451/Daniels-Library/internal/domain/model"
)

const activityLoggerKey = "activity_logger"

// ActivityLogging makes al available to RecordActivity for the rest of the chain.
func ActivityLogging(al *AsyncLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if al != nil {
			c.Set(activityLoggerKey, al)
		}
		c.Next()
	}
}

// GetActivityLogger returns the logger installed by ActivityLogging, or nil.
func GetActivityLogger(c *gin.Context) *AsyncLogger {
	if v, ok := c.Get(activityLoggerKey); ok {
		if al, ok := v.(*AsyncLogger); ok {
			return al
		}
	}
	return nil
}

// RecordActivity enqueues a domain action such as a cover lookup or a
// resolved download. It is a no-op when the activity log is disabled.
func RecordActivity(c *gin.Context, activityType, message string, fields map[string]interface{}) {
	al := GetActivityLogger(c)
	if al == nil {
		return
	}
	entry := activityEntry(c, "info", activityType, message, fields)
	al.Log(entry)
}

// RecordActivityError enqueues a failed domain action.
func RecordActivityError(c *gin.Context, activityType, message string, err error, fields map[string]interface{}) {
	al := GetActivityLogger(c)
	if al == nil {
		return
	}
	entry := activityEntry(c, "error", activityType, message, fields)
	if err != nil {
		entry.Error = err.Error()
	}
	al.Log(entry)
}

func activityEntry(c *gin.Context, level, activityType, message string, fields map[string]interface{}) *model.LogEntry {
	entry := &model.LogEntry{
		Timestamp:    time.Now(),
		Level:        level,
		Message:      message,
		RequestID:    GetRequestID(c),
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		IP:           c.ClientIP(),
		UserAgent:    c.Request.UserAgent(),
		ActivityType: activityType,
	}
	if len(fields) > 0 {
		entry.WithFields(fields)
	}
	return entry
}
