package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity types recorded in the activity log.
const (
	ActivityRequest  = "request"
	ActivityCover    = "cover_lookup"
	ActivityDownload = "download"
	ActivitySearch   = "search"
)

// LogEntry is one activity log document: an HTTP request or a domain action
// such as a cover lookup or download resolution. Action-specific context goes
// in Fields.
type LogEntry struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Timestamp    time.Time              `bson:"timestamp" json:"timestamp"`
	Level        string                 `bson:"level" json:"level"`
	Message      string                 `bson:"message" json:"message"`
	RequestID    string                 `bson:"request_id,omitempty" json:"request_id,omitempty"`
	Method       string                 `bson:"method,omitempty" json:"method,omitempty"`
	Path         string                 `bson:"path,omitempty" json:"path,omitempty"`
	StatusCode   int                    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration     int64                  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP           string                 `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent    string                 `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Error        string                 `bson:"error,omitempty" json:"error,omitempty"`
	ActivityType string                 `bson:"activity_type,omitempty" json:"activity_type,omitempty"`
	Fields       map[string]interface{} `bson:"fields,omitempty" json:"fields,omitempty"`
}

// WithField adds a field to the entry's Fields map.
func (e *LogEntry) WithField(key string, value interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

// WithFields merges fields into the entry's Fields map.
func (e *LogEntry) WithFields(fields map[string]interface{}) *LogEntry {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{}, len(fields))
	}
	for k, v := range fields {
		e.Fields[k] = v
	}
	return e
}

// LogQueryOptions filters activity log queries.
type LogQueryOptions struct {
	RequestID    string
	Level        string
	ActivityType string
	Path         string
	StartTime    *time.Time
	EndTime      *time.Time
	Limit        int
	Skip         int
}
