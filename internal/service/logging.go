package service

import (
	"github.com/sirupsen/logrus"
)

// Standard field names, used verbatim across all logging calls.
const (
	LogFieldMessageID  = "message_id"
	LogFieldMediaID    = "media_id"
	LogFieldEvent      = "event"
	LogFieldOperation  = "operation"
	LogFieldComponent  = "component"
	LogFieldMethod     = "method"
	LogFieldURL        = "url"
	LogFieldStatusCode = "status_code"
	LogFieldDuration   = "duration_ms"
	LogFieldSize       = "size_bytes"
	LogFieldCount      = "count"
	LogFieldRequestID  = "request_id"
	LogFieldTraceID    = "trace_id"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"
	LogFieldErrorType  = "error_type"
	LogFieldReason     = "reason"
)

// EventLogger is the observability sink the engine reports into. A no-op
// implementation is a valid substitute for every engine behavior; nothing
// correctness-relevant may depend on it.
type EventLogger interface {
	RecordDelivered(url string, status int, durationMs int64)
	RecordFailed(url string, reason string)
	RecordValidationError(field, reason string)
	RecordMediaOp(kind, id, detail string)
	RecordError(message, detail string)
}

// logrusEventLogger renders engine events through a shared logrus logger.
type logrusEventLogger struct {
	logger *logrus.Logger
}

// NewEventLogger creates the standard logrus-backed EventLogger.
func NewEventLogger(logger *logrus.Logger) EventLogger {
	return &logrusEventLogger{logger: logger}
}

func (l *logrusEventLogger) RecordDelivered(url string, status int, durationMs int64) {
	l.logger.WithFields(logrus.Fields{
		LogFieldComponent:  "webhook",
		LogFieldURL:        url,
		LogFieldStatusCode: status,
		LogFieldDuration:   durationMs,
	}).Info("Webhook delivered")
}

func (l *logrusEventLogger) RecordFailed(url string, reason string) {
	l.logger.WithFields(logrus.Fields{
		LogFieldComponent: "webhook",
		LogFieldURL:       url,
		LogFieldReason:    reason,
	}).Warn("Webhook delivery failed")
}

func (l *logrusEventLogger) RecordValidationError(field, reason string) {
	l.logger.WithFields(logrus.Fields{
		LogFieldComponent: "validation",
		"field":           field,
		LogFieldReason:    reason,
	}).Warn("Validation failed")
}

func (l *logrusEventLogger) RecordMediaOp(kind, id, detail string) {
	l.logger.WithFields(logrus.Fields{
		LogFieldComponent: "media",
		LogFieldOperation: kind,
		LogFieldMediaID:   id,
		"detail":          detail,
	}).Info("Media operation")
}

func (l *logrusEventLogger) RecordError(message, detail string) {
	l.logger.WithFields(logrus.Fields{
		"detail": detail,
	}).Error(message)
}

// NoopEventLogger discards everything. Engine behavior must be identical
// under it; only log output differs.
type NoopEventLogger struct{}

func (NoopEventLogger) RecordDelivered(string, int, int64)   {}
func (NoopEventLogger) RecordFailed(string, string)          {}
func (NoopEventLogger) RecordValidationError(string, string) {}
func (NoopEventLogger) RecordMediaOp(string, string, string) {}
func (NoopEventLogger) RecordError(string, string)           {}
