// Package logger provides a context-scoped logrus accessor.
package logger

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const loggerContextKey = "logger.logger"

var defaultLogger = logrus.New()
var defaultEntry = logrus.NewEntry(defaultLogger)

// NewContextWithFields returns a new context with a log entry derived from the
// default logger, pre-populated with fields.
func NewContextWithFields(parent context.Context, fields logrus.Fields) context.Context {
	return context.WithValue(parent, loggerContextKey, For(parent).WithFields(fields))
}

// NewContextWithLogger returns a new context with a log entry derived from the
// input logger, useful when a component needs options differing from the default.
func NewContextWithLogger(parent context.Context, fields logrus.Fields, logger *logrus.Logger) context.Context {
	if logger == nil {
		return NewContextWithFields(parent, fields)
	}
	return context.WithValue(parent, loggerContextKey, logger.WithFields(fields))
}

// SetLoggerOptions mutates the default logger in place.
func SetLoggerOptions(optionsFunc func(logger *logrus.Logger)) {
	optionsFunc(defaultLogger)
}

// InitWithGCPDefaults configures the default logger for Google Cloud Logging
// environments: JSON output with severity/time mapped to the fields GCP expects,
// falling back to a plain text formatter for local runs.
func InitWithGCPDefaults(env string) {
	SetLoggerOptions(func(l *logrus.Logger) {
		l.SetReportCaller(true)
		if env != "production" {
			l.SetLevel(logrus.DebugLevel)
		}
		if env == "local" {
			l.SetFormatter(&logrus.TextFormatter{DisableQuote: true})
		} else {
			l.SetFormatter(&GCPFormatter{})
		}
	})
}

// GCPFormatter is a logrus.JSONFormatter with additional handling to map log
// severity and timestamps to the named JSON fields ("severity" and "time") Google
// Cloud Logging expects.
type GCPFormatter struct {
	logrus.JSONFormatter
}

type gcpLogSeverity string

// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#logseverity
const (
	gcpSeverityDebug    gcpLogSeverity = "DEBUG"
	gcpSeverityInfo     gcpLogSeverity = "INFO"
	gcpSeverityWarning  gcpLogSeverity = "WARNING"
	gcpSeverityError    gcpLogSeverity = "ERROR"
	gcpSeverityCritical gcpLogSeverity = "CRITICAL"
	gcpSeverityAlert    gcpLogSeverity = "ALERT"
)

var logrusLevelToGCPSeverity = map[logrus.Level]gcpLogSeverity{
	logrus.DebugLevel: gcpSeverityDebug,
	logrus.InfoLevel:  gcpSeverityInfo,
	logrus.WarnLevel:  gcpSeverityWarning,
	logrus.ErrorLevel: gcpSeverityError,
	logrus.FatalLevel: gcpSeverityCritical,
	logrus.PanicLevel: gcpSeverityAlert,
}

func (f *GCPFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	entry.Data["severity"] = logrusLevelToGCPSeverity[entry.Level]
	entry.Data["time"] = entry.Time.Format(time.RFC3339Nano)
	return f.JSONFormatter.Format(entry)
}

// For returns the log entry attached to ctx, or the default entry if none is set.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return defaultEntry
	}

	value := ctx.Value(loggerContextKey)
	if entry, ok := value.(*logrus.Entry); ok {
		return entry.WithContext(ctx)
	}

	return defaultEntry.WithContext(ctx)
}
