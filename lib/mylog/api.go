package mylog

import "context"

// Severity values match the severities understood by Cloud Logging
type Severity string

const (
	SeverityDebug Severity = "DEBUG"
	SeverityInfo  Severity = "INFO"
	SeverityWarn  Severity = "WARN"
	SeverityError Severity = "ERROR"
)

// New is bound at init: JSON lines for Cloud Logging on Google Cloud, slog elsewhere
var New func(componentName string) Logger

// Logger writes one line per call. The traceLabel groups the lines of one aggregate, such as a
// checkout session or a user; it may be empty.
type Logger interface {
	Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any)
}
