package mylog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/MarcGrol/marketplace/lib/mycontext"
)

var standardHandler atomic.Pointer[slog.Logger]

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
	standardHandler.Store(newSlogger(os.Stderr))
}

// RotateToFile redirects local logging into a size-rotated file. Call the returned func on shutdown.
func RotateToFile(filename string) func() {
	rotator := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
	}
	standardHandler.Store(newSlogger(io.MultiWriter(os.Stderr, rotator)))

	return func() {
		standardHandler.Store(newSlogger(os.Stderr))
		rotator.Close()
	}
}

func newSlogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type standardLogger struct {
	componentName string
}

func newStandardLogger(componentName string) Logger {
	return standardLogger{
		componentName: componentName,
	}
}

func (l standardLogger) Log(ctx context.Context, traceLabel string, severity Severity, format string, a ...any) {
	standardHandler.Load().Log(ctx, toLevel(severity), fmt.Sprintf(format, a...),
		"component", l.componentName,
		"aggregate", traceLabel,
		"trace", mycontext.TraceFromContext(ctx))
}

func toLevel(severity Severity) slog.Level {
	switch severity {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityWarn:
		return slog.LevelWarn
	case SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
