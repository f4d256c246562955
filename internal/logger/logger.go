// Package logger wraps log/slog with a process-wide structured logger.
// Output is JSON for machine ingestion in production and text locally.
package logger

import (
    "log/slog"
    "os"
    "strings"
    "sync"
)

var (
    mu  sync.RWMutex
    log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
)

// Init configures the process logger for the given environment.  In
// "development" it emits human-readable text at debug level; everywhere
// else it emits JSON at info level.
func Init(env string) {
    var h slog.Handler
    if strings.EqualFold(env, "development") {
        h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
    } else {
        h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
    }
    mu.Lock()
    log = slog.New(h)
    mu.Unlock()
    slog.SetDefault(current())
}

func current() *slog.Logger {
    mu.RLock()
    defer mu.RUnlock()
    return log
}

// Debug logs at debug level with key-value attributes.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs at info level with key-value attributes.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs at warn level with key-value attributes.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs at error level with key-value attributes.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// Fatal logs at error level and exits the process.  Reserved for startup
// failures where continuing makes no sense.
func Fatal(msg string, args ...any) {
    current().Error(msg, args...)
    os.Exit(1)
}
