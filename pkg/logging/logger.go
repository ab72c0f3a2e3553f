// Package logging provides structured logging for the flight core and its runners.
// It wraps Go's standard slog package with run correlation IDs, error context
// and an optional size-rotated log file.
package logging

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelEnvVar selects the minimum log level.
const LevelEnvVar = "FLIGHTCORE_LOG_LEVEL"

// Logger wraps slog.Logger with context-aware helpers. Every record carries
// the correlation ID of the run that produced it, when one is set.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON Logger on stdout. The level comes from
// FLIGHTCORE_LOG_LEVEL (DEBUG, INFO, WARN or ERROR) and defaults to INFO.
func NewLogger() *Logger {
	return NewLoggerWithWriter(os.Stdout)
}

// NewLoggerWithWriter creates a JSON Logger writing to w at the environment level.
func NewLoggerWithWriter(w io.Writer) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       LevelFromEnv(),
		ReplaceAttr: sanitizeAttributes,
	})
	return &Logger{slog.New(handler)}
}

// NewFileLogger creates a Logger that writes to a size-rotated file. It is
// used when stdout is owned by a terminal UI. The returned closer releases
// the file.
func NewFileLogger(path string) (*Logger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    32, // MB
		MaxBackups: 2,
		MaxAge:     14,
		Compress:   true,
	}
	return NewLoggerWithWriter(w), w
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{l.Logger.With(args...)}
}

// LogWithContext logs msg at level, adding the context's correlation ID.
func (l *Logger) LogWithContext(ctx context.Context, level slog.Level, msg string, args ...any) {
	if id := GetCorrelationID(ctx); id != "" {
		args = append(args, "correlation_id", id)
	}
	l.Log(ctx, level, msg, args...)
}

// Info logs an informational message with context.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelInfo, msg, args...)
}

// Warn logs a warning message with context.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelWarn, msg, args...)
}

// Error logs msg at error level. A non-nil err is added as the "error" attribute.
func (l *Logger) Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, "error", err.Error())
	}
	l.LogWithContext(ctx, slog.LevelError, msg, args...)
}

// Debug logs a debug message with context.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.LogWithContext(ctx, slog.LevelDebug, msg, args...)
}

type correlationIDKey struct{}

// WithCorrelationID returns a context carrying id. An empty id is replaced
// with a generated one.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = GenerateCorrelationID()
	}
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID returns the context's correlation ID, or "".
func GetCorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// GenerateCorrelationID returns 16 random hex digits.
func GenerateCorrelationID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// ParseLevel converts a level name to a slog.Level. Names are case
// insensitive; WARNING is accepted for WARN.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARN", "WARNING":
		return slog.LevelWarn, true
	case "ERROR":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// LevelFromEnv returns the level named by FLIGHTCORE_LOG_LEVEL, or INFO.
func LevelFromEnv() slog.Level {
	level, _ := ParseLevel(os.Getenv(LevelEnvVar))
	return level
}

// sanitizeAttributes writes non-finite floats as strings. The JSON handler
// cannot encode NaN or Inf, and a diverging value is exactly what a log
// reader needs to see.
func sanitizeAttributes(groups []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindFloat64 {
		return a
	}
	f := a.Value.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return slog.String(a.Key, fmt.Sprint(f))
	}
	return a
}

// WrapError adds context to err, formatting context with args. A nil err
// stays nil.
func WrapError(err error, context string, args ...any) error {
	if err == nil {
		return nil
	}
	if len(args) > 0 {
		context = fmt.Sprintf(context, args...)
	}
	return fmt.Errorf("%s: %w", context, err)
}
