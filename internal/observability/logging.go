// Package observability provides structured logging, metrics, and tracing
// for the conversational core, following the teacher's
// internal/observability package: slog-based structured logs with
// context-correlated fields and secret redaction, Prometheus counters, and
// OpenTelemetry spans.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
)

// ContextKey is the type for context keys used by the logger to pull
// correlation fields (session, user, expert) out of ctx automatically.
type ContextKey string

const (
	SessionIDKey ContextKey = "session_id"
	UserIDKey    ContextKey = "user_id"
	ExpertKey    ContextKey = "expert"
	ToolCallKey  ContextKey = "tool_call_id"
)

// LogConfig configures Logger.
type LogConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" or "text"
	Output io.Writer
}

// Logger wraps slog.Logger with context-aware field injection and
// redaction of sensitive values before they reach the sink.
type Logger struct {
	base    *slog.Logger
	redacts []*regexp.Regexp
}

var defaultRedactPatterns = []string{
	`(?i)(api[_-]?key|apikey)[\s:=]+["']?([a-zA-Z0-9_\-]{16,})["']?`,
	`(?i)(bearer|token)[\s:]+([a-zA-Z0-9_\-\.]{16,})`,
	`(?i)(secret|password|passwd|pwd)[\s:=]+["']?([^\s"']{8,})["']?`,
}

// NewLogger builds a Logger from LogConfig, defaulting to info/json/stdout.
func NewLogger(cfg LogConfig) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}

	redacts := make([]*regexp.Regexp, 0, len(defaultRedactPatterns))
	for _, p := range defaultRedactPatterns {
		redacts = append(redacts, regexp.MustCompile(p))
	}

	return &Logger{base: slog.New(handler), redacts: redacts}
}

// WithContext returns a logger enriched with correlation fields pulled from
// ctx (session/user/expert/tool-call), if present.
func (l *Logger) WithContext(ctx context.Context) *slog.Logger {
	logger := l.base
	for _, key := range []ContextKey{SessionIDKey, UserIDKey, ExpertKey, ToolCallKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			logger = logger.With(string(key), v)
		}
	}
	return logger
}

func (l *Logger) redact(msg string) string {
	for _, re := range l.redacts {
		msg = re.ReplaceAllString(msg, "$1=[REDACTED]")
	}
	return msg
}

// Info logs at info level with context-derived correlation fields.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Info(l.redact(msg), args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Warn(l.redact(msg), args...)
}

// Error logs at error level.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Error(l.redact(msg), args...)
}

// Debug logs at debug level.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.WithContext(ctx).Debug(l.redact(msg), args...)
}

// WithSession returns a context carrying the session id for log
// correlation.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// WithUser returns a context carrying the user id for log correlation.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithExpert returns a context carrying the active expert name.
func WithExpert(ctx context.Context, expert string) context.Context {
	return context.WithValue(ctx, ExpertKey, expert)
}

// WithToolCall returns a context carrying the in-flight tool call id.
func WithToolCall(ctx context.Context, toolCallID string) context.Context {
	return context.WithValue(ctx, ToolCallKey, toolCallID)
}
