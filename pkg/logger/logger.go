package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// Assignment logging methods

// LogAssignmentSuccess logs a successful table assignment
func (l *Logger) LogAssignmentSuccess(ctx context.Context, holdID, tableID string, partySize int, usesAux bool) {
	l.Logger.InfoContext(ctx,
		"Table Assigned",
		slog.String("hold_id", holdID),
		slog.String("table_id", tableID),
		slog.Int("party_size", partySize),
		slog.Bool("uses_aux", usesAux),
	)
}

// LogAssignmentFailure logs an exhausted or escalated assignment
func (l *Logger) LogAssignmentFailure(ctx context.Context, reason string, partySize int, escalate bool) {
	l.Logger.InfoContext(ctx,
		"Assignment Failed",
		slog.String("reason", reason),
		slog.Int("party_size", partySize),
		slog.Bool("escalation_required", escalate),
	)
}

// LogHoldConflict logs a lost race on an occupancy key
func (l *Logger) LogHoldConflict(ctx context.Context, tableID, date, shift string) {
	l.Logger.WarnContext(ctx,
		"Hold Conflict",
		slog.String("table_id", tableID),
		slog.String("date", date),
		slog.String("shift", shift),
	)
}

// Waitlist logging methods

// LogWaitlistNotified logs a waitlist entry entering its confirmation window
func (l *Logger) LogWaitlistNotified(ctx context.Context, entryID string, position int, channelRef string) {
	l.Logger.InfoContext(ctx,
		"Waitlist Notified",
		slog.String("entry_id", entryID),
		slog.Int("position", position),
		slog.String("channel_ref", channelRef),
	)
}

// LogWaitlistSweep logs the result of an expiry sweep
func (l *Logger) LogWaitlistSweep(ctx context.Context, expired int) {
	l.Logger.InfoContext(ctx,
		"Waitlist Sweep",
		slog.Int("expired", expired),
	)
}

// Degradation logging

// LogDegraded logs an absorbed external-service failure
func (l *Logger) LogDegraded(ctx context.Context, service string, err error) {
	l.Logger.WarnContext(ctx,
		"External Service Degraded",
		slog.String("service", service),
		slog.String("error", err.Error()),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
