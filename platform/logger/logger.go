// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// UserIDKey is the context key for user ID
	UserIDKey contextKey = "user_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

// New creates a new logger based on environment
func New(env string) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithContext returns a logger with context values extracted.
// Supports request_id and user_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	newLogger := l

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		newLogger = newLogger.WithRequestID(requestID)
	}

	if userID, ok := ctx.Value(UserIDKey).(string); ok && userID != "" {
		newLogger = newLogger.WithUserID(userID)
	}

	return newLogger
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// WithUserID returns a logger with user ID
func (l *Logger) WithUserID(userID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("user_id", userID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// StatusTransition logs a request lifecycle transition.
func (l *Logger) StatusTransition(requestID uuid.UUID, from, to string, actorID uuid.UUID) {
	l.Info("status_transition",
		slog.String("request_id", requestID.String()),
		slog.String("from", from),
		slog.String("to", to),
		slog.String("actor_id", actorID.String()),
	)
}

// CommissionAccrued logs a commission being written to the ledger.
func (l *Logger) CommissionAccrued(requestID, professionalID uuid.UUID, platformFee, earnings int64) {
	l.Info("commission_accrued",
		slog.String("request_id", requestID.String()),
		slog.String("professional_id", professionalID.String()),
		slog.Int64("platform_fee", platformFee),
		slog.Int64("professional_earnings", earnings),
	)
}

// Settlement logs the outcome of a bulk settlement run.
func (l *Logger) Settlement(professionalID uuid.UUID, settledCount int, chunks int) {
	l.Info("settlement",
		slog.String("professional_id", professionalID.String()),
		slog.Int("settled_count", settledCount),
		slog.Int("chunks", chunks),
	)
}

// GateBlocked logs a payment-gate rejection.
func (l *Logger) GateBlocked(professionalID uuid.UUID, kind string, pendingCount int) {
	l.Warn("payment_gate_blocked",
		slog.String("professional_id", professionalID.String()),
		slog.String("kind", kind),
		slog.Int("pending_count", pendingCount),
	)
}

// DatabaseError logs database errors
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
