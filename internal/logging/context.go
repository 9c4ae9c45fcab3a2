package logging

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID identifies one resolve-and-tail invocation.
	FieldSessionID = "session_id"
	// FieldExperiment is the structured logging key for experiment names.
	FieldExperiment = "experiment"
	// FieldHost is the structured logging key for host handles.
	FieldHost = "host"
	// FieldPath is the structured logging key for resolved log file paths.
	FieldPath = "path"
	// FieldOffset is the structured logging key for tail byte offsets.
	FieldOffset = "offset"
)

type sessionKey struct{}

// NewSessionContext tags ctx with a fresh session identifier and returns it.
func NewSessionContext(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, sessionKey{}, id), id
}

// SessionIDFromContext returns the session identifier stored on ctx.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(sessionKey{}).(string)
	if !ok || strings.TrimSpace(id) == "" {
		return "", false
	}
	return id, true
}

// WithContext returns a logger augmented with the session identifier carried by ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	id, ok := SessionIDFromContext(ctx)
	if !ok {
		return logger
	}
	return logger.With(String(FieldSessionID, id))
}
