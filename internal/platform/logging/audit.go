package logging

import (
	"context"

	"go.uber.org/zap"
)

// Audit results.
const (
	AuditSuccess = "success"
	AuditFailure = "failure"
)

// AuditEvent describes a mutation of a stored resource.
type AuditEvent struct {
	Action       string // create, update, delete
	UserID       string
	ResourceType string
	ResourceID   string
	Result       string // AuditSuccess or AuditFailure
	Details      map[string]any
}

// LogAuditEvent logs a structured audit event using the request-aware logger.
func LogAuditEvent(ctx context.Context, ev AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", ev.Action),
		zap.String("audit.user_id", ev.UserID),
		zap.String("audit.resource_type", ev.ResourceType),
		zap.String("audit.resource_id", ev.ResourceID),
		zap.String("audit.result", ev.Result),
	}
	if id := TraceIDFromContext(ctx); id != "" {
		fields = append(fields, zap.String("audit.correlation_id", id))
	}
	if len(ev.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", ev.Details))
	}
	LoggerFromContext(ctx).Info("Audit event", fields...)
}
