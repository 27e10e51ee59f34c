package logger

import (
	"context"
	"log/slog"
	"time"
)

// SecurityEvent represents a security-relevant occurrence worth an audit trail:
// failed or successful admin logins, IP blocks, unauthorized access attempts,
// deletes and exports.
type SecurityEvent struct {
	EventType string
	Username  string
	IPAddress string
	Success   bool
	Details   string
}

// SecurityLogger writes structured security events through slog
type SecurityLogger struct {
	logger *slog.Logger
}

func NewSecurityLogger(logger *slog.Logger) *SecurityLogger {
	return &SecurityLogger{
		logger: logger,
	}
}

// LogEvent records a security event. Failures log at warn level so operators
// can alert on them without parsing message text.
func (sl *SecurityLogger) LogEvent(event SecurityEvent) {
	attrs := []slog.Attr{
		slog.String("audit_type", "security"),
		slog.String("event_type", event.EventType),
		slog.Bool("success", event.Success),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	}

	if event.Username != "" {
		attrs = append(attrs, slog.String("username", event.Username))
	}
	if event.IPAddress != "" {
		attrs = append(attrs, slog.String("ip_address", event.IPAddress))
	}
	if event.Details != "" {
		attrs = append(attrs, slog.String("details", event.Details))
	}

	level := slog.LevelInfo
	if !event.Success {
		level = slog.LevelWarn
	}
	sl.logger.LogAttrs(context.Background(), level, "security_event", attrs...)
}
