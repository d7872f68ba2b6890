package domain

import (
	"context"
	"log/slog"
)

// Severity classifies a user-facing notification
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a short message for the presentation layer
type Notification struct {
	Title       string
	Description string
	Severity    Severity
}

// Notifier receives user-facing notifications.
// Implementations must not block the caller for long.
type Notifier interface {
	Notify(n Notification)
}

// NopNotifier discards notifications (for testing/headless use).
type NopNotifier struct{}

func (NopNotifier) Notify(Notification) {}

// LogNotifier writes notifications to a logger.
type LogNotifier struct {
	Logger *slog.Logger
}

func (l LogNotifier) Notify(n Notification) {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	switch n.Severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	logger.Log(context.Background(), level, n.Title, "description", n.Description)
}
