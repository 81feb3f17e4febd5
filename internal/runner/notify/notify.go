// Package notify is the user-visible notification boundary. Failures
// the engine swallows (spawn failures, I/O routing errors) still need
// to reach the person driving the run.
package notify

import (
	"context"

	"go.uber.org/zap"

	"cprun/pkg/utils/logger"
)

// Notifier delivers one user-facing message per event.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

// LogNotifier reports through the structured log at warn level.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, msg string) {
	logger.Warn(ctx, "user notification", zap.String("message", msg))
}

// Noop discards notifications. Used by tests.
type Noop struct{}

func (Noop) Notify(ctx context.Context, msg string) {}
