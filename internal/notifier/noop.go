package notifier

import (
	"context"

	"budgeteer/internal/core"
)

// NoopSink discards all emissions. Used when no notification destination is
// configured.
type NoopSink struct{}

func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (*NoopSink) Emit(_ context.Context, title, body string) (core.NotificationEvent, error) {
	return core.NotificationEvent{Title: title, Body: body}, nil
}
