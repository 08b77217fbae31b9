// Package notifier delivers notification events to the outside world. The
// scheduler treats sinks as fire-and-forget: failures are logged by the
// caller and never retried by the engine itself.
package notifier

import (
	"context"

	"budgeteer/internal/core"
)

// Sink is the outbound notification boundary.
type Sink interface {
	Emit(ctx context.Context, title, body string) (core.NotificationEvent, error)
}

// Fanout emits to every sink in order. The first error is returned after all
// sinks were attempted, so one failing destination cannot starve the others.
type Fanout []Sink

func (f Fanout) Emit(ctx context.Context, title, body string) (core.NotificationEvent, error) {
	var first core.NotificationEvent
	var firstErr error
	for i, s := range f {
		ev, err := s.Emit(ctx, title, body)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		if i == 0 {
			first = ev
		}
	}
	return first, firstErr
}
