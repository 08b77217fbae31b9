package notifier

import (
	"context"
	"fmt"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
)

// Store persists notification events; implemented by the SQLite repository
// and by the service layer.
type Store interface {
	AppendNotification(ctx context.Context, title, body string, ts time.Time) (core.NotificationEvent, error)
}

// StoreSink persists emitted notifications through a Store.
type StoreSink struct {
	store  Store
	logger *log.Logger
	now    func() time.Time
}

func NewStoreSink(store Store, logger *log.Logger) *StoreSink {
	return &StoreSink{
		store:  store,
		logger: logger.WithComponent(log.ComponentNotifier),
		now:    time.Now,
	}
}

func (s *StoreSink) Emit(ctx context.Context, title, body string) (core.NotificationEvent, error) {
	ev, err := s.store.AppendNotification(ctx, title, body, s.now())
	if err != nil {
		return core.NotificationEvent{}, fmt.Errorf("persist notification: %w", err)
	}
	s.logger.InfoContext(ctx, "notification emitted", log.FieldTitle, title, log.FieldID, ev.ID)
	return ev, nil
}
