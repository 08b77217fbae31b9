// Package service implements the write and read operations of the budget
// engine: validation, guest gating, persistence and change publication.
package service

import (
	"context"
	"fmt"
	"time"

	"budgeteer/internal/amqp"
	"budgeteer/internal/budget"
	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
	"budgeteer/internal/log"
)

// Store is the persistence surface the service needs; implemented by the
// SQLite repository.
type Store interface {
	CreateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)
	ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
	CreateGoal(ctx context.Context, userID string, g core.SavingsGoal) (core.SavingsGoal, error)
	ListGoals(ctx context.Context, userID string) ([]core.SavingsGoal, error)
	DeleteGoal(ctx context.Context, userID string, id int64) error
	CreateNotification(ctx context.Context, userID, title, body string, ts time.Time) (core.NotificationEvent, error)
	ListNotifications(ctx context.Context, userID string) ([]core.NotificationEvent, error)
	DeleteNotification(ctx context.Context, userID string, id int64) error
	GetSettings(ctx context.Context, userID string) (core.Settings, error)
	SaveSettings(ctx context.Context, userID string, s core.Settings) error
}

// Publisher emits data-change events; nil-safe via the noop implementation.
type Publisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// NoopPublisher drops change events when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishChange(context.Context, *amqp.ChangeMessage) error { return nil }

type BudgetService struct {
	store  Store
	feed   Publisher
	logger *log.Logger
}

func New(store Store, feed Publisher, logger *log.Logger) *BudgetService {
	if feed == nil {
		feed = NoopPublisher{}
	}
	return &BudgetService{
		store:  store,
		feed:   feed,
		logger: logger.WithComponent(log.ComponentService),
	}
}

// publish emits a change event. Feed failures are logged and swallowed: the
// write already succeeded and must not be rolled back for a broker outage.
func (s *BudgetService) publish(ctx context.Context, entity, action string, id int64, userID string) {
	msg := amqp.NewChangeMessage(entity, action, id, userID)
	if err := s.feed.PublishChange(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "change event not published",
			log.FieldError, err, log.FieldEntity, entity, log.FieldAction, action, log.FieldID, id)
	}
}

// CreateTransaction validates and appends a ledger entry. Guests cannot
// write; invalid records are rejected before any storage access.
func (s *BudgetService) CreateTransaction(ctx context.Context, id core.Identity, tx core.Transaction) (core.Transaction, error) {
	if id.Guest {
		return core.Transaction{}, core.ErrGuestWrite
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, id.UserID, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.publish(ctx, amqp.EntityTransaction, amqp.ActionCreate, created.ID, id.UserID)
	return created, nil
}

func (s *BudgetService) ListTransactions(ctx context.Context, id core.Identity) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx, id.UserID)
}

func (s *BudgetService) AddGoal(ctx context.Context, id core.Identity, g core.SavingsGoal) (core.SavingsGoal, error) {
	if id.Guest {
		return core.SavingsGoal{}, core.ErrGuestWrite
	}
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	created, err := s.store.CreateGoal(ctx, id.UserID, g)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("add goal: %w", err)
	}
	s.publish(ctx, amqp.EntityGoal, amqp.ActionCreate, created.ID, id.UserID)
	return created, nil
}

func (s *BudgetService) ListGoals(ctx context.Context, id core.Identity) ([]core.SavingsGoal, error) {
	return s.store.ListGoals(ctx, id.UserID)
}

func (s *BudgetService) DeleteGoal(ctx context.Context, id core.Identity, goalID int64) error {
	if id.Guest {
		return core.ErrGuestWrite
	}
	if err := s.store.DeleteGoal(ctx, id.UserID, goalID); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.publish(ctx, amqp.EntityGoal, amqp.ActionDelete, goalID, id.UserID)
	return nil
}

// AppendNotification persists an emitted notification for the user. The
// scheduler calls this through the store sink.
func (s *BudgetService) AppendNotification(ctx context.Context, id core.Identity, title, body string, ts time.Time) (core.NotificationEvent, error) {
	if id.Guest {
		return core.NotificationEvent{}, core.ErrGuestWrite
	}
	ev, err := s.store.CreateNotification(ctx, id.UserID, title, body, ts)
	if err != nil {
		return core.NotificationEvent{}, fmt.Errorf("append notification: %w", err)
	}
	s.publish(ctx, amqp.EntityNotification, amqp.ActionCreate, ev.ID, id.UserID)
	return ev, nil
}

func (s *BudgetService) ListNotifications(ctx context.Context, id core.Identity) ([]core.NotificationEvent, error) {
	return s.store.ListNotifications(ctx, id.UserID)
}

func (s *BudgetService) RemoveNotification(ctx context.Context, id core.Identity, notificationID int64) error {
	if id.Guest {
		return core.ErrGuestWrite
	}
	if err := s.store.DeleteNotification(ctx, id.UserID, notificationID); err != nil {
		return fmt.Errorf("remove notification: %w", err)
	}
	s.publish(ctx, amqp.EntityNotification, amqp.ActionDelete, notificationID, id.UserID)
	return nil
}

func (s *BudgetService) GetSettings(ctx context.Context, id core.Identity) (core.Settings, error) {
	return s.store.GetSettings(ctx, id.UserID)
}

// SaveSettings persists the user's configuration. For guests the save is a
// silent no-op: the in-memory settings still apply for the session, but
// nothing is written.
func (s *BudgetService) SaveSettings(ctx context.Context, id core.Identity, settings core.Settings) error {
	if id.Guest {
		s.logger.InfoContext(ctx, "guest settings kept in memory only")
		return nil
	}
	if err := s.store.SaveSettings(ctx, id.UserID, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.publish(ctx, amqp.EntitySettings, amqp.ActionUpdate, 0, id.UserID)
	return nil
}

// ComputeSnapshot loads the user's data and derives the budget snapshot for
// now. Nothing is cached; every call recomputes from storage.
func (s *BudgetService) ComputeSnapshot(ctx context.Context, id core.Identity, now time.Time) (budget.Snapshot, error) {
	settings, err := s.store.GetSettings(ctx, id.UserID)
	if err != nil {
		return budget.Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	txs, err := s.store.ListTransactions(ctx, id.UserID)
	if err != nil {
		return budget.Snapshot{}, fmt.Errorf("load transactions: %w", err)
	}
	gs, err := s.store.ListGoals(ctx, id.UserID)
	if err != nil {
		return budget.Snapshot{}, fmt.Errorf("load goals: %w", err)
	}

	return budget.Compute(settings.Period(), ledger.New(txs), gs, now)
}
