// Package state holds the in-memory application state the scheduler and the
// HTTP layer read from. It is an observable store: every mutation notifies
// subscribers so dependent components can react to changes.
package state

import (
	"sort"
	"sync"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
	"budgeteer/internal/scheduler"
)

// Listener is invoked after every state mutation, outside the state lock.
type Listener func()

// AppState is the shared snapshot of identity, settings, ledger entries,
// goals and notification history. All accessors copy; callers never see
// internal slices.
type AppState struct {
	mu            sync.RWMutex
	identity      core.Identity
	settings      core.Settings
	transactions  []core.Transaction
	goals         []core.SavingsGoal
	notifications []core.NotificationEvent
	subs          []Listener

	logger *log.Logger
}

func New(logger *log.Logger) *AppState {
	return &AppState{logger: logger.WithComponent(log.ComponentState)}
}

// Subscribe registers a listener for state changes. Listeners cannot be
// removed; they live as long as the state does.
func (s *AppState) Subscribe(l Listener) {
	s.mu.Lock()
	s.subs = append(s.subs, l)
	s.mu.Unlock()
}

func (s *AppState) notify() {
	s.mu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()
	for _, l := range subs {
		l()
	}
}

func (s *AppState) SetIdentity(id core.Identity) {
	s.mu.Lock()
	s.identity = id
	s.mu.Unlock()
	s.logger.Info("identity changed", log.FieldUserID, id.UserID, "guest", id.Guest)
	s.notify()
}

func (s *AppState) Identity() core.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *AppState) SetSettings(settings core.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) Settings() core.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// ReplaceTransactions swaps the full transaction list, e.g. after a reload
// from storage.
func (s *AppState) ReplaceTransactions(txs []core.Transaction) {
	s.mu.Lock()
	s.transactions = append([]core.Transaction(nil), txs...)
	s.mu.Unlock()
	s.notify()
}

// AddTransaction appends a single entry without a full reload.
func (s *AppState) AddTransaction(tx core.Transaction) {
	s.mu.Lock()
	s.transactions = append(s.transactions, tx)
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.transactions...)
}

func (s *AppState) ReplaceGoals(gs []core.SavingsGoal) {
	s.mu.Lock()
	s.goals = append([]core.SavingsGoal(nil), gs...)
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) AddGoal(g core.SavingsGoal) {
	s.mu.Lock()
	s.goals = append(s.goals, g)
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) RemoveGoal(id int64) {
	s.mu.Lock()
	kept := s.goals[:0]
	for _, g := range s.goals {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	s.goals = kept
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) Goals() []core.SavingsGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.SavingsGoal(nil), s.goals...)
}

// ReplaceNotifications swaps the notification history. It is stored and
// returned newest first.
func (s *AppState) ReplaceNotifications(evs []core.NotificationEvent) {
	sorted := append([]core.NotificationEvent(nil), evs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	s.mu.Lock()
	s.notifications = sorted
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) AddNotification(ev core.NotificationEvent) {
	s.mu.Lock()
	s.notifications = append([]core.NotificationEvent{ev}, s.notifications...)
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) RemoveNotification(id int64) {
	s.mu.Lock()
	kept := s.notifications[:0]
	for _, ev := range s.notifications {
		if ev.ID != id {
			kept = append(kept, ev)
		}
	}
	s.notifications = kept
	s.mu.Unlock()
	s.notify()
}

func (s *AppState) Notifications() []core.NotificationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.NotificationEvent(nil), s.notifications...)
}

// Inputs assembles the scheduler's view of the current state. The period and
// currency come from settings; an unconfigured state yields the zero period,
// which the scheduler rejects at validation.
func (s *AppState) Inputs() scheduler.Inputs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scheduler.Inputs{
		Period:       s.settings.Period(),
		Transactions: append([]core.Transaction(nil), s.transactions...),
		Goals:        append([]core.SavingsGoal(nil), s.goals...),
		Currency:     s.settings.Currency,
	}
}
