// Package scheduler drives the timer-based notification checks: a daily
// over/under-budget check and an hourly end-of-period check.
package scheduler

import (
	"context"
	"sync"
	"time"

	"budgeteer/internal/budget"
	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
	"budgeteer/internal/log"
	"budgeteer/internal/notifier"
)

// State of the scheduler. Armed while an authenticated user context is
// established, Idle otherwise. There are no other states.
type State string

const (
	Idle  State = "idle"
	Armed State = "armed"
)

// Inputs is the immutable snapshot of engine inputs a check runs against.
type Inputs struct {
	Period       core.BudgetPeriod
	Transactions []core.Transaction
	Goals        []core.SavingsGoal
	Currency     string
}

// Source supplies the current inputs at each tick. The scheduler never
// caches them; any change between ticks is picked up automatically.
type Source interface {
	Inputs() Inputs
}

// Config tunes the tick intervals, primarily so tests and simulations can
// compress time. Zero values fall back to the real-world 24h/1h schedule.
type Config struct {
	DailyInterval  time.Duration
	HourlyInterval time.Duration
	Now            func() time.Time
}

// Scheduler owns both timers. Arm starts them fresh; Disarm cancels them
// immediately and guarantees no further emission.
type Scheduler struct {
	source Source
	sink   notifier.Sink
	logger *log.Logger

	dailyEvery  time.Duration
	hourlyEvery time.Duration
	now         func() time.Time

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

func New(source Source, sink notifier.Sink, logger *log.Logger, cfg Config) *Scheduler {
	if cfg.DailyInterval <= 0 {
		cfg.DailyInterval = 24 * time.Hour
	}
	if cfg.HourlyInterval <= 0 {
		cfg.HourlyInterval = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scheduler{
		source:      source,
		sink:        sink,
		logger:      logger.WithComponent(log.ComponentScheduler),
		dailyEvery:  cfg.DailyInterval,
		hourlyEvery: cfg.HourlyInterval,
		now:         cfg.Now,
		state:       Idle,
	}
}

// State returns the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Arm transitions Idle -> Armed and starts both timers from this instant.
// Arming an already-armed scheduler is a no-op; re-arming after Disarm does
// not resume the prior schedule.
func (s *Scheduler) Arm(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Armed {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.state = Armed
	go s.run(runCtx, s.done)
	s.logger.Info("scheduler armed",
		"daily_interval", s.dailyEvery, "hourly_interval", s.hourlyEvery)
}

// Disarm transitions Armed -> Idle. It blocks until the timer goroutine has
// exited, so no notification is emitted afterwards.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	if s.state != Armed {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.state = Idle
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done
	s.logger.Info("scheduler disarmed")
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	daily := time.NewTicker(s.dailyEvery)
	defer daily.Stop()
	hourly := time.NewTicker(s.hourlyEvery)
	defer hourly.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-daily.C:
			s.dailyCheck(ctx, s.now())
		case <-hourly.C:
			s.endOfPeriodCheck(ctx, s.now())
		}
	}
}

// dailyCheck compares today's spending against the daily allowance and
// emits exactly one notification: over-budget with the overage, otherwise
// under-budget with the surplus. Equality counts as under-budget.
func (s *Scheduler) dailyCheck(ctx context.Context, now time.Time) {
	in := s.source.Inputs()
	snap, err := budget.Compute(in.Period, ledger.New(in.Transactions), in.Goals, now)
	if err != nil {
		s.logger.WarnContext(ctx, "daily check skipped: budget not configured", log.FieldError, err)
		return
	}

	var title, body string
	if snap.TotalSpentToday.Cents > snap.DailyBudget.Cents {
		title = notifier.TitleOverBudget
		body = notifier.OverBudgetBody(snap.TotalSpentToday.Sub(snap.DailyBudget), in.Currency)
	} else {
		title = notifier.TitleUnderBudget
		body = notifier.UnderBudgetBody(snap.DailyBudget.Sub(snap.TotalSpentToday), in.Currency)
	}

	if _, err := s.sink.Emit(ctx, title, body); err != nil {
		s.logger.ErrorContext(ctx, "daily notification failed", log.FieldError, err)
	}
}

// endOfPeriodCheck fires after the period end, comparing lifetime expenses
// against the total budget. It keeps no memory of having fired: every tick
// past the end re-emits until the period configuration changes.
func (s *Scheduler) endOfPeriodCheck(ctx context.Context, now time.Time) {
	in := s.source.Inputs()
	if err := in.Period.Validate(); err != nil {
		s.logger.WarnContext(ctx, "end-of-period check skipped: budget not configured", log.FieldError, err)
		return
	}
	if !in.Period.Ended(now) {
		return
	}

	totalExpenses := ledger.New(in.Transactions).SumByType(core.Expense)
	body := notifier.BodyPeriodEndedUnder
	if totalExpenses.Cents > in.Period.TotalAmount.Cents {
		body = notifier.BodyPeriodEndedOver
	}

	if _, err := s.sink.Emit(ctx, notifier.TitlePeriodEnded, body); err != nil {
		s.logger.ErrorContext(ctx, "end-of-period notification failed", log.FieldError, err)
	}
}
