package scheduler

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
	"budgeteer/internal/notifier"
)

type fakeSource struct {
	mu sync.Mutex
	in Inputs
}

func (f *fakeSource) Inputs() Inputs {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.in
}

func (f *fakeSource) set(in Inputs) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.in = in
}

type captureSink struct {
	mu     sync.Mutex
	titles []string
	bodies []string
}

func (c *captureSink) Emit(_ context.Context, title, body string) (core.NotificationEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles = append(c.titles, title)
	c.bodies = append(c.bodies, body)
	return core.NotificationEvent{Title: title, Body: body}, nil
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.titles)
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

// January 2025, 3100.00 total: 100.00 per day.
func januaryInputs(txs []core.Transaction) Inputs {
	return Inputs{
		Period: core.BudgetPeriod{
			Start:       core.NewDate(2025, 1, 1),
			End:         core.NewDate(2025, 1, 31),
			TotalAmount: core.Money{Cents: 310_000},
		},
		Transactions: txs,
		Currency:     "ILS",
	}
}

func TestDailyCheckUnderBudget(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 4_000}, Date: core.NewDate(2025, 1, 15)},
	}))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.dailyCheck(context.Background(), time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

	if sink.count() != 1 {
		t.Fatalf("expected exactly one notification, got %d", sink.count())
	}
	if sink.titles[0] != notifier.TitleUnderBudget {
		t.Fatalf("expected under-budget title, got %q", sink.titles[0])
	}
	if !strings.Contains(sink.bodies[0], "60.00") {
		t.Fatalf("body should carry the 60.00 surplus: %q", sink.bodies[0])
	}
}

func TestDailyCheckOverBudget(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 15_000}, Date: core.NewDate(2025, 1, 15)},
	}))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.dailyCheck(context.Background(), time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

	if sink.count() != 1 {
		t.Fatalf("expected exactly one notification, got %d", sink.count())
	}
	if sink.titles[0] != notifier.TitleOverBudget {
		t.Fatalf("expected over-budget title, got %q", sink.titles[0])
	}
	if !strings.Contains(sink.bodies[0], "50.00") {
		t.Fatalf("body should carry the 50.00 overage: %q", sink.bodies[0])
	}
}

func TestDailyCheckEqualityIsUnderBudget(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 10_000}, Date: core.NewDate(2025, 1, 15)},
	}))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.dailyCheck(context.Background(), time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC))

	if sink.titles[0] != notifier.TitleUnderBudget {
		t.Fatalf("spending exactly the allowance should count as under budget, got %q", sink.titles[0])
	}
	if !strings.Contains(sink.bodies[0], "0.00") {
		t.Fatalf("body should carry a zero surplus: %q", sink.bodies[0])
	}
}

func TestDailyCheckSkipsInvalidPeriod(t *testing.T) {
	src := &fakeSource{}
	src.set(Inputs{Period: core.BudgetPeriod{
		Start: core.NewDate(2025, 1, 31),
		End:   core.NewDate(2025, 1, 1),
	}})
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.dailyCheck(context.Background(), time.Now())

	if sink.count() != 0 {
		t.Fatalf("invalid period must not emit, got %d notifications", sink.count())
	}
}

func TestEndOfPeriodCheckBeforeEnd(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs(nil))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.endOfPeriodCheck(context.Background(), time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC))

	if sink.count() != 0 {
		t.Fatalf("check before the period end must not emit, got %d", sink.count())
	}
}

func TestEndOfPeriodCheckRepeats(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 400_000}, Date: core.NewDate(2025, 1, 10)},
	}))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	after := time.Date(2025, 2, 1, 1, 0, 0, 0, time.UTC)
	s.endOfPeriodCheck(context.Background(), after)
	s.endOfPeriodCheck(context.Background(), after.Add(time.Hour))

	// No memory of having fired: every tick past the end emits again.
	if sink.count() != 2 {
		t.Fatalf("expected a notification per tick past the end, got %d", sink.count())
	}
	for _, title := range sink.titles {
		if title != notifier.TitlePeriodEnded {
			t.Fatalf("unexpected title %q", title)
		}
	}
	if sink.bodies[0] != notifier.BodyPeriodEndedOver {
		t.Fatalf("expenses above the total should report overspend, got %q", sink.bodies[0])
	}
}

func TestEndOfPeriodCheckUnderSpend(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 310_000}, Date: core.NewDate(2025, 1, 10)},
	}))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{})

	s.endOfPeriodCheck(context.Background(), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	// Spending exactly the total is not an overspend.
	if sink.count() != 1 || sink.bodies[0] != notifier.BodyPeriodEndedUnder {
		t.Fatalf("unexpected emissions: %v", sink.bodies)
	}
}

func TestArmDisarm(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs(nil))
	sink := &captureSink{}
	s := New(src, sink, testLogger(), Config{
		DailyInterval:  5 * time.Millisecond,
		HourlyInterval: 5 * time.Millisecond,
		Now:            func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) },
	})

	if s.State() != Idle {
		t.Fatalf("new scheduler should be idle, got %v", s.State())
	}

	s.Arm(context.Background())
	if s.State() != Armed {
		t.Fatalf("expected armed, got %v", s.State())
	}

	deadline := time.Now().Add(time.Second)
	for sink.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if sink.count() == 0 {
		t.Fatal("armed scheduler never emitted")
	}

	s.Disarm()
	if s.State() != Idle {
		t.Fatalf("expected idle after disarm, got %v", s.State())
	}

	seen := sink.count()
	time.Sleep(30 * time.Millisecond)
	if sink.count() != seen {
		t.Fatal("disarmed scheduler kept emitting")
	}
}

func TestArmIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	src.set(januaryInputs(nil))
	s := New(src, &captureSink{}, testLogger(), Config{
		DailyInterval:  time.Hour,
		HourlyInterval: time.Hour,
	})
	defer s.Disarm()

	s.Arm(context.Background())
	s.Arm(context.Background())
	if s.State() != Armed {
		t.Fatalf("expected armed, got %v", s.State())
	}
}
