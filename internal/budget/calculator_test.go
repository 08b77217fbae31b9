package budget

import (
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

func januaryPeriod() core.BudgetPeriod {
	return core.BudgetPeriod{
		Start:       core.NewDate(2025, 1, 1),
		End:         core.NewDate(2025, 1, 31),
		TotalAmount: core.Money{Cents: 310000},
	}
}

var midJanuary = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func TestComputeSingleExpense(t *testing.T) {
	// Period 2025-01-01..31, total 3100: 31 days, 100.00/day.
	// One expense of 40 today leaves 60.00.
	led := ledger.New([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 4000}, Description: "groceries", Date: core.NewDate(2025, 1, 15)},
	})
	snap, err := Compute(januaryPeriod(), led, nil, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalDays != 31 {
		t.Fatalf("TotalDays = %d, want 31", snap.TotalDays)
	}
	if snap.DailyBudget.Cents != 10000 {
		t.Fatalf("DailyBudget = %d, want 10000", snap.DailyBudget.Cents)
	}
	if snap.TotalSpentToday.Cents != 4000 {
		t.Fatalf("TotalSpentToday = %d, want 4000", snap.TotalSpentToday.Cents)
	}
	if snap.RemainingBudgetToday.Cents != 6000 {
		t.Fatalf("RemainingBudgetToday = %d, want 6000", snap.RemainingBudgetToday.Cents)
	}
}

func TestComputeOverBudget(t *testing.T) {
	led := ledger.New([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 15000}, Description: "splurge", Date: core.NewDate(2025, 1, 15)},
	})
	snap, err := Compute(januaryPeriod(), led, nil, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.RemainingBudgetToday.Cents != -5000 {
		t.Fatalf("RemainingBudgetToday = %d, want -5000 (over budget is a valid output)", snap.RemainingBudgetToday.Cents)
	}
}

func TestComputeGoalPressure(t *testing.T) {
	// Goal of 500 due in 10 days subtracts 500/11 = 45.45 from today's
	// allowance.
	gs := []core.SavingsGoal{
		{Name: "trip", TargetAmount: core.Money{Cents: 50000}, Deadline: core.NewDate(2025, 1, 25)},
	}
	snap, err := Compute(januaryPeriod(), ledger.New(nil), gs, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.SavingsPressureToday.Cents != 4545 {
		t.Fatalf("SavingsPressureToday = %d, want 4545", snap.SavingsPressureToday.Cents)
	}
	if snap.RemainingBudgetToday.Cents != 10000-4545 {
		t.Fatalf("RemainingBudgetToday = %d, want %d", snap.RemainingBudgetToday.Cents, 10000-4545)
	}
}

func TestComputeInvertedPeriod(t *testing.T) {
	p := core.BudgetPeriod{Start: core.NewDate(2025, 2, 1), End: core.NewDate(2025, 1, 1)}
	if _, err := Compute(p, ledger.New(nil), nil, midJanuary); !core.IsConfigurationError(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestComputeZeroBudget(t *testing.T) {
	p := januaryPeriod()
	p.TotalAmount = core.Money{}
	led := ledger.New([]core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 1}, Description: "x", Date: core.NewDate(2025, 1, 15)},
	})
	snap, err := Compute(p, led, nil, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.DailyBudget.Cents != 0 {
		t.Fatalf("DailyBudget = %d, want 0", snap.DailyBudget.Cents)
	}
	if snap.RemainingBudgetToday.Cents >= 0 {
		t.Fatal("any spending against a zero budget must be over budget")
	}
}

func TestComputeSingleDayPeriod(t *testing.T) {
	p := core.BudgetPeriod{
		Start:       core.NewDate(2025, 1, 15),
		End:         core.NewDate(2025, 1, 15),
		TotalAmount: core.Money{Cents: 7700},
	}
	snap, err := Compute(p, ledger.New(nil), nil, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.TotalDays != 1 {
		t.Fatalf("TotalDays = %d, want 1", snap.TotalDays)
	}
	if snap.DailyBudget != p.TotalAmount {
		t.Fatalf("DailyBudget = %d, want the full amount", snap.DailyBudget.Cents)
	}
}

func TestComputeIdempotent(t *testing.T) {
	led := ledger.New([]core.Transaction{
		{Type: core.Income, Amount: core.Money{Cents: 500000}, Description: "salary", Date: core.NewDate(2025, 1, 1)},
		{Type: core.Expense, Amount: core.Money{Cents: 4000}, Description: "groceries", Date: core.NewDate(2025, 1, 15)},
	})
	gs := []core.SavingsGoal{
		{Name: "trip", TargetAmount: core.Money{Cents: 50000}, Deadline: core.NewDate(2025, 1, 25)},
	}
	a, err := Compute(januaryPeriod(), led, gs, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, err := Compute(januaryPeriod(), led, gs, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if a != b {
		t.Fatalf("identical inputs must yield identical snapshots: %+v vs %+v", a, b)
	}
}

func TestRemainingBudgetMonotonicallyDecreases(t *testing.T) {
	var txs []core.Transaction
	prev := int64(1 << 62)
	for i := 0; i < 5; i++ {
		txs = append(txs, core.Transaction{
			Type:        core.Expense,
			Amount:      core.Money{Cents: 1500},
			Description: "snack",
			Date:        core.NewDate(2025, 1, 15),
		})
		snap, err := Compute(januaryPeriod(), ledger.New(txs), nil, midJanuary)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		if snap.RemainingBudgetToday.Cents >= prev {
			t.Fatalf("remaining budget must strictly decrease as same-day expenses accumulate: %d then %d", prev, snap.RemainingBudgetToday.Cents)
		}
		prev = snap.RemainingBudgetToday.Cents
	}
}

func TestNetBalance(t *testing.T) {
	led := ledger.New([]core.Transaction{
		{Type: core.Income, Amount: core.Money{Cents: 500000}, Description: "salary", Date: core.NewDate(2025, 1, 1)},
		{Type: core.Expense, Amount: core.Money{Cents: 120000}, Description: "rent", Date: core.NewDate(2025, 1, 2)},
	})
	snap, err := Compute(januaryPeriod(), led, nil, midJanuary)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if snap.NetBalance.Cents != 380000 {
		t.Fatalf("NetBalance = %d, want 380000", snap.NetBalance.Cents)
	}
}
