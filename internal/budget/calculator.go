// Package budget derives the live budget snapshot from the period
// configuration, the ledger and the savings goals.
package budget

import (
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/goals"
	"budgeteer/internal/ledger"
)

// Snapshot is the fully recomputed budget state for a single instant. It is
// never persisted and never cached: every read derives it fresh from the
// inputs, since any of them can change without an invalidation signal.
type Snapshot struct {
	TotalIncome   core.Money
	TotalExpenses core.Money
	NetBalance    core.Money

	TotalDays   int
	DaysElapsed int

	DailyBudget          core.Money
	TotalSpentToday      core.Money
	SavingsPressureToday core.Money

	// RemainingBudgetToday may be negative; over-budget is a valid result,
	// not an error.
	RemainingBudgetToday core.Money
}

// Compute derives the snapshot for now. It is pure and deterministic: the
// same period, ledger, goals and instant always produce an identical value.
// An invalid period yields a configuration error and no snapshot.
func Compute(period core.BudgetPeriod, led *ledger.Ledger, gs []core.SavingsGoal, now time.Time) (Snapshot, error) {
	if err := period.Validate(); err != nil {
		return Snapshot{}, err
	}

	totalDays := period.TotalDays()

	snap := Snapshot{
		TotalIncome:   led.SumByType(core.Income),
		TotalExpenses: led.SumByType(core.Expense),
		TotalDays:     totalDays,
		DaysElapsed:   period.DaysElapsed(now),
	}
	snap.NetBalance = snap.TotalIncome.Sub(snap.TotalExpenses)

	snap.DailyBudget = period.TotalAmount.DivDays(totalDays)
	snap.TotalSpentToday = led.SpentOn(now)
	snap.SavingsPressureToday = goals.SavingsPressure(gs, led, period.Start, now)
	snap.RemainingBudgetToday = snap.DailyBudget.
		Sub(snap.TotalSpentToday).
		Sub(snap.SavingsPressureToday)

	return snap, nil
}
