// Package goals computes the savings pressure active goals place on the
// daily budget, and per-goal display figures.
//
// Progress toward a goal is inferred from aggregate expense totals in a date
// window, not from transactions tagged to the goal: money spent between the
// period start and the deadline counts against what could have been saved.
package goals

import (
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

// Status is the listing view of a single goal. Unlike the pressure
// computation, DaysLeft here is a plain ceiling without the inclusive extra
// day, and may be zero or negative for expired goals.
type Status struct {
	Goal               core.SavingsGoal
	DaysLeft           int
	DailySavingsNeeded core.Money
	Active             bool
}

// DailyPressure returns the amount this goal requires per remaining day, or
// zero when the deadline has passed or the goal is already covered.
func DailyPressure(g core.SavingsGoal, led *ledger.Ledger, periodStart core.Date, now time.Time) core.Money {
	if !g.Deadline.After(now) {
		return core.Money{}
	}
	daysLeft := core.DaysUntil(g.Deadline, now) // >= 1, deadline is in the future

	spent := led.ExpensesBetween(periodStart, g.Deadline)
	savedTowardGoal := core.Money{Cents: -spent.Cents}

	shortfall := g.TargetAmount.Sub(savedTowardGoal)
	if shortfall.Cents <= 0 {
		return core.Money{}
	}
	return shortfall.DivDays(daysLeft)
}

// SavingsPressure sums DailyPressure over all goals. Goals past their
// deadline contribute exactly zero.
func SavingsPressure(gs []core.SavingsGoal, led *ledger.Ledger, periodStart core.Date, now time.Time) core.Money {
	var total core.Money
	for _, g := range gs {
		total = total.Add(DailyPressure(g, led, periodStart, now))
	}
	return total
}

// Statuses builds the current-goals listing. Expired goals remain visible;
// their displayed daily-savings-needed degrades to the full target amount
// rather than dividing by a non-positive day count.
func Statuses(gs []core.SavingsGoal, now time.Time) []Status {
	out := make([]Status, 0, len(gs))
	for _, g := range gs {
		daysLeft := daysLeftDisplay(g.Deadline, now)
		needed := g.TargetAmount
		if daysLeft > 0 {
			needed = g.TargetAmount.DivDays(daysLeft)
		}
		out = append(out, Status{
			Goal:               g,
			DaysLeft:           daysLeft,
			DailySavingsNeeded: needed,
			Active:             g.Deadline.After(now),
		})
	}
	return out
}

// daysLeftDisplay is the listing day count: a bare ceiling of the remaining
// time, without the inclusive extra day the pressure formula adds.
func daysLeftDisplay(deadline core.Date, now time.Time) int {
	return core.DaysUntil(deadline, now) - 1
}
