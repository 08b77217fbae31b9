// Package report builds periodic spending summaries from the ledger and
// delivers them as notifications on a cron schedule.
package report

import (
	"fmt"
	"strings"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
)

type Span string

const (
	SpanDaily   Span = "daily"
	SpanWeekly  Span = "weekly"
	SpanMonthly Span = "monthly"
)

// Report is a spending summary over a span ending at the build instant.
type Report struct {
	Span     Span
	From     core.Date
	To       core.Date
	Income   core.Money
	Expenses core.Money
	Net      core.Money
	Budget   core.Money
}

// Build summarizes the span ending today. The window is inclusive on both
// ends, like every other ledger window.
func Build(span Span, led *ledger.Ledger, settings core.Settings, now time.Time) Report {
	to := core.NewDate(now.Year(), int(now.Month()), now.Day())
	from := to
	switch span {
	case SpanWeekly:
		from = core.Date{Time: to.AddDate(0, 0, -6)}
	case SpanMonthly:
		from = core.Date{Time: to.AddDate(0, -1, 1)}
	}

	inWindow := func(tx core.Transaction) bool {
		return !tx.Date.Before(from.Time) && !tx.Date.After(to.Time)
	}
	income := led.SumWhere(func(tx core.Transaction) bool {
		return tx.Type == core.Income && inWindow(tx)
	})
	expenses := led.SumWhere(func(tx core.Transaction) bool {
		return tx.Type == core.Expense && inWindow(tx)
	})

	return Report{
		Span:     span,
		From:     from,
		To:       to,
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
		Budget:   settings.BudgetAmount,
	}
}

// Title returns the notification title for the span.
func (r Report) Title() string {
	switch r.Span {
	case SpanWeekly:
		return "Weekly Report"
	case SpanMonthly:
		return "Monthly Report"
	default:
		return "Daily Report"
	}
}

// Format renders the summary body.
func (r Report) Format(currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s - %s\n", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Income: %s %s\n", r.Income.Format(), currency)
	fmt.Fprintf(&b, "Expenses: %s %s\n", r.Expenses.Format(), currency)
	fmt.Fprintf(&b, "Net: %s %s", r.Net.Format(), currency)
	return b.String()
}
