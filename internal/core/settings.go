package core

import "time"

// Settings is the recognized configuration record supplied by the settings
// store. Missing fields fall back to DefaultSettings.
type Settings struct {
	Currency               string
	BudgetAmount           Money
	BudgetPeriodStart      Date
	BudgetPeriodEnd        Date
	LeftoverSavingsEnabled bool
	LeftoverSavingsAmount  Money
	NotificationsEnabled   bool
}

// DefaultSettings returns the guest/unconfigured baseline: zero budget and a
// period running from today through the last day of the current month.
func DefaultSettings(now time.Time) Settings {
	start := NewDate(now.Year(), int(now.Month()), now.Day())
	// Day 0 of next month is the last day of this month.
	end := Date{Time: time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)}
	return Settings{
		Currency:          "ILS",
		BudgetAmount:      Money{},
		BudgetPeriodStart: start,
		BudgetPeriodEnd:   end,
	}
}

// Period assembles the budget period from the configured fields.
func (s Settings) Period() BudgetPeriod {
	return BudgetPeriod{
		Start:       s.BudgetPeriodStart,
		End:         s.BudgetPeriodEnd,
		TotalAmount: s.BudgetAmount,
	}
}
