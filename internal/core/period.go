package core

import "time"

// dayMillis is the fixed day length used for all period arithmetic. Day
// counting divides raw millisecond differences; there is no calendar or DST
// awareness, which is a documented precision limitation.
const dayMillis = 86_400_000

// BudgetPeriod is the configured date range and total amount a budget
// applies to. Start and End are inclusive calendar days.
type BudgetPeriod struct {
	Start       Date
	End         Date
	TotalAmount Money
}

// Validate rejects inverted periods and negative amounts. Callers must not
// compute snapshots from an invalid period; TotalDays is undefined then.
func (p BudgetPeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return ErrPeriodUnset
	}
	if p.End.Before(p.Start.Time) {
		return ErrPeriodInverted
	}
	if p.TotalAmount.Cents < 0 {
		return ErrNegativeBudget
	}
	return nil
}

// TotalDays counts the inclusive day span of the period. For a valid period
// this is always >= 1; Start == End yields exactly 1.
func (p BudgetPeriod) TotalDays() int {
	return ceilDayDiff(p.Start.Time, p.End.Time) + 1
}

// DaysElapsed counts days from Start through now, inclusive. It may exceed
// TotalDays once the period has ended.
func (p BudgetPeriod) DaysElapsed(now time.Time) int {
	return ceilDayDiff(p.Start.Time, now) + 1
}

// Ended reports whether now is strictly past the period end.
func (p BudgetPeriod) Ended(now time.Time) bool {
	return now.After(p.End.Time)
}

// ceilDayDiff divides the millisecond difference between two instants by the
// day length, rounding up. Negative differences round toward zero, matching
// ceiling semantics.
func ceilDayDiff(from, to time.Time) int {
	ms := to.Sub(from).Milliseconds()
	days := ms / dayMillis
	if ms > 0 && ms%dayMillis != 0 {
		days++
	}
	return int(days)
}

// DaysUntil counts inclusive days from now until the deadline, the same
// ceil-plus-one rule the period uses. Used for goal savings pressure where
// the deadline is known to be in the future, so the result is >= 1.
func DaysUntil(deadline Date, now time.Time) int {
	return ceilDayDiff(now, deadline.Time) + 1
}
