package core

import (
	"errors"
	"testing"
	"time"
)

func TestPeriodTotalDays(t *testing.T) {
	cases := []struct {
		start, end Date
		want       int
	}{
		{NewDate(2025, 1, 1), NewDate(2025, 1, 1), 1},
		{NewDate(2025, 1, 1), NewDate(2025, 1, 31), 31},
		{NewDate(2025, 2, 1), NewDate(2025, 2, 28), 28},
		{NewDate(2025, 1, 1), NewDate(2025, 12, 31), 365},
	}
	for i, tc := range cases {
		p := BudgetPeriod{Start: tc.start, End: tc.end}
		if got := p.TotalDays(); got != tc.want {
			t.Fatalf("case %d: TotalDays = %d, want %d", i, got, tc.want)
		}
	}
}

func TestPeriodValidateUnset(t *testing.T) {
	if err := (BudgetPeriod{}).Validate(); !errors.Is(err, ErrPeriodUnset) {
		t.Fatalf("expected ErrPeriodUnset, got %v", err)
	}
}

func TestPeriodValidateInverted(t *testing.T) {
	p := BudgetPeriod{Start: NewDate(2025, 2, 1), End: NewDate(2025, 1, 1)}
	if err := p.Validate(); !errors.Is(err, ErrPeriodInverted) {
		t.Fatalf("expected ErrPeriodInverted, got %v", err)
	}
}

func TestPeriodValidateNegativeBudget(t *testing.T) {
	p := BudgetPeriod{
		Start:       NewDate(2025, 1, 1),
		End:         NewDate(2025, 1, 31),
		TotalAmount: Money{Cents: -1},
	}
	if err := p.Validate(); !errors.Is(err, ErrNegativeBudget) {
		t.Fatalf("expected ErrNegativeBudget, got %v", err)
	}
}

func TestPeriodDaysElapsed(t *testing.T) {
	p := BudgetPeriod{Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 31)}

	mid := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if got := p.DaysElapsed(mid); got != 15 {
		t.Fatalf("DaysElapsed mid-period = %d, want 15", got)
	}

	// Elapsed days keep counting past the period end.
	after := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	if got := p.DaysElapsed(after); got <= p.TotalDays() {
		t.Fatalf("DaysElapsed after end = %d, want > %d", got, p.TotalDays())
	}

	// Partial days round up.
	partial := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	if got := p.DaysElapsed(partial); got != 3 {
		t.Fatalf("DaysElapsed partial day = %d, want 3", got)
	}
}

func TestPeriodEnded(t *testing.T) {
	p := BudgetPeriod{Start: NewDate(2025, 1, 1), End: NewDate(2025, 1, 31)}
	if p.Ended(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("period should not be ended exactly at end date")
	}
	if !p.Ended(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("period should be ended after end date")
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	deadline := NewDate(2025, 1, 25)
	if got := DaysUntil(deadline, now); got != 11 {
		t.Fatalf("DaysUntil = %d, want 11", got)
	}
}
