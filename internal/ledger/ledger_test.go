package ledger

import (
	"testing"
	"time"

	"budgeteer/internal/core"
)

func sample() *Ledger {
	return New([]core.Transaction{
		{Type: core.Income, Amount: core.Money{Cents: 500000}, Description: "salary", Date: core.NewDate(2025, 1, 1)},
		{Type: core.Expense, Amount: core.Money{Cents: 4000}, Description: "groceries", Date: core.NewDate(2025, 1, 15)},
		{Type: core.Expense, Amount: core.Money{Cents: 2500}, Description: "coffee", Date: core.NewDate(2025, 1, 15)},
		{Type: core.Expense, Amount: core.Money{Cents: 10000}, Description: "dinner", Date: core.NewDate(2025, 1, 20)},
	})
}

func TestSumByType(t *testing.T) {
	l := sample()
	if got := l.SumByType(core.Income); got.Cents != 500000 {
		t.Fatalf("income sum = %d, want 500000", got.Cents)
	}
	if got := l.SumByType(core.Expense); got.Cents != 16500 {
		t.Fatalf("expense sum = %d, want 16500", got.Cents)
	}
}

func TestSpentOn(t *testing.T) {
	l := sample()
	day := time.Date(2025, 1, 15, 18, 0, 0, 0, time.UTC)
	if got := l.SpentOn(day); got.Cents != 6500 {
		t.Fatalf("spent on Jan 15 = %d, want 6500", got.Cents)
	}
	empty := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := l.SpentOn(empty); got.Cents != 0 {
		t.Fatalf("spent on empty day = %d, want 0", got.Cents)
	}
}

func TestExpensesBetween(t *testing.T) {
	l := sample()
	got := l.ExpensesBetween(core.NewDate(2025, 1, 15), core.NewDate(2025, 1, 20))
	if got.Cents != 16500 {
		t.Fatalf("expenses in window = %d, want 16500", got.Cents)
	}
	// Bounds are inclusive; income never counts.
	got = l.ExpensesBetween(core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 15))
	if got.Cents != 6500 {
		t.Fatalf("expenses in window = %d, want 6500", got.Cents)
	}
}

func TestNewCopies(t *testing.T) {
	src := []core.Transaction{
		{Type: core.Expense, Amount: core.Money{Cents: 100}, Description: "a", Date: core.NewDate(2025, 1, 1)},
	}
	l := New(src)
	src[0].Amount = core.Money{Cents: 999}
	if got := l.SumByType(core.Expense); got.Cents != 100 {
		t.Fatalf("ledger should be isolated from caller slice, got %d", got.Cents)
	}
}
