// Package ledger aggregates the full transaction collection for the active
// user. Sums always scan the complete ledger; correctness depends only on
// the completeness of the externally supplied collection.
package ledger

import (
	"time"

	"budgeteer/internal/core"
)

// Predicate selects transactions for SumWhere.
type Predicate func(core.Transaction) bool

// Ledger is an ordered, append-only view over transactions. It never caches
// windowed aggregates.
type Ledger struct {
	items []core.Transaction
}

// New copies the given transactions into a ledger. The copy keeps later
// mutations of the caller's slice from reaching in-flight computations.
func New(items []core.Transaction) *Ledger {
	cp := make([]core.Transaction, len(items))
	copy(cp, items)
	return &Ledger{items: cp}
}

func (l *Ledger) Len() int {
	return len(l.items)
}

// All returns the transactions in insertion order.
func (l *Ledger) All() []core.Transaction {
	cp := make([]core.Transaction, len(l.items))
	copy(cp, l.items)
	return cp
}

// SumByType sums amounts over all transactions of the given type,
// regardless of date.
func (l *Ledger) SumByType(t core.TransactionType) core.Money {
	return l.SumWhere(func(tx core.Transaction) bool { return tx.Type == t })
}

// SumWhere sums amounts over transactions matching the predicate. Each
// transaction is visited exactly once.
func (l *Ledger) SumWhere(pred Predicate) core.Money {
	var sum core.Money
	for _, tx := range l.items {
		if pred(tx) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// SpentOn sums expense amounts dated on the given calendar day.
func (l *Ledger) SpentOn(day time.Time) core.Money {
	return l.SumWhere(func(tx core.Transaction) bool {
		return tx.Type == core.Expense && tx.Date.SameDay(day)
	})
}

// ExpensesBetween sums expense amounts with dates in [from, to], inclusive
// on both ends. Used by the goal tracker's savings window.
func (l *Ledger) ExpensesBetween(from, to core.Date) core.Money {
	return l.SumWhere(func(tx core.Transaction) bool {
		if tx.Type != core.Expense {
			return false
		}
		return !tx.Date.Before(from.Time) && !tx.Date.After(to.Time)
	})
}
