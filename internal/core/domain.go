package core

import (
	"strings"
	"time"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single ledger entry. Entries are immutable once
	// created; the ledger is append-only.
	Transaction struct {
		ID          int64
		Type        TransactionType
		Amount      Money
		Description string
		Date        Date
		Currency    string // tag only, never converted
		CreatedAt   time.Time
	}

	// SavingsGoal is a target amount with a deadline. Goals are created and
	// deleted whole, never mutated in place.
	SavingsGoal struct {
		ID           int64
		Name         string
		TargetAmount Money
		Deadline     Date
		Currency     string
		CreatedAt    time.Time
	}

	NotificationEvent struct {
		ID        int64
		Title     string
		Body      string
		Timestamp time.Time
	}

	// Identity describes the current user context. Guest identities may read
	// but never write.
	Identity struct {
		UserID string
		Guest  bool
	}
)

// NewDate creates a Date at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameDay reports whether t falls on the same calendar day as d, compared by
// formatted date string. No timezone normalization is performed.
func (d Date) SameDay(t time.Time) bool {
	return d.Format("2006-01-02") == t.Format("2006-01-02")
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	switch t.Type {
	case Expense, Income:
	default:
		return ErrInvalidType
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return t.Amount.Validate()
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	return nil
}
