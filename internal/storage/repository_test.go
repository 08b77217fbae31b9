package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"budgeteer/internal/core"
	"budgeteer/internal/log"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "budgeteer.db"), log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundtrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, "user-1", core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 4_500},
		Description: "groceries",
		Date:        core.NewDate(2025, 1, 15),
		Currency:    "ILS",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}

	txs, err := repo.ListTransactions(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}
	got := txs[0]
	if got.Type != core.Expense || got.Amount.Cents != 4_500 || got.Description != "groceries" {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if !got.Date.SameDay(time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", got.Date)
	}

	// Other users never see it.
	other, err := repo.ListTransactions(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListTransactions other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected empty ledger for other user, got %d", len(other))
	}
}

func TestGoalLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	g, err := repo.CreateGoal(ctx, "user-1", core.SavingsGoal{
		Name:         "vacation",
		TargetAmount: core.Money{Cents: 50_000},
		Deadline:     core.NewDate(2025, 6, 1),
		Currency:     "ILS",
	})
	if err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	gs, err := repo.ListGoals(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(gs) != 1 || gs[0].Name != "vacation" || gs[0].TargetAmount.Cents != 50_000 {
		t.Fatalf("unexpected goals: %+v", gs)
	}

	if err := repo.DeleteGoal(ctx, "user-1", g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	gs, _ = repo.ListGoals(ctx, "user-1")
	if len(gs) != 0 {
		t.Fatalf("expected no goals after delete, got %d", len(gs))
	}

	if err := repo.DeleteGoal(ctx, "user-1", g.ID); err == nil {
		t.Fatal("deleting a missing goal should fail")
	}
}

func TestNotificationsNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	if _, err := repo.CreateNotification(ctx, "user-1", "first", "b", base); err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}
	second, err := repo.CreateNotification(ctx, "user-1", "second", "b", base.Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateNotification: %v", err)
	}

	evs, err := repo.ListNotifications(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(evs) != 2 || evs[0].Title != "second" {
		t.Fatalf("expected newest first, got %+v", evs)
	}

	if err := repo.DeleteNotification(ctx, "user-1", second.ID); err != nil {
		t.Fatalf("DeleteNotification: %v", err)
	}
	evs, _ = repo.ListNotifications(ctx, "user-1")
	if len(evs) != 1 || evs[0].Title != "first" {
		t.Fatalf("unexpected notifications after delete: %+v", evs)
	}
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	s, err := repo.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings: %v", err)
	}
	if s.Currency != "ILS" || s.BudgetAmount.Cents != 0 {
		t.Fatalf("expected default settings, got %+v", s)
	}

	s.Currency = "EUR"
	s.BudgetAmount = core.Money{Cents: 310_000}
	s.BudgetPeriodStart = core.NewDate(2025, 1, 1)
	s.BudgetPeriodEnd = core.NewDate(2025, 1, 31)
	s.NotificationsEnabled = true
	if err := repo.SaveSettings(ctx, "user-1", s); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, err := repo.GetSettings(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetSettings after save: %v", err)
	}
	if got.Currency != "EUR" || got.BudgetAmount.Cents != 310_000 || !got.NotificationsEnabled {
		t.Fatalf("unexpected settings: %+v", got)
	}
	if got.Period().TotalDays() != 31 {
		t.Fatalf("unexpected period: %+v", got.Period())
	}

	// Saving again overwrites in place.
	got.BudgetAmount = core.Money{Cents: 100_000}
	if err := repo.SaveSettings(ctx, "user-1", got); err != nil {
		t.Fatalf("SaveSettings upsert: %v", err)
	}
	again, _ := repo.GetSettings(ctx, "user-1")
	if again.BudgetAmount.Cents != 100_000 {
		t.Fatalf("upsert did not overwrite: %+v", again)
	}
}

func TestExportQueue(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx, err := repo.CreateTransaction(ctx, "user-1", core.Transaction{
		Type:        core.Expense,
		Amount:      core.Money{Cents: 1_000},
		Description: "bus",
		Date:        core.NewDate(2025, 1, 2),
		Currency:    "ILS",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	pending, err := repo.ListPendingExportTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("ListPendingExportTransactions: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != tx.ID {
		t.Fatalf("unexpected pending queue: %+v", pending)
	}

	if err := repo.MarkExported(ctx, tx.ID); err != nil {
		t.Fatalf("MarkExported: %v", err)
	}
	pending, _ = repo.ListPendingExportTransactions(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("expected empty queue after export, got %+v", pending)
	}
}
