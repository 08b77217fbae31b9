package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budgeteer/internal/core"
	"budgeteer/internal/service"
	"budgeteer/internal/storage"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the current budget snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			repo, err := storage.NewSQLiteRepository(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			identity := core.Identity{UserID: cfg.UserID, Guest: cfg.GuestMode}
			svc := service.New(repo, nil, logger)

			settings, err := svc.GetSettings(cmd.Context(), identity)
			if err != nil {
				return err
			}

			snap, err := svc.ComputeSnapshot(cmd.Context(), identity, time.Now())
			if core.IsConfigurationError(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "budget not configured:", err)
				return nil
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cur := settings.Currency
			fmt.Fprintf(out, "Period: %s - %s (day %d of %d)\n",
				settings.BudgetPeriodStart.Format("2006-01-02"),
				settings.BudgetPeriodEnd.Format("2006-01-02"),
				snap.DaysElapsed, snap.TotalDays)
			fmt.Fprintf(out, "Income:    %s %s\n", snap.TotalIncome.Format(), cur)
			fmt.Fprintf(out, "Expenses:  %s %s\n", snap.TotalExpenses.Format(), cur)
			fmt.Fprintf(out, "Net:       %s %s\n", snap.NetBalance.Format(), cur)
			fmt.Fprintf(out, "Daily budget:     %s %s\n", snap.DailyBudget.Format(), cur)
			fmt.Fprintf(out, "Spent today:      %s %s\n", snap.TotalSpentToday.Format(), cur)
			fmt.Fprintf(out, "Savings pressure: %s %s\n", snap.SavingsPressureToday.Format(), cur)
			fmt.Fprintf(out, "Remaining today:  %s %s\n", snap.RemainingBudgetToday.Format(), cur)
			return nil
		},
	}
}
