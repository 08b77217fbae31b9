package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"budgeteer/internal/core"
	"budgeteer/internal/ledger"
	"budgeteer/internal/report"
	"budgeteer/internal/service"
	"budgeteer/internal/storage"
)

func newReportCmd() *cobra.Command {
	var span string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a spending report for the given span",
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch report.Span(span) {
			case report.SpanDaily, report.SpanWeekly, report.SpanMonthly:
			default:
				return fmt.Errorf("invalid span %q: use daily, weekly or monthly", span)
			}

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
			txs, err := svc.ListTransactions(cmd.Context(), identity)
			if err != nil {
				return err
			}

			rep := report.Build(report.Span(span), ledger.New(txs), settings, time.Now())
			fmt.Fprintln(cmd.OutOrStdout(), rep.Title())
			fmt.Fprintln(cmd.OutOrStdout(), rep.Format(settings.Currency))
			return nil
		},
	}
	cmd.Flags().StringVar(&span, "span", "daily", "report span: daily, weekly or monthly")
	return cmd
}
