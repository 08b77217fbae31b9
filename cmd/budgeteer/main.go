package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"budgeteer/internal/config"
	"budgeteer/internal/log"
)

var configFile string

func main() {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "budgeteer",
		Short: "Personal budget engine with daily notifications",
		Long: "budgeteer tracks transactions and savings goals against a budget period,\n" +
			"recomputes the daily allowance on every read and notifies on over- and\n" +
			"under-spending.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "budgeteer.yaml", "optional YAML config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newReportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *log.Logger, error) {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.ApplyFile(configFile); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
