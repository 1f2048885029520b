package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/config"
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/internal/store"
)

var (
	flagPlan    string
	flagDB      string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lifeplan",
	Short: "Household lifetime finance simulator",
	Long:  "Project household income, expenses, investments and assets over a lifetime, deterministically or via Monte Carlo.",
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagPlan, "plan", "p", "", "Plan file (YAML or JSON); built-in default when omitted")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", envOr("LIFEPLAN_DB", "lifeplan.db"), "SQLite database for scenarios and actuals")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose engine logging")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() calculation.Logger {
	return calculation.StdLogger{Verbose: flagVerbose}
}

func loadPlan() (*domain.Plan, error) {
	return config.NewInputParser().LoadOrDefault(flagPlan)
}

func openStore() (*store.Store, error) {
	return store.Open(flagDB)
}
