package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/internal/output"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

var (
	flagIterations int
	flagStdDev     float64
	flagSeed       int64
	flagBase       string
	flagBins       int
	flagThresholds []int64
	flagQuiet      bool
)

var montecarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Run a Monte Carlo batch over randomized returns",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		cfg := calculation.MonteCarloConfig{
			Iterations:    flagIterations,
			ReturnStdDev:  flagStdDev,
			Seed:          flagSeed,
			HistogramBins: flagBins,
		}
		for _, t := range flagThresholds {
			cfg.Thresholds = append(cfg.Thresholds, money.New(t))
		}
		switch flagBase {
		case "plan":
			cfg.Base = domain.BasePlan
		case "actual":
			cfg.Base = domain.BaseActual
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if cfg.Actuals, err = st.ListActuals(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown base %q (want plan or actual)", flagBase)
		}

		if !flagQuiet {
			bar := progressbar.NewOptions(flagIterations,
				progressbar.OptionSetDescription("simulating"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
			cfg.Progress = func(completed, total int) {
				_ = bar.Set(completed)
			}
		}

		mc := calculation.NewMonteCarloEngine(calculation.NewEngineWithLogger(newLogger()))
		result, err := mc.Run(cmd.Context(), plan, cfg)
		if err != nil {
			return err
		}
		fmt.Print(output.FormatMonteCarlo(result))
		return nil
	},
}

func init() {
	montecarloCmd.Flags().IntVarP(&flagIterations, "iterations", "n", 1000, "Number of simulations")
	montecarloCmd.Flags().Float64Var(&flagStdDev, "std", 0.15, "Return standard deviation")
	montecarloCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Random seed (0 = time-based)")
	montecarloCmd.Flags().StringVar(&flagBase, "base", "plan", "Starting point: plan or actual")
	montecarloCmd.Flags().IntVar(&flagBins, "bins", 0, "Histogram bins (0 = default)")
	montecarloCmd.Flags().Int64SliceVar(&flagThresholds, "threshold", nil, "Final-asset thresholds to report probabilities for")
	montecarloCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress the progress bar")
	rootCmd.AddCommand(montecarloCmd)
}
