package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/output"
)

var (
	flagOut         string
	flagGranularity string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the projection as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		result, err := calculation.NewEngineWithLogger(newLogger()).Run(plan)
		if err != nil {
			return err
		}

		w := os.Stdout
		if flagOut != "" && flagOut != "-" {
			f, err := os.Create(flagOut)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		switch flagGranularity {
		case "monthly":
			return output.WriteCSV(w, plan, result)
		case "yearly":
			return output.WriteYearlyCSV(w, plan, result)
		default:
			return fmt.Errorf("unknown granularity %q (want monthly or yearly)", flagGranularity)
		}
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagOut, "out", "o", "-", "Output file (- for stdout)")
	exportCmd.Flags().StringVar(&flagGranularity, "granularity", "monthly", "Row granularity: monthly or yearly")
	rootCmd.AddCommand(exportCmd)
}
