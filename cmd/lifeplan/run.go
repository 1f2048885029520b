package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/output"
)

var flagSaveAs string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the deterministic projection",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		engine := calculation.NewEngineWithLogger(newLogger())
		result, err := engine.Run(plan)
		if err != nil {
			return err
		}
		fmt.Print(output.FormatSummary(result))

		if flagSaveAs != "" {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.SaveScenario(flagSaveAs, plan, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "saved scenario %q\n", flagSaveAs)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&flagSaveAs, "save-as", "", "Save the plan and result as a named scenario")
	rootCmd.AddCommand(runCmd)
}
