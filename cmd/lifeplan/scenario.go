package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/output"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage saved scenarios",
}

var scenarioListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		infos, err := st.ListScenarios()
		if err != nil {
			return err
		}
		if len(infos) == 0 {
			fmt.Println("no scenarios saved")
			return nil
		}
		for _, info := range infos {
			fmt.Printf("%-30s updated %s\n", info.Name, info.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var scenarioShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved scenario's projection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		_, result, err := st.LoadScenario(args[0])
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Printf("scenario %q has no stored result\n", args[0])
			return nil
		}
		fmt.Print(output.FormatSummary(result))
		return nil
	},
}

var scenarioDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved scenario",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.DeleteScenario(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %q\n", args[0])
		return nil
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioListCmd, scenarioShowCmd, scenarioDeleteCmd)
	rootCmd.AddCommand(scenarioCmd)
}
