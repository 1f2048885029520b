package main

import (
	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP bridge",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		srv := server.New(plan, st, newLogger())
		return srv.ListenAndServe(flagAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", envOr("LIFEPLAN_ADDR", ":8080"), "Listen address")
	rootCmd.AddCommand(serveCmd)
}
