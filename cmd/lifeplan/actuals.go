package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

var (
	flagActualYear       int
	flagActualMonth      int
	flagActualAge        int
	flagActualIncome     int64
	flagActualExpenses   int64
	flagActualInvestment int64
	flagActualCash       int64
)

var actualsCmd = &cobra.Command{
	Use:   "actuals",
	Short: "Manage recorded monthly actuals",
}

var actualsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded months",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		records, err := st.ListActuals()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("no actuals recorded")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%d-%02d age %d  income %s  expenses %s  invested %s  cash %s\n",
				rec.Year, rec.Month, rec.Age,
				rec.IncomeActual.Format(), rec.ExpensesActual.Format(),
				rec.InvestmentActual.Format(), rec.CashBalanceActual.Format())
		}
		return nil
	},
}

var actualsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record one observed month",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagActualMonth < 1 || flagActualMonth > 12 {
			return fmt.Errorf("month %d out of range", flagActualMonth)
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		rec := domain.ActualRecord{
			Year:              flagActualYear,
			Month:             flagActualMonth,
			Age:               flagActualAge,
			IncomeActual:      money.New(flagActualIncome),
			ExpensesActual:    money.New(flagActualExpenses),
			InvestmentActual:  money.New(flagActualInvestment),
			CashBalanceActual: money.New(flagActualCash),
		}
		if err := st.UpsertActual(rec); err != nil {
			return err
		}
		fmt.Printf("recorded %d-%02d\n", rec.Year, rec.Month)
		return nil
	},
}

func init() {
	actualsAddCmd.Flags().IntVar(&flagActualYear, "year", 0, "Calendar year")
	actualsAddCmd.Flags().IntVar(&flagActualMonth, "month", 0, "Calendar month (1-12)")
	actualsAddCmd.Flags().IntVar(&flagActualAge, "age", 0, "Age during the month")
	actualsAddCmd.Flags().Int64Var(&flagActualIncome, "income", 0, "Observed net income")
	actualsAddCmd.Flags().Int64Var(&flagActualExpenses, "expenses", 0, "Observed expenses")
	actualsAddCmd.Flags().Int64Var(&flagActualInvestment, "investment", 0, "Observed investment")
	actualsAddCmd.Flags().Int64Var(&flagActualCash, "cash", 0, "Observed cash balance")
	_ = actualsAddCmd.MarkFlagRequired("year")
	_ = actualsAddCmd.MarkFlagRequired("month")
	_ = actualsAddCmd.MarkFlagRequired("cash")
	actualsCmd.AddCommand(actualsListCmd, actualsAddCmd)
	rootCmd.AddCommand(actualsCmd)
}
