package output

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
)

// WriteCSV writes the monthly ledger as a flat table, one row per month.
// Expense categories and accounts become columns: categories sorted by name,
// accounts in plan declaration order, so every row has the same shape.
func WriteCSV(w io.Writer, plan *domain.Plan, result *domain.SimulationResult) error {
	categories := expenseCategories(plan)

	header := []string{
		"year", "month", "age",
		"salary_net", "bonus_net", "spouse_income", "pension", "child_allowance", "housing_allowance",
		"income_total",
		"housing_rent", "housing_mortgage", "housing_utilities",
	}
	header = append(header, categories...)
	header = append(header, "expenses_total")
	for _, spec := range plan.Accounts {
		header = append(header, "invest_"+spec.Name)
	}
	header = append(header, "investment_total", "cashflow", "cash_balance")
	for _, spec := range plan.Accounts {
		header = append(header, "balance_"+spec.Name)
	}
	header = append(header, "assets_total")

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range result.Monthly {
		row := []string{
			strconv.Itoa(rec.Year), strconv.Itoa(rec.Month), strconv.Itoa(rec.Age),
			rec.Income.SalaryNet.String(), rec.Income.BonusNet.String(),
			rec.Income.SpouseIncome.String(), rec.Income.Pension.String(),
			rec.Income.ChildAllowance.String(), rec.Income.HousingAllowance.String(),
			rec.Income.Total.String(),
			rec.Expenses.Rent.String(), rec.Expenses.Mortgage.String(), rec.Expenses.Utilities.String(),
		}
		for _, category := range categories {
			row = append(row, rec.Expenses.Categories[category].String())
		}
		row = append(row, rec.Expenses.Total.String())
		for _, spec := range plan.Accounts {
			row = append(row, rec.Investment.ByAccount[spec.Name].String())
		}
		row = append(row, rec.Investment.Total.String(), rec.Cashflow.String(), rec.CashBalanceEnd.String())
		for _, spec := range plan.Accounts {
			row = append(row, rec.Assets.ByAccount[spec.Name].String())
		}
		row = append(row, rec.Assets.Total.String())
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteYearlyCSV writes the annual roll-up, one row per simulated year.
func WriteYearlyCSV(w io.Writer, plan *domain.Plan, result *domain.SimulationResult) error {
	header := []string{
		"year", "age", "income_total", "expenses_total", "investment_total",
		"cashflow_annual", "education_cost", "dividend_total", "dividend_received",
		"cash", "assets_start", "assets_end", "reserve_depleted",
	}
	for _, spec := range plan.Accounts {
		header = append(header, "balance_"+spec.Name)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range result.Yearly {
		row := []string{
			strconv.Itoa(rec.Year), strconv.Itoa(rec.Age),
			rec.IncomeTotal.String(), rec.ExpensesTotal.String(), rec.InvestmentTotal.String(),
			rec.CashflowAnnual.String(), rec.EducationCost.String(),
			rec.DividendTotal.String(), rec.DividendReceived.String(),
			rec.Cash.String(), rec.AssetsStart.String(), rec.AssetsEnd.String(),
			strconv.FormatBool(rec.ReserveDepleted),
		}
		for _, spec := range plan.Accounts {
			row = append(row, rec.Balances[spec.Name].String())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func expenseCategories(plan *domain.Plan) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, phase := range plan.Phases {
		for category := range phase.MonthlyExpenses {
			if !seen[category] {
				seen[category] = true
				categories = append(categories, category)
			}
		}
	}
	sort.Strings(categories)
	return categories
}
