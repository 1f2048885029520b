package output

import (
	"fmt"
	"strings"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
)

// FormatSummary renders a run as a fixed-width console table.
func FormatSummary(result *domain.SimulationResult) string {
	var b strings.Builder

	b.WriteString("LIFETIME PROJECTION\n")
	b.WriteString(strings.Repeat("=", 86) + "\n")
	fmt.Fprintf(&b, "%-6s %-6s %14s %14s %14s %14s %10s\n",
		"Year", "Age", "Income", "Expenses", "Invested", "Assets", "Flags")
	b.WriteString(strings.Repeat("-", 86) + "\n")
	for _, year := range result.Yearly {
		flags := ""
		if year.ReserveDepleted {
			flags = "DEPLETED"
		} else if year.BelowReserve {
			flags = "low cash"
		}
		fmt.Fprintf(&b, "%-6d %-6d %14s %14s %14s %14s %10s\n",
			year.Year, year.Age,
			year.IncomeTotal.Format(), year.ExpensesTotal.Format(),
			year.InvestmentTotal.Format(), year.AssetsEnd.Format(), flags)
	}
	b.WriteString(strings.Repeat("-", 86) + "\n")
	fmt.Fprintf(&b, "Final assets at age %d: %s\n", result.Summary.EndAge, result.Summary.FinalAssets.Format())
	fmt.Fprintf(&b, "Total invested: %s\n", result.Summary.TotalInvestment.Format())
	fmt.Fprintf(&b, "Total net cashflow: %s\n", result.Summary.TotalCashflow.Format())
	return b.String()
}

// FormatMonteCarlo renders a Monte Carlo batch as a console table.
func FormatMonteCarlo(result *domain.MonteCarloResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MONTE CARLO (%d iterations, std %.2f, base %s)\n",
		result.NSimulations, result.ReturnStdDev, result.Base)
	b.WriteString(strings.Repeat("=", 92) + "\n")
	fmt.Fprintf(&b, "%-6s %16s %16s %16s %16s %16s\n", "Age", "P5", "P25", "P50", "P75", "P95")
	b.WriteString(strings.Repeat("-", 92) + "\n")
	curves := result.Curves
	for i, age := range curves.Ages {
		fmt.Fprintf(&b, "%-6d %16s %16s %16s %16s %16s\n",
			age,
			curves.P5[i].Format(), curves.P25[i].Format(), curves.P50[i].Format(),
			curves.P75[i].Format(), curves.P95[i].Format())
	}
	b.WriteString(strings.Repeat("-", 92) + "\n")
	fmt.Fprintf(&b, "Final assets: median %s, mean %s, p5 %s, p95 %s\n",
		result.FinalP50.Format(), result.FinalMean.Format(),
		result.FinalP5.Format(), result.FinalP95.Format())
	for _, t := range result.Thresholds {
		fmt.Fprintf(&b, "P(final >= %s) = %.1f%%\n", t.Threshold.Format(), t.Probability*100)
	}
	return b.String()
}
