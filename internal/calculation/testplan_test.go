package calculation

import (
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/agerange"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

func limit(value int64) *money.Money {
	m := money.New(value)
	return &m
}

// testPlan is a deliberately simple two-year plan: flat salary, no bonus, no
// tax, one uncapped account, fixed contributions. Every monthly record it
// produces is predictable by hand: income 300000, expenses 200000,
// investment 50000, cashflow 50000.
func testPlan() *domain.Plan {
	return &domain.Plan{
		BasicInfo: domain.BasicInfo{StartAge: 30, EndAge: 31, StartYear: 2030},
		SalaryCurve: []domain.SalaryBand{
			{FromAge: 30, BaseSalary: money.New(300_000)},
		},
		Phases: []domain.Phase{
			{
				Name: "base",
				Ages: agerange.Range{From: 30, To: 32},
				MonthlyExpenses: map[string]money.Money{
					"living": money.New(200_000),
				},
			},
		},
		Accounts: []domain.AccountSpec{
			{Name: "fund", Kind: domain.KindTaxable},
		},
		Contributions: domain.ContributionPlan{
			PreCap: domain.Allocation{
				Monthly: map[string]money.Money{"fund": money.New(50_000)},
			},
		},
		TaxRates: domain.TaxRules{
			IncomeTaxBrackets: []domain.TaxBracket{{Rate: 0}},
		},
	}
}
