package calculation

import (
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// Run projects the plan over its full horizon with each account's expected
// return. The run is deterministic: identical plans produce identical
// results.
func (e *Engine) Run(plan *domain.Plan) (*domain.SimulationResult, error) {
	return e.RunWithOverrides(plan, nil)
}

// RunWithOverrides projects the plan with per-account, per-year return
// overrides in place of the expected returns. Monte Carlo iterations feed
// their sampled paths through here; a nil override map reproduces Run.
func (e *Engine) RunWithOverrides(plan *domain.Plan, overrides ReturnOverrides) (*domain.SimulationResult, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	state := domain.NewAccountState(plan)
	years := plan.BasicInfo.Years()
	result := &domain.SimulationResult{
		Yearly:  make([]domain.YearlyRecord, 0, years),
		Monthly: make([]domain.MonthlyRecord, 0, years*12),
	}

	totalInvestment := money.Zero()
	totalCashflow := money.Zero()
	for yearIndex := 0; yearIndex < years; yearIndex++ {
		age := plan.BasicInfo.StartAge + yearIndex
		yearly, months, err := e.BuildYear(plan, state, age, yearIndex, overrides)
		if err != nil {
			return nil, err
		}
		result.Yearly = append(result.Yearly, yearly)
		result.Monthly = append(result.Monthly, months...)
		totalInvestment = totalInvestment.Add(yearly.InvestmentTotal)
		totalCashflow = totalCashflow.Add(yearly.CashflowAnnual)
		if yearly.ReserveDepleted {
			e.Logger.Warnf("cash reserve depleted at age %d (cash %s)", age, yearly.Cash)
		}
	}

	result.Summary = domain.Summary{
		StartAge:        plan.BasicInfo.StartAge,
		EndAge:          plan.BasicInfo.EndAge,
		FinalAssets:     result.FinalAssets(),
		TotalInvestment: totalInvestment,
		TotalCashflow:   totalCashflow,
	}
	return result, nil
}
