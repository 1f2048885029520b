package calculation

import (
	"math"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// EducationYear is one year of education cost for one child.
type EducationYear struct {
	ParentAge  int         `json:"parent_age"`
	ChildAge   int         `json:"child_age"`
	Cost       money.Money `json:"cost"`
	University bool        `json:"university"`
}

// ChildEducationSummary totals one child's education costs and allowances
// over the horizon.
type ChildEducationSummary struct {
	ChildIndex     int             `json:"child_index"`
	BirthAge       int             `json:"birth_age"`
	Years          []EducationYear `json:"years"`
	TotalCost      money.Money     `json:"total_cost"`
	AllowanceTotal money.Money     `json:"allowance_total"`
}

// EducationSummary is the education cost view across all children.
type EducationSummary struct {
	Children       []ChildEducationSummary `json:"children"`
	TotalCost      money.Money             `json:"total_cost"`
	TotalAllowance money.Money             `json:"total_allowance"`
	NetCost        money.Money             `json:"net_cost"`
}

// EducationSummary projects per-child education costs and child allowance
// over the plan horizon. A plan without children yields an empty summary.
func (e *Engine) EducationSummary(plan *domain.Plan) *EducationSummary {
	out := &EducationSummary{
		TotalCost:      money.Zero(),
		TotalAllowance: money.Zero(),
	}
	for i, birthAge := range plan.Children {
		child := ChildEducationSummary{
			ChildIndex:     i + 1,
			BirthAge:       birthAge,
			TotalCost:      money.Zero(),
			AllowanceTotal: money.Zero(),
		}
		for age := plan.BasicInfo.StartAge; age <= plan.BasicInfo.EndAge; age++ {
			childAge := age - birthAge
			if childAge < 0 {
				continue
			}
			yearIndex := age - plan.BasicInfo.StartAge
			cost, university := plan.EducationCostForChildAge(childAge)
			if plan.Inflation.Enabled && cost.IsPositive() {
				cost = cost.MulFloat(math.Pow(1+plan.Inflation.EducationRate, float64(yearIndex))).Round()
			}
			if cost.IsPositive() {
				child.Years = append(child.Years, EducationYear{
					ParentAge:  age,
					ChildAge:   childAge,
					Cost:       cost,
					University: university,
				})
				child.TotalCost = child.TotalCost.Add(cost)
			}
			child.AllowanceTotal = child.AllowanceTotal.Add(childAllowanceForChild(plan, i, childAge).Annual())
		}
		out.Children = append(out.Children, child)
		out.TotalCost = out.TotalCost.Add(child.TotalCost)
		out.TotalAllowance = out.TotalAllowance.Add(child.AllowanceTotal)
	}
	out.NetCost = out.TotalCost.Sub(out.TotalAllowance)
	return out
}

func childAllowanceForChild(plan *domain.Plan, childIndex, childAge int) money.Money {
	switch {
	case childAge < 0:
		return money.Zero()
	case childAge <= 2:
		return plan.ChildAllowance.Age0to2
	case childAge <= 14:
		if childIndex == 0 {
			return plan.ChildAllowance.Age3to14
		}
		return plan.ChildAllowance.Age3to14SecondBorn
	}
	return money.Zero()
}

// AccountDividend is the projected annual dividend of one account at its
// current balance.
type AccountDividend struct {
	Account     string      `json:"account"`
	Balance     money.Money `json:"balance"`
	GrossAnnual money.Money `json:"gross_annual"`
	NetAnnual   money.Money `json:"net_annual"`
}

// YearDividend is one simulated year's dividend income.
type YearDividend struct {
	Age      int         `json:"age"`
	Year     int         `json:"year"`
	Total    money.Money `json:"total"`
	Received money.Money `json:"received"`
}

// DividendSummary is the dividend income view: the run's per-year history
// plus a projection from the closing balances.
type DividendSummary struct {
	Accounts    []AccountDividend `json:"accounts"`
	GrossAnnual money.Money       `json:"gross_annual"`
	NetAnnual   money.Money       `json:"net_annual"`
	History     []YearDividend    `json:"history"`
}

// DividendSummary derives dividend income from a finished run. An empty run
// yields a zero summary.
func (e *Engine) DividendSummary(plan *domain.Plan, result *domain.SimulationResult) *DividendSummary {
	out := &DividendSummary{
		GrossAnnual: money.Zero(),
		NetAnnual:   money.Zero(),
	}
	for _, yearly := range result.Yearly {
		out.History = append(out.History, YearDividend{
			Age:      yearly.Age,
			Year:     yearly.Year,
			Total:    yearly.DividendTotal,
			Received: yearly.DividendReceived,
		})
	}
	if len(result.Yearly) == 0 {
		return out
	}
	closing := result.Yearly[len(result.Yearly)-1].Balances
	for _, spec := range plan.Accounts {
		yield := spec.DividendYield
		if spec.Name == plan.CompanyStock.Account {
			yield = plan.CompanyStock.DividendYield
		}
		if yield <= 0 {
			continue
		}
		balance := closing[spec.Name]
		gross := balance.MulFloat(yield).Round()
		net := NetDividend(plan.TaxRates, gross)
		out.Accounts = append(out.Accounts, AccountDividend{
			Account:     spec.Name,
			Balance:     balance,
			GrossAnnual: gross,
			NetAnnual:   net,
		})
		out.GrossAnnual = out.GrossAnnual.Add(gross)
		out.NetAnnual = out.NetAnnual.Add(net)
	}
	return out
}

// RetirementYear is one year of the post-horizon drawdown.
type RetirementYear struct {
	Age        int         `json:"age"`
	Income     money.Money `json:"income"`
	Expenses   money.Money `json:"expenses"`
	Withdrawal money.Money `json:"withdrawal"`
	AssetsEnd  money.Money `json:"assets_end"`
	Depleted   bool        `json:"depleted"`
}

// RetirementProjection extends a finished run beyond the horizon: assets
// grow at the drawdown return while the gap between retirement expenses and
// pension income is withdrawn each year.
type RetirementProjection struct {
	StartAge    int              `json:"start_age"`
	StartAssets money.Money      `json:"start_assets"`
	Years       []RetirementYear `json:"years"`
	// DepletionAge is the first age assets go negative, zero when they
	// last the whole projection.
	DepletionAge int `json:"depletion_age"`
}

// RetirementProjection derives the drawdown view from a finished run.
func (e *Engine) RetirementProjection(plan *domain.Plan, result *domain.SimulationResult) *RetirementProjection {
	out := &RetirementProjection{
		StartAge:    plan.BasicInfo.EndAge + 1,
		StartAssets: result.FinalAssets(),
	}
	projectTo := plan.Retirement.ProjectToAge
	if projectTo == 0 {
		projectTo = 90
	}
	if projectTo <= plan.BasicInfo.EndAge {
		return out
	}
	income := money.Zero()
	expenses := plan.Retirement.MonthlyExpenses.Annual().Round()
	assets := out.StartAssets
	for age := out.StartAge; age <= projectTo; age++ {
		if plan.Pension.StartAge > 0 && age >= plan.Pension.StartAge {
			income = plan.Pension.MonthlyAmount.Annual().Round()
		} else {
			income = money.Zero()
		}
		assets = assets.MulFloat(1 + plan.Retirement.DrawdownReturn).Round()
		withdrawal := money.Max(expenses.Sub(income), money.Zero())
		assets = assets.Sub(withdrawal)
		depleted := assets.IsNegative()
		if depleted && out.DepletionAge == 0 {
			out.DepletionAge = age
		}
		out.Years = append(out.Years, RetirementYear{
			Age:        age,
			Income:     income,
			Expenses:   expenses,
			Withdrawal: withdrawal,
			AssetsEnd:  assets,
			Depleted:   depleted,
		})
	}
	return out
}

// ScenarioDiff compares two runs age by age.
type ScenarioDiff struct {
	Ages       []int         `json:"ages"`
	AssetsA    []money.Money `json:"assets_a"`
	AssetsB    []money.Money `json:"assets_b"`
	Delta      []money.Money `json:"delta"`
	FinalDelta money.Money   `json:"final_delta"`
}

// Diff aligns two results by age and reports the asset gap at each age both
// runs cover.
func Diff(a, b *domain.SimulationResult) *ScenarioDiff {
	byAge := make(map[int]money.Money, len(b.Yearly))
	for _, yearly := range b.Yearly {
		byAge[yearly.Age] = yearly.AssetsEnd
	}
	out := &ScenarioDiff{FinalDelta: money.Zero()}
	for _, yearly := range a.Yearly {
		other, ok := byAge[yearly.Age]
		if !ok {
			continue
		}
		out.Ages = append(out.Ages, yearly.Age)
		out.AssetsA = append(out.AssetsA, yearly.AssetsEnd)
		out.AssetsB = append(out.AssetsB, other)
		out.Delta = append(out.Delta, yearly.AssetsEnd.Sub(other))
	}
	if n := len(out.Delta); n > 0 {
		out.FinalDelta = out.Delta[n-1]
	}
	return out
}

// YearDetail returns the twelve ledger months of the given age, empty when
// the age is outside the run.
func YearDetail(result *domain.SimulationResult, age int) []domain.MonthlyRecord {
	var months []domain.MonthlyRecord
	for _, rec := range result.Monthly {
		if rec.Age == age {
			months = append(months, rec)
		}
	}
	return months
}

// YearAssets is the year-boundary asset view for one age.
type YearAssets struct {
	Age              int                       `json:"age"`
	Year             int                       `json:"year"`
	Start            map[string]money.Money    `json:"start"`
	End              map[string]money.Money    `json:"end"`
	CashEnd          money.Money               `json:"cash_end"`
	DividendTotal    money.Money               `json:"dividend_total"`
	DividendReceived money.Money               `json:"dividend_received"`
	Irregular        []domain.IrregularExpense `json:"irregular_expenses,omitempty"`
}

// YearAssetsDetail returns opening and closing balances for the given age,
// nil when the age is outside the run. Opening balances are the previous
// year's closing balances, or the initial balances for the first year.
func YearAssetsDetail(plan *domain.Plan, result *domain.SimulationResult, age int) *YearAssets {
	for i, yearly := range result.Yearly {
		if yearly.Age != age {
			continue
		}
		start := make(map[string]money.Money, len(plan.Accounts))
		if i == 0 {
			for _, spec := range plan.Accounts {
				start[spec.Name] = plan.InitialBalances[spec.Name]
			}
		} else {
			for name, balance := range result.Yearly[i-1].Balances {
				start[name] = balance
			}
		}
		return &YearAssets{
			Age:              yearly.Age,
			Year:             yearly.Year,
			Start:            start,
			End:              yearly.Balances,
			CashEnd:          yearly.Cash,
			DividendTotal:    yearly.DividendTotal,
			DividendReceived: yearly.DividendReceived,
			Irregular:        yearly.Irregular,
		}
	}
	return nil
}
