package calculation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// BuildYear aggregates twelve ledger months, then applies the year-boundary
// processing: one compounding step per account, the company stock cycle,
// education costs, and any life events due at this age. Returns compound
// exactly once per year; the monthly records inside the year are pure cash
// flow.
func (e *Engine) BuildYear(plan *domain.Plan, state *domain.AccountState, age, yearIndex int, overrides ReturnOverrides) (domain.YearlyRecord, []domain.MonthlyRecord, error) {
	assetsStart := state.TotalAssets()

	months := make([]domain.MonthlyRecord, 0, 12)
	incomeTotal := money.Zero()
	expensesTotal := money.Zero()
	investTotal := money.Zero()
	cashflowTotal := money.Zero()
	for month := 1; month <= 12; month++ {
		rec, err := e.BuildMonth(plan, state, age, month, yearIndex)
		if err != nil {
			return domain.YearlyRecord{}, nil, err
		}
		months = append(months, rec)
		incomeTotal = incomeTotal.Add(rec.Income.Total)
		expensesTotal = expensesTotal.Add(rec.Expenses.Total)
		investTotal = investTotal.Add(rec.Investment.Total)
		cashflowTotal = cashflowTotal.Add(rec.Cashflow)
	}

	for _, spec := range plan.Accounts {
		if spec.Name == plan.CompanyStock.Account {
			continue
		}
		rate := overrides.rate(spec.Name, yearIndex, spec.ExpectedReturn)
		state.Balances[spec.Name] = state.Balances[spec.Name].MulFloat(1 + rate).Round()
	}
	dividendTotal, dividendReceived := e.growCompanyStock(plan, state, age, yearIndex, overrides)

	educationCost, irregular := e.applyEducation(plan, state, age, yearIndex)
	irregular = append(irregular, e.applyLifeEvents(plan, state, age)...)

	state.ResetAnnualCounters()

	balances := make(map[string]money.Money, len(state.Balances))
	for name, balance := range state.Balances {
		balances[name] = balance
	}
	record := domain.YearlyRecord{
		Age:              age,
		Year:             plan.BasicInfo.StartYear + yearIndex,
		IncomeTotal:      incomeTotal,
		ExpensesTotal:    expensesTotal,
		InvestmentTotal:  investTotal,
		CashflowAnnual:   cashflowTotal,
		AssetsStart:      assetsStart,
		AssetsEnd:        state.TotalAssets(),
		Balances:         balances,
		Cash:             state.Cash,
		EducationCost:    educationCost,
		DividendTotal:    dividendTotal,
		DividendReceived: dividendReceived,
		Irregular:        irregular,
		ReserveDepleted:  state.Cash.IsNegative(),
		BelowReserve:     plan.EmergencyReserve.IsPositive() && state.Cash.LessThan(plan.EmergencyReserve),
	}
	return record, months, nil
}

// growCompanyStock advances the share price one year, pays the dividend, and
// reinvests the age-banded share of it. The non-reinvested share lands in
// cash net of withholding.
func (e *Engine) growCompanyStock(plan *domain.Plan, state *domain.AccountState, age, yearIndex int, overrides ReturnOverrides) (money.Money, money.Money) {
	cs := plan.CompanyStock
	if cs.Account == "" {
		return money.Zero(), money.Zero()
	}
	rate := overrides.rate(cs.Account, yearIndex, cs.PriceGrowthRate)
	state.StockPrice = state.StockPrice.Mul(decimal.NewFromFloat(1 + rate))

	value := money.NewFromDecimal(state.StockShares.Mul(state.StockPrice))
	dividend := value.MulFloat(cs.DividendYield).Round()
	if dividend.IsPositive() {
		reinvest := dividend.MulFloat(plan.ReinvestmentRateForAge(age)).Round()
		if reinvest.IsPositive() {
			state.StockShares = state.StockShares.Add(reinvest.Decimal.Div(state.StockPrice))
		}
		received := NetDividend(plan.TaxRates, dividend.Sub(reinvest))
		state.Cash = state.Cash.Add(received)
		state.Balances[cs.Account] = money.NewFromDecimal(state.StockShares.Mul(state.StockPrice)).Round()
		return dividend, received
	}
	state.Balances[cs.Account] = value.Round()
	return money.Zero(), money.Zero()
}

// applyEducation charges each child's education stage for the year. K-12
// stages are paid from cash; university stages cascade through the child's
// own account, then the education funds, then cash, recording where every
// yen came from.
func (e *Engine) applyEducation(plan *domain.Plan, state *domain.AccountState, age, yearIndex int) (money.Money, []domain.IrregularExpense) {
	total := money.Zero()
	var irregular []domain.IrregularExpense
	factor := 1.0
	if plan.Inflation.Enabled {
		factor = math.Pow(1+plan.Inflation.EducationRate, float64(yearIndex))
	}
	for i, birthAge := range plan.Children {
		childAge := age - birthAge
		if childAge < 0 {
			continue
		}
		cost, university := plan.EducationCostForChildAge(childAge)
		if !cost.IsPositive() {
			continue
		}
		cost = cost.MulFloat(factor).Round()
		total = total.Add(cost)
		if !university {
			state.Cash = state.Cash.Sub(cost)
			continue
		}
		sources := e.universitySources(plan, i+1)
		expense := e.payFromSources(plan, state, fmt.Sprintf("university_child%d", i+1), cost, sources)
		irregular = append(irregular, expense)
	}
	return total, irregular
}

// universitySources orders the payment cascade for one child: the child's
// own accounts first, then every education fund, in declaration order.
func (e *Engine) universitySources(plan *domain.Plan, childIndex int) []string {
	var sources []string
	for _, spec := range plan.Accounts {
		if spec.ChildIndex == childIndex {
			sources = append(sources, spec.Name)
		}
	}
	for _, spec := range plan.Accounts {
		if spec.Kind == domain.KindEducationFund && spec.ChildIndex == 0 {
			sources = append(sources, spec.Name)
		}
	}
	return sources
}

// applyLifeEvents charges the one-off events due at this age.
func (e *Engine) applyLifeEvents(plan *domain.Plan, state *domain.AccountState, age int) []domain.IrregularExpense {
	var irregular []domain.IrregularExpense
	if ev := plan.LifeEvents.Marriage; ev != nil && ev.Age == age && ev.Cost.IsPositive() {
		irregular = append(irregular, e.payFromSources(plan, state, "marriage", ev.Cost, ev.Sources))
	}
	if hp := plan.LifeEvents.HomePurchase; hp != nil && hp.Age == age {
		cost := hp.DownPayment.Add(hp.ClosingCosts)
		if cost.IsPositive() {
			irregular = append(irregular, e.payFromSources(plan, state, "home_purchase", cost, hp.Sources))
		}
	}
	for _, ev := range plan.LifeEvents.Custom {
		if ev.Enabled && ev.Age == age && ev.Cost.IsPositive() {
			irregular = append(irregular, e.payFromSources(plan, state, ev.Name, ev.Cost, ev.Sources))
		}
	}
	return irregular
}

// payFromSources drains the named accounts in order until the amount is
// covered; whatever remains comes out of cash, which is allowed to go
// negative. The recorded sources always sum exactly to the amount.
func (e *Engine) payFromSources(plan *domain.Plan, state *domain.AccountState, label string, amount money.Money, sources []string) domain.IrregularExpense {
	remaining := amount
	var paid []domain.PaymentSource
	for _, src := range sources {
		if !remaining.IsPositive() {
			break
		}
		if src == "cash" {
			available := money.Max(state.Cash, money.Zero())
			used := money.Min(available, remaining)
			if used.IsPositive() {
				state.Cash = state.Cash.Sub(used)
				paid = append(paid, domain.PaymentSource{Source: "cash", Amount: used})
				remaining = remaining.Sub(used)
			}
			continue
		}
		balance := state.Balances[src]
		used := money.Min(balance, remaining)
		if !used.IsPositive() {
			continue
		}
		state.Balances[src] = balance.Sub(used)
		if src == plan.CompanyStock.Account {
			state.StockShares = state.Balances[src].Decimal.Div(state.StockPrice)
		}
		paid = append(paid, domain.PaymentSource{Source: src, Amount: used})
		remaining = remaining.Sub(used)
	}
	if remaining.IsPositive() {
		state.Cash = state.Cash.Sub(remaining)
		paid = append(paid, domain.PaymentSource{Source: "cash", Amount: remaining})
	}
	return domain.IrregularExpense{Type: label, Amount: amount, Sources: paid}
}
