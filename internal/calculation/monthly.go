package calculation

import (
	"math"
	"sort"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// Bonus salary is paid twice a year, in June and December.
func isBonusMonth(month int) bool {
	return month == 6 || month == 12
}

// BuildMonth produces one ledger month and advances the account state. It
// records pure cash flow: contributions move money into accounts at face
// value, and returns are applied only at the year boundary. The record obeys
// income - expenses - investment = cashflow exactly.
func (e *Engine) BuildMonth(plan *domain.Plan, state *domain.AccountState, age, month, yearIndex int) (domain.MonthlyRecord, error) {
	income := e.monthlyIncome(plan, age, month)
	expenses, err := e.monthlyExpenses(plan, age, yearIndex)
	if err != nil {
		return domain.MonthlyRecord{}, err
	}

	contrib, overflows := e.placeContributions(plan, state, income, expenses, month)

	investTotal := money.Zero()
	for _, amount := range contrib {
		investTotal = investTotal.Add(amount)
	}
	cashflow := income.Total.Sub(expenses.Total).Sub(investTotal)

	for _, spec := range plan.Accounts {
		amount, ok := contrib[spec.Name]
		if !ok || !amount.IsPositive() {
			continue
		}
		if spec.Name == plan.CompanyStock.Account {
			// The employer tops up each purchase; the incentive shows up
			// as extra shares, not as income.
			purchase := amount.MulFloat(1 + plan.CompanyStock.IncentiveRate)
			state.StockShares = state.StockShares.Add(purchase.Decimal.Div(state.StockPrice))
			state.Balances[spec.Name] = money.NewFromDecimal(state.StockShares.Mul(state.StockPrice)).Round()
			continue
		}
		state.Balances[spec.Name] = state.Balances[spec.Name].Add(amount)
	}

	cashStart := state.Cash
	state.Cash = cashStart.Add(cashflow)

	record := domain.MonthlyRecord{
		Age:              age,
		Month:            month,
		Year:             plan.BasicInfo.StartYear + yearIndex,
		Income:           income,
		Expenses:         expenses,
		Investment:       domain.InvestmentBreakdown{ByAccount: contrib, Total: investTotal},
		Cashflow:         cashflow,
		CashBalanceStart: cashStart,
		CashBalanceEnd:   state.Cash,
		Overflows:        overflows,
		Assets:           state.Snapshot(),
	}
	return record, nil
}

// monthlyIncome assembles one month of net household income. The housing
// allowance is taxed as part of salary; its field on the breakdown is
// informational and excluded from Total.
func (e *Engine) monthlyIncome(plan *domain.Plan, age, month int) domain.IncomeBreakdown {
	base, bonusMonths := plan.SalaryForAge(age)
	allowance := plan.HousingAllowanceForAge(age)
	allowanceAnnual := allowance.Annual()

	netBaseAnnual := NetAnnualIncome(plan.TaxRates, base.Annual(), allowanceAnnual)
	salaryNet := netBaseAnnual.Monthly().Round()

	bonusNet := money.Zero()
	if isBonusMonth(month) && bonusMonths > 0 {
		// Bonus take-home is the net difference the bonus makes to the
		// year, split over the two payments.
		grossWithBonus := base.MulFloat(12 + bonusMonths)
		netWithBonus := NetAnnualIncome(plan.TaxRates, grossWithBonus, allowanceAnnual)
		bonusNet = netWithBonus.Sub(netBaseAnnual).MulFloat(0.5).Round()
	}

	inc := domain.IncomeBreakdown{
		SalaryNet:        salaryNet,
		BonusNet:         bonusNet,
		SpouseIncome:     plan.SpouseIncomeForAge(age),
		Pension:          plan.PensionForAge(age),
		ChildAllowance:   plan.ChildAllowanceForAge(age),
		HousingAllowance: allowance,
	}
	inc.Total = money.Sum(inc.SalaryNet, inc.BonusNet, inc.SpouseIncome, inc.Pension, inc.ChildAllowance)
	return inc
}

// monthlyExpenses assembles one month of recurring expenses. Phase expenses
// inflate at the living rate; contractual housing costs do not.
func (e *Engine) monthlyExpenses(plan *domain.Plan, age, yearIndex int) (domain.ExpenseBreakdown, error) {
	phase, err := plan.PhaseForAge(age)
	if err != nil {
		return domain.ExpenseBreakdown{}, err
	}
	factor := 1.0
	if plan.Inflation.Enabled {
		factor = math.Pow(1+plan.Inflation.LivingRate, float64(yearIndex))
	}

	housing := plan.HousingCostsForAge(age)
	exp := domain.ExpenseBreakdown{
		Rent:       housing.Rent,
		Mortgage:   housing.Mortgage,
		Utilities:  housing.Utilities,
		Categories: make(map[string]money.Money, len(phase.MonthlyExpenses)),
	}
	total := money.Sum(exp.Rent, exp.Mortgage, exp.Utilities)
	for category, amount := range phase.MonthlyExpenses {
		inflated := amount.MulFloat(factor).Round()
		exp.Categories[category] = inflated
		total = total.Add(inflated)
	}
	exp.Total = total
	return exp, nil
}

// placeContributions resolves the month's contribution targets: pick the
// active allocation, scale it down to the cash actually available, then
// route each amount through the cap machinery, redirecting overflow along
// each account's fallback chain. Overflow that reaches "cash" simply stays
// in the month's cashflow.
func (e *Engine) placeContributions(plan *domain.Plan, state *domain.AccountState, income domain.IncomeBreakdown, expenses domain.ExpenseBreakdown, month int) (map[string]money.Money, []domain.ContributionOverflow) {
	contrib := make(map[string]money.Money, len(plan.Accounts))

	available := income.Total.Sub(expenses.Total)
	if !available.IsPositive() {
		return contrib, nil
	}

	alloc := e.activeAllocation(plan, state)
	requested := make(map[string]money.Money, len(plan.Accounts))
	requestedTotal := money.Zero()
	for _, spec := range plan.Accounts {
		amount := alloc.Monthly[spec.Name]
		if isBonusMonth(month) {
			amount = amount.Add(alloc.BonusPerPayment[spec.Name])
		}
		if pct, ok := alloc.MonthlyPercent[spec.Name]; ok && pct > 0 {
			amount = amount.Add(income.Total.MulFloat(pct).Round())
		}
		if !amount.IsPositive() {
			continue
		}
		requested[spec.Name] = amount
		requestedTotal = requestedTotal.Add(amount)
	}
	if requestedTotal.IsZero() {
		return contrib, nil
	}

	// Never invest cash the month does not have: scale everything down
	// proportionally, rounding toward zero so the total stays affordable.
	if requestedTotal.GreaterThan(available) {
		ratio := available.Decimal.Div(requestedTotal.Decimal)
		for name, amount := range requested {
			requested[name] = money.NewFromDecimal(amount.Decimal.Mul(ratio).RoundDown(0))
		}
	}

	var overflows []domain.ContributionOverflow
	var place func(name string, amount money.Money)
	place = func(name string, amount money.Money) {
		if !amount.IsPositive() || name == "cash" {
			return
		}
		spec := plan.Account(name)
		if spec == nil {
			return
		}
		take := amount
		if room := state.Headroom(spec); room != nil && take.GreaterThan(*room) {
			take = *room
			excess := amount.Sub(take)
			overflows = append(overflows, domain.ContributionOverflow{
				From:   name,
				To:     spec.OverflowTo,
				Amount: excess,
			})
			place(spec.OverflowTo, excess)
		}
		if !take.IsPositive() {
			return
		}
		contrib[name] = contrib[name].Add(take)
		state.ContribAnnual[name] = state.ContribAnnual[name].Add(take)
		state.ContribLifetime[name] = state.ContribLifetime[name].Add(take)
	}
	for _, spec := range plan.Accounts {
		place(spec.Name, requested[spec.Name])
	}
	return contrib, overflows
}

// activeAllocation returns the pre-cap allocation until every lifetime-capped
// account it targets is full, then the post-cap allocation. An allocation
// with no lifetime-capped targets never switches.
func (e *Engine) activeAllocation(plan *domain.Plan, state *domain.AccountState) *domain.Allocation {
	pre := &plan.Contributions.PreCap
	sawCapped := false
	for _, name := range allocationTargets(pre) {
		spec := plan.Account(name)
		if spec == nil || spec.LifetimeCap == nil {
			continue
		}
		sawCapped = true
		if state.ContribLifetime[name].LessThan(*spec.LifetimeCap) {
			return pre
		}
	}
	if sawCapped {
		return &plan.Contributions.PostCap
	}
	return pre
}

func allocationTargets(a *domain.Allocation) []string {
	seen := make(map[string]bool)
	var names []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range a.Monthly {
		add(name)
	}
	for name := range a.BonusPerPayment {
		add(name)
	}
	for name := range a.MonthlyPercent {
		add(name)
	}
	sort.Strings(names)
	return names
}
