package domain

import (
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// IncomeBreakdown lists one month's income by source. HousingAllowance is
// informational: the allowance is taxed inside SalaryNet and is not added to
// Total a second time.
type IncomeBreakdown struct {
	SalaryNet        money.Money `json:"salary_net"`
	BonusNet         money.Money `json:"bonus_net"`
	SpouseIncome     money.Money `json:"spouse_income"`
	Pension          money.Money `json:"pension"`
	ChildAllowance   money.Money `json:"child_allowance"`
	HousingAllowance money.Money `json:"housing_allowance"`
	Total            money.Money `json:"total"`
}

// ExpenseBreakdown lists one month's expenses by category.
type ExpenseBreakdown struct {
	Rent       money.Money            `json:"housing_rent"`
	Mortgage   money.Money            `json:"housing_mortgage"`
	Utilities  money.Money            `json:"housing_utilities"`
	Categories map[string]money.Money `json:"categories"`
	Total      money.Money            `json:"total"`
}

// InvestmentBreakdown lists one month's contributions by account.
type InvestmentBreakdown struct {
	ByAccount map[string]money.Money `json:"by_account"`
	Total     money.Money            `json:"total"`
}

// ContributionOverflow records a contribution redirected from a capped
// account to its fallback. Informational, never an error.
type ContributionOverflow struct {
	From   string      `json:"from"`
	To     string      `json:"to"`
	Amount money.Money `json:"amount"`
}

// AssetSnapshot is the post-month account state.
type AssetSnapshot struct {
	ByAccount map[string]money.Money `json:"by_account"`
	Cash      money.Money            `json:"cash"`
	Total     money.Money            `json:"total"`
}

// MonthlyRecord is one immutable ledger entry per simulated month.
type MonthlyRecord struct {
	Age   int `json:"age"`
	Month int `json:"month"`
	Year  int `json:"year"`

	Income     IncomeBreakdown     `json:"income"`
	Expenses   ExpenseBreakdown    `json:"expenses"`
	Investment InvestmentBreakdown `json:"investment"`

	// Cashflow is income.Total - expenses.Total - investment.Total.
	Cashflow         money.Money `json:"cashflow"`
	CashBalanceStart money.Money `json:"cash_balance_start"`
	CashBalanceEnd   money.Money `json:"cash_balance_end"`

	Overflows []ContributionOverflow `json:"overflows,omitempty"`
	Assets    AssetSnapshot          `json:"assets"`
}

// PaymentSource records one account's share of an irregular expense.
type PaymentSource struct {
	Source string      `json:"source"`
	Amount money.Money `json:"amount"`
}

// IrregularExpense is a one-off cost decomposed into payment sources whose
// amounts sum exactly to the expense total.
type IrregularExpense struct {
	Type    string          `json:"type"`
	Amount  money.Money     `json:"amount"`
	Sources []PaymentSource `json:"payment_sources"`
}

// YearlyRecord aggregates 12 MonthlyRecords plus year-end processing.
type YearlyRecord struct {
	Age  int `json:"age"`
	Year int `json:"year"`

	IncomeTotal     money.Money `json:"income_total"`
	ExpensesTotal   money.Money `json:"expenses_total"`
	InvestmentTotal money.Money `json:"investment_total"`
	CashflowAnnual  money.Money `json:"cashflow_annual"`

	AssetsStart money.Money            `json:"assets_start"`
	AssetsEnd   money.Money            `json:"assets_end"`
	Balances    map[string]money.Money `json:"balances"`
	Cash        money.Money            `json:"cash"`

	EducationCost    money.Money        `json:"education_cost_annual"`
	DividendTotal    money.Money        `json:"dividend_total"`
	DividendReceived money.Money        `json:"dividend_received"`
	Irregular        []IrregularExpense `json:"irregular_expenses,omitempty"`

	// ReserveDepleted flags a year whose closing cash is negative; the run
	// continues and the flag is reported, never thrown.
	ReserveDepleted bool `json:"reserve_depleted"`
	// BelowReserve flags closing cash under the configured emergency
	// reserve.
	BelowReserve bool `json:"below_reserve"`
}

// Summary holds headline figures for one projection run.
type Summary struct {
	StartAge        int         `json:"start_age"`
	EndAge          int         `json:"end_age"`
	FinalAssets     money.Money `json:"final_assets"`
	TotalInvestment money.Money `json:"total_investment"`
	TotalCashflow   money.Money `json:"total_cashflow"`
}

// SimulationResult is the full output of one projection run. Each run
// produces a fresh, independent result.
type SimulationResult struct {
	Yearly  []YearlyRecord  `json:"yearly_data"`
	Monthly []MonthlyRecord `json:"monthly_data"`
	Summary Summary         `json:"summary"`
}

// FinalAssets returns the closing total assets, zero for an empty run.
func (r *SimulationResult) FinalAssets() money.Money {
	if len(r.Yearly) == 0 {
		return money.Zero()
	}
	return r.Yearly[len(r.Yearly)-1].AssetsEnd
}

// SeedBase selects how a Monte Carlo run seeds its starting state.
type SeedBase int

const (
	// BasePlan starts every iteration from the plan's initial balances.
	BasePlan SeedBase = iota
	// BaseActual anchors the asset curve to the latest recorded actuals.
	BaseActual
)

func (b SeedBase) String() string {
	if b == BaseActual {
		return "actual"
	}
	return "plan"
}

// PercentileCurves holds per-age percentile and mean asset curves across
// Monte Carlo iterations.
type PercentileCurves struct {
	Ages []int         `json:"ages"`
	P5   []money.Money `json:"p5"`
	P25  []money.Money `json:"p25"`
	P50  []money.Money `json:"p50"`
	P75  []money.Money `json:"p75"`
	P95  []money.Money `json:"p95"`
	Mean []money.Money `json:"mean"`
}

// HistogramBin is one bin of the final-asset histogram.
type HistogramBin struct {
	Low   money.Money `json:"low"`
	High  money.Money `json:"high"`
	Count int         `json:"count"`
}

// ThresholdProbability is the fraction of iterations whose final assets met
// or exceeded Threshold.
type ThresholdProbability struct {
	Threshold   money.Money `json:"threshold"`
	Probability float64     `json:"probability"`
}

// MonteCarloResult reduces N independent runs to distribution statistics.
type MonteCarloResult struct {
	Curves       PercentileCurves       `json:"curves"`
	FinalP5      money.Money            `json:"final_p5"`
	FinalP25     money.Money            `json:"final_p25"`
	FinalP50     money.Money            `json:"final_p50"`
	FinalP75     money.Money            `json:"final_p75"`
	FinalP95     money.Money            `json:"final_p95"`
	FinalMean    money.Money            `json:"final_mean"`
	Histogram    []HistogramBin         `json:"histogram"`
	Thresholds   []ThresholdProbability `json:"thresholds"`
	NSimulations int                    `json:"n_simulations"`
	ReturnStdDev float64                `json:"return_std"`
	Base         string                 `json:"base"`
}

// ActualRecord is one observed month supplied by the actuals store. Months
// with no record are unobserved; the engine falls back to plan-projected
// values and never invents data.
type ActualRecord struct {
	Year              int         `json:"year"`
	Month             int         `json:"month"`
	Age               int         `json:"age"`
	IncomeActual      money.Money `json:"income_actual"`
	ExpensesActual    money.Money `json:"expenses_actual"`
	InvestmentActual  money.Money `json:"investment_actual"`
	CashBalanceActual money.Money `json:"cash_balance_actual"`
}
