package domain

import (
	"github.com/lifeplan/lifeplan-simulator/pkg/agerange"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// AccountKind classifies an investment account for contribution-limit and
// payout behavior.
type AccountKind string

const (
	KindNISATsumitate AccountKind = "nisa_tsumitate"
	KindNISAGrowth    AccountKind = "nisa_growth"
	KindTaxable       AccountKind = "taxable"
	KindEducationFund AccountKind = "education_fund"
	KindCompanyStock  AccountKind = "company_stock"
	KindChildNISA     AccountKind = "child_nisa"
)

// Plan is the full set of assumptions for one projection run. A Plan is
// immutable while a run is in progress; callers replace it wholesale via the
// bridge's update operation between runs.
type Plan struct {
	BasicInfo        BasicInfo          `yaml:"basic_info" json:"basic_info"`
	SalaryCurve      []SalaryBand       `yaml:"salary_curve" json:"salary_curve"`
	SpouseIncome     []AgeBandAmount    `yaml:"spouse_income" json:"spouse_income"`
	HousingAllowance []AgeBandAmount    `yaml:"housing_allowance" json:"housing_allowance"`
	HousingCosts     []HousingCostBand  `yaml:"housing_costs" json:"housing_costs"`
	Phases           []Phase            `yaml:"phases" json:"phases"`
	Accounts         []AccountSpec      `yaml:"accounts" json:"accounts"`
	Contributions    ContributionPlan   `yaml:"contribution_plan" json:"contribution_plan"`
	LifeEvents       LifeEvents         `yaml:"life_events" json:"life_events"`
	Pension          PensionRules       `yaml:"pension" json:"pension"`
	Retirement       RetirementSettings `yaml:"retirement" json:"retirement"`
	TaxRates         TaxRules           `yaml:"tax_rates" json:"tax_rates"`
	Inflation        InflationSettings  `yaml:"inflation" json:"inflation"`
	Children         []int              `yaml:"children" json:"children"`
	ChildAllowance   ChildAllowance     `yaml:"child_allowance" json:"child_allowance"`
	EducationCosts   []EducationStage   `yaml:"education_costs" json:"education_costs"`
	CompanyStock     CompanyStock       `yaml:"company_stock" json:"company_stock"`
	DividendPolicy   []AgeBandRate      `yaml:"dividend_reinvestment" json:"dividend_reinvestment"`
	EmergencyReserve money.Money        `yaml:"emergency_reserve" json:"emergency_reserve"`
	InitialBalances  map[string]money.Money `yaml:"initial_balances" json:"initial_balances"`
}

// BasicInfo bounds the simulation horizon.
type BasicInfo struct {
	StartAge    int `yaml:"start_age" json:"start_age"`
	EndAge      int `yaml:"end_age" json:"end_age"`
	StartYear   int `yaml:"start_year" json:"start_year"`
	MarriageAge int `yaml:"marriage_age" json:"marriage_age"`
}

// Years returns the horizon length in simulated years (inclusive of both
// bounds).
func (b BasicInfo) Years() int {
	return b.EndAge - b.StartAge + 1
}

// SalaryBand is one step of the salary curve. The band with the highest
// FromAge not exceeding the simulated age applies; ages before the first
// band use the first band.
type SalaryBand struct {
	FromAge     int         `yaml:"from_age" json:"from_age"`
	BaseSalary  money.Money `yaml:"base_salary" json:"base_salary"`
	BonusMonths float64     `yaml:"bonus_months" json:"bonus_months"`
}

// AgeBandAmount maps a half-open age range to a monthly amount.
type AgeBandAmount struct {
	Ages    agerange.Range `yaml:"ages" json:"ages"`
	Monthly money.Money    `yaml:"monthly" json:"monthly"`
}

// AgeBandRate maps a half-open age range to a rate.
type AgeBandRate struct {
	Ages agerange.Range `yaml:"ages" json:"ages"`
	Rate float64        `yaml:"rate" json:"rate"`
}

// HousingCostBand maps a half-open age range to fixed housing costs.
type HousingCostBand struct {
	Ages      agerange.Range `yaml:"ages" json:"ages"`
	Rent      money.Money    `yaml:"rent" json:"rent"`
	Mortgage  money.Money    `yaml:"mortgage" json:"mortgage"`
	Utilities money.Money    `yaml:"utilities" json:"utilities"`
}

// Phase is a named life phase owning the recurring monthly expense
// categories active inside its age range. Phases must cover the whole
// horizon with no gaps or overlaps.
type Phase struct {
	Name            string                 `yaml:"name" json:"name"`
	Ages            agerange.Range         `yaml:"ages" json:"ages"`
	MonthlyExpenses map[string]money.Money `yaml:"monthly_expenses" json:"monthly_expenses"`
}

// AccountSpec declares one investment account. Caps are optional; a capped
// account that receives contributions must name an overflow fallback.
type AccountSpec struct {
	Name           string       `yaml:"name" json:"name"`
	Kind           AccountKind  `yaml:"kind" json:"kind"`
	ExpectedReturn float64      `yaml:"expected_return" json:"expected_return"`
	AnnualCap      *money.Money `yaml:"annual_cap,omitempty" json:"annual_cap,omitempty"`
	LifetimeCap    *money.Money `yaml:"lifetime_cap,omitempty" json:"lifetime_cap,omitempty"`
	OverflowTo     string       `yaml:"overflow_to,omitempty" json:"overflow_to,omitempty"`
	DividendYield  float64      `yaml:"dividend_yield,omitempty" json:"dividend_yield,omitempty"`
	ChildIndex     int          `yaml:"child_index,omitempty" json:"child_index,omitempty"`
}

// Allocation is one contribution schedule: fixed monthly amounts, extra
// amounts per bonus payment, and income-percentage amounts, all keyed by
// account name.
type Allocation struct {
	Monthly         map[string]money.Money `yaml:"monthly" json:"monthly"`
	BonusPerPayment map[string]money.Money `yaml:"bonus_per_payment" json:"bonus_per_payment"`
	MonthlyPercent  map[string]float64     `yaml:"monthly_percent" json:"monthly_percent"`
}

// ContributionPlan switches from the PreCap to the PostCap allocation once
// every lifetime-capped account named by PreCap is full.
type ContributionPlan struct {
	PreCap  Allocation `yaml:"pre_cap" json:"pre_cap"`
	PostCap Allocation `yaml:"post_cap" json:"post_cap"`
}

// LifeEvents holds the one-off age-triggered events.
type LifeEvents struct {
	Marriage     *EventSpec    `yaml:"marriage,omitempty" json:"marriage,omitempty"`
	HomePurchase *HomePurchase `yaml:"home_purchase,omitempty" json:"home_purchase,omitempty"`
	Custom       []CustomEvent `yaml:"custom,omitempty" json:"custom,omitempty"`
}

// EventSpec is a one-off cost paid from the named source accounts in order,
// any remainder falling to cash.
type EventSpec struct {
	Age     int         `yaml:"age" json:"age"`
	Cost    money.Money `yaml:"cost" json:"cost"`
	Sources []string    `yaml:"sources" json:"sources"`
}

// HomePurchase is the home-purchase event: down payment plus closing costs,
// both due in the trigger year.
type HomePurchase struct {
	Age          int         `yaml:"age" json:"age"`
	DownPayment  money.Money `yaml:"down_payment" json:"down_payment"`
	ClosingCosts money.Money `yaml:"closing_costs" json:"closing_costs"`
	Sources      []string    `yaml:"sources" json:"sources"`
}

// CustomEvent is a user-defined one-off purchase.
type CustomEvent struct {
	Name    string      `yaml:"name" json:"name"`
	Age     int         `yaml:"age" json:"age"`
	Cost    money.Money `yaml:"cost" json:"cost"`
	Enabled bool        `yaml:"enabled" json:"enabled"`
	Sources []string    `yaml:"sources,omitempty" json:"sources,omitempty"`
}

// PensionRules control pension income inside and beyond the horizon.
type PensionRules struct {
	StartAge      int         `yaml:"start_age" json:"start_age"`
	MonthlyAmount money.Money `yaml:"monthly_amount" json:"monthly_amount"`
}

// RetirementSettings drive the post-horizon drawdown view.
type RetirementSettings struct {
	ProjectToAge    int         `yaml:"project_to_age" json:"project_to_age"`
	MonthlyExpenses money.Money `yaml:"monthly_expenses" json:"monthly_expenses"`
	DrawdownReturn  float64     `yaml:"drawdown_return" json:"drawdown_return"`
}

// TaxBracket is one income-tax step: the combined income and resident tax
// rate applied when taxable income does not exceed UpTo. The final bracket
// leaves UpTo nil and applies to everything above the previous bound.
type TaxBracket struct {
	UpTo *money.Money `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate float64      `yaml:"rate" json:"rate"`
}

// TaxRules parameterize net-salary and dividend taxation.
type TaxRules struct {
	SocialInsuranceRate float64      `yaml:"social_insurance_rate" json:"social_insurance_rate"`
	IncomeTaxBrackets   []TaxBracket `yaml:"income_tax_brackets" json:"income_tax_brackets"`
	DividendTaxRate     float64      `yaml:"dividend_tax_rate" json:"dividend_tax_rate"`
}

// InflationSettings apply separate compounded rates to living and education
// expenses.
type InflationSettings struct {
	Enabled       bool    `yaml:"enabled" json:"enabled"`
	LivingRate    float64 `yaml:"living_rate" json:"living_rate"`
	EducationRate float64 `yaml:"education_rate" json:"education_rate"`
}

// ChildAllowance holds the monthly government allowance bands per child.
type ChildAllowance struct {
	Age0to2            money.Money `yaml:"age_0_2" json:"age_0_2"`
	Age3to14           money.Money `yaml:"age_3_14" json:"age_3_14"`
	Age3to14SecondBorn money.Money `yaml:"age_3_14_second_child" json:"age_3_14_second_child"`
}

// EducationStage is one stage of per-child education cost, keyed by the
// child's age. University stages are paid from the child's account, then the
// education fund, then cash; other stages are paid from cash.
type EducationStage struct {
	ChildAges  agerange.Range `yaml:"child_ages" json:"child_ages"`
	AnnualCost money.Money    `yaml:"annual_cost" json:"annual_cost"`
	Subsidy    money.Money    `yaml:"subsidy,omitempty" json:"subsidy,omitempty"`
	University bool           `yaml:"university,omitempty" json:"university,omitempty"`
}

// CompanyStock configures the employee stock purchase account. Monthly
// contributions buy shares at the current price with the employer incentive
// added; the price compounds yearly and the position pays dividends.
type CompanyStock struct {
	Account         string  `yaml:"account" json:"account"`
	InitialPrice    float64 `yaml:"initial_price" json:"initial_price"`
	PriceGrowthRate float64 `yaml:"price_growth_rate" json:"price_growth_rate"`
	DividendYield   float64 `yaml:"dividend_yield" json:"dividend_yield"`
	IncentiveRate   float64 `yaml:"incentive_rate" json:"incentive_rate"`
}

// Account returns the spec with the given name, or nil.
func (p *Plan) Account(name string) *AccountSpec {
	for i := range p.Accounts {
		if p.Accounts[i].Name == name {
			return &p.Accounts[i]
		}
	}
	return nil
}

// SalaryForAge returns the monthly base salary and bonus months applicable
// at the given age.
func (p *Plan) SalaryForAge(age int) (money.Money, float64) {
	if len(p.SalaryCurve) == 0 {
		return money.Zero(), 0
	}
	band := p.SalaryCurve[0]
	for _, b := range p.SalaryCurve {
		if age >= b.FromAge {
			band = b
		}
	}
	return band.BaseSalary, band.BonusMonths
}

// PhaseForAge returns the phase active at the given age. For a validated
// plan exactly one phase matches every age in the horizon.
func (p *Plan) PhaseForAge(age int) (*Phase, error) {
	for i := range p.Phases {
		if p.Phases[i].Ages.Contains(age) {
			return &p.Phases[i], nil
		}
	}
	return nil, NewConfigurationError("phases", "no phase covers age %d", age)
}

func bandAmountForAge(bands []AgeBandAmount, age int) money.Money {
	for _, b := range bands {
		if b.Ages.Contains(age) {
			return b.Monthly
		}
	}
	return money.Zero()
}

// SpouseIncomeForAge returns the monthly spouse income at the given age,
// zero before marriage or outside every configured range.
func (p *Plan) SpouseIncomeForAge(age int) money.Money {
	if p.BasicInfo.MarriageAge > 0 && age < p.BasicInfo.MarriageAge {
		return money.Zero()
	}
	return bandAmountForAge(p.SpouseIncome, age)
}

// HousingAllowanceForAge returns the monthly housing allowance at the given
// age.
func (p *Plan) HousingAllowanceForAge(age int) money.Money {
	return bandAmountForAge(p.HousingAllowance, age)
}

// HousingCostsForAge returns the housing cost band active at the given age,
// or a zero band.
func (p *Plan) HousingCostsForAge(age int) HousingCostBand {
	for _, b := range p.HousingCosts {
		if b.Ages.Contains(age) {
			return b
		}
	}
	return HousingCostBand{}
}

// PensionForAge returns the monthly pension income at the given age.
func (p *Plan) PensionForAge(age int) money.Money {
	if p.Pension.StartAge > 0 && age >= p.Pension.StartAge {
		return p.Pension.MonthlyAmount
	}
	return money.Zero()
}

// ReinvestmentRateForAge returns the dividend reinvestment rate at the
// given age (zero outside every band).
func (p *Plan) ReinvestmentRateForAge(age int) float64 {
	for _, b := range p.DividendPolicy {
		if b.Ages.Contains(age) {
			return b.Rate
		}
	}
	return 0
}

// ChildAllowanceForAge returns the combined monthly child allowance for all
// children alive and eligible at the given parent age.
func (p *Plan) ChildAllowanceForAge(age int) money.Money {
	total := money.Zero()
	for i, birthAge := range p.Children {
		childAge := age - birthAge
		if childAge < 0 {
			continue
		}
		switch {
		case childAge <= 2:
			total = total.Add(p.ChildAllowance.Age0to2)
		case childAge <= 14:
			if i == 0 {
				total = total.Add(p.ChildAllowance.Age3to14)
			} else {
				total = total.Add(p.ChildAllowance.Age3to14SecondBorn)
			}
		}
	}
	return total
}

// EducationCostForChildAge returns the inflation-free annual education cost
// for one child of the given age, and whether it is a university-stage cost.
func (p *Plan) EducationCostForChildAge(childAge int) (money.Money, bool) {
	for _, stage := range p.EducationCosts {
		if stage.ChildAges.Contains(childAge) {
			cost := stage.AnnualCost.Sub(stage.Subsidy)
			if cost.IsNegative() {
				cost = money.Zero()
			}
			return cost, stage.University
		}
	}
	return money.Zero(), false
}
