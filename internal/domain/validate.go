package domain

import (
	"github.com/lifeplan/lifeplan-simulator/pkg/agerange"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// Validate checks the plan for internal consistency. It fails fast with a
// ConfigurationError; a plan that passes cannot produce a configuration
// failure mid-run.
func (p *Plan) Validate() error {
	b := p.BasicInfo
	if b.StartAge >= b.EndAge {
		return NewConfigurationError("basic_info", "start_age %d must be below end_age %d", b.StartAge, b.EndAge)
	}
	if b.StartAge < 0 {
		return NewConfigurationError("basic_info", "start_age %d must not be negative", b.StartAge)
	}
	if b.StartYear <= 0 {
		return NewConfigurationError("basic_info", "start_year is required")
	}

	if len(p.SalaryCurve) == 0 {
		return NewConfigurationError("salary_curve", "at least one salary band is required")
	}
	for i := 1; i < len(p.SalaryCurve); i++ {
		if p.SalaryCurve[i].FromAge <= p.SalaryCurve[i-1].FromAge {
			return NewConfigurationError("salary_curve", "bands must be sorted by ascending from_age")
		}
	}
	for _, band := range p.SalaryCurve {
		if band.BaseSalary.IsNegative() {
			return NewConfigurationError("salary_curve", "base_salary must not be negative")
		}
		if band.BonusMonths < 0 {
			return NewConfigurationError("salary_curve", "bonus_months must not be negative")
		}
	}

	// Phases must cover every simulated age exactly once.
	phaseRanges := make([]agerange.Range, len(p.Phases))
	for i, ph := range p.Phases {
		phaseRanges[i] = ph.Ages
	}
	if _, err := agerange.NewCoveringSet(phaseRanges, b.StartAge, b.EndAge+1); err != nil {
		return NewConfigurationError("phases", "%v", err)
	}
	for _, ph := range p.Phases {
		for category, amount := range ph.MonthlyExpenses {
			if amount.IsNegative() {
				return NewConfigurationError("phases", "phase %q: expense %q must not be negative", ph.Name, category)
			}
		}
	}

	if err := validateBands("spouse_income", p.SpouseIncome); err != nil {
		return err
	}
	if err := validateBands("housing_allowance", p.HousingAllowance); err != nil {
		return err
	}

	if err := p.validateAccounts(); err != nil {
		return err
	}
	if err := p.validateContributions(&p.Contributions.PreCap, "contribution_plan.pre_cap"); err != nil {
		return err
	}
	if err := p.validateContributions(&p.Contributions.PostCap, "contribution_plan.post_cap"); err != nil {
		return err
	}

	if err := p.validateTaxRules(); err != nil {
		return err
	}

	for i := 1; i < len(p.Children); i++ {
		if p.Children[i] < p.Children[i-1] {
			return NewConfigurationError("children", "birth ages must be ascending")
		}
	}

	eduRanges := make([]agerange.Range, len(p.EducationCosts))
	for i, stage := range p.EducationCosts {
		eduRanges[i] = stage.ChildAges
		if stage.AnnualCost.IsNegative() {
			return NewConfigurationError("education_costs", "annual_cost must not be negative")
		}
	}
	if _, err := agerange.NewSet(eduRanges); err != nil {
		return NewConfigurationError("education_costs", "%v", err)
	}

	if p.CompanyStock.Account != "" {
		spec := p.Account(p.CompanyStock.Account)
		if spec == nil {
			return NewConfigurationError("company_stock", "account %q is not declared", p.CompanyStock.Account)
		}
		if spec.Kind != KindCompanyStock {
			return NewConfigurationError("company_stock", "account %q must have kind %q", p.CompanyStock.Account, KindCompanyStock)
		}
		if p.CompanyStock.InitialPrice <= 0 {
			return NewConfigurationError("company_stock", "initial_price must be positive")
		}
	}

	if err := p.validateLifeEvents(); err != nil {
		return err
	}

	for name := range p.InitialBalances {
		if name != "cash" && p.Account(name) == nil {
			return NewConfigurationError("initial_balances", "account %q is not declared", name)
		}
	}
	if p.EmergencyReserve.IsNegative() {
		return NewConfigurationError("emergency_reserve", "must not be negative")
	}

	return nil
}

func validateBands(field string, bands []AgeBandAmount) error {
	ranges := make([]agerange.Range, len(bands))
	for i, b := range bands {
		ranges[i] = b.Ages
		if b.Monthly.IsNegative() {
			return NewConfigurationError(field, "monthly amount must not be negative")
		}
	}
	if _, err := agerange.NewSet(ranges); err != nil {
		return NewConfigurationError(field, "%v", err)
	}
	return nil
}

func (p *Plan) validateAccounts() error {
	seen := make(map[string]bool, len(p.Accounts))
	for _, a := range p.Accounts {
		if a.Name == "" {
			return NewConfigurationError("accounts", "account name is required")
		}
		if a.Name == "cash" {
			return NewConfigurationError("accounts", "the name %q is reserved", "cash")
		}
		if seen[a.Name] {
			return NewConfigurationError("accounts", "duplicate account %q", a.Name)
		}
		seen[a.Name] = true
		if a.AnnualCap != nil && a.AnnualCap.IsNegative() {
			return NewConfigurationError("accounts", "account %q: annual_cap must not be negative", a.Name)
		}
		if a.LifetimeCap != nil && a.LifetimeCap.IsNegative() {
			return NewConfigurationError("accounts", "account %q: lifetime_cap must not be negative", a.Name)
		}
		if a.OverflowTo != "" {
			if a.OverflowTo == a.Name {
				return NewConfigurationError("accounts", "account %q overflows to itself", a.Name)
			}
			if a.OverflowTo != "cash" && p.Account(a.OverflowTo) == nil {
				return NewConfigurationError("accounts", "account %q overflows to unknown account %q", a.Name, a.OverflowTo)
			}
		}
	}

	// Overflow chains must terminate.
	for _, a := range p.Accounts {
		visited := map[string]bool{a.Name: true}
		next := a.OverflowTo
		for next != "" && next != "cash" {
			if visited[next] {
				return NewConfigurationError("accounts", "overflow chain starting at %q forms a cycle", a.Name)
			}
			visited[next] = true
			spec := p.Account(next)
			if spec == nil {
				break
			}
			next = spec.OverflowTo
		}
	}
	return nil
}

func (p *Plan) validateContributions(alloc *Allocation, field string) error {
	check := func(name string, amount money.Money) error {
		if amount.IsNegative() {
			return NewConfigurationError(field, "contribution to %q must not be negative", name)
		}
		spec := p.Account(name)
		if spec == nil {
			return NewConfigurationError(field, "contribution targets unknown account %q", name)
		}
		// A capped contribution target without a fallback would silently
		// truncate; reject it up front.
		if (spec.AnnualCap != nil || spec.LifetimeCap != nil) && spec.OverflowTo == "" {
			return NewConfigurationError(field, "capped account %q needs overflow_to", name)
		}
		return nil
	}
	for name, amount := range alloc.Monthly {
		if err := check(name, amount); err != nil {
			return err
		}
	}
	for name, amount := range alloc.BonusPerPayment {
		if err := check(name, amount); err != nil {
			return err
		}
	}
	for name, pct := range alloc.MonthlyPercent {
		if pct < 0 || pct > 1 {
			return NewConfigurationError(field, "percent contribution to %q must be between 0 and 1", name)
		}
		if err := check(name, money.Zero()); err != nil {
			return err
		}
	}
	return nil
}

func (p *Plan) validateTaxRules() error {
	t := p.TaxRates
	if t.SocialInsuranceRate < 0 || t.SocialInsuranceRate >= 1 {
		return NewConfigurationError("tax_rates", "social_insurance_rate must be in [0, 1)")
	}
	if t.DividendTaxRate < 0 || t.DividendTaxRate >= 1 {
		return NewConfigurationError("tax_rates", "dividend_tax_rate must be in [0, 1)")
	}
	var prev *money.Money
	for i, bracket := range t.IncomeTaxBrackets {
		if bracket.Rate < 0 || bracket.Rate >= 1 {
			return NewConfigurationError("tax_rates", "bracket rate must be in [0, 1)")
		}
		if bracket.UpTo == nil {
			if i != len(t.IncomeTaxBrackets)-1 {
				return NewConfigurationError("tax_rates", "only the last bracket may be unbounded")
			}
			continue
		}
		if prev != nil && !bracket.UpTo.GreaterThan(*prev) {
			return NewConfigurationError("tax_rates", "bracket bounds must be strictly ascending")
		}
		prev = bracket.UpTo
	}
	return nil
}

func (p *Plan) validateLifeEvents() error {
	checkSources := func(field string, sources []string) error {
		for _, src := range sources {
			if src != "cash" && p.Account(src) == nil {
				return NewConfigurationError(field, "payment source %q is not declared", src)
			}
		}
		return nil
	}
	if ev := p.LifeEvents.Marriage; ev != nil {
		if ev.Cost.IsNegative() {
			return NewConfigurationError("life_events.marriage", "cost must not be negative")
		}
		if err := checkSources("life_events.marriage", ev.Sources); err != nil {
			return err
		}
	}
	if hp := p.LifeEvents.HomePurchase; hp != nil {
		if hp.DownPayment.IsNegative() || hp.ClosingCosts.IsNegative() {
			return NewConfigurationError("life_events.home_purchase", "amounts must not be negative")
		}
		if err := checkSources("life_events.home_purchase", hp.Sources); err != nil {
			return err
		}
	}
	for _, ev := range p.LifeEvents.Custom {
		if ev.Cost.IsNegative() {
			return NewConfigurationError("life_events.custom", "event %q: cost must not be negative", ev.Name)
		}
		if err := checkSources("life_events.custom", ev.Sources); err != nil {
			return err
		}
	}
	return nil
}
