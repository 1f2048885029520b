package calculation

import (
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// NetAnnualIncome converts gross annual pay to take-home pay. Social
// insurance comes off the taxable total first, then the bracket rate for
// the taxable total applies to the remainder. The housing allowance is
// taxable, so it is folded in here rather than reported as untaxed income.
func NetAnnualIncome(rules domain.TaxRules, grossAnnual, allowanceAnnual money.Money) money.Money {
	taxable := grossAnnual.Add(allowanceAnnual)
	if !taxable.IsPositive() {
		return taxable
	}
	social := taxable.MulFloat(rules.SocialInsuranceRate)
	taxBase := taxable.Sub(social)
	incomeTax := taxBase.MulFloat(bracketRateFor(rules, taxable))
	return taxable.Sub(social).Sub(incomeTax).Round()
}

// bracketRateFor returns the tax rate for the bracket containing the taxable
// total. The whole amount is taxed at that single rate, not progressively
// per slice.
func bracketRateFor(rules domain.TaxRules, taxable money.Money) float64 {
	for _, bracket := range rules.IncomeTaxBrackets {
		if bracket.UpTo == nil || taxable.LessThanOrEqual(*bracket.UpTo) {
			return bracket.Rate
		}
	}
	return 0
}

// NetDividend applies the dividend withholding rate to a gross dividend.
func NetDividend(rules domain.TaxRules, gross money.Money) money.Money {
	return gross.MulFloat(1 - rules.DividendTaxRate).Round()
}
