package config

import (
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/agerange"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

func limit(value int64) *money.Money {
	m := money.New(value)
	return &m
}

// DefaultPlan returns the built-in plan used when no plan file is supplied.
// It models a dual-income household with two children, a home purchase at
// 35, and NISA-first investing.
func DefaultPlan() *domain.Plan {
	return &domain.Plan{
		BasicInfo: domain.BasicInfo{
			StartAge:    30,
			EndAge:      60,
			StartYear:   2026,
			MarriageAge: 32,
		},
		SalaryCurve: []domain.SalaryBand{
			{FromAge: 30, BaseSalary: money.New(600_000), BonusMonths: 4.0},
			{FromAge: 40, BaseSalary: money.New(750_000), BonusMonths: 4.5},
			{FromAge: 50, BaseSalary: money.New(850_000), BonusMonths: 5.0},
		},
		SpouseIncome: []domain.AgeBandAmount{
			{Ages: agerange.Range{From: 32, To: 61}, Monthly: money.New(150_000)},
		},
		HousingAllowance: []domain.AgeBandAmount{
			{Ages: agerange.Range{From: 30, To: 35}, Monthly: money.New(30_000)},
		},
		HousingCosts: []domain.HousingCostBand{
			{Ages: agerange.Range{From: 30, To: 35}, Rent: money.New(150_000), Utilities: money.New(25_000)},
			{Ages: agerange.Range{From: 35, To: 61}, Mortgage: money.New(180_000), Utilities: money.New(30_000)},
		},
		Phases: []domain.Phase{
			{
				Name: "young_family",
				Ages: agerange.Range{From: 30, To: 40},
				MonthlyExpenses: map[string]money.Money{
					"groceries": money.New(80_000),
					"dining":    money.New(30_000),
					"transport": money.New(15_000),
					"insurance": money.New(20_000),
					"leisure":   money.New(30_000),
					"misc":      money.New(20_000),
				},
			},
			{
				Name: "school_years",
				Ages: agerange.Range{From: 40, To: 50},
				MonthlyExpenses: map[string]money.Money{
					"groceries": money.New(100_000),
					"dining":    money.New(25_000),
					"transport": money.New(20_000),
					"insurance": money.New(25_000),
					"leisure":   money.New(25_000),
					"misc":      money.New(25_000),
				},
			},
			{
				Name: "pre_retirement",
				Ages: agerange.Range{From: 50, To: 61},
				MonthlyExpenses: map[string]money.Money{
					"groceries": money.New(90_000),
					"dining":    money.New(30_000),
					"transport": money.New(15_000),
					"insurance": money.New(30_000),
					"leisure":   money.New(40_000),
					"misc":      money.New(20_000),
				},
			},
		},
		Accounts: []domain.AccountSpec{
			{
				Name:           "nisa_tsumitate",
				Kind:           domain.KindNISATsumitate,
				ExpectedReturn: 0.05,
				AnnualCap:      limit(1_200_000),
				LifetimeCap:    limit(18_000_000),
				OverflowTo:     "taxable",
			},
			{
				Name:           "nisa_growth",
				Kind:           domain.KindNISAGrowth,
				ExpectedReturn: 0.05,
				AnnualCap:      limit(2_400_000),
				OverflowTo:     "taxable",
			},
			{
				Name:           "spouse_nisa",
				Kind:           domain.KindNISATsumitate,
				ExpectedReturn: 0.05,
				AnnualCap:      limit(1_200_000),
				LifetimeCap:    limit(18_000_000),
				OverflowTo:     "taxable",
			},
			{
				Name:           "taxable",
				Kind:           domain.KindTaxable,
				ExpectedReturn: 0.04,
				DividendYield:  0.02,
			},
			{
				Name:           "education_fund",
				Kind:           domain.KindEducationFund,
				ExpectedReturn: 0.02,
			},
			{
				Name: "company_stock",
				Kind: domain.KindCompanyStock,
			},
			{
				Name:           "child1_nisa",
				Kind:           domain.KindChildNISA,
				ExpectedReturn: 0.04,
				AnnualCap:      limit(800_000),
				OverflowTo:     "education_fund",
				ChildIndex:     1,
			},
			{
				Name:           "child2_nisa",
				Kind:           domain.KindChildNISA,
				ExpectedReturn: 0.04,
				AnnualCap:      limit(800_000),
				OverflowTo:     "education_fund",
				ChildIndex:     2,
			},
		},
		Contributions: domain.ContributionPlan{
			PreCap: domain.Allocation{
				Monthly: map[string]money.Money{
					"nisa_tsumitate": money.New(100_000),
					"spouse_nisa":    money.New(50_000),
					"company_stock":  money.New(20_000),
					"child1_nisa":    money.New(10_000),
					"child2_nisa":    money.New(10_000),
					"education_fund": money.New(20_000),
				},
				BonusPerPayment: map[string]money.Money{
					"nisa_growth": money.New(300_000),
				},
			},
			PostCap: domain.Allocation{
				Monthly: map[string]money.Money{
					"taxable":        money.New(150_000),
					"company_stock":  money.New(20_000),
					"education_fund": money.New(20_000),
				},
				BonusPerPayment: map[string]money.Money{
					"taxable": money.New(300_000),
				},
			},
		},
		LifeEvents: domain.LifeEvents{
			Marriage: &domain.EventSpec{
				Age:     32,
				Cost:    money.New(3_000_000),
				Sources: []string{"taxable"},
			},
			HomePurchase: &domain.HomePurchase{
				Age:          35,
				DownPayment:  money.New(10_000_000),
				ClosingCosts: money.New(3_000_000),
				Sources:      []string{"nisa_growth", "taxable"},
			},
		},
		Pension: domain.PensionRules{
			StartAge:      65,
			MonthlyAmount: money.New(220_000),
		},
		Retirement: domain.RetirementSettings{
			ProjectToAge:    90,
			MonthlyExpenses: money.New(300_000),
			DrawdownReturn:  0.02,
		},
		TaxRates: domain.TaxRules{
			SocialInsuranceRate: 0.15,
			IncomeTaxBrackets: []domain.TaxBracket{
				{UpTo: limit(4_000_000), Rate: 0.15},
				{UpTo: limit(8_000_000), Rate: 0.20},
				{UpTo: limit(12_000_000), Rate: 0.23},
				{UpTo: limit(20_000_000), Rate: 0.28},
				{Rate: 0.33},
			},
			DividendTaxRate: 0.20315,
		},
		Inflation: domain.InflationSettings{
			Enabled:       true,
			LivingRate:    0.01,
			EducationRate: 0.02,
		},
		Children: []int{32, 35},
		ChildAllowance: domain.ChildAllowance{
			Age0to2:            money.New(15_000),
			Age3to14:           money.New(10_000),
			Age3to14SecondBorn: money.New(15_000),
		},
		EducationCosts: []domain.EducationStage{
			{ChildAges: agerange.Range{From: 3, To: 6}, AnnualCost: money.New(400_000), Subsidy: money.New(120_000)},
			{ChildAges: agerange.Range{From: 6, To: 12}, AnnualCost: money.New(350_000)},
			{ChildAges: agerange.Range{From: 12, To: 15}, AnnualCost: money.New(500_000)},
			{ChildAges: agerange.Range{From: 15, To: 18}, AnnualCost: money.New(600_000)},
			{ChildAges: agerange.Range{From: 18, To: 22}, AnnualCost: money.New(1_500_000), University: true},
		},
		CompanyStock: domain.CompanyStock{
			Account:         "company_stock",
			InitialPrice:    2500,
			PriceGrowthRate: 0.03,
			DividendYield:   0.03,
			IncentiveRate:   0.10,
		},
		DividendPolicy: []domain.AgeBandRate{
			{Ages: agerange.Range{From: 30, To: 50}, Rate: 1.0},
			{Ages: agerange.Range{From: 50, To: 55}, Rate: 0.5},
			{Ages: agerange.Range{From: 55, To: 61}, Rate: 0.0},
		},
		EmergencyReserve: money.New(3_000_000),
		InitialBalances: map[string]money.Money{
			"cash":           money.New(5_000_000),
			"taxable":        money.New(2_000_000),
			"nisa_tsumitate": money.New(1_500_000),
		},
	}
}
