package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

func TestEducationSummary(t *testing.T) {
	plan := testPlan()
	plan.Children = []int{27} // child is 3 at age 30
	plan.ChildAllowance = domain.ChildAllowance{
		Age0to2:  money.New(15_000),
		Age3to14: money.New(10_000),
	}
	plan.EducationCosts = []domain.EducationStage{
		{ChildAges: agerangeRange(3, 6), AnnualCost: money.New(400_000), Subsidy: money.New(100_000)},
	}
	engine := NewEngine()

	summary := engine.EducationSummary(plan)
	require.Len(t, summary.Children, 1)
	child := summary.Children[0]

	// Ages 30 and 31: two years of the subsidized stage.
	require.Len(t, child.Years, 2)
	assert.True(t, child.TotalCost.Equal(money.New(600_000)))
	assert.True(t, child.AllowanceTotal.Equal(money.New(240_000)), "two years of 10000/month")
	assert.True(t, summary.NetCost.Equal(money.New(360_000)))
}

func TestEducationSummaryNoChildren(t *testing.T) {
	summary := NewEngine().EducationSummary(testPlan())
	assert.Empty(t, summary.Children)
	assert.True(t, summary.TotalCost.IsZero())
}

func TestDividendSummary(t *testing.T) {
	plan := testPlan()
	plan.Accounts[0].DividendYield = 0.02
	plan.TaxRates.DividendTaxRate = 0.20
	engine := NewEngine()

	result, err := engine.Run(plan)
	require.NoError(t, err)

	summary := engine.DividendSummary(plan, result)
	require.Len(t, summary.Accounts, 1)
	// Closing fund balance is 1200000: 2% yield, 20% withholding.
	assert.True(t, summary.Accounts[0].GrossAnnual.Equal(money.New(24_000)))
	assert.True(t, summary.Accounts[0].NetAnnual.Equal(money.New(19_200)))
	assert.Len(t, summary.History, 2)
}

func TestDividendSummaryEmptyRun(t *testing.T) {
	summary := NewEngine().DividendSummary(testPlan(), &domain.SimulationResult{})
	assert.Empty(t, summary.Accounts)
	assert.True(t, summary.GrossAnnual.IsZero())
}

func TestRetirementProjectionDrawdown(t *testing.T) {
	plan := testPlan()
	plan.Retirement = domain.RetirementSettings{
		ProjectToAge:    35,
		MonthlyExpenses: money.New(100_000),
		DrawdownReturn:  0,
	}
	plan.Pension = domain.PensionRules{StartAge: 34, MonthlyAmount: money.New(100_000)}
	engine := NewEngine()

	result, err := engine.Run(plan)
	require.NoError(t, err)

	projection := engine.RetirementProjection(plan, result)
	assert.Equal(t, 32, projection.StartAge)
	assert.True(t, projection.StartAssets.Equal(money.New(2_400_000)))
	require.Len(t, projection.Years, 4)

	// Ages 32-33 draw 1200000/year; from 34 the pension covers expenses.
	assert.True(t, projection.Years[0].Withdrawal.Equal(money.New(1_200_000)))
	assert.True(t, projection.Years[1].AssetsEnd.IsZero())
	assert.True(t, projection.Years[2].Withdrawal.IsZero())
	assert.Equal(t, 0, projection.DepletionAge)
}

func TestRetirementProjectionDepletes(t *testing.T) {
	plan := testPlan()
	plan.Retirement = domain.RetirementSettings{
		ProjectToAge:    40,
		MonthlyExpenses: money.New(300_000),
	}
	engine := NewEngine()

	result, err := engine.Run(plan)
	require.NoError(t, err)

	projection := engine.RetirementProjection(plan, result)
	// 2.4M starting assets, 3.6M/year expenses, no pension.
	assert.Equal(t, 32, projection.DepletionAge)
	assert.True(t, projection.Years[0].Depleted)
}

func TestDiff(t *testing.T) {
	plan := testPlan()
	engine := NewEngine()

	base, err := engine.Run(plan)
	require.NoError(t, err)

	richer := testPlan()
	richer.Contributions.PreCap.Monthly["fund"] = money.New(60_000)
	other, err := engine.Run(richer)
	require.NoError(t, err)

	diff := Diff(other, base)
	require.Len(t, diff.Ages, 2)
	// 10000 more per month accumulates to 240000 over two years, but the
	// cash side shrinks by the same amount: the asset delta is zero.
	assert.True(t, diff.FinalDelta.IsZero())
	assert.True(t, diff.AssetsA[1].Equal(diff.AssetsB[1]))
}

func TestDiffWithReturns(t *testing.T) {
	plan := testPlan()
	engine := NewEngine()
	base, err := engine.Run(plan)
	require.NoError(t, err)

	growing := testPlan()
	growing.Accounts[0].ExpectedReturn = 0.10
	other, err := engine.Run(growing)
	require.NoError(t, err)

	diff := Diff(other, base)
	assert.True(t, diff.FinalDelta.IsPositive())
}

func TestYearDetail(t *testing.T) {
	plan := testPlan()
	engine := NewEngine()
	result, err := engine.Run(plan)
	require.NoError(t, err)

	months := YearDetail(result, 31)
	require.Len(t, months, 12)
	assert.Equal(t, 1, months[0].Month)
	assert.Equal(t, 12, months[11].Month)

	assert.Empty(t, YearDetail(result, 99))
}

func TestYearAssetsDetail(t *testing.T) {
	plan := testPlan()
	plan.InitialBalances = map[string]money.Money{"fund": money.New(100_000)}
	engine := NewEngine()
	result, err := engine.Run(plan)
	require.NoError(t, err)

	first := YearAssetsDetail(plan, result, 30)
	require.NotNil(t, first)
	assert.True(t, first.Start["fund"].Equal(money.New(100_000)), "first year opens at the initial balance")
	assert.True(t, first.End["fund"].Equal(money.New(700_000)))

	second := YearAssetsDetail(plan, result, 31)
	require.NotNil(t, second)
	assert.True(t, second.Start["fund"].Equal(money.New(700_000)))

	assert.Nil(t, YearAssetsDetail(plan, result, 99))
}
