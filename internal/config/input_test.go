package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

const minimalYAML = `
basic_info:
  start_age: 30
  end_age: 31
  start_year: 2030
salary_curve:
  - from_age: 30
    base_salary: 300000
    bonus_months: 2
phases:
  - name: base
    ages: {from: 30, to: 32}
    monthly_expenses:
      living: 200000
accounts:
  - name: fund
    kind: taxable
    expected_return: 0.04
contribution_plan:
  pre_cap:
    monthly:
      fund: 50000
tax_rates:
  social_insurance_rate: 0.15
  income_tax_brackets:
    - up_to: 4000000
      rate: 0.1
    - rate: 0.2
initial_balances:
  cash: 1000000
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeTemp(t, "plan.yaml", minimalYAML)

	plan, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 30, plan.BasicInfo.StartAge)
	assert.Equal(t, 2030, plan.BasicInfo.StartYear)
	require.Len(t, plan.SalaryCurve, 1)
	assert.True(t, plan.SalaryCurve[0].BaseSalary.Equal(money.New(300_000)))
	assert.Equal(t, 2.0, plan.SalaryCurve[0].BonusMonths)
	require.Len(t, plan.Accounts, 1)
	assert.Equal(t, domain.KindTaxable, plan.Accounts[0].Kind)
	assert.True(t, plan.Contributions.PreCap.Monthly["fund"].Equal(money.New(50_000)))
	require.Len(t, plan.TaxRates.IncomeTaxBrackets, 2)
	require.NotNil(t, plan.TaxRates.IncomeTaxBrackets[0].UpTo)
	assert.True(t, plan.InitialBalances["cash"].Equal(money.New(1_000_000)))
}

func TestLoadFromFileRejectsInvalidPlan(t *testing.T) {
	broken := minimalYAML + `
emergency_reserve: -1
`
	path := writeTemp(t, "plan.yaml", broken)

	_, err := NewInputParser().LoadFromFile(path)
	require.Error(t, err)
	var confErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &confErr)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile("/nonexistent/plan.yaml")
	assert.Error(t, err)
}

func TestLoadFromBytesJSON(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadFromBytes([]byte("{}"))
	assert.Error(t, err, "an empty plan fails validation")

	_, err = parser.LoadFromBytes([]byte("not json"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	parser := NewInputParser()
	plan := DefaultPlan()
	path := filepath.Join(t.TempDir(), "plan.yaml")

	require.NoError(t, parser.SaveToFile(plan, path))
	loaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, plan.BasicInfo, loaded.BasicInfo)
	assert.Equal(t, len(plan.Accounts), len(loaded.Accounts))
	assert.True(t, loaded.EmergencyReserve.Equal(plan.EmergencyReserve))
}

func TestDefaultPlanValidates(t *testing.T) {
	require.NoError(t, DefaultPlan().Validate())
}

func TestLoadOrDefault(t *testing.T) {
	parser := NewInputParser()

	plan, err := parser.LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan().BasicInfo, plan.BasicInfo)

	plan, err = parser.LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPlan().BasicInfo, plan.BasicInfo)

	path := writeTemp(t, "plan.yaml", minimalYAML)
	plan, err = parser.LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, 31, plan.BasicInfo.EndAge)
}
