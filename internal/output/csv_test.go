package output

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/config"
)

func TestWriteCSVShape(t *testing.T) {
	plan := config.DefaultPlan()
	result, err := calculation.NewEngine().Run(plan)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, plan, result))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+len(result.Monthly), "header plus one row per month")

	header := rows[0]
	assert.Equal(t, "year", header[0])
	assert.Contains(t, header, "salary_net")
	assert.Contains(t, header, "invest_nisa_tsumitate")
	assert.Contains(t, header, "balance_company_stock")
	assert.Contains(t, header, "assets_total")
	for i, row := range rows[1:] {
		assert.Len(t, row, len(header), "row %d", i)
	}

	first := rows[1]
	assert.Equal(t, "2026", first[0])
	assert.Equal(t, "1", first[1])
	assert.Equal(t, "30", first[2])
}

func TestWriteCSVExpenseCategoriesAreStable(t *testing.T) {
	plan := config.DefaultPlan()
	result, err := calculation.NewEngine().Run(plan)
	require.NoError(t, err)

	var first, second bytes.Buffer
	require.NoError(t, WriteCSV(&first, plan, result))
	require.NoError(t, WriteCSV(&second, plan, result))
	assert.Equal(t, first.String(), second.String(), "column order is deterministic")
}

func TestWriteYearlyCSV(t *testing.T) {
	plan := config.DefaultPlan()
	result, err := calculation.NewEngine().Run(plan)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteYearlyCSV(&buf, plan, result))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+len(result.Yearly))
	assert.Contains(t, rows[0], "reserve_depleted")
}

func TestFormatSummary(t *testing.T) {
	plan := config.DefaultPlan()
	result, err := calculation.NewEngine().Run(plan)
	require.NoError(t, err)

	text := FormatSummary(result)
	assert.Contains(t, text, "LIFETIME PROJECTION")
	assert.Contains(t, text, "Final assets at age 60")
	assert.Equal(t, len(result.Yearly)+8, strings.Count(text, "\n"))
}
