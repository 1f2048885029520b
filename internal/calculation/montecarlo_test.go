package calculation

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 3.0, percentile(sorted, 50))
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.Equal(t, 5.0, percentile(sorted, 100))
	// rank 0.05*4 = 0.2: interpolate between the first two values.
	assert.InDelta(t, 1.2, percentile(sorted, 5), 1e-9)
	assert.InDelta(t, 2.0, percentile(sorted, 25), 1e-9)

	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]float64{7}, 95))
}

func TestHistogramCountsEveryOutcome(t *testing.T) {
	sorted := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}
	bins := histogram(sorted, 5)
	require.Len(t, bins, 5)

	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	assert.Equal(t, len(sorted), total)
	// The maximum falls into the last bin, not past it.
	assert.GreaterOrEqual(t, bins[4].Count, 1)
}

func TestHistogramDegenerateDistribution(t *testing.T) {
	bins := histogram([]float64{5, 5, 5}, 50)
	require.Len(t, bins, 1)
	assert.Equal(t, 3, bins[0].Count)
}

func TestMonteCarloZeroVolatilityMatchesDeterministic(t *testing.T) {
	plan := testPlan()
	plan.Accounts[0].ExpectedReturn = 0.05
	engine := NewEngine()
	mc := NewMonteCarloEngine(engine)

	base, err := engine.Run(plan)
	require.NoError(t, err)

	result, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   20,
		ReturnStdDev: 0,
		Seed:         1,
	})
	require.NoError(t, err)

	want := base.FinalAssets().InexactFloat64()
	assert.InDelta(t, want, result.FinalP50.InexactFloat64(), 1.0)
	assert.InDelta(t, want, result.FinalMean.InexactFloat64(), 1.0)
	assert.Equal(t, 20, result.NSimulations)
}

func TestMonteCarloMeanConvergesToDeterministic(t *testing.T) {
	plan := testPlan()
	engine := NewEngine()
	mc := NewMonteCarloEngine(engine)

	base, err := engine.Run(plan)
	require.NoError(t, err)

	result, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   5000,
		ReturnStdDev: 0.1,
		Seed:         123,
	})
	require.NoError(t, err)

	// With symmetric return noise the batch mean settles on the expected-
	// return outcome as the sample grows.
	want := base.FinalAssets().InexactFloat64()
	assert.InEpsilon(t, want, result.FinalMean.InexactFloat64(), 0.01)
}

func TestMonteCarloReproducibleWithSeed(t *testing.T) {
	plan := testPlan()
	plan.Accounts[0].ExpectedReturn = 0.05
	mc := NewMonteCarloEngine(NewEngine())
	cfg := MonteCarloConfig{Iterations: 50, ReturnStdDev: 0.2, Seed: 42}

	first, err := mc.Run(context.Background(), plan, cfg)
	require.NoError(t, err)
	second, err := mc.Run(context.Background(), plan, cfg)
	require.NoError(t, err)

	assert.True(t, first.FinalP50.Equal(second.FinalP50))
	assert.True(t, first.FinalMean.Equal(second.FinalMean))
}

func TestMonteCarloPercentilesAreOrdered(t *testing.T) {
	plan := testPlan()
	plan.Accounts[0].ExpectedReturn = 0.05
	mc := NewMonteCarloEngine(NewEngine())

	result, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   200,
		ReturnStdDev: 0.2,
		Seed:         7,
	})
	require.NoError(t, err)

	assert.True(t, result.FinalP5.LessThanOrEqual(result.FinalP25))
	assert.True(t, result.FinalP25.LessThanOrEqual(result.FinalP50))
	assert.True(t, result.FinalP50.LessThanOrEqual(result.FinalP75))
	assert.True(t, result.FinalP75.LessThanOrEqual(result.FinalP95))
	for i := range result.Curves.Ages {
		assert.True(t, result.Curves.P5[i].LessThanOrEqual(result.Curves.P50[i]))
		assert.True(t, result.Curves.P50[i].LessThanOrEqual(result.Curves.P95[i]))
	}
}

func TestMonteCarloThresholds(t *testing.T) {
	plan := testPlan()
	mc := NewMonteCarloEngine(NewEngine())

	result, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   30,
		ReturnStdDev: 0.1,
		Seed:         3,
		Thresholds:   []money.Money{money.Zero(), money.New(1_000_000_000)},
	})
	require.NoError(t, err)

	require.Len(t, result.Thresholds, 2)
	assert.Equal(t, 1.0, result.Thresholds[0].Probability, "every run clears zero")
	assert.Equal(t, 0.0, result.Thresholds[1].Probability, "no run reaches a billion")
}

func TestMonteCarloParameterValidation(t *testing.T) {
	plan := testPlan()
	mc := NewMonteCarloEngine(NewEngine())

	tests := []struct {
		name string
		cfg  MonteCarloConfig
	}{
		{"zero iterations", MonteCarloConfig{Iterations: 0, ReturnStdDev: 0.1}},
		{"negative std", MonteCarloConfig{Iterations: 10, ReturnStdDev: -0.1}},
		{"std above bound", MonteCarloConfig{Iterations: 10, ReturnStdDev: 1.5}},
		{"negative bins", MonteCarloConfig{Iterations: 10, ReturnStdDev: 0.1, HistogramBins: -1}},
		{"actual base without actuals", MonteCarloConfig{Iterations: 10, ReturnStdDev: 0.1, Base: domain.BaseActual}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mc.Run(context.Background(), plan, tt.cfg)
			require.Error(t, err)
			var sampErr *domain.SamplingError
			assert.ErrorAs(t, err, &sampErr)
		})
	}
}

func TestMonteCarloCancellation(t *testing.T) {
	plan := testPlan()
	mc := NewMonteCarloEngine(NewEngine())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mc.Run(ctx, plan, MonteCarloConfig{Iterations: 1000, ReturnStdDev: 0.1, Seed: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonteCarloProgressReachesTotal(t *testing.T) {
	plan := testPlan()
	mc := NewMonteCarloEngine(NewEngine())

	var max int64
	_, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   25,
		ReturnStdDev: 0,
		Seed:         1,
		Progress: func(completed, total int) {
			for {
				old := atomic.LoadInt64(&max)
				if int64(completed) <= old || atomic.CompareAndSwapInt64(&max, old, int64(completed)) {
					return
				}
			}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), atomic.LoadInt64(&max))
}

func TestMonteCarloActualBaseShiftsCurves(t *testing.T) {
	plan := testPlan()
	engine := NewEngine()
	mc := NewMonteCarloEngine(engine)

	base, err := engine.Run(plan)
	require.NoError(t, err)
	observed := base.Monthly[5]

	actual := domain.ActualRecord{
		Year:              observed.Year,
		Month:             observed.Month,
		Age:               observed.Age,
		CashBalanceActual: observed.CashBalanceEnd.Add(money.New(100_000)),
	}

	shifted, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   10,
		ReturnStdDev: 0,
		Seed:         1,
		Base:         domain.BaseActual,
		Actuals:      []domain.ActualRecord{actual},
	})
	require.NoError(t, err)

	unshifted, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   10,
		ReturnStdDev: 0,
		Seed:         1,
	})
	require.NoError(t, err)

	delta := shifted.FinalP50.Sub(unshifted.FinalP50)
	assert.InDelta(t, 100_000, delta.InexactFloat64(), 1.0)
	assert.Equal(t, "actual", shifted.Base)
	assert.Equal(t, "plan", unshifted.Base)
}

func TestSampleReturnsClipped(t *testing.T) {
	plan := testPlan()
	plan.Accounts = append(plan.Accounts, domain.AccountSpec{Name: "edu", Kind: domain.KindEducationFund})
	mc := NewMonteCarloEngine(NewEngine())

	result, err := mc.Run(context.Background(), plan, MonteCarloConfig{
		Iterations:   50,
		ReturnStdDev: 1.0,
		Seed:         9,
	})
	require.NoError(t, err)
	// Even at extreme volatility every outcome stays finite and the batch
	// completes; the clips bound each sampled year.
	assert.Equal(t, 50, result.NSimulations)
	assert.False(t, result.FinalP95.LessThan(result.FinalP5))
}
