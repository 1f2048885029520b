package calculation

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// Per-year sampled returns are clipped to keep single draws from wiping out
// or exploding a path. Education funds are held more conservatively: half
// the volatility and a tighter clip.
const (
	returnClipLow  = -0.5
	returnClipHigh = 1.5

	educationStdScale = 0.5
	educationClipLow  = -0.3
	educationClipHigh = 0.5

	// MaxReturnStdDev bounds the sampled volatility; anything above it is a
	// configuration mistake, not a scenario.
	MaxReturnStdDev = 1.0

	defaultHistogramBins = 50
)

// MonteCarloConfig parameterizes one Monte Carlo batch.
type MonteCarloConfig struct {
	Iterations   int
	ReturnStdDev float64

	// Base selects the starting point. BaseActual anchors the curves to the
	// latest record in Actuals.
	Base    domain.SeedBase
	Actuals []domain.ActualRecord

	// Seed makes the batch reproducible. Zero draws a time-based seed.
	Seed int64

	// Thresholds are final-asset targets to report success probabilities
	// for. HistogramBins defaults to 50 when zero.
	Thresholds    []money.Money
	HistogramBins int

	// Progress, when set, is called after each completed iteration. It may
	// be called from multiple goroutines.
	Progress func(completed, total int)
}

// MonteCarloEngine runs batches of randomized projections on top of a
// deterministic engine.
type MonteCarloEngine struct {
	engine *Engine
	logger Logger
}

// NewMonteCarloEngine wraps a deterministic engine.
func NewMonteCarloEngine(engine *Engine) *MonteCarloEngine {
	return &MonteCarloEngine{engine: engine, logger: engine.Logger}
}

// Run executes cfg.Iterations independent projections with per-account,
// per-year returns sampled from a normal distribution around each account's
// expected return, then reduces them to percentile curves, a final-asset
// histogram, and threshold probabilities. Iterations run concurrently,
// bounded by GOMAXPROCS; ctx cancellation stops the batch early.
func (m *MonteCarloEngine) Run(ctx context.Context, plan *domain.Plan, cfg MonteCarloConfig) (*domain.MonteCarloResult, error) {
	if err := m.validate(plan, cfg); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var offset money.Money
	offsetFromAge := -1
	if cfg.Base == domain.BaseActual {
		var err error
		offset, offsetFromAge, err = m.actualOffset(plan, cfg.Actuals)
		if err != nil {
			return nil, err
		}
	}

	years := plan.BasicInfo.Years()
	curves := make([][]float64, cfg.Iterations)
	finals := make([]float64, cfg.Iterations)

	var completed int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < cfg.Iterations; i++ {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			rng := rand.New(rand.NewSource(seed + int64(i)))
			overrides := m.sampleReturns(plan, rng, cfg.ReturnStdDev, years)
			result, err := m.engine.RunWithOverrides(plan, overrides)
			if err != nil {
				return err
			}
			curve := make([]float64, len(result.Yearly))
			for y, yearly := range result.Yearly {
				assets := yearly.AssetsEnd
				if offsetFromAge >= 0 && yearly.Age >= offsetFromAge {
					assets = assets.Add(offset)
				}
				curve[y] = assets.InexactFloat64()
			}
			curves[i] = curve
			finals[i] = curve[len(curve)-1]
			done := atomic.AddInt64(&completed, 1)
			if cfg.Progress != nil {
				cfg.Progress(int(done), cfg.Iterations)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return m.reduce(plan, cfg, curves, finals), nil
}

func (m *MonteCarloEngine) validate(plan *domain.Plan, cfg MonteCarloConfig) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if cfg.Iterations <= 0 {
		return domain.NewSamplingError("iterations must be positive, got %d", cfg.Iterations)
	}
	if cfg.ReturnStdDev < 0 || cfg.ReturnStdDev > MaxReturnStdDev {
		return domain.NewSamplingError("return std %g outside [0, %g]", cfg.ReturnStdDev, MaxReturnStdDev)
	}
	if cfg.HistogramBins < 0 {
		return domain.NewSamplingError("histogram bins must not be negative")
	}
	if cfg.Base == domain.BaseActual && len(cfg.Actuals) == 0 {
		return domain.NewSamplingError("base %q requires at least one actual record", domain.BaseActual)
	}
	return nil
}

// actualOffset runs the deterministic projection once and measures how far
// the latest observed cash balance sits from the plan's projection of the
// same month. The offset shifts every sampled curve from that age onward;
// unobserved months keep their plan-projected values.
func (m *MonteCarloEngine) actualOffset(plan *domain.Plan, actuals []domain.ActualRecord) (money.Money, int, error) {
	base, err := m.engine.Run(plan)
	if err != nil {
		return money.Zero(), -1, err
	}
	latest := actuals[0]
	for _, a := range actuals[1:] {
		if a.Year > latest.Year || (a.Year == latest.Year && a.Month > latest.Month) {
			latest = a
		}
	}
	for _, rec := range base.Monthly {
		if rec.Year == latest.Year && rec.Month == latest.Month {
			return latest.CashBalanceActual.Sub(rec.CashBalanceEnd), rec.Age, nil
		}
	}
	m.logger.Warnf("actual record %d-%02d is outside the projection horizon; ignoring offset", latest.Year, latest.Month)
	return money.Zero(), -1, nil
}

// sampleReturns draws one full return path: one rate per account per year.
// Draw order is fixed (declaration order, then year) so a given seed always
// produces the same path.
func (m *MonteCarloEngine) sampleReturns(plan *domain.Plan, rng *rand.Rand, std float64, years int) ReturnOverrides {
	overrides := make(ReturnOverrides, len(plan.Accounts))
	for _, spec := range plan.Accounts {
		mean := spec.ExpectedReturn
		accountStd := std
		low, high := returnClipLow, returnClipHigh
		if spec.Kind == domain.KindEducationFund {
			accountStd = std * educationStdScale
			low, high = educationClipLow, educationClipHigh
		}
		if spec.Name == plan.CompanyStock.Account {
			mean = plan.CompanyStock.PriceGrowthRate
		}
		series := make([]float64, years)
		for y := 0; y < years; y++ {
			series[y] = clip(mean+rng.NormFloat64()*accountStd, low, high)
		}
		overrides[spec.Name] = series
	}
	return overrides
}

func clip(v, low, high float64) float64 {
	return math.Max(low, math.Min(high, v))
}

func (m *MonteCarloEngine) reduce(plan *domain.Plan, cfg MonteCarloConfig, curves [][]float64, finals []float64) *domain.MonteCarloResult {
	years := plan.BasicInfo.Years()
	ages := make([]int, years)
	for y := 0; y < years; y++ {
		ages[y] = plan.BasicInfo.StartAge + y
	}

	out := &domain.MonteCarloResult{
		Curves: domain.PercentileCurves{
			Ages: ages,
			P5:   make([]money.Money, years),
			P25:  make([]money.Money, years),
			P50:  make([]money.Money, years),
			P75:  make([]money.Money, years),
			P95:  make([]money.Money, years),
			Mean: make([]money.Money, years),
		},
		NSimulations: cfg.Iterations,
		ReturnStdDev: cfg.ReturnStdDev,
		Base:         cfg.Base.String(),
	}

	column := make([]float64, len(curves))
	for y := 0; y < years; y++ {
		sum := 0.0
		for i, curve := range curves {
			column[i] = curve[y]
			sum += curve[y]
		}
		sort.Float64s(column)
		out.Curves.P5[y] = toMoney(percentile(column, 5))
		out.Curves.P25[y] = toMoney(percentile(column, 25))
		out.Curves.P50[y] = toMoney(percentile(column, 50))
		out.Curves.P75[y] = toMoney(percentile(column, 75))
		out.Curves.P95[y] = toMoney(percentile(column, 95))
		out.Curves.Mean[y] = toMoney(sum / float64(len(curves)))
	}

	sortedFinals := append([]float64(nil), finals...)
	sort.Float64s(sortedFinals)
	sum := 0.0
	for _, v := range sortedFinals {
		sum += v
	}
	out.FinalP5 = toMoney(percentile(sortedFinals, 5))
	out.FinalP25 = toMoney(percentile(sortedFinals, 25))
	out.FinalP50 = toMoney(percentile(sortedFinals, 50))
	out.FinalP75 = toMoney(percentile(sortedFinals, 75))
	out.FinalP95 = toMoney(percentile(sortedFinals, 95))
	out.FinalMean = toMoney(sum / float64(len(sortedFinals)))

	bins := cfg.HistogramBins
	if bins == 0 {
		bins = defaultHistogramBins
	}
	out.Histogram = histogram(sortedFinals, bins)

	for _, threshold := range cfg.Thresholds {
		target := threshold.InexactFloat64()
		met := 0
		for _, v := range sortedFinals {
			if v >= target {
				met++
			}
		}
		out.Thresholds = append(out.Thresholds, domain.ThresholdProbability{
			Threshold:   threshold,
			Probability: float64(met) / float64(len(sortedFinals)),
		})
	}
	return out
}

// percentile interpolates linearly between the two nearest ranks of an
// already sorted sample.
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func histogram(sorted []float64, bins int) []domain.HistogramBin {
	if len(sorted) == 0 || bins <= 0 {
		return nil
	}
	low, high := sorted[0], sorted[len(sorted)-1]
	if low == high {
		return []domain.HistogramBin{{Low: toMoney(low), High: toMoney(high), Count: len(sorted)}}
	}
	width := (high - low) / float64(bins)
	out := make([]domain.HistogramBin, bins)
	for b := 0; b < bins; b++ {
		out[b] = domain.HistogramBin{
			Low:  toMoney(low + float64(b)*width),
			High: toMoney(low + float64(b+1)*width),
		}
	}
	for _, v := range sorted {
		b := int((v - low) / width)
		if b >= bins {
			b = bins - 1
		}
		out[b].Count++
	}
	return out
}

func toMoney(v float64) money.Money {
	return money.NewFromFloat(v).Round()
}
