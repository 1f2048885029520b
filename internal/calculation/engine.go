package calculation

// Engine builds deterministic household projections. An Engine is stateless
// and safe for concurrent use; each run threads its own account state.
type Engine struct {
	Debug  bool
	Logger Logger
}

// NewEngine creates an engine with no-op logging.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// NewEngineWithLogger creates an engine that logs through the given logger.
func NewEngineWithLogger(logger Logger) *Engine {
	return &Engine{Logger: logger}
}

// ReturnOverrides maps an account name to per-year return overrides, indexed
// by year offset from the start age. Accounts and years without an override
// use the account's expected return.
type ReturnOverrides map[string][]float64

func (o ReturnOverrides) rate(account string, yearIndex int, fallback float64) float64 {
	if o == nil {
		return fallback
	}
	series, ok := o[account]
	if !ok || yearIndex >= len(series) {
		return fallback
	}
	return series[yearIndex]
}
