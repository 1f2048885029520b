package domain

import (
	"github.com/shopspring/decimal"

	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// AccountState carries the mutable balances threaded month to month through
// a run. Each run owns its own state; nothing is shared between runs.
type AccountState struct {
	Cash     money.Money
	Balances map[string]money.Money

	// Contribution counters for cap accounting. Annual counters reset at
	// each year boundary; lifetime counters never reset.
	ContribAnnual   map[string]money.Money
	ContribLifetime map[string]money.Money

	// Company stock position.
	StockShares decimal.Decimal
	StockPrice  decimal.Decimal
}

// NewAccountState builds the month-1 state from the plan's initial
// balances.
func NewAccountState(plan *Plan) *AccountState {
	s := &AccountState{
		Balances:        make(map[string]money.Money, len(plan.Accounts)),
		ContribAnnual:   make(map[string]money.Money, len(plan.Accounts)),
		ContribLifetime: make(map[string]money.Money, len(plan.Accounts)),
		StockPrice:      decimal.NewFromFloat(plan.CompanyStock.InitialPrice),
	}
	for _, a := range plan.Accounts {
		s.Balances[a.Name] = money.Zero()
		s.ContribAnnual[a.Name] = money.Zero()
		s.ContribLifetime[a.Name] = money.Zero()
	}
	for name, balance := range plan.InitialBalances {
		if name == "cash" {
			s.Cash = balance
			continue
		}
		s.Balances[name] = balance
	}
	if plan.CompanyStock.Account != "" && plan.CompanyStock.InitialPrice > 0 {
		if bal, ok := s.Balances[plan.CompanyStock.Account]; ok && bal.IsPositive() {
			s.StockShares = bal.Decimal.Div(s.StockPrice)
		}
	}
	return s
}

// Clone returns a deep copy.
func (s *AccountState) Clone() *AccountState {
	c := &AccountState{
		Cash:            s.Cash,
		Balances:        make(map[string]money.Money, len(s.Balances)),
		ContribAnnual:   make(map[string]money.Money, len(s.ContribAnnual)),
		ContribLifetime: make(map[string]money.Money, len(s.ContribLifetime)),
		StockShares:     s.StockShares,
		StockPrice:      s.StockPrice,
	}
	for k, v := range s.Balances {
		c.Balances[k] = v
	}
	for k, v := range s.ContribAnnual {
		c.ContribAnnual[k] = v
	}
	for k, v := range s.ContribLifetime {
		c.ContribLifetime[k] = v
	}
	return c
}

// TotalAssets sums every account balance plus cash.
func (s *AccountState) TotalAssets() money.Money {
	total := s.Cash
	for _, balance := range s.Balances {
		total = total.Add(balance)
	}
	return total
}

// Snapshot copies the state into an immutable AssetSnapshot.
func (s *AccountState) Snapshot() AssetSnapshot {
	byAccount := make(map[string]money.Money, len(s.Balances))
	for k, v := range s.Balances {
		byAccount[k] = v
	}
	return AssetSnapshot{ByAccount: byAccount, Cash: s.Cash, Total: s.TotalAssets()}
}

// ResetAnnualCounters clears the annual contribution counters at a year
// boundary.
func (s *AccountState) ResetAnnualCounters() {
	for k := range s.ContribAnnual {
		s.ContribAnnual[k] = money.Zero()
	}
}

// Headroom returns the remaining contribution capacity of the account under
// its annual and lifetime caps, or nil when uncapped.
func (s *AccountState) Headroom(spec *AccountSpec) *money.Money {
	var room *money.Money
	if spec.AnnualCap != nil {
		r := money.Max(money.Zero(), spec.AnnualCap.Sub(s.ContribAnnual[spec.Name]))
		room = &r
	}
	if spec.LifetimeCap != nil {
		r := money.Max(money.Zero(), spec.LifetimeCap.Sub(s.ContribLifetime[spec.Name]))
		if room == nil || r.LessThan(*room) {
			room = &r
		}
	}
	return room
}
