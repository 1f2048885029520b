package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// ErrNotFound is returned when a named scenario does not exist.
var ErrNotFound = errors.New("scenario not found")

// Store persists scenarios and monthly actuals in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ScenarioInfo is a scenario listing entry.
type ScenarioInfo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveScenario stores the plan and its result under the given name,
// replacing any scenario already saved with that name.
func (s *Store) SaveScenario(name string, plan *domain.Plan, result *domain.SimulationResult) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	var resultJSON []byte
	if result != nil {
		if resultJSON, err = json.Marshal(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(`
		INSERT INTO scenarios (name, plan, result, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			plan = excluded.plan,
			result = excluded.result,
			updated_at = excluded.updated_at`,
		name, string(planJSON), string(resultJSON), now, now)
	if err != nil {
		return fmt.Errorf("save scenario %q: %w", name, err)
	}
	return nil
}

// LoadScenario returns the plan and result saved under the given name. The
// result is nil when the scenario was saved without one.
func (s *Store) LoadScenario(name string) (*domain.Plan, *domain.SimulationResult, error) {
	var planJSON, resultJSON string
	err := s.db.QueryRow(
		`SELECT plan, COALESCE(result, '') FROM scenarios WHERE name = ?`, name,
	).Scan(&planJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load scenario %q: %w", name, err)
	}
	var plan domain.Plan
	if err := json.Unmarshal([]byte(planJSON), &plan); err != nil {
		return nil, nil, fmt.Errorf("decode plan for %q: %w", name, err)
	}
	var result *domain.SimulationResult
	if resultJSON != "" {
		result = &domain.SimulationResult{}
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return nil, nil, fmt.Errorf("decode result for %q: %w", name, err)
		}
	}
	return &plan, result, nil
}

// ListScenarios lists saved scenarios, newest first.
func (s *Store) ListScenarios() ([]ScenarioInfo, error) {
	rows, err := s.db.Query(
		`SELECT id, name, created_at, updated_at FROM scenarios ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var out []ScenarioInfo
	for rows.Next() {
		var info ScenarioInfo
		var created, updated string
		if err := rows.Scan(&info.ID, &info.Name, &created, &updated); err != nil {
			return nil, err
		}
		info.CreatedAt, _ = time.Parse(time.RFC3339, created)
		info.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// DeleteScenario removes the named scenario.
func (s *Store) DeleteScenario(name string) error {
	res, err := s.db.Exec(`DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertActual records one observed month, replacing any existing record for
// the same year and month.
func (s *Store) UpsertActual(rec domain.ActualRecord) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO actuals (year, month, age, income, expenses, investment, cash_balance, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(year, month) DO UPDATE SET
			age = excluded.age,
			income = excluded.income,
			expenses = excluded.expenses,
			investment = excluded.investment,
			cash_balance = excluded.cash_balance,
			updated_at = excluded.updated_at`,
		rec.Year, rec.Month, rec.Age,
		rec.IncomeActual.String(), rec.ExpensesActual.String(),
		rec.InvestmentActual.String(), rec.CashBalanceActual.String(), now)
	if err != nil {
		return fmt.Errorf("save actual %d-%02d: %w", rec.Year, rec.Month, err)
	}
	return nil
}

// ListActuals returns every observed month in chronological order.
func (s *Store) ListActuals() ([]domain.ActualRecord, error) {
	rows, err := s.db.Query(
		`SELECT year, month, age, income, expenses, investment, cash_balance
		 FROM actuals ORDER BY year, month`)
	if err != nil {
		return nil, fmt.Errorf("list actuals: %w", err)
	}
	defer rows.Close()

	var out []domain.ActualRecord
	for rows.Next() {
		rec, err := scanActual(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// DeleteActual removes the record for one month; deleting a month that was
// never recorded is not an error.
func (s *Store) DeleteActual(year, month int) error {
	_, err := s.db.Exec(`DELETE FROM actuals WHERE year = ? AND month = ?`, year, month)
	if err != nil {
		return fmt.Errorf("delete actual %d-%02d: %w", year, month, err)
	}
	return nil
}

func scanActual(rows *sql.Rows) (domain.ActualRecord, error) {
	var rec domain.ActualRecord
	var income, expenses, investment, cash string
	if err := rows.Scan(&rec.Year, &rec.Month, &rec.Age, &income, &expenses, &investment, &cash); err != nil {
		return rec, err
	}
	var err error
	if rec.IncomeActual, err = money.NewFromString(income); err != nil {
		return rec, fmt.Errorf("decode actual income: %w", err)
	}
	if rec.ExpensesActual, err = money.NewFromString(expenses); err != nil {
		return rec, fmt.Errorf("decode actual expenses: %w", err)
	}
	if rec.InvestmentActual, err = money.NewFromString(investment); err != nil {
		return rec, fmt.Errorf("decode actual investment: %w", err)
	}
	if rec.CashBalanceActual, err = money.NewFromString(cash); err != nil {
		return rec, fmt.Errorf("decode actual cash balance: %w", err)
	}
	return rec, nil
}
