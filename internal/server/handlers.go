package server

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/config"
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/internal/output"
	"github.com/lifeplan/lifeplan-simulator/pkg/money"
)

// Handler routes every bridge request.
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch {
	case path == "/api/health":
		s.ok(ctx, map[string]string{"status": "ok"})
	case path == "/api/run":
		s.handleRun(ctx)
	case path == "/api/montecarlo" && method == fasthttp.MethodPost:
		s.handleMonteCarlo(ctx)
	case path == "/api/year/detail":
		s.handleYearDetail(ctx)
	case path == "/api/year/assets":
		s.handleYearAssets(ctx)
	case path == "/api/education":
		s.ok(ctx, s.engine.EducationSummary(s.currentPlan()))
	case path == "/api/dividends":
		s.handleDividends(ctx)
	case path == "/api/retirement":
		s.handleRetirement(ctx)
	case path == "/api/plan" && method == fasthttp.MethodGet:
		s.ok(ctx, s.currentPlan())
	case path == "/api/plan" && (method == fasthttp.MethodPut || method == fasthttp.MethodPost):
		s.handlePlanUpdate(ctx)
	case path == "/api/plan/reset" && method == fasthttp.MethodPost:
		s.setPlan(config.DefaultPlan())
		s.ok(ctx, s.currentPlan())
	case path == "/api/export/csv":
		s.handleExportCSV(ctx)
	case path == "/api/scenarios" && method == fasthttp.MethodGet:
		s.handleScenarioList(ctx)
	case path == "/api/scenarios" && method == fasthttp.MethodPost:
		s.handleScenarioSave(ctx)
	case path == "/api/scenarios/compare" && method == fasthttp.MethodPost:
		s.handleScenarioCompare(ctx)
	case strings.HasPrefix(path, "/api/scenarios/"):
		s.handleScenarioItem(ctx, strings.TrimPrefix(path, "/api/scenarios/"), method)
	case path == "/api/actuals" && method == fasthttp.MethodGet:
		s.handleActualsList(ctx)
	case path == "/api/actuals" && method == fasthttp.MethodPost:
		s.handleActualsUpsert(ctx)
	case path == "/api/actuals" && method == fasthttp.MethodDelete:
		s.handleActualsDelete(ctx)
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, envelope{Success: false, Error: "not found"})
	}
}

func (s *Server) handleRun(ctx *fasthttp.RequestCtx) {
	result, err := s.engine.Run(s.currentPlan())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.setResult(result)
	s.ok(ctx, result)
}

type monteCarloRequest struct {
	Iterations    int           `json:"iterations"`
	ReturnStdDev  float64       `json:"return_std"`
	Base          string        `json:"base"`
	Seed          int64         `json:"seed"`
	Thresholds    []money.Money `json:"thresholds"`
	HistogramBins int           `json:"histogram_bins"`
}

func (s *Server) handleMonteCarlo(ctx *fasthttp.RequestCtx) {
	var req monteCarloRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.failBadRequest(ctx, "invalid request body: %v", err)
		return
	}
	cfg := calculation.MonteCarloConfig{
		Iterations:    req.Iterations,
		ReturnStdDev:  req.ReturnStdDev,
		Seed:          req.Seed,
		Thresholds:    req.Thresholds,
		HistogramBins: req.HistogramBins,
	}
	switch req.Base {
	case "", "plan":
		cfg.Base = domain.BasePlan
	case "actual":
		cfg.Base = domain.BaseActual
		if s.store == nil {
			s.failBadRequest(ctx, "no store configured for actuals")
			return
		}
		actuals, err := s.store.ListActuals()
		if err != nil {
			s.fail(ctx, err)
			return
		}
		cfg.Actuals = actuals
	default:
		s.failBadRequest(ctx, "unknown base %q", req.Base)
		return
	}
	result, err := s.mc.Run(ctx, s.currentPlan(), cfg)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, result)
}

func (s *Server) handleYearDetail(ctx *fasthttp.RequestCtx) {
	age := ctx.QueryArgs().GetUintOrZero("age")
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, calculation.YearDetail(result, age))
}

func (s *Server) handleYearAssets(ctx *fasthttp.RequestCtx) {
	age := ctx.QueryArgs().GetUintOrZero("age")
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	detail := calculation.YearAssetsDetail(s.currentPlan(), result, age)
	if detail == nil {
		s.failBadRequest(ctx, "age %d is outside the projection", age)
		return
	}
	s.ok(ctx, detail)
}

func (s *Server) handleDividends(ctx *fasthttp.RequestCtx) {
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, s.engine.DividendSummary(s.currentPlan(), result))
}

func (s *Server) handleRetirement(ctx *fasthttp.RequestCtx) {
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, s.engine.RetirementProjection(s.currentPlan(), result))
}

func (s *Server) handlePlanUpdate(ctx *fasthttp.RequestCtx) {
	plan, err := s.parser.LoadFromBytes(ctx.PostBody())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.setPlan(plan)
	s.ok(ctx, plan)
}

func (s *Server) handleExportCSV(ctx *fasthttp.RequestCtx) {
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	var buf bytes.Buffer
	if string(ctx.QueryArgs().Peek("granularity")) == "yearly" {
		err = output.WriteYearlyCSV(&buf, s.currentPlan(), result)
	} else {
		err = output.WriteCSV(&buf, s.currentPlan(), result)
	}
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.SetContentType("text/csv; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="projection.csv"`)
	ctx.SetBody(buf.Bytes())
}

func (s *Server) handleScenarioList(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	infos, err := s.store.ListScenarios()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, infos)
}

func (s *Server) handleScenarioSave(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Name == "" {
		s.failBadRequest(ctx, "scenario name is required")
		return
	}
	result, err := s.currentResult()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	if err := s.store.SaveScenario(req.Name, s.currentPlan(), result); err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, map[string]string{"name": req.Name})
}

func (s *Server) handleScenarioItem(ctx *fasthttp.RequestCtx, rest, method string) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	if name, found := strings.CutSuffix(rest, "/load"); found && method == fasthttp.MethodPost {
		plan, _, err := s.store.LoadScenario(name)
		if err != nil {
			s.fail(ctx, err)
			return
		}
		s.setPlan(plan)
		s.ok(ctx, plan)
		return
	}
	switch method {
	case fasthttp.MethodGet:
		plan, result, err := s.store.LoadScenario(rest)
		if err != nil {
			s.fail(ctx, err)
			return
		}
		s.ok(ctx, map[string]any{"name": rest, "plan": plan, "result": result})
	case fasthttp.MethodDelete:
		if err := s.store.DeleteScenario(rest); err != nil {
			s.fail(ctx, err)
			return
		}
		s.ok(ctx, map[string]string{"deleted": rest})
	default:
		writeJSON(ctx, fasthttp.StatusMethodNotAllowed, envelope{Success: false, Error: "method not allowed"})
	}
}

func (s *Server) handleScenarioCompare(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	var req struct {
		A string `json:"a"`
		B string `json:"b"`
	}
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.A == "" || req.B == "" {
		s.failBadRequest(ctx, "two scenario names are required")
		return
	}
	resultA, err := s.scenarioResult(req.A)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	resultB, err := s.scenarioResult(req.B)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, calculation.Diff(resultA, resultB))
}

// scenarioResult loads a saved result, re-running the saved plan when the
// scenario was stored without one.
func (s *Server) scenarioResult(name string) (*domain.SimulationResult, error) {
	plan, result, err := s.store.LoadScenario(name)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return s.engine.Run(plan)
}

func (s *Server) handleActualsList(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	actuals, err := s.store.ListActuals()
	if err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, actuals)
}

func (s *Server) handleActualsUpsert(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	var rec domain.ActualRecord
	if err := json.Unmarshal(ctx.PostBody(), &rec); err != nil {
		s.failBadRequest(ctx, "invalid actual record: %v", err)
		return
	}
	if rec.Month < 1 || rec.Month > 12 {
		s.failBadRequest(ctx, "month %d out of range", rec.Month)
		return
	}
	if err := s.store.UpsertActual(rec); err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, rec)
}

func (s *Server) handleActualsDelete(ctx *fasthttp.RequestCtx) {
	if s.store == nil {
		s.failBadRequest(ctx, "no store configured")
		return
	}
	year := ctx.QueryArgs().GetUintOrZero("year")
	month := ctx.QueryArgs().GetUintOrZero("month")
	if year == 0 || month == 0 {
		s.failBadRequest(ctx, "year and month are required")
		return
	}
	if err := s.store.DeleteActual(year, month); err != nil {
		s.fail(ctx, err)
		return
	}
	s.ok(ctx, map[string]int{"year": year, "month": month})
}
