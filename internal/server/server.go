package server

import (
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/config"
	"github.com/lifeplan/lifeplan-simulator/internal/domain"
	"github.com/lifeplan/lifeplan-simulator/internal/store"
)

// Server is the HTTP bridge around the engines. It owns the active plan and
// the last results; handlers never share mutable state with a running
// projection.
type Server struct {
	engine *calculation.Engine
	mc     *calculation.MonteCarloEngine
	parser *config.InputParser
	store  *store.Store
	logger calculation.Logger

	mu         sync.RWMutex
	plan       *domain.Plan
	lastResult *domain.SimulationResult
}

// New builds a Server around the given plan and store. The store may be nil;
// scenario and actuals endpoints then report an error instead of persisting.
func New(plan *domain.Plan, st *store.Store, logger calculation.Logger) *Server {
	engine := calculation.NewEngineWithLogger(logger)
	return &Server{
		engine: engine,
		mc:     calculation.NewMonteCarloEngine(engine),
		parser: config.NewInputParser(),
		store:  st,
		logger: logger,
		plan:   plan,
	}
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Infof("listening on %s", addr)
	return fasthttp.ListenAndServe(addr, s.Handler)
}

// currentPlan returns the active plan. Plans are replaced wholesale, never
// mutated, so the returned pointer is safe to read concurrently.
func (s *Server) currentPlan() *domain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

func (s *Server) setPlan(plan *domain.Plan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plan = plan
	s.lastResult = nil
}

func (s *Server) setResult(result *domain.SimulationResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastResult = result
}

// currentResult returns the cached run for the active plan, running it on
// demand.
func (s *Server) currentResult() (*domain.SimulationResult, error) {
	s.mu.RLock()
	cached := s.lastResult
	plan := s.plan
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}
	result, err := s.engine.Run(plan)
	if err != nil {
		return nil, err
	}
	s.setResult(result)
	return result, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, env envelope) {
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(env)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success":false,"error":"encoding failure"}`)
		return
	}
	ctx.SetBody(body)
}

func (s *Server) ok(ctx *fasthttp.RequestCtx, data any) {
	writeJSON(ctx, fasthttp.StatusOK, envelope{Success: true, Data: data})
}

func (s *Server) fail(ctx *fasthttp.RequestCtx, err error) {
	status := fasthttp.StatusInternalServerError
	var confErr *domain.ConfigurationError
	var sampErr *domain.SamplingError
	switch {
	case errors.As(err, &confErr), errors.As(err, &sampErr):
		status = fasthttp.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		status = fasthttp.StatusNotFound
	}
	writeJSON(ctx, status, envelope{Success: false, Error: err.Error()})
}

func (s *Server) failBadRequest(ctx *fasthttp.RequestCtx, format string, args ...any) {
	writeJSON(ctx, fasthttp.StatusBadRequest, envelope{Success: false, Error: fmt.Sprintf(format, args...)})
}
