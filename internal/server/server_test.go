package server

import (
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/lifeplan/lifeplan-simulator/internal/calculation"
	"github.com/lifeplan/lifeplan-simulator/internal/config"
	"github.com/lifeplan/lifeplan-simulator/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(config.DefaultPlan(), st, calculation.NopLogger{})
}

func doRequest(t *testing.T, s *Server, method, uri string, body []byte) (*fasthttp.RequestCtx, envelope) {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != nil {
		req.SetBody(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handler(ctx)

	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env), "body: %s", ctx.Response.Body())
	return ctx, env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodGet, "/api/health", nil)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.True(t, env.Success)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodGet, "/api/nope", nil)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
	assert.False(t, env.Success)
}

func TestRunEndpoint(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodPost, "/api/run", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.True(t, env.Success)
	assert.NotNil(t, env.Data)
}

func TestPlanUpdateRejectsInvalid(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodPut, "/api/plan", []byte(`{}`))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "invalid plan configuration")
}

func TestPlanUpdateAndReset(t *testing.T) {
	s := newTestServer(t)

	plan := config.DefaultPlan()
	plan.BasicInfo.EndAge = 55
	body, err := json.Marshal(plan)
	require.NoError(t, err)

	ctx, env := doRequest(t, s, fasthttp.MethodPut, "/api/plan", body)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "error: %s", env.Error)
	assert.Equal(t, 55, s.currentPlan().BasicInfo.EndAge)

	ctx, _ = doRequest(t, s, fasthttp.MethodPost, "/api/plan/reset", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, 60, s.currentPlan().BasicInfo.EndAge)
}

func TestMonteCarloEndpointValidation(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodPost, "/api/montecarlo",
		[]byte(`{"iterations": 0, "return_std": 0.1}`))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, env.Error, "iterations")

	ctx, env = doRequest(t, s, fasthttp.MethodPost, "/api/montecarlo",
		[]byte(`{"iterations": 10, "return_std": 0.1, "base": "wrong"}`))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, env.Error, "base")
}

func TestMonteCarloEndpoint(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodPost, "/api/montecarlo",
		[]byte(`{"iterations": 10, "return_std": 0.1, "seed": 1}`))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "error: %s", env.Error)
	assert.True(t, env.Success)
}

func TestScenarioLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	ctx, env := doRequest(t, s, fasthttp.MethodPost, "/api/scenarios", []byte(`{"name":"baseline"}`))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "error: %s", env.Error)

	ctx, _ = doRequest(t, s, fasthttp.MethodGet, "/api/scenarios", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx, _ = doRequest(t, s, fasthttp.MethodPost, "/api/scenarios/baseline/load", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx, _ = doRequest(t, s, fasthttp.MethodDelete, "/api/scenarios/baseline", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx, _ = doRequest(t, s, fasthttp.MethodDelete, "/api/scenarios/baseline", nil)
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestActualsOverHTTP(t *testing.T) {
	s := newTestServer(t)

	ctx, env := doRequest(t, s, fasthttp.MethodPost, "/api/actuals",
		[]byte(`{"year":2026,"month":3,"age":30,"cash_balance_actual":"5200000"}`))
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "error: %s", env.Error)

	ctx, env = doRequest(t, s, fasthttp.MethodPost, "/api/actuals",
		[]byte(`{"year":2026,"month":13}`))
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Contains(t, env.Error, "month")

	ctx, _ = doRequest(t, s, fasthttp.MethodGet, "/api/actuals", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestExportCSVOverHTTP(t *testing.T) {
	s := newTestServer(t)
	var req fasthttp.Request
	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI("/api/export/csv?granularity=yearly")
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handler(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.ContentType()), "text/csv")
	assert.Contains(t, string(ctx.Response.Body()), "reserve_depleted")
}

func TestYearDetailOverHTTP(t *testing.T) {
	s := newTestServer(t)
	ctx, env := doRequest(t, s, fasthttp.MethodGet, "/api/year/detail?age=35", nil)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), "error: %s", env.Error)
	assert.True(t, env.Success)

	ctx, _ = doRequest(t, s, fasthttp.MethodGet, "/api/year/assets?age=999", nil)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}
