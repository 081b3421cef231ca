package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"apre_report/config"
	basehdl "apre_report/internal/api/base/handler"
	reporthdl "apre_report/internal/api/report/handler"
	reportrouter "apre_report/internal/api/report/router"
	reportsvc "apre_report/internal/api/report/service"
	apirouter "apre_report/internal/api/router"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// emptyStore trả kết quả rỗng cho mọi truy vấn
type emptyStore struct{}

func (emptyStore) Aggregate(ctx context.Context, coll string, pipeline mongo.Pipeline, out any) error {
	return decodeEmpty(out)
}

func (emptyStore) Find(ctx context.Context, coll string, filter, projection interface{}, out interface{}) error {
	return decodeEmpty(out)
}

func (emptyStore) Distinct(ctx context.Context, coll string, field string) ([]interface{}, error) {
	return []interface{}{"Test"}, nil
}

func (emptyStore) Ping(ctx context.Context) error { return nil }

func decodeEmpty(out interface{}) error {
	raw, err := bson.Marshal(bson.M{"v": bson.A{}})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("v").Unmarshal(out)
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		CORS_Origins:      "*",
		RateLimit_Enabled: false,
	}
}

func newTestApp(t *testing.T, db, cache basehdl.Pinger) *fiber.App {
	t.Helper()
	svc := reportsvc.NewReportServiceWithStore(emptyStore{}, nil)
	h := reporthdl.NewReportHandlerWithService(svc)
	reg := func(api fiber.Router, r *apirouter.Router) error {
		reportrouter.RegisterHandler(api, h)
		return nil
	}
	app, err := newFiberApp(testConfig(), basehdl.NewSystemHandler(db, cache), reg)
	require.NoError(t, err)
	return app
}

func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&m))
	return m
}

func TestHealthHealthy(t *testing.T) {
	ok := pingFunc(func(ctx context.Context) error { return nil })
	app := newTestApp(t, ok, ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "healthy", body["status"])
	services := body["services"].(map[string]interface{})
	assert.Equal(t, "ok", services["database"])
	assert.Equal(t, "ok", services["cache"])
}

func TestHealthDatabaseDown(t *testing.T) {
	down := pingFunc(func(ctx context.Context) error { return errors.New("no reachable servers") })
	app := newTestApp(t, down, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "unhealthy", body["status"])
	_, hasCache := body["services"].(map[string]interface{})["cache"]
	assert.False(t, hasCache)
}

func TestHealthCacheDownIsDegraded(t *testing.T) {
	ok := pingFunc(func(ctx context.Context) error { return nil })
	down := pingFunc(func(ctx context.Context) error { return errors.New("connection refused") })
	app := newTestApp(t, ok, down)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "degraded", decodeBody(t, resp.Body)["status"])
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	body := decodeBody(t, resp.Body)
	assert.Equal(t, "RES_001", body["code"])
	assert.Equal(t, "error", body["status"])
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	app := newTestApp(t, nil, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/reports/agent-performance/teams", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var teams []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&teams))
	assert.Equal(t, []string{"Test"}, teams)
}

func TestMetricsEndpointExposesReportCounters(t *testing.T) {
	app := newTestApp(t, nil, nil)

	_, err := app.Test(httptest.NewRequest("GET", "/api/reports/agent-performance/performance-by-team", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "apre_http_requests_total"))
}

func TestRateLimitReached(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit_Enabled = true
	cfg.RateLimit_Max = 1
	cfg.RateLimit_Window = 60

	svc := reportsvc.NewReportServiceWithStore(emptyStore{}, nil)
	h := reporthdl.NewReportHandlerWithService(svc)
	app, err := newFiberApp(cfg, basehdl.NewSystemHandler(nil, nil), func(api fiber.Router, r *apirouter.Router) error {
		reportrouter.RegisterHandler(api, h)
		return nil
	})
	require.NoError(t, err)

	path := "/api/reports/sales/regions"
	first, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, first.StatusCode)

	second, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	assert.Equal(t, 429, second.StatusCode)
	assert.Equal(t, "error", decodeBody(t, second.Body)["status"])
}
