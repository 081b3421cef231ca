package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	reporthdl "apre_report/internal/api/report/handler"
	reportsvc "apre_report/internal/api/report/service"
	apirouter "apre_report/internal/api/router"
	"apre_report/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type stubStore struct {
	docs     []bson.D
	distinct []any
	err      error
	pipeline mongo.Pipeline
}

func (s *stubStore) decode(out any) error {
	arr := bson.A{}
	for _, d := range s.docs {
		arr = append(arr, d)
	}
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: arr}})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("v").Unmarshal(out)
}

func (s *stubStore) Aggregate(_ context.Context, _ string, p mongo.Pipeline, out any) error {
	s.pipeline = p
	if s.err != nil {
		return s.err
	}
	return s.decode(out)
}

func (s *stubStore) Find(_ context.Context, _ string, _, _ any, out any) error {
	if s.err != nil {
		return s.err
	}
	return s.decode(out)
}

func (s *stubStore) Distinct(context.Context, string, string) ([]any, error) {
	return s.distinct, s.err
}

func (s *stubStore) Ping(context.Context) error { return s.err }

func newTestApp(store *stubStore) *fiber.App {
	app := fiber.New()
	h := reporthdl.NewReportHandlerWithService(reportsvc.NewReportServiceWithStore(store, nil))
	_ = apirouter.SetupRoutes(app, func(api fiber.Router, _ *apirouter.Router) error {
		RegisterHandler(api, h)
		return nil
	})
	return app
}

func get(t *testing.T, app *fiber.App, url string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMissingParamsReturn400Envelope(t *testing.T) {
	app := newTestApp(&stubStore{})

	cases := map[string]string{
		"/api/reports/agent-performance/performance-by-team":               "Team is required",
		"/api/reports/agent-performance/call-duration-by-date-range":       "Start date and end date are required",
		"/api/reports/customer-feedback/channel-rating-by-month":           "month is required",
		"/api/reports/customer-feedback/customer-feedback-by-region":       "region is required",
		"/api/reports/sales/sales-by-month":                                "Month parameter is missing",
		"/api/reports/sales/sales-by-region-and-product?region=North":      "Both region and product parameters are required",
	}
	for url, msg := range cases {
		status, body := get(t, app, url)
		assert.Equal(t, 400, status, url)

		var envelope map[string]string
		require.NoError(t, json.Unmarshal([]byte(body), &envelope), url)
		assert.Equal(t, map[string]string{
			"code":    common.ErrCodeValidationInput.Code,
			"message": msg,
			"status":  "error",
		}, envelope, url)
	}
}

func TestInvalidMonthReturnsFormatError(t *testing.T) {
	status, body := get(t, newTestApp(&stubStore{}), "/api/reports/sales/sales-by-month?month=august")
	assert.Equal(t, 400, status)
	assert.Contains(t, body, common.ErrCodeValidationFormat.Code)
}

func TestPerformanceByTeam(t *testing.T) {
	store := &stubStore{docs: []bson.D{{
		{Key: "team", Value: "Test"},
		{Key: "region", Value: "East"},
		{Key: "callDuration", Value: 120},
		{Key: "resolutionTime", Value: 200},
	}}}

	status, body := get(t, newTestApp(store), "/api/reports/agent-performance/performance-by-team?team=Test")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[{"team":"Test","region":"East","callDuration":120,"resolutionTime":200}]`, body)
	assert.Equal(t, bson.D{{Key: "team", Value: "Test"}}, store.pipeline[0][0].Value)
}

func TestStoreFailureReturns500WithoutDetails(t *testing.T) {
	store := &stubStore{err: common.ConvertMongoError(mongo.CommandError{Code: 2, Message: "secret internals"})}

	status, body := get(t, newTestApp(store), "/api/reports/sales/sales-by-region-and-product?region=North&product=Laptop")
	assert.Equal(t, 500, status)
	assert.JSONEq(t, `{"code":"DB_002","message":"MongoDB query error","status":"error"}`, body)
	assert.NotContains(t, body, "secret")
}

func TestEmptyResultsKeepShape(t *testing.T) {
	app := newTestApp(&stubStore{})

	_, body := get(t, app, "/api/reports/sales/sales-by-month?month=8")
	assert.JSONEq(t, `[]`, body)

	_, body = get(t, app, "/api/reports/agent-performance/call-duration-by-date-range?startDate=2023-01-01&endDate=2023-01-31")
	assert.JSONEq(t, `{"agents":[],"callDurations":[]}`, body)

	_, body = get(t, app, "/api/reports/customer-feedback/channel-rating-by-month?month=2")
	assert.JSONEq(t, `{"channels":[],"ratingAvg":[]}`, body)
}

func TestSalesByRegionPathParam(t *testing.T) {
	store := &stubStore{docs: []bson.D{
		{{Key: "salesperson", Value: "Alice"}, {Key: "totalSales", Value: 1500.5}},
		{{Key: "salesperson", Value: "Bob"}, {Key: "totalSales", Value: 900}},
	}}

	status, body := get(t, newTestApp(store), "/api/reports/sales/regions/North")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[{"salesperson":"Alice","totalSales":1500.5},{"salesperson":"Bob","totalSales":900}]`, body)
	assert.Equal(t, bson.D{{Key: "region", Value: "North"}}, store.pipeline[0][0].Value)
}

func TestOptionLists(t *testing.T) {
	app := newTestApp(&stubStore{distinct: []any{"North", "South"}})

	for _, url := range []string{
		"/api/reports/agent-performance/teams",
		"/api/reports/customer-feedback/regions",
		"/api/reports/sales/regions",
		"/api/reports/sales/products",
	} {
		status, body := get(t, app, url)
		assert.Equal(t, 200, status, url)
		assert.JSONEq(t, `["North","South"]`, body, url)
	}
}

func TestLooselyTypedDocumentsAreReturned(t *testing.T) {
	store := &stubStore{docs: []bson.D{
		{{Key: "region", Value: "East"}, {Key: "salesAmount", Value: "120.5"}},
	}}
	status, body := get(t, newTestApp(store), "/api/reports/customer-feedback/customer-feedback-by-region?region=East")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[{"region":"East","salesAmount":"120.5"}]`, body)

	store.docs = []bson.D{
		{{Key: "id", Value: "sale-1"}, {Key: "month", Value: "August"}, {Key: "amount", Value: 10}},
	}
	status, body = get(t, newTestApp(store), "/api/reports/sales/sales-by-month?month=8")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `[{"id":"sale-1","month":"August","amount":10}]`, body)

	store.docs = []bson.D{{
		{Key: "channels", Value: bson.A{nil, "Web"}},
		{Key: "ratingAvg", Value: bson.A{bson.A{2.5}, bson.A{nil}}},
	}}
	status, body = get(t, newTestApp(store), "/api/reports/customer-feedback/channel-rating-by-month?month=2")
	assert.Equal(t, 200, status)
	assert.JSONEq(t, `{"channels":[null,"Web"],"ratingAvg":[[2.5],[null]]}`, body)
}

func TestFeedbackByRegionOmitsMissingFields(t *testing.T) {
	store := &stubStore{docs: []bson.D{
		{{Key: "region", Value: "West"}, {Key: "customer", Value: "Acme"}, {Key: "rating", Value: 5}},
	}}

	_, body := get(t, newTestApp(store), "/api/reports/customer-feedback/customer-feedback-by-region?region=West")
	assert.JSONEq(t, `[{"region":"West","customer":"Acme","rating":5}]`, body)
}
