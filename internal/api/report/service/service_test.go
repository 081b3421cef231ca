package reportsvc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	reportdto "apre_report/internal/api/report/dto"
	"apre_report/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeStore trả về docs cố định và ghi lại lời gọi cuối
type fakeStore struct {
	docs     []bson.D
	distinct []any
	err      error

	calls      int
	collection string
	pipeline   mongo.Pipeline
	filter     any
	projection any
}

func (f *fakeStore) decode(out any) error {
	arr := bson.A{}
	for _, d := range f.docs {
		arr = append(arr, d)
	}
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: arr}})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("v").Unmarshal(out)
}

func (f *fakeStore) Aggregate(_ context.Context, collection string, pipeline mongo.Pipeline, out any) error {
	f.calls++
	f.collection, f.pipeline = collection, pipeline
	if f.err != nil {
		return f.err
	}
	return f.decode(out)
}

func (f *fakeStore) Find(_ context.Context, collection string, filter, projection any, out any) error {
	f.calls++
	f.collection, f.filter, f.projection = collection, filter, projection
	if f.err != nil {
		return f.err
	}
	return f.decode(out)
}

func (f *fakeStore) Distinct(_ context.Context, collection, _ string) ([]any, error) {
	f.calls++
	f.collection = collection
	return f.distinct, f.err
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

// memCache là OptionsCache trong bộ nhớ
type memCache map[string][]string

func (m memCache) Get(_ context.Context, key string) ([]string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m memCache) Set(_ context.Context, key string, values []string) { m[key] = values }

func TestValidationHappensBeforeStoreAccess(t *testing.T) {
	store := &fakeStore{}
	svc := NewReportServiceWithStore(store, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		call func() error
		msg  string
	}{
		{"date range", func() error {
			_, err := svc.CallDurationByDateRange(ctx, reportdto.CallDurationByDateRangeQuery{StartDate: "2023-01-01"})
			return err
		}, "Start date and end date are required"},
		{"team", func() error {
			_, err := svc.PerformanceByTeam(ctx, reportdto.PerformanceByTeamQuery{})
			return err
		}, "Team is required"},
		{"channel rating", func() error {
			_, err := svc.ChannelRatingByMonth(ctx, reportdto.ChannelRatingByMonthQuery{})
			return err
		}, "month is required"},
		{"feedback", func() error {
			_, err := svc.FeedbackByRegion(ctx, reportdto.FeedbackByRegionQuery{})
			return err
		}, "region is required"},
		{"sales by month", func() error {
			_, err := svc.SalesByMonth(ctx, reportdto.SalesByMonthQuery{})
			return err
		}, "Month parameter is missing"},
		{"region and product", func() error {
			_, err := svc.SalesByRegionAndProduct(ctx, reportdto.SalesByRegionAndProductQuery{Region: "North"})
			return err
		}, "Both region and product parameters are required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			require.Error(t, err)
			assert.True(t, common.IsValidationError(err))
			assert.EqualError(t, err, tc.msg)
		})
	}
	assert.Zero(t, store.calls)
}

func TestFormatErrors(t *testing.T) {
	store := &fakeStore{}
	svc := NewReportServiceWithStore(store, nil)
	ctx := context.Background()

	_, err := svc.SalesByMonth(ctx, reportdto.SalesByMonthQuery{Month: "13"})
	var e *common.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, common.ErrCodeValidationFormat.Code, e.Code.Code)
	assert.Contains(t, e.Message, "month")

	_, err = svc.CallDurationByDateRange(ctx, reportdto.CallDurationByDateRangeQuery{StartDate: "yesterday", EndDate: "2023-01-31"})
	require.True(t, errors.As(err, &e))
	assert.Equal(t, common.StatusBadRequest, e.StatusCode)
	assert.Contains(t, e.Message, "startDate")

	assert.Zero(t, store.calls)
}

func TestStoreErrorIsNotValidationError(t *testing.T) {
	store := &fakeStore{err: common.ConvertMongoError(mongo.CommandError{Code: 2, Message: "bad"})}
	svc := NewReportServiceWithStore(store, nil)

	_, err := svc.PerformanceByTeam(context.Background(), reportdto.PerformanceByTeamQuery{Team: "Test"})
	require.Error(t, err)
	assert.False(t, common.IsValidationError(err))
	assert.True(t, errors.Is(err, common.ErrMongoQuery))
}

func TestPerformanceByTeam(t *testing.T) {
	store := &fakeStore{docs: []bson.D{
		{{Key: "team", Value: "Test"}, {Key: "region", Value: "East"}, {Key: "callDuration", Value: int32(120)}, {Key: "resolutionTime", Value: 200.5}},
		{{Key: "team", Value: "Test"}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.PerformanceByTeam(context.Background(), reportdto.PerformanceByTeamQuery{Team: "Test"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "agentPerformance", store.collection)
	assert.Equal(t, "East", rows[0].Region)
	assert.Equal(t, int32(120), rows[0].CallDuration)
	assert.Equal(t, 200.5, rows[0].ResolutionTime)
	assert.Nil(t, rows[1].Region)
	assert.Equal(t, BuildPerformanceByTeamPipeline("Test"), store.pipeline)
}

func TestShapedRowsKeepStoredTypes(t *testing.T) {
	store := &fakeStore{docs: []bson.D{
		{{Key: "team", Value: "Test"}, {Key: "region", Value: int32(7)}, {Key: "callDuration", Value: "120"}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.PerformanceByTeam(context.Background(), reportdto.PerformanceByTeamQuery{Team: "Test"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int32(7), rows[0].Region)
	assert.Equal(t, "120", rows[0].CallDuration)

	store.docs = []bson.D{{{Key: "salesperson", Value: nil}, {Key: "totalSales", Value: int64(42)}}}
	sales, err := svc.SalesByRegion(context.Background(), reportdto.SalesByRegionParams{Region: "North"})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Nil(t, sales[0].Salesperson)
	assert.Equal(t, int64(42), sales[0].TotalSales)
}

func TestCallDurationByDateRangeEmpty(t *testing.T) {
	store := &fakeStore{}
	svc := NewReportServiceWithStore(store, nil)

	got, err := svc.CallDurationByDateRange(context.Background(), reportdto.CallDurationByDateRangeQuery{StartDate: "2023-01-01", EndDate: "2023-01-31"})
	require.NoError(t, err)
	assert.Equal(t, []*string{}, got.Agents)
	assert.Equal(t, []any{}, got.CallDurations)

	match := store.pipeline[0][0].Value.(bson.D)[0].Value.(bson.D)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), match[0].Value)
	assert.Equal(t, time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), match[1].Value)
}

func TestCallDurationByDateRange(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{
		{Key: "agents", Value: bson.A{"Alice", nil, "Bob"}},
		{Key: "callDurations", Value: bson.A{int32(300), 20.0, 150.5}},
	}}}
	svc := NewReportServiceWithStore(store, nil)

	got, err := svc.CallDurationByDateRange(context.Background(), reportdto.CallDurationByDateRangeQuery{StartDate: "2023-01-01", EndDate: "2023-01-31"})
	require.NoError(t, err)
	require.Len(t, got.Agents, 3)
	assert.Equal(t, "Alice", *got.Agents[0])
	assert.Nil(t, got.Agents[1])
	assert.Equal(t, "Bob", *got.Agents[2])
	assert.Equal(t, []any{int32(300), 20.0, 150.5}, got.CallDurations)
}

func TestChannelRatingByMonth(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{
		{Key: "channels", Value: bson.A{"Email", "Phone"}},
		{Key: "ratingAvg", Value: bson.A{bson.A{4.5}, bson.A{nil}}},
	}}}
	svc := NewReportServiceWithStore(store, nil)

	got, err := svc.ChannelRatingByMonth(context.Background(), reportdto.ChannelRatingByMonthQuery{Month: "3"})
	require.NoError(t, err)
	require.Len(t, got.Channels, 2)
	assert.Equal(t, "Email", *got.Channels[0])
	assert.Equal(t, "Phone", *got.Channels[1])
	require.Len(t, got.RatingAvg, 2)
	assert.Equal(t, []any{4.5}, got.RatingAvg[0])
	assert.Equal(t, []any{nil}, got.RatingAvg[1])
	assert.Equal(t, "customerFeedback", store.collection)
}

func TestChannelRatingKeepsNullChannel(t *testing.T) {
	store := &fakeStore{docs: []bson.D{{
		{Key: "channels", Value: bson.A{nil, "Web"}},
		{Key: "ratingAvg", Value: bson.A{bson.A{2.0}, bson.A{5.0}}},
	}}}
	svc := NewReportServiceWithStore(store, nil)

	got, err := svc.ChannelRatingByMonth(context.Background(), reportdto.ChannelRatingByMonthQuery{Month: "3"})
	require.NoError(t, err)
	require.Len(t, got.Channels, 2)
	assert.Nil(t, got.Channels[0])
	assert.Equal(t, "Web", *got.Channels[1])

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"channels":[null,"Web"],"ratingAvg":[[2],[5]]}`, string(body))
}

func TestFeedbackByRegion(t *testing.T) {
	store := &fakeStore{docs: []bson.D{
		{{Key: "region", Value: "North"}, {Key: "customer", Value: "Acme"}, {Key: "rating", Value: int32(4)}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.FeedbackByRegion(context.Background(), reportdto.FeedbackByRegionQuery{Region: "North"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0]["customer"])
	assert.Equal(t, int32(4), rows[0]["rating"])
	assert.NotContains(t, rows[0], "channel")
	assert.Equal(t, bson.D{{Key: "region", Value: "North"}}, store.filter)
}

func TestFeedbackByRegionPassesLooseTypesThrough(t *testing.T) {
	store := &fakeStore{docs: []bson.D{
		{{Key: "region", Value: "East"}, {Key: "salesAmount", Value: "120.5"}, {Key: "rating", Value: "n/a"}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.FeedbackByRegion(context.Background(), reportdto.FeedbackByRegionQuery{Region: "East"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "120.5", rows[0]["salesAmount"])
	assert.Equal(t, "n/a", rows[0]["rating"])
}

func TestSalesByMonthEmpty(t *testing.T) {
	store := &fakeStore{}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.SalesByMonth(context.Background(), reportdto.SalesByMonthQuery{Month: "8"})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, "sales", store.collection)
}

func TestSalesByMonth(t *testing.T) {
	oid := primitive.NewObjectID()
	store := &fakeStore{docs: []bson.D{
		{{Key: "id", Value: oid}, {Key: "month", Value: "August"}, {Key: "region", Value: "North"}, {Key: "amount", Value: 99.5}},
		{{Key: "id", Value: "sale-1"}, {Key: "month", Value: "August"}, {Key: "amount", Value: "12"}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.SalesByMonth(context.Background(), reportdto.SalesByMonthQuery{Month: "8"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, oid, rows[0]["id"])
	assert.Equal(t, "August", rows[0]["month"])
	assert.Equal(t, 99.5, rows[0]["amount"])
	assert.NotContains(t, rows[0], "_id")
	assert.Equal(t, "sale-1", rows[1]["id"])
	assert.Equal(t, "12", rows[1]["amount"])
	assert.Equal(t, BuildSalesByMonthPipeline(8), store.pipeline)

	project := store.pipeline[1][0].Value.(bson.D)
	assert.Contains(t, project, bson.E{Key: "id", Value: "$_id"})
	assert.Contains(t, project, bson.E{Key: "month", Value: bson.D{{Key: "$literal", Value: "August"}}})

	body, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"id":"`+oid.Hex()+`"`)
	assert.Contains(t, string(body), `"id":"sale-1"`)
}

func TestSalesByRegionAndProduct(t *testing.T) {
	store := &fakeStore{docs: []bson.D{
		{{Key: "region", Value: "North"}, {Key: "salesperson", Value: "Alice"}, {Key: "product", Value: "Laptop"}, {Key: "amount", Value: 1200.0}},
		{{Key: "region", Value: "North"}, {Key: "product", Value: "Laptop"}, {Key: "amount", Value: "300"}},
	}}
	svc := NewReportServiceWithStore(store, nil)

	rows, err := svc.SalesByRegionAndProduct(context.Background(), reportdto.SalesByRegionAndProductQuery{Region: "North", Product: "Laptop"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sales", store.collection)
	assert.Equal(t, BuildSalesByRegionAndProductPipeline("North", "Laptop"), store.pipeline)
	assert.Equal(t, "Alice", rows[0].Salesperson)
	assert.Equal(t, 1200.0, rows[0].Amount)
	assert.Nil(t, rows[1].Salesperson)
	assert.Equal(t, "300", rows[1].Amount)
}

func TestDistinctValuesUsesCache(t *testing.T) {
	store := &fakeStore{distinct: []any{"TeamA", nil, int32(7), "TeamB"}}
	c := memCache{}
	svc := NewReportServiceWithStore(store, c)
	ctx := context.Background()

	teams, err := svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TeamA", "7", "TeamB"}, teams)
	assert.Equal(t, "agentPerformance", store.collection)

	teams, err = svc.Teams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TeamA", "7", "TeamB"}, teams)
	assert.Equal(t, 1, store.calls, "lần gọi thứ hai phải đọc từ cache")
}

func TestDistinctValuesStoreError(t *testing.T) {
	store := &fakeStore{err: common.ErrMongoNetwork}
	c := memCache{}
	svc := NewReportServiceWithStore(store, c)

	_, err := svc.Products(context.Background())
	assert.ErrorIs(t, err, common.ErrMongoNetwork)
	assert.Empty(t, c, "lỗi không được ghi vào cache")
}

func TestWarmOptions(t *testing.T) {
	store := &fakeStore{distinct: []any{"North", "South"}}
	c := memCache{}
	svc := NewReportServiceWithStore(store, c)

	require.NoError(t, svc.WarmOptions(context.Background()))
	assert.Len(t, c, 4)
	assert.Equal(t, []string{"North", "South"}, c["apre:options:sales:region"])
	assert.Equal(t, 4, store.calls)

	store.err = common.ErrMongoTimeout
	err := svc.WarmOptions(context.Background())
	assert.ErrorIs(t, err, common.ErrMongoTimeout)
}
