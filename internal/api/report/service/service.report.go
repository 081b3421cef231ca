// Package reportsvc chứa logic báo cáo: dựng pipeline, chạy trên Store, trả kết quả đã định hình.
package reportsvc

import (
	"context"
	"errors"
	"time"

	reportdto "apre_report/internal/api/report/dto"
	"apre_report/internal/api/report/models"
	"apre_report/internal/cache"
	"apre_report/internal/common"
	"apre_report/internal/global"
	"apre_report/internal/logger"
	"apre_report/internal/metrics"
)

// Tên báo cáo (dùng làm label metrics và trong log)
const (
	ReportCallDurationByDateRange = "call-duration-by-date-range"
	ReportPerformanceByTeam       = "performance-by-team"
	ReportChannelRatingByMonth    = "channel-rating-by-month"
	ReportFeedbackByRegion        = "customer-feedback-by-region"
	ReportSalesByRegion           = "sales-by-region"
	ReportSalesByMonth            = "sales-by-month"
	ReportSalesByRegionAndProduct = "sales-by-region-and-product"
)

// ReportService chạy các báo cáo trên Store. Mọi thao tác đều chỉ đọc.
type ReportService struct {
	store Store
	cache cache.OptionsCache
}

// NewReportService tạo service từ kết nối MongoDB toàn cục.
// Có global.Redis_Session thì danh sách filter được cache với TTL OPTIONS_CACHE_TTL.
func NewReportService() (*ReportService, error) {
	if global.MongoDB_Session == nil || global.MongoDB_ServerConfig == nil {
		return nil, errors.New("MongoDB session chưa được khởi tạo")
	}
	cfg := global.MongoDB_ServerConfig
	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)

	var optionsCache cache.OptionsCache = cache.NopCache{}
	if global.Redis_Session != nil {
		optionsCache = cache.NewRedisOptionsCache(global.Redis_Session, time.Duration(cfg.OptionsCacheTTL)*time.Second)
	}
	return NewReportServiceWithStore(NewMongoStore(db, global.RegistryCollections), optionsCache), nil
}

// NewReportServiceWithStore tạo service với store và cache cho trước. c nil = không cache.
func NewReportServiceWithStore(store Store, c cache.OptionsCache) *ReportService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &ReportService{store: store, cache: c}
}

// Ping kiểm tra store
func (s *ReportService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// observe ghi metrics cho báo cáo name khi hàm gọi kết thúc
func observe(name string, start time.Time, err *error) {
	metrics.ObserveReport(name, start, *err)
	if *err != nil && !common.IsValidationError(*err) {
		logger.WithModule("report").WithError(*err).WithField("report", name).Error("Truy vấn báo cáo thất bại")
	}
}

// CallDurationByDateRange tổng thời lượng cuộc gọi theo agent trong khoảng ngày.
// Không có dữ liệu → hai mảng rỗng.
func (s *ReportService) CallDurationByDateRange(ctx context.Context, q reportdto.CallDurationByDateRangeQuery) (result *reportdto.CallDurationByDateRange, err error) {
	defer observe(ReportCallDurationByDateRange, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	start, _ := global.ParseReportDate(q.StartDate)
	end, _ := global.ParseReportDate(q.EndDate)

	var docs []reportdto.CallDurationByDateRange
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.AgentPerformance, BuildCallDurationByDateRangePipeline(start, end), &docs); err != nil {
		return nil, err
	}
	result = &reportdto.CallDurationByDateRange{Agents: []*string{}, CallDurations: []any{}}
	if len(docs) > 0 {
		if docs[0].Agents != nil {
			result.Agents = docs[0].Agents
		}
		if docs[0].CallDurations != nil {
			result.CallDurations = docs[0].CallDurations
		}
	}
	return result, nil
}

// PerformanceByTeam danh sách hiệu suất (đã loại trùng) của team, callDuration giảm dần
func (s *ReportService) PerformanceByTeam(ctx context.Context, q reportdto.PerformanceByTeamQuery) (rows []reportdto.PerformanceByTeamRow, err error) {
	defer observe(ReportPerformanceByTeam, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	rows = []reportdto.PerformanceByTeamRow{}
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.AgentPerformance, BuildPerformanceByTeamPipeline(q.Team), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ChannelRatingByMonth điểm trung bình theo channel trong tháng.
// Không có dữ liệu → hai mảng rỗng.
func (s *ReportService) ChannelRatingByMonth(ctx context.Context, q reportdto.ChannelRatingByMonthQuery) (result *reportdto.ChannelRatingByMonth, err error) {
	defer observe(ReportChannelRatingByMonth, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	month, _ := global.ParseMonth(q.Month)

	var docs []reportdto.ChannelRatingByMonth
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.CustomerFeedback, BuildChannelRatingByMonthPipeline(month), &docs); err != nil {
		return nil, err
	}
	result = &reportdto.ChannelRatingByMonth{Channels: []*string{}, RatingAvg: [][]any{}}
	if len(docs) > 0 {
		if docs[0].Channels != nil {
			result.Channels = docs[0].Channels
		}
		if docs[0].RatingAvg != nil {
			result.RatingAvg = docs[0].RatingAvg
		}
	}
	return result, nil
}

// FeedbackByRegion các phản hồi của region, chỉ gồm các field trong models.CustomerFeedbackFields.
// Giá trị được trả nguyên kiểu như trong DB.
func (s *ReportService) FeedbackByRegion(ctx context.Context, q reportdto.FeedbackByRegionQuery) (rows []models.Document, err error) {
	defer observe(ReportFeedbackByRegion, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	filter, projection := FeedbackByRegionFilter(q.Region)
	rows = []models.Document{}
	if err = s.store.Find(ctx, global.MongoDB_ColNames.CustomerFeedback, filter, projection, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByRegion tổng doanh số theo salesperson trong region, sort salesperson tăng dần
func (s *ReportService) SalesByRegion(ctx context.Context, p reportdto.SalesByRegionParams) (rows []reportdto.SalesByRegionRow, err error) {
	defer observe(ReportSalesByRegion, time.Now(), &err)
	if err = reportdto.ValidateQuery(p); err != nil {
		return nil, err
	}
	rows = []reportdto.SalesByRegionRow{}
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.Sales, BuildSalesByRegionPipeline(p.Region), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByMonth các giao dịch có date thuộc tháng (mọi năm), kèm tên tháng
func (s *ReportService) SalesByMonth(ctx context.Context, q reportdto.SalesByMonthQuery) (rows []models.Document, err error) {
	defer observe(ReportSalesByMonth, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	month, _ := global.ParseMonth(q.Month)

	rows = []models.Document{}
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.Sales, BuildSalesByMonthPipeline(month), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SalesByRegionAndProduct các giao dịch theo region + product, sort salesperson tăng dần
func (s *ReportService) SalesByRegionAndProduct(ctx context.Context, q reportdto.SalesByRegionAndProductQuery) (rows []reportdto.SalesByRegionAndProductRow, err error) {
	defer observe(ReportSalesByRegionAndProduct, time.Now(), &err)
	if err = reportdto.ValidateQuery(q); err != nil {
		return nil, err
	}
	rows = []reportdto.SalesByRegionAndProductRow{}
	if err = s.store.Aggregate(ctx, global.MongoDB_ColNames.Sales, BuildSalesByRegionAndProductPipeline(q.Region, q.Product), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
