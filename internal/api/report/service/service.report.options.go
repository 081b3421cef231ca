package reportsvc

import (
	"context"
	"errors"
	"fmt"

	"apre_report/internal/cache"
	"apre_report/internal/global"
)

// OptionSource là một danh sách filter: giá trị distinct của Field trong Collection
type OptionSource struct {
	Name       string
	Collection string
	Field      string
}

// OptionSources các danh sách filter mà client dùng
func OptionSources() []OptionSource {
	return []OptionSource{
		{Name: "teams", Collection: global.MongoDB_ColNames.AgentPerformance, Field: "team"},
		{Name: "feedback-regions", Collection: global.MongoDB_ColNames.CustomerFeedback, Field: "region"},
		{Name: "sales-regions", Collection: global.MongoDB_ColNames.Sales, Field: "region"},
		{Name: "products", Collection: global.MongoDB_ColNames.Sales, Field: "product"},
	}
}

// DistinctValues giá trị distinct của field, giữ thứ tự của store.
// null bị bỏ, giá trị không phải chuỗi được đổi sang chuỗi.
func (s *ReportService) DistinctValues(ctx context.Context, collection, field string) ([]string, error) {
	key := cache.OptionsKey(collection, field)
	if values, ok := s.cache.Get(ctx, key); ok {
		return values, nil
	}

	values, err := s.loadDistinct(ctx, collection, field)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, values)
	return values, nil
}

func (s *ReportService) loadDistinct(ctx context.Context, collection, field string) ([]string, error) {
	raw, err := s.store.Distinct(ctx, collection, field)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		switch tv := v.(type) {
		case nil:
			continue
		case string:
			values = append(values, tv)
		default:
			values = append(values, fmt.Sprint(tv))
		}
	}
	return values, nil
}

// Teams danh sách team trong agentPerformance
func (s *ReportService) Teams(ctx context.Context) ([]string, error) {
	return s.DistinctValues(ctx, global.MongoDB_ColNames.AgentPerformance, "team")
}

// FeedbackRegions danh sách region trong customerFeedback
func (s *ReportService) FeedbackRegions(ctx context.Context) ([]string, error) {
	return s.DistinctValues(ctx, global.MongoDB_ColNames.CustomerFeedback, "region")
}

// SalesRegions danh sách region trong sales
func (s *ReportService) SalesRegions(ctx context.Context) ([]string, error) {
	return s.DistinctValues(ctx, global.MongoDB_ColNames.Sales, "region")
}

// Products danh sách product trong sales
func (s *ReportService) Products(ctx context.Context) ([]string, error) {
	return s.DistinctValues(ctx, global.MongoDB_ColNames.Sales, "product")
}

// WarmOptions đọc lại tất cả danh sách filter từ store và ghi đè cache.
// Lỗi của từng danh sách được gộp lại, các danh sách khác vẫn được làm mới.
func (s *ReportService) WarmOptions(ctx context.Context) error {
	var errs []error
	for _, src := range OptionSources() {
		values, err := s.loadDistinct(ctx, src.Collection, src.Field)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
			continue
		}
		s.cache.Set(ctx, cache.OptionsKey(src.Collection, src.Field), values)
	}
	return errors.Join(errs...)
}
