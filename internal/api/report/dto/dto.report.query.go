// Package reportdto chứa DTO cho domain Report: tham số truy vấn và kết quả trả về.
package reportdto

import (
	"errors"
	"fmt"

	"apre_report/internal/common"
	"apre_report/internal/global"

	"github.com/go-playground/validator/v10"
)

// Query là tham số của một báo cáo. RequiredMessage là thông báo khi thiếu tham số bắt buộc.
type Query interface {
	RequiredMessage() string
}

// CallDurationByDateRangeQuery query cho GET agent-performance/call-duration-by-date-range
type CallDurationByDateRangeQuery struct {
	StartDate string `query:"startDate" validate:"required,report_date"` // YYYY-MM-DD hoặc RFC 3339
	EndDate   string `query:"endDate" validate:"required,report_date"`   // YYYY-MM-DD hoặc RFC 3339
}

func (CallDurationByDateRangeQuery) RequiredMessage() string {
	return "Start date and end date are required"
}

// PerformanceByTeamQuery query cho GET agent-performance/performance-by-team
type PerformanceByTeamQuery struct {
	Team string `query:"team" validate:"required"`
}

func (PerformanceByTeamQuery) RequiredMessage() string { return "Team is required" }

// ChannelRatingByMonthQuery query cho GET customer-feedback/channel-rating-by-month
type ChannelRatingByMonthQuery struct {
	Month string `query:"month" validate:"required,month_number"` // 1..12
}

func (ChannelRatingByMonthQuery) RequiredMessage() string { return "month is required" }

// FeedbackByRegionQuery query cho GET customer-feedback/customer-feedback-by-region
type FeedbackByRegionQuery struct {
	Region string `query:"region" validate:"required"`
}

func (FeedbackByRegionQuery) RequiredMessage() string { return "region is required" }

// SalesByRegionParams path params cho GET sales/regions/:region
type SalesByRegionParams struct {
	Region string `uri:"region" validate:"required"`
}

func (SalesByRegionParams) RequiredMessage() string { return "region is required" }

// SalesByMonthQuery query cho GET sales/sales-by-month
type SalesByMonthQuery struct {
	Month string `query:"month" validate:"required,month_number"` // 1..12
}

func (SalesByMonthQuery) RequiredMessage() string { return "Month parameter is missing" }

// SalesByRegionAndProductQuery query cho GET sales/sales-by-region-and-product
type SalesByRegionAndProductQuery struct {
	Region  string `query:"region" validate:"required"`
	Product string `query:"product" validate:"required"`
}

func (SalesByRegionAndProductQuery) RequiredMessage() string {
	return "Both region and product parameters are required"
}

// ValidateQuery kiểm tra q bằng global.Validate.
// Thiếu tham số → VAL_001 với q.RequiredMessage(); sai định dạng → VAL_002.
func ValidateQuery(q Query) error {
	if global.Validate == nil {
		global.InitValidator()
	}
	err := global.Validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return common.NewValidationError(err.Error())
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return common.NewValidationError(q.RequiredMessage())
		}
	}
	return common.NewFormatError(formatMessage(verrs[0]))
}

func formatMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "month_number":
		return fmt.Sprintf("%s must be a month number between 1 and 12", fe.Field())
	case "report_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD or RFC 3339 format", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
