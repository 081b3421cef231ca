package reporthdl

import (
	basehdl "apre_report/internal/api/base/handler"
	reportdto "apre_report/internal/api/report/dto"

	"github.com/gofiber/fiber/v3"
)

// HandleFeedbackRegions xử lý GET /reports/customer-feedback/regions
func (h *ReportHandler) HandleFeedbackRegions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		regions, err := h.ReportService.FeedbackRegions(c.Context())
		return respond(c, regions, err)
	})
}

// HandleChannelRatingByMonth xử lý GET /reports/customer-feedback/channel-rating-by-month?month=1..12
func (h *ReportHandler) HandleChannelRatingByMonth(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.ChannelRatingByMonthQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		result, err := h.ReportService.ChannelRatingByMonth(c.Context(), q)
		return respond(c, result, err)
	})
}

// HandleFeedbackByRegion xử lý GET /reports/customer-feedback/customer-feedback-by-region?region=...
func (h *ReportHandler) HandleFeedbackByRegion(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.FeedbackByRegionQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		rows, err := h.ReportService.FeedbackByRegion(c.Context(), q)
		return respond(c, rows, err)
	})
}
