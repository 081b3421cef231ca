// Package router đăng ký các route thuộc domain Report: agent-performance, customer-feedback, sales.
package router

import (
	"fmt"

	reporthdl "apre_report/internal/api/report/handler"
	apirouter "apre_report/internal/api/router"

	"github.com/gofiber/fiber/v3"
)

const prefix = "/reports"

// Register đăng ký tất cả route report lên api (/api/reports/...)
func Register(api fiber.Router, r *apirouter.Router) error {
	reportHandler, err := reporthdl.NewReportHandler()
	if err != nil {
		return fmt.Errorf("create report handler: %w", err)
	}
	RegisterHandler(api, reportHandler)
	return nil
}

// RegisterHandler đăng ký các route report với handler cho trước
func RegisterHandler(api fiber.Router, h *reporthdl.ReportHandler) {
	var noMiddleware []fiber.Handler

	// Agent performance
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/agent-performance/call-duration-by-date-range", noMiddleware, h.HandleCallDurationByDateRange)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/agent-performance/teams", noMiddleware, h.HandleTeams)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/agent-performance/performance-by-team", noMiddleware, h.HandlePerformanceByTeam)

	// Customer feedback
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/customer-feedback/channel-rating-by-month", noMiddleware, h.HandleChannelRatingByMonth)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/customer-feedback/regions", noMiddleware, h.HandleFeedbackRegions)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/customer-feedback/customer-feedback-by-region", noMiddleware, h.HandleFeedbackByRegion)

	// Sales
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/sales/regions", noMiddleware, h.HandleSalesRegions)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/sales/regions/:region", noMiddleware, h.HandleSalesByRegion)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/sales/sales-by-month", noMiddleware, h.HandleSalesByMonth)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/sales/products", noMiddleware, h.HandleProducts)
	apirouter.RegisterRouteWithMiddleware(api, prefix, "GET", "/sales/sales-by-region-and-product", noMiddleware, h.HandleSalesByRegionAndProduct)
}
