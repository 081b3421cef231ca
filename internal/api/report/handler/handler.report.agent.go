package reporthdl

import (
	basehdl "apre_report/internal/api/base/handler"
	reportdto "apre_report/internal/api/report/dto"

	"github.com/gofiber/fiber/v3"
)

// HandleTeams xử lý GET /reports/agent-performance/teams
func (h *ReportHandler) HandleTeams(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		teams, err := h.ReportService.Teams(c.Context())
		return respond(c, teams, err)
	})
}

// HandleCallDurationByDateRange xử lý GET /reports/agent-performance/call-duration-by-date-range
// Query: startDate, endDate (YYYY-MM-DD hoặc RFC 3339)
func (h *ReportHandler) HandleCallDurationByDateRange(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.CallDurationByDateRangeQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		result, err := h.ReportService.CallDurationByDateRange(c.Context(), q)
		return respond(c, result, err)
	})
}

// HandlePerformanceByTeam xử lý GET /reports/agent-performance/performance-by-team?team=...
func (h *ReportHandler) HandlePerformanceByTeam(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.PerformanceByTeamQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		rows, err := h.ReportService.PerformanceByTeam(c.Context(), q)
		return respond(c, rows, err)
	})
}
