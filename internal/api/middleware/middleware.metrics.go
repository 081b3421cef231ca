package middleware

import (
	"strconv"
	"time"

	"apre_report/internal/metrics"

	"github.com/gofiber/fiber/v3"
)

// MetricsMiddleware đếm request và đo thời gian xử lý.
// Label route là pattern đã đăng ký (vd: /api/reports/sales/regions/:region).
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		status := c.Response().StatusCode()
		if err != nil {
			// ErrorHandler chưa chạy, lấy status từ lỗi
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
