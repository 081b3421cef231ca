package basehdl

import (
	"context"
	"time"

	"apre_report/internal/common"

	"github.com/gofiber/fiber/v3"
)

// Pinger kiểm tra kết nối tới một dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler xử lý các route liên quan đến system operations
type SystemHandler struct {
	database Pinger
	cache    Pinger
}

// NewSystemHandler tạo SystemHandler. cache có thể nil (không cấu hình Redis).
func NewSystemHandler(database, cache Pinger) *SystemHandler {
	return &SystemHandler{database: database, cache: cache}
}

// HandleHealth kiểm tra tình trạng hệ thống: 200 khi database ok, 503 khi database lỗi.
// Cache lỗi chỉ làm trạng thái thành degraded.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	services := fiber.Map{"api": "ok"}
	healthData := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  services,
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			services["cache"] = "error"
			healthData["status"] = "degraded"
		} else {
			services["cache"] = "ok"
		}
	}

	if h.database == nil {
		services["database"] = "not_initialized"
		healthData["status"] = "degraded"
		return JSONResponse(c, common.StatusServiceUnavailable, healthData)
	}
	if err := h.database.Ping(ctx); err != nil {
		services["database"] = "error"
		healthData["status"] = "unhealthy"
		return JSONResponse(c, common.StatusServiceUnavailable, healthData)
	}
	services["database"] = "ok"

	return JSONResponse(c, common.StatusOK, healthData)
}
