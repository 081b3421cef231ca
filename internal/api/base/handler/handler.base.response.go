// Package basehdl chứa các helper dùng chung cho handler: response, recover, health.
package basehdl

import (
	"fmt"
	"runtime/debug"

	"apre_report/internal/api/middleware"
	"apre_report/internal/common"
	"apre_report/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	return middleware.JSONResponse(c, statusCode, data)
}

// SafeHandlerWrapper bọc handler với recover để server luôn trả response, kể cả khi panic.
func SafeHandlerWrapper(c fiber.Ctx, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithField("panic", r).WithField("stack", string(debug.Stack())).Error("Panic recovered in handler")
			err = middleware.HandleErrorResponse(c, common.NewError(
				common.ErrCodeInternalServer,
				common.MsgInternalError,
				common.StatusInternalServerError,
				fmt.Errorf("panic: %v", r),
			))
		}
	}()
	return fn()
}

// HandleResponse trả dữ liệu báo cáo dạng JSON thô (200) hoặc envelope lỗi.
func HandleResponse(c fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		return middleware.HandleErrorResponse(c, err)
	}
	return JSONResponse(c, common.StatusOK, data)
}
