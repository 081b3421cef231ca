package middleware

import (
	"errors"

	"apre_report/internal/common"
	"apre_report/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// JSONResponse trả về JSON response với Content-Type: application/json; charset=utf-8
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// ErrorBody là envelope lỗi thống nhất: {"code", "message", "status": "error"}
func ErrorBody(code, message string) fiber.Map {
	return fiber.Map{
		"code":    code,
		"message": message,
		"status":  "error",
	}
}

// HandleErrorResponse xử lý và trả về error response cho client.
// Lỗi 5xx chỉ trả message chung, chi tiết được ghi log.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		if customErr.StatusCode >= common.StatusInternalServerError {
			logger.WithRequest(c).WithError(err).WithFields(map[string]interface{}{
				"errorCode": customErr.Code.Code,
				"details":   customErr.Details,
			}).Error("Request failed")
		}
		return JSONResponse(c, customErr.StatusCode, ErrorBody(customErr.Code.Code, customErr.Message))
	}

	// Không phải custom error: trả về internal server error
	logger.WithRequest(c).WithError(err).Error("Request failed")
	return JSONResponse(c, common.StatusInternalServerError, ErrorBody(common.ErrCodeInternalServer.Code, common.MsgInternalError))
}
