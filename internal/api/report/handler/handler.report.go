// Package reporthdl chứa HTTP handler cho domain Report: agent performance, customer feedback, sales.
package reporthdl

import (
	"fmt"

	basehdl "apre_report/internal/api/base/handler"
	reportsvc "apre_report/internal/api/report/service"

	"github.com/gofiber/fiber/v3"
)

// ReportHandler xử lý các API báo cáo. Response thành công là JSON thô (mảng hoặc object).
type ReportHandler struct {
	ReportService *reportsvc.ReportService
}

// NewReportHandler tạo ReportHandler với ReportService từ kết nối toàn cục
func NewReportHandler() (*ReportHandler, error) {
	svc, err := reportsvc.NewReportService()
	if err != nil {
		return nil, fmt.Errorf("tạo ReportService: %w", err)
	}
	return NewReportHandlerWithService(svc), nil
}

// NewReportHandlerWithService tạo ReportHandler với service cho trước
func NewReportHandlerWithService(svc *reportsvc.ReportService) *ReportHandler {
	return &ReportHandler{ReportService: svc}
}

// bindQuery parse query string vào q. Lỗi parse là lỗi 400.
func bindQuery(c fiber.Ctx, q any) error {
	if err := c.Bind().Query(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

// respond trả kết quả hoặc envelope lỗi
func respond(c fiber.Ctx, data any, err error) error {
	return basehdl.HandleResponse(c, data, err)
}
