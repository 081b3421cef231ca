package reporthdl

import (
	basehdl "apre_report/internal/api/base/handler"
	reportdto "apre_report/internal/api/report/dto"

	"github.com/gofiber/fiber/v3"
)

// HandleSalesRegions xử lý GET /reports/sales/regions
func (h *ReportHandler) HandleSalesRegions(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		regions, err := h.ReportService.SalesRegions(c.Context())
		return respond(c, regions, err)
	})
}

// HandleSalesByRegion xử lý GET /reports/sales/regions/:region
func (h *ReportHandler) HandleSalesByRegion(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		p := reportdto.SalesByRegionParams{Region: c.Params("region")}
		rows, err := h.ReportService.SalesByRegion(c.Context(), p)
		return respond(c, rows, err)
	})
}

// HandleSalesByMonth xử lý GET /reports/sales/sales-by-month?month=1..12
func (h *ReportHandler) HandleSalesByMonth(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.SalesByMonthQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		rows, err := h.ReportService.SalesByMonth(c.Context(), q)
		return respond(c, rows, err)
	})
}

// HandleProducts xử lý GET /reports/sales/products
func (h *ReportHandler) HandleProducts(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		products, err := h.ReportService.Products(c.Context())
		return respond(c, products, err)
	})
}

// HandleSalesByRegionAndProduct xử lý GET /reports/sales/sales-by-region-and-product?region=...&product=...
func (h *ReportHandler) HandleSalesByRegionAndProduct(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		var q reportdto.SalesByRegionAndProductQuery
		if err := bindQuery(c, &q); err != nil {
			return err
		}
		rows, err := h.ReportService.SalesByRegionAndProduct(c.Context(), q)
		return respond(c, rows, err)
	})
}
