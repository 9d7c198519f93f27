package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/reports"
)

// ReportsHandler maneja los reportes de ventas, inventario y órdenes (protegido).
type ReportsHandler struct {
	uc *reports.UseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(uc *reports.UseCase) *ReportsHandler {
	return &ReportsHandler{uc: uc}
}

// SalesReport godoc
// @Summary      Reporte de ventas
// @Description  Resumen del período más ventas por producto y por cliente. Fechas en formato YYYY-MM-DD.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "inicio del período"
// @Param        end_date    query  string  false  "fin del período"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportsHandler) SalesReport(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "fecha inválida, use YYYY-MM-DD"})
	}
	report, err := h.uc.GetSalesReport(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// InventoryReport godoc
// @Summary      Reporte de inventario valorizado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportsHandler) InventoryReport(c *fiber.Ctx) error {
	report, err := h.uc.GetInventoryReport(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// OrderStats godoc
// @Summary      Estadísticas de órdenes por estado
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderStatsResponse
// @Router       /api/reports/orders [get]
func (h *ReportsHandler) OrderStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetOrderStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// parsePeriod lee start_date y end_date (YYYY-MM-DD) del query string.
// end_date se extiende al final del día para que el rango sea inclusivo.
func parsePeriod(c *fiber.Ctx) (from, to *time.Time, err error) {
	if s := c.Query("start_date"); s != "" {
		t, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, perr
		}
		from = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, perr := time.Parse("2006-01-02", s)
		if perr != nil {
			return nil, nil, perr
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
