package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
)

// ReportHandler reportes de stock.
type ReportHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *inventory.ReplenishmentUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// LowStock godoc
// @Summary      Productos en o bajo su mínimo
// @Description  Incluye sobrevendidos (stock negativo) y cantidad sugerida de pedido.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReport
// @Router       /reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStockPDF godoc
// @Summary      Reporte de stock bajo en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /reports/low-stock.pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.LowStockPDF(c.UserContext())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "low-stock.pdf"))
	return c.Send(pdf)
}
