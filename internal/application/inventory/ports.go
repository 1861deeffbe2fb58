package inventory

import "github.com/jhoicas/stockmaster-api/internal/application/dto"

// StockReportPDFGenerator renderiza el reporte de stock bajo como PDF (puerto hacia infraestructura).
type StockReportPDFGenerator interface {
	Generate(report *dto.LowStockReport) ([]byte, error)
}
