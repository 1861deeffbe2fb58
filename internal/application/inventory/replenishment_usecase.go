package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

// idealStockFactor stock ideal = mínimo * 1.5 (redondeado hacia arriba).
var idealStockFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera el reporte de productos en o bajo su mínimo (incluye sobrevendidos).
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	pdf      StockReportPDFGenerator
}

// NewReplenishmentUseCase construye el caso de uso. pdf puede ser nil si no se exporta PDF.
func NewReplenishmentUseCase(products repository.ProductRepository, pdf StockReportPDFGenerator) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, pdf: pdf}
}

// LowStock devuelve los productos activos con current_stock <= min_stock_level y la
// cantidad sugerida de pedido (ideal - actual), ordenados por mayor déficit.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context) (*dto.LowStockReport, error) {
	list, err := uc.products.ListBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	report := &dto.LowStockReport{GeneratedAt: domain.Now(), Items: make([]dto.LowStockItem, 0, len(list))}
	for _, p := range list {
		ideal := decimal.NewFromInt(int64(p.MinStockLevel)).Mul(idealStockFactor).Ceil()
		suggested := ideal.Sub(decimal.NewFromInt(p.CurrentStock))
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		item := dto.LowStockItem{
			ProductID:        p.ID,
			Name:             p.Name,
			SKU:              p.SKU,
			Category:         p.Category,
			CurrentStock:     p.CurrentStock,
			MinStockLevel:    p.MinStockLevel,
			SuggestedReorder: suggested.IntPart(),
			Oversold:         p.Oversold(),
		}
		if item.Oversold {
			report.Oversold++
		}
		report.Items = append(report.Items, item)
	}

	// Mayor déficit primero; desempate por nombre.
	sort.SliceStable(report.Items, func(i, j int) bool {
		a, b := report.Items[i], report.Items[j]
		defA := int64(a.MinStockLevel) - a.CurrentStock
		defB := int64(b.MinStockLevel) - b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.Name < b.Name
	})
	return report, nil
}

// LowStockPDF genera el mismo reporte como PDF.
func (uc *ReplenishmentUseCase) LowStockPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	report, err := uc.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pdf.Generate(report)
}
