package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/pkg/metrics"
)

// StockAccountant motor de contabilidad de stock: cada StockMove insertado suma su
// cantidad a current_stock del producto, dentro de la transacción del caller.
type StockAccountant struct {
	log zerolog.Logger
}

// NewStockAccountant construye el motor.
func NewStockAccountant(log zerolog.Logger) *StockAccountant {
	return &StockAccountant{log: log}
}

// Apply suma delta a current_stock. Sin producto no hace nada (applied=false): los
// movimientos sincronizados pueden llegar antes que su producto. No hay piso en cero.
func (a *StockAccountant) Apply(ctx context.Context, products repository.ProductRepository, productID string, delta int64, at time.Time) (int64, bool, error) {
	stock, found, err := products.AdjustStock(ctx, productID, delta, at)
	if err != nil {
		return 0, false, err
	}
	if !found {
		metrics.StockMovesApplied.WithLabelValues("missing_product").Inc()
		a.log.Warn().
			Str("product_id", productID).
			Int64("delta", delta).
			Msg("movimiento sin producto: stock no actualizado")
		return 0, false, nil
	}
	metrics.StockMovesApplied.WithLabelValues("applied").Inc()
	if stock < 0 {
		a.log.Info().Str("product_id", productID).Int64("current_stock", stock).Msg("producto sobrevendido")
	}
	return stock, true, nil
}

// Reverse deshace el efecto de un movimiento (borrado con reverse=true).
func (a *StockAccountant) Reverse(ctx context.Context, products repository.ProductRepository, productID string, quantity int64, at time.Time) (int64, bool, error) {
	stock, found, err := products.AdjustStock(ctx, productID, -quantity, at)
	if err != nil {
		return 0, false, err
	}
	if found {
		metrics.StockMovesApplied.WithLabelValues("reversed").Inc()
	}
	return stock, found, nil
}
