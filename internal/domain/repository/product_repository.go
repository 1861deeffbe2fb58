package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// ProductFilter criterios de listado. Los productos dados de baja nunca se listan.
type ProductFilter struct {
	Category string
	Limit    int // 0 = sin límite
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetBySKU devuelven (nil, nil) si no existe; incluyen productos dados de baja.
type ProductRepository interface {
	// Create persiste un producto nuevo. domain.ErrConflict si el id o el SKU ya existen.
	Create(ctx context.Context, product *entity.Product) error
	// InsertIfAbsent inserta salvo que choque con un id o SKU existente; reporta si insertó.
	InsertIfAbsent(ctx context.Context, product *entity.Product) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update escribe name, sku, category, min_stock_level y last_updated. No toca current_stock.
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	// AdjustStock suma delta a current_stock de forma atómica (bloquea la fila).
	// found=false si el producto no existe.
	AdjustStock(ctx context.Context, id string, delta int64, at time.Time) (newStock int64, found bool, err error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// ChangedSince devuelve productos activos con last_updated >= since (todos si since es nil).
	ChangedSince(ctx context.Context, since *time.Time) ([]*entity.Product, error)
	// ListBelowMinimum devuelve productos activos con current_stock <= min_stock_level.
	ListBelowMinimum(ctx context.Context) ([]*entity.Product, error)
}
