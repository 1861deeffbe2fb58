package reconciler

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// Los registros de push pasan por los mismos constructores que el CRUD: los campos
// omitidos toman los mismos valores por defecto. El id es obligatorio.

func requireID(kind string, i int, id *string) error {
	if id == nil || strings.TrimSpace(*id) == "" {
		return fmt.Errorf("%w: %s[%d] sin id", domain.ErrValidation, kind, i)
	}
	return nil
}

func wrapRecord(kind string, i int, err error) error {
	return fmt.Errorf("%s[%d]: %w", kind, i, err)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func buildProducts(in []dto.PushProduct) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(in))
	for i, rec := range in {
		if err := requireID("products", i, rec.ID); err != nil {
			return nil, err
		}
		p, err := usecase.NewProduct(rec.ID, deref(rec.Name), deref(rec.SKU), rec.Category, deref(rec.MinStockLevel))
		if err != nil {
			return nil, wrapRecord("products", i, err)
		}
		p.CurrentStock = deref(rec.CurrentStock)
		p.IsDeleted = deref(rec.IsDeleted)
		out = append(out, p)
	}
	return out, nil
}

func buildOperations(in []dto.PushOperation) ([]*entity.Operation, error) {
	out := make([]*entity.Operation, 0, len(in))
	for i, rec := range in {
		if err := requireID("operations", i, rec.ID); err != nil {
			return nil, err
		}
		op, err := usecase.NewOperation(rec.ID, deref(rec.Type), rec.Status, rec.ReferenceCode, rec.CreatedBy)
		if err != nil {
			return nil, wrapRecord("operations", i, err)
		}
		if rec.CreatedAt != nil {
			op.CreatedAt = rec.CreatedAt.UTC()
		}
		out = append(out, op)
	}
	return out, nil
}

func buildStockMoves(in []dto.PushStockMove) ([]*entity.StockMove, error) {
	out := make([]*entity.StockMove, 0, len(in))
	for i, rec := range in {
		if err := requireID("stock_moves", i, rec.ID); err != nil {
			return nil, err
		}
		if rec.Quantity == nil {
			return nil, fmt.Errorf("%w: stock_moves[%d] sin quantity", domain.ErrValidation, i)
		}
		m, err := inventory.NewStockMove(rec.ID, deref(rec.OperationID), deref(rec.ProductID), *rec.Quantity, rec.LocationSource, rec.LocationDest)
		if err != nil {
			return nil, wrapRecord("stock_moves", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}
