package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

// ImportResult resumen de una carga masiva.
type ImportResult struct {
	Inserted []string
	Skipped  []string // SKUs ya existentes
}

// Import carga productos en una sola transacción. Los SKU ya registrados se saltan, así la
// misma carga puede repetirse. Una fila inválida aborta todo el lote.
func (uc *ProductUseCase) Import(ctx context.Context, rows []dto.CreateProductRequest) (*ImportResult, error) {
	products := make([]*entity.Product, 0, len(rows))
	for i, in := range rows {
		p, err := NewProduct(in.ID, in.Name, in.SKU, in.Category, in.MinStockLevel)
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", i+1, err)
		}
		products = append(products, p)
	}

	res := &ImportResult{}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		res.Inserted, res.Skipped = nil, nil
		now := domain.Now()
		for _, p := range products {
			p.LastUpdated = now
			ok, err := repos.Products.InsertIfAbsent(ctx, p)
			if err != nil {
				return err
			}
			if ok {
				res.Inserted = append(res.Inserted, p.ID)
			} else {
				res.Skipped = append(res.Skipped, p.SKU)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
