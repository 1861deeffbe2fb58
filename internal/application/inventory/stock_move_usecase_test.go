package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/memory"
)

type fixture struct {
	repos    repository.Repositories
	products *usecase.ProductUseCase
	ops      *usecase.OperationUseCase
	moves    *inventory.StockMoveUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := zerolog.Nop()
	return &fixture{
		repos:    repos,
		products: usecase.NewProductUseCase(store, repos.Products),
		ops:      usecase.NewOperationUseCase(store, repos.Operations, repos.StockMoves),
		moves:    inventory.NewStockMoveUseCase(store, repos.StockMoves, inventory.NewStockAccountant(log), log),
	}
}

func (f *fixture) product(t *testing.T, sku string, minStock int) *dto.ProductResponse {
	t.Helper()
	p, err := f.products.Create(context.Background(), dto.CreateProductRequest{Name: "Producto " + sku, SKU: sku, MinStockLevel: minStock})
	require.NoError(t, err)
	return p
}

func (f *fixture) operation(t *testing.T) *dto.OperationResponse {
	t.Helper()
	op, err := f.ops.Create(context.Background(), dto.CreateOperationRequest{Type: "adjustment"})
	require.NoError(t, err)
	return op
}

func (f *fixture) stock(t *testing.T, productID string) int64 {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

func TestCreate_AcumulaStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A-1", 0)
	op := f.operation(t)

	_, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	_, err = f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: -2})
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.stock(t, p.ID))
}

func TestCreate_PermiteStockNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A-1", 0)
	op := f.operation(t)

	_, err := f.moves.Create(context.Background(), dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: -4})
	require.NoError(t, err)
	assert.Equal(t, int64(-4), f.stock(t, p.ID))
}

func TestCreate_ValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A-1", 0)
	op := f.operation(t)

	m, err := f.moves.Create(context.Background(), dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultLocationSource, m.LocationSource)
	assert.Equal(t, entity.DefaultLocationDest, m.LocationDest)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A-1", 0)
	op := f.operation(t)

	_, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: "x", ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: domain.NewID(), ProductID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(0), f.stock(t, p.ID), "un movimiento rechazado no toca el stock")
}

func TestCreate_ProductoInexistenteNoFalla(t *testing.T) {
	f := newFixture(t)
	op := f.operation(t)

	m, err := f.moves.Create(context.Background(), dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: domain.NewID(), Quantity: 3})
	require.NoError(t, err)

	got, err := f.moves.GetByID(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestCreate_Concurrente(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A-1", 0)
	op := f.operation(t)

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.moves.Create(context.Background(), dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 1})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int64(n), f.stock(t, p.ID))
}

func TestUpdate_NoRecontabiliza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A-1", 0)
	op := f.operation(t)
	m, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)

	q := int64(9)
	updated, err := f.moves.Update(ctx, m.ID, dto.UpdateStockMoveRequest{Quantity: &q})
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.Quantity)
	assert.Equal(t, int64(5), f.stock(t, p.ID))
}

func TestDelete_SinYConReversa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.product(t, "A-1", 0)
	op := f.operation(t)
	keep, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 5})
	require.NoError(t, err)
	rev, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)
	before := domain.Now()

	require.NoError(t, f.moves.Delete(ctx, keep.ID, false))
	assert.Equal(t, int64(7), f.stock(t, p.ID), "por defecto el borrado no revierte")

	require.NoError(t, f.moves.Delete(ctx, rev.ID, true))
	assert.Equal(t, int64(5), f.stock(t, p.ID))

	_, err = f.moves.GetByID(ctx, keep.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.moves.Delete(ctx, keep.ID, false), domain.ErrNotFound)

	changes, err := f.repos.Changes.Since(ctx, before)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, keep.ID, changes[0].EntityID)
	assert.Equal(t, rev.ID, changes[1].EntityID)
}

func TestList_Filtros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A-1", 0)
	b := f.product(t, "B-1", 0)
	op := f.operation(t)
	for _, pid := range []string{a.ID, a.ID, b.ID} {
		_, err := f.moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: pid, Quantity: 1})
		require.NoError(t, err)
	}

	list, err := f.moves.List(ctx, dto.StockMoveListRequest{ProductID: a.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.moves.List(ctx, dto.StockMoveListRequest{OperationID: op.ID, PageRequest: dto.PageRequest{Limit: 1}})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.moves.List(ctx, dto.StockMoveListRequest{ProductID: "no-uuid"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
