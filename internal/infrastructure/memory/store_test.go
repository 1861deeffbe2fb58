package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/memory"
)

func product(sku string) *entity.Product {
	return &entity.Product{ID: domain.NewID(), Name: sku, SKU: sku, LastUpdated: domain.Now()}
}

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := product("A-1")
	boom := errors.New("boom")

	err := store.Run(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Products.Create(ctx, p))
		require.NoError(t, repos.Changes.Append(ctx, entity.Tombstone(entity.ChangeEntityProduct, p.ID, domain.Now())))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Repositories().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	changes, err := store.Repositories().Changes.Since(ctx, p.LastUpdated.Add(-1))
	require.NoError(t, err)
	assert.Empty(t, changes)

	require.NoError(t, store.Run(ctx, func(repos repository.Repositories) error {
		return repos.Products.Create(ctx, p)
	}))
	got, err = store.Repositories().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestStore_RunContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := store.Run(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStore_CopiasAisladas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := product("A-2")
	require.NoError(t, store.Repositories().Products.Create(ctx, p))

	got, err := store.Repositories().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutado"

	again, err := store.Repositories().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-2", again.Name)
}

func TestStore_AdjustStockConcurrente(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	p := product("A-3")
	require.NoError(t, store.Repositories().Products.Create(ctx, p))

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Run(ctx, func(repos repository.Repositories) error {
				_, _, err := repos.Products.AdjustStock(ctx, p.ID, 1, domain.Now())
				return err
			})
		}()
	}
	wg.Wait()

	got, err := store.Repositories().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.CurrentStock)
}

func TestStore_ReglasDeUnicidad(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()

	p := product("A-4")
	require.NoError(t, repos.Products.Create(ctx, p))
	assert.ErrorIs(t, repos.Products.Create(ctx, product("A-4")), domain.ErrConflict)

	ok, err := repos.Products.InsertIfAbsent(ctx, product("A-4"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, repos.StockMoves.Create(ctx, &entity.StockMove{
		ID: domain.NewID(), OperationID: domain.NewID(), ProductID: p.ID, Quantity: 1, CreatedAt: domain.Now(),
	}), domain.ErrNotFound)

	u := &entity.User{ID: domain.NewID(), Email: "ana@stockmaster.com", Role: entity.RoleStaff, CreatedAt: domain.Now()}
	require.NoError(t, repos.Users.Create(ctx, u))
	dup := *u
	dup.ID = domain.NewID()
	assert.ErrorIs(t, repos.Users.Create(ctx, &dup), domain.ErrConflict)
}
