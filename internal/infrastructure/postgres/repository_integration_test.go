package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockmaster-api/pkg/config"
)

// setupTestDB usa una base dedicada (TEST_DATABASE_URL) para no tocar la de la app.
// Aplica migraciones y vacía las tablas antes de cada test.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL no definido: se omite el test de integración")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dbURL})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	again, err := postgres.Migrate(ctx, pool)
	require.NoError(t, err)
	assert.Empty(t, again, "las migraciones aplicadas no se repiten")

	_, err = pool.Exec(ctx, `TRUNCATE TABLE stock_moves, operations, products, users, change_log RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func newProduct(sku string) *entity.Product {
	return &entity.Product{ID: domain.NewID(), Name: "Producto " + sku, SKU: sku, LastUpdated: domain.Now()}
}

func newOperation() *entity.Operation {
	now := domain.Now()
	return &entity.Operation{ID: domain.NewID(), Type: entity.OperationTypeReceipt, Status: entity.OperationStatusDraft, CreatedAt: now, LastUpdated: now}
}

func newMove(opID, productID string, qty int64) *entity.StockMove {
	return &entity.StockMove{
		ID: domain.NewID(), OperationID: opID, ProductID: productID, Quantity: qty,
		LocationSource: entity.DefaultLocationSource, LocationDest: entity.DefaultLocationDest, CreatedAt: domain.Now(),
	}
}

func TestProductRepo_CRUDYConflictos(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewProductRepository(pool)
	ctx := context.Background()

	p := newProduct("CB-1")
	require.NoError(t, repo.Create(ctx, p))
	assert.ErrorIs(t, repo.Create(ctx, newProduct("CB-1")), domain.ErrConflict)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "CB-1", got.SKU)
	assert.True(t, got.LastUpdated.Equal(p.LastUpdated))

	missing, err := repo.GetByID(ctx, domain.NewID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := repo.InsertIfAbsent(ctx, newProduct("CB-1"))
	require.NoError(t, err)
	assert.False(t, ok, "SKU existente se ignora")
	ok, err = repo.InsertIfAbsent(ctx, p)
	require.NoError(t, err)
	assert.False(t, ok, "id existente se ignora")

	require.NoError(t, repo.SoftDelete(ctx, p.ID, domain.Now()))
	list, err := repo.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	changed, err := repo.ChangedSince(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, changed)

	// sigue resolviendo por id para los movimientos históricos
	deleted, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted)
}

func TestProductRepo_AdjustStockConcurrente(t *testing.T) {
	pool := setupTestDB(t)
	runner := postgres.NewTxRunner(pool)
	repo := postgres.NewProductRepository(pool)
	ctx := context.Background()
	p := newProduct("CJ-1")
	require.NoError(t, repo.Create(ctx, p))

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- runner.Run(ctx, func(repos repository.Repositories) error {
				_, _, err := repos.Products.AdjustStock(ctx, p.ID, 1, domain.Now())
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.CurrentStock)

	_, found, err := repo.AdjustStock(ctx, domain.NewID(), 1, domain.Now())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTxRunner_RollbackEnError(t *testing.T) {
	pool := setupTestDB(t)
	runner := postgres.NewTxRunner(pool)
	ctx := context.Background()
	p := newProduct("RB-1")

	err := runner.Run(ctx, func(repos repository.Repositories) error {
		if err := repos.Products.Create(ctx, p); err != nil {
			return err
		}
		return domain.ErrValidation
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := postgres.NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStockMoveRepo_OperacionYCascada(t *testing.T) {
	pool := setupTestDB(t)
	repos := postgres.NewRepositories(pool)
	ctx := context.Background()

	assert.ErrorIs(t, repos.StockMoves.Create(ctx, newMove(domain.NewID(), domain.NewID(), 1)), domain.ErrNotFound)

	op := newOperation()
	require.NoError(t, repos.Operations.Create(ctx, op))
	m1, m2 := newMove(op.ID, domain.NewID(), 2), newMove(op.ID, domain.NewID(), -1)
	require.NoError(t, repos.StockMoves.Create(ctx, m1))
	ok, err := repos.StockMoves.InsertIfAbsent(ctx, m2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.StockMoves.InsertIfAbsent(ctx, m2)
	require.NoError(t, err)
	assert.False(t, ok)

	list, err := repos.StockMoves.List(ctx, repository.StockMoveFilter{OperationID: op.ID})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	ids, err := repos.StockMoves.DeleteByOperation(ctx, op.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{m1.ID, m2.ID}, ids)

	found, err := repos.Operations.Delete(ctx, op.ID)
	require.NoError(t, err)
	assert.True(t, found)
	found, err = repos.Operations.Delete(ctx, op.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestChangeLogRepo_Since(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewChangeLogRepository(pool)
	ctx := context.Background()
	t0 := domain.Now()

	require.NoError(t, repo.Append(ctx,
		entity.Tombstone(entity.ChangeEntityProduct, domain.NewID(), t0),
		entity.Tombstone(entity.ChangeEntityStockMove, domain.NewID(), t0.Add(time.Second)),
	))

	all, err := repo.Since(ctx, t0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Less(t, all[0].Version, all[1].Version)

	later, err := repo.Since(ctx, t0.Add(500*time.Millisecond))
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, entity.ChangeEntityStockMove, later[0].Entity)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	pool := setupTestDB(t)
	repo := postgres.NewUserRepository(pool)
	ctx := context.Background()
	u := &entity.User{ID: domain.NewID(), Email: "ana@stockmaster.com", PasswordHash: "x", Role: entity.RoleStaff, CreatedAt: domain.Now()}
	require.NoError(t, repo.Create(ctx, u))

	dup := *u
	dup.ID = domain.NewID()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrConflict)

	got, err := repo.GetByEmail(ctx, "ana@stockmaster.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
}
