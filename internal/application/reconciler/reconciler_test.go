package reconciler_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/reconciler"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	repos    repository.Repositories
	r        *reconciler.Reconciler
	products *usecase.ProductUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	log := zerolog.Nop()
	return &fixture{
		repos:    repos,
		r:        reconciler.NewReconciler(store, repos, inventory.NewStockAccountant(log), log),
		products: usecase.NewProductUseCase(store, repos.Products),
	}
}

func batch(pid, oid, mid string, qty int64) dto.SyncPushRequest {
	return dto.SyncPushRequest{
		Products: []dto.PushProduct{{
			ID: ptr(pid), Name: ptr("Cable"), SKU: ptr("cb-1"), MinStockLevel: ptr(2), CurrentStock: ptr(int64(10)),
		}},
		Operations: []dto.PushOperation{{ID: ptr(oid), Type: ptr("receipt"), Status: ptr("done")}},
		StockMoves: []dto.PushStockMove{{ID: ptr(mid), OperationID: ptr(oid), ProductID: ptr(pid), Quantity: ptr(qty)}},
	}
}

func TestPush_InsertaYContabiliza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, oid, mid := domain.NewID(), domain.NewID(), domain.NewID()

	resp, err := f.r.Push(ctx, batch(pid, oid, mid, 5))
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{pid}, resp.Synced.Products)
	assert.Equal(t, []string{oid}, resp.Synced.Operations)
	assert.Equal(t, []string{mid}, resp.Synced.StockMoves)

	p, err := f.repos.Products.GetByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "CB-1", p.SKU)
	assert.Equal(t, int64(15), p.CurrentStock, "stock enviado + movimiento del lote")
}

func TestPush_Idempotente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, oid, mid := domain.NewID(), domain.NewID(), domain.NewID()
	req := batch(pid, oid, mid, 5)

	_, err := f.r.Push(ctx, req)
	require.NoError(t, err)
	resp, err := f.r.Push(ctx, req)
	require.NoError(t, err)
	assert.Empty(t, resp.Synced.Products)
	assert.Empty(t, resp.Synced.Operations)
	assert.Empty(t, resp.Synced.StockMoves)

	p, err := f.repos.Products.GetByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(15), p.CurrentStock, "reenviar no vuelve a contabilizar")
}

func TestPush_SKUExistenteSeOmite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing, err := f.products.Create(ctx, dto.CreateProductRequest{Name: "Cable", SKU: "CB-1"})
	require.NoError(t, err)

	resp, err := f.r.Push(ctx, dto.SyncPushRequest{Products: []dto.PushProduct{{ID: ptr(domain.NewID()), Name: ptr("Otro"), SKU: ptr(" cb-1")}}})
	require.NoError(t, err)
	assert.Empty(t, resp.Synced.Products)

	list, err := f.products.List(ctx, dto.ProductListRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, existing.ID, list[0].ID)
}

func TestPush_MovimientoSinOperacionSeOmite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := domain.NewID()

	resp, err := f.r.Push(ctx, dto.SyncPushRequest{
		Products:   []dto.PushProduct{{ID: ptr(pid), Name: ptr("Cable"), SKU: ptr("CB-1")}},
		StockMoves: []dto.PushStockMove{{ID: ptr(domain.NewID()), OperationID: ptr(domain.NewID()), ProductID: ptr(pid), Quantity: ptr(int64(3))}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{pid}, resp.Synced.Products)
	assert.Empty(t, resp.Synced.StockMoves)

	p, err := f.repos.Products.GetByID(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.CurrentStock)
}

func TestPush_MovimientoSinProductoNoContabiliza(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oid, mid := domain.NewID(), domain.NewID()

	resp, err := f.r.Push(ctx, dto.SyncPushRequest{
		Operations: []dto.PushOperation{{ID: ptr(oid), Type: ptr("delivery")}},
		StockMoves: []dto.PushStockMove{{ID: ptr(mid), OperationID: ptr(oid), ProductID: ptr(domain.NewID()), Quantity: ptr(int64(-1))}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{mid}, resp.Synced.StockMoves)
}

func TestPush_RegistroInvalidoRechazaElLote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid := domain.NewID()

	cases := map[string]dto.SyncPushRequest{
		"sin id": {Products: []dto.PushProduct{{Name: ptr("X"), SKU: ptr("X-1")}}},
		"tipo desconocido": {
			Products:   []dto.PushProduct{{ID: ptr(pid), Name: ptr("X"), SKU: ptr("X-1")}},
			Operations: []dto.PushOperation{{ID: ptr(domain.NewID()), Type: ptr("transfer")}},
		},
		"cantidad cero": {
			Products:   []dto.PushProduct{{ID: ptr(pid), Name: ptr("X"), SKU: ptr("X-1")}},
			StockMoves: []dto.PushStockMove{{ID: ptr(domain.NewID()), OperationID: ptr(domain.NewID()), ProductID: ptr(pid), Quantity: ptr(int64(0))}},
		},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.r.Push(ctx, req)
			assert.ErrorIs(t, err, domain.ErrValidation)
			p, err := f.repos.Products.GetByID(ctx, pid)
			require.NoError(t, err)
			assert.Nil(t, p, "nada del lote se persiste")
		})
	}
}

func TestPush_RespetaCreatedAtDeOperacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oid := domain.NewID()
	offline := time.Date(2024, 3, 1, 8, 30, 0, 0, time.FixedZone("COT", -5*3600))

	_, err := f.r.Push(ctx, dto.SyncPushRequest{Operations: []dto.PushOperation{{ID: ptr(oid), Type: ptr("receipt"), CreatedAt: &offline}}})
	require.NoError(t, err)

	op, err := f.repos.Operations.GetByID(ctx, oid)
	require.NoError(t, err)
	assert.True(t, op.CreatedAt.Equal(offline))
	assert.True(t, op.LastUpdated.After(offline))
}

func TestPull_CompletoYIncremental(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pid, oid, mid := domain.NewID(), domain.NewID(), domain.NewID()
	_, err := f.r.Push(ctx, batch(pid, oid, mid, 1))
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)

	full, err := f.r.Pull(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, full.Products, 1)
	assert.Len(t, full.Operations, 1)
	assert.Len(t, full.StockMoves, 1)
	assert.Empty(t, full.Deleted.Products)

	cursor := domain.Now()
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, f.products.Delete(ctx, pid))

	inc, err := f.r.Pull(ctx, &cursor)
	require.NoError(t, err)
	assert.Empty(t, inc.Products, "un producto dado de baja no se entrega")
	assert.Empty(t, inc.Operations)
	assert.Empty(t, inc.StockMoves)
	assert.Equal(t, []string{pid}, inc.Deleted.Products)
}

func TestPull_ServerTimeRetrasado(t *testing.T) {
	f := newFixture(t)
	before := domain.Now()
	resp, err := f.r.Pull(context.Background(), nil)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(-reconciler.CursorLag), resp.ServerTime, time.Second)
}

// Una escritura sellada antes del pull que confirma después debe llegar con el cursor devuelto.
func TestPull_EscrituraConfirmadaTardeNoSePierde(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	log := zerolog.Nop()
	r := reconciler.NewReconciler(store, repos, inventory.NewStockAccountant(log), log)
	ctx := context.Background()

	p := &entity.Product{ID: domain.NewID(), Name: "Cable", SKU: "CB-1", LastUpdated: domain.Now()}
	op := &entity.Operation{ID: domain.NewID(), Type: entity.OperationTypeReceipt, Status: entity.OperationStatusDraft, CreatedAt: p.LastUpdated, LastUpdated: p.LastUpdated}
	require.NoError(t, repos.Products.Create(ctx, p))
	require.NoError(t, repos.Operations.Create(ctx, op))
	time.Sleep(2 * time.Millisecond)

	// sello tomado dentro de una transacción aún abierta
	stamped := domain.Now()
	time.Sleep(2 * time.Millisecond)

	first, err := r.Pull(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, first.StockMoves)

	move := &entity.StockMove{
		ID: domain.NewID(), OperationID: op.ID, ProductID: p.ID, Quantity: 4,
		LocationSource: entity.DefaultLocationSource, LocationDest: entity.DefaultLocationDest, CreatedAt: stamped,
	}
	require.NoError(t, store.Run(ctx, func(tx repository.Repositories) error {
		if err := tx.StockMoves.Create(ctx, move); err != nil {
			return err
		}
		_, _, err := tx.Products.AdjustStock(ctx, p.ID, move.Quantity, stamped)
		return err
	}))

	next, err := r.Pull(ctx, &first.ServerTime)
	require.NoError(t, err)
	require.Len(t, next.StockMoves, 1)
	assert.Equal(t, move.ID, next.StockMoves[0].ID)
	require.Len(t, next.Products, 1)
	assert.Equal(t, int64(4), next.Products[0].CurrentStock)
}

// gatedRunner retiene la transacción hasta que el test la libera.
type gatedRunner struct {
	inner   repository.TxRunner
	entered chan struct{}
	release chan struct{}
}

func (g *gatedRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	close(g.entered)
	<-g.release
	return g.inner.Run(ctx, fn)
}

func TestPull_MovimientoConcurrenteSeEntregaEnElSiguientePull(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	log := zerolog.Nop()
	accountant := inventory.NewStockAccountant(log)
	r := reconciler.NewReconciler(store, repos, accountant, log)
	ctx := context.Background()

	p, err := usecase.NewProductUseCase(store, repos.Products).Create(ctx, dto.CreateProductRequest{Name: "Cable", SKU: "CB-1"})
	require.NoError(t, err)
	op, err := usecase.NewOperationUseCase(store, repos.Operations, repos.StockMoves).Create(ctx, dto.CreateOperationRequest{Type: "receipt"})
	require.NoError(t, err)

	gate := &gatedRunner{inner: store, entered: make(chan struct{}), release: make(chan struct{})}
	moves := inventory.NewStockMoveUseCase(gate, repos.StockMoves, accountant, log)

	done := make(chan error, 1)
	go func() {
		_, err := moves.Create(ctx, dto.CreateStockMoveRequest{OperationID: op.ID, ProductID: p.ID, Quantity: 3})
		done <- err
	}()
	<-gate.entered

	first, err := r.Pull(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, first.StockMoves)

	close(gate.release)
	require.NoError(t, <-done)

	next, err := r.Pull(ctx, &first.ServerTime)
	require.NoError(t, err)
	require.Len(t, next.StockMoves, 1)
	require.Len(t, next.Products, 1)
	assert.Equal(t, int64(3), next.Products[0].CurrentStock)
}

func TestPull_SinceFuturo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.r.Push(ctx, batch(domain.NewID(), domain.NewID(), domain.NewID(), 1))
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)
	resp, err := f.r.Pull(ctx, &future)
	require.NoError(t, err)
	assert.Empty(t, resp.Products)
	assert.Empty(t, resp.Operations)
	assert.Empty(t, resp.StockMoves)
}

func TestParseSince(t *testing.T) {
	got, err := reconciler.ParseSince("")
	require.NoError(t, err)
	assert.Nil(t, got)

	cases := map[string]time.Time{
		"2024-01-31T10:00:00Z":          time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		"2024-01-31T10:00:00-05:00":     time.Date(2024, 1, 31, 15, 0, 0, 0, time.UTC),
		"2024-01-31T10:00:00":           time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC),
		"2024-01-31T10:00:00.123456":    time.Date(2024, 1, 31, 10, 0, 0, 123456000, time.UTC),
		"2024-01-31":                    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		" 2024-01-31T10:00:00.5+00:00 ": time.Date(2024, 1, 31, 10, 0, 0, 500000000, time.UTC),
	}
	for raw, want := range cases {
		got, err := reconciler.ParseSince(raw)
		require.NoError(t, err, raw)
		assert.True(t, got.Equal(want), raw)
		assert.Equal(t, time.UTC, got.Location(), raw)
	}

	_, err = reconciler.ParseSince("ayer")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
