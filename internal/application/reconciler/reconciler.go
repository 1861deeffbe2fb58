// Package reconciler fusiona registros generados offline (push) y entrega a los clientes
// lo que cambió desde su último cursor (pull).
package reconciler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
	"github.com/jhoicas/stockmaster-api/pkg/metrics"
)

// Reconciler caso de uso de sincronización.
type Reconciler struct {
	txRunner   repository.TxRunner
	repos      repository.Repositories
	accountant *inventory.StockAccountant
	log        zerolog.Logger
}

// NewReconciler construye el reconciliador. repos se usa para las lecturas de pull.
func NewReconciler(txRunner repository.TxRunner, repos repository.Repositories, accountant *inventory.StockAccountant, log zerolog.Logger) *Reconciler {
	return &Reconciler{txRunner: txRunner, repos: repos, accountant: accountant, log: log}
}

// Push inserta en una transacción, en orden productos → operaciones → movimientos, los
// registros cuyo id (o SKU, para productos) aún no existe. Lo existente se ignora sin error,
// así reenviar el mismo lote no duplica nada. Un registro sin id o mal formado invalida el
// lote completo. Un movimiento cuya operación no existe se omite (el cliente lo reintentará).
func (r *Reconciler) Push(ctx context.Context, in dto.SyncPushRequest) (*dto.SyncPushResponse, error) {
	products, err := buildProducts(in.Products)
	if err != nil {
		return nil, err
	}
	operations, err := buildOperations(in.Operations)
	if err != nil {
		return nil, err
	}
	moves, err := buildStockMoves(in.StockMoves)
	if err != nil {
		return nil, err
	}

	var synced dto.SyncedIDs
	err = r.txRunner.Run(ctx, func(repos repository.Repositories) error {
		synced = dto.NewSyncedIDs()
		now := domain.Now()

		for _, p := range products {
			p.LastUpdated = now
			ok, err := repos.Products.InsertIfAbsent(ctx, p)
			if err != nil {
				return err
			}
			if ok {
				synced.Products = append(synced.Products, p.ID)
			}
		}
		for _, op := range operations {
			if op.CreatedAt.IsZero() {
				op.CreatedAt = now
			}
			op.LastUpdated = now
			ok, err := repos.Operations.InsertIfAbsent(ctx, op)
			if err != nil {
				return err
			}
			if ok {
				synced.Operations = append(synced.Operations, op.ID)
			}
		}
		for _, m := range moves {
			existing, err := repos.StockMoves.GetByID(ctx, m.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			op, err := repos.Operations.GetByID(ctx, m.OperationID)
			if err != nil {
				return err
			}
			if op == nil {
				r.log.Warn().
					Str("stock_move_id", m.ID).
					Str("operation_id", m.OperationID).
					Msg("push: movimiento sin operación, se omite")
				continue
			}
			m.CreatedAt = now
			ok, err := repos.StockMoves.InsertIfAbsent(ctx, m)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if _, _, err := r.accountant.Apply(ctx, repos.Products, m.ProductID, m.Quantity, now); err != nil {
				return err
			}
			synced.StockMoves = append(synced.StockMoves, m.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	record(entity.ChangeEntityProduct, len(products), len(synced.Products))
	record(entity.ChangeEntityOperation, len(operations), len(synced.Operations))
	record(entity.ChangeEntityStockMove, len(moves), len(synced.StockMoves))
	r.log.Info().
		Int("products", len(synced.Products)).
		Int("operations", len(synced.Operations)).
		Int("stock_moves", len(synced.StockMoves)).
		Msg("push sincronizado")

	return &dto.SyncPushResponse{Status: "success", Synced: synced}, nil
}

// CursorLag retraso de server_time respecto del reloj. Una escritura sellada antes de la
// lectura puede confirmar hasta repository.TxTimeout después; con el doble de margen el
// siguiente pull la incluye. El cliente recibe de nuevo lo de esa ventana y lo descarta por id.
const CursorLag = 2 * repository.TxTimeout

// Pull devuelve lo modificado desde since (todo si es nil) y server_time como próximo
// cursor. server_time es la hora de lectura menos CursorLag.
func (r *Reconciler) Pull(ctx context.Context, since *time.Time) (*dto.SyncPullResponse, error) {
	serverTime := domain.Now().Add(-CursorLag)

	products, err := r.repos.Products.ChangedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	operations, err := r.repos.Operations.ChangedSince(ctx, since)
	if err != nil {
		return nil, err
	}
	moves, err := r.repos.StockMoves.CreatedSince(ctx, since)
	if err != nil {
		return nil, err
	}

	resp := &dto.SyncPullResponse{
		Products:   make([]dto.ProductResponse, 0, len(products)),
		Operations: make([]dto.OperationResponse, 0, len(operations)),
		StockMoves: make([]dto.StockMoveResponse, 0, len(moves)),
		Deleted:    dto.NewSyncedIDs(),
		ServerTime: serverTime,
	}
	for _, p := range products {
		resp.Products = append(resp.Products, *usecase.ToProductResponse(p))
	}
	for _, o := range operations {
		resp.Operations = append(resp.Operations, *usecase.ToOperationResponse(o))
	}
	for _, m := range moves {
		resp.StockMoves = append(resp.StockMoves, *inventory.ToStockMoveResponse(m))
	}

	// Sin cursor el cliente no tiene estado previo: no hay bajas que propagar.
	if since != nil {
		changes, err := r.repos.Changes.Since(ctx, *since)
		if err != nil {
			return nil, err
		}
		for _, c := range changes {
			switch c.Entity {
			case entity.ChangeEntityProduct:
				resp.Deleted.Products = append(resp.Deleted.Products, c.EntityID)
			case entity.ChangeEntityOperation:
				resp.Deleted.Operations = append(resp.Deleted.Operations, c.EntityID)
			case entity.ChangeEntityStockMove:
				resp.Deleted.StockMoves = append(resp.Deleted.StockMoves, c.EntityID)
			}
		}
	}
	return resp, nil
}

// naiveLayout ISO-8601 sin zona; se interpreta como UTC.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// ParseSince acepta RFC3339 (con zona) o ISO-8601 sin zona (UTC). Vacío → nil.
func ParseSince(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	for _, layout := range []string{naiveLayout, "2006-01-02 15:04:05.999999999", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: since debe ser ISO-8601 (ej. 2024-01-31T10:00:00Z)", domain.ErrValidation)
}

func record(entityName string, received, inserted int) {
	if inserted > 0 {
		metrics.SyncRecords.WithLabelValues(entityName, "inserted").Add(float64(inserted))
	}
	if skipped := received - inserted; skipped > 0 {
		metrics.SyncRecords.WithLabelValues(entityName, "skipped").Add(float64(skipped))
	}
}
