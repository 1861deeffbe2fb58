package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// OperationFilter criterios de listado; campos vacíos no filtran.
type OperationFilter struct {
	Type   string
	Status string
	Limit  int
	Offset int
}

// OperationRepository define el puerto de persistencia para Operation (DIP).
type OperationRepository interface {
	Create(ctx context.Context, op *entity.Operation) error
	InsertIfAbsent(ctx context.Context, op *entity.Operation) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.Operation, error)
	// Update escribe reference_code, type, status y last_updated.
	Update(ctx context.Context, op *entity.Operation) error
	// Delete borra la operación; reporta si existía. Los movimientos los borra el caller en la misma tx.
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, filter OperationFilter) ([]*entity.Operation, error)
	ChangedSince(ctx context.Context, since *time.Time) ([]*entity.Operation, error)
}
