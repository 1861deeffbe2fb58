package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// StockMoveFilter criterios de listado; campos vacíos no filtran.
type StockMoveFilter struct {
	OperationID string
	ProductID   string
	Limit       int
	Offset      int
}

// StockMoveRepository define el puerto de persistencia para StockMove (DIP).
type StockMoveRepository interface {
	Create(ctx context.Context, move *entity.StockMove) error
	InsertIfAbsent(ctx context.Context, move *entity.StockMove) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.StockMove, error)
	// Update escribe quantity, location_source y location_dest. created_at es inmutable.
	Update(ctx context.Context, move *entity.StockMove) error
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteByOperation borra los movimientos de una operación y devuelve sus ids.
	DeleteByOperation(ctx context.Context, operationID string) ([]string, error)
	List(ctx context.Context, filter StockMoveFilter) ([]*entity.StockMove, error)
	CreatedSince(ctx context.Context, since *time.Time) ([]*entity.StockMove, error)
}
