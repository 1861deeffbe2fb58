package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

// StockMoveUseCase ciclo de vida de StockMove. Crear un movimiento y aplicar su cantidad
// al producto ocurren en la misma transacción.
type StockMoveUseCase struct {
	txRunner   repository.TxRunner
	moves      repository.StockMoveRepository
	accountant *StockAccountant
	log        zerolog.Logger
}

// NewStockMoveUseCase construye el caso de uso. moves se usa para lecturas fuera de transacción.
func NewStockMoveUseCase(txRunner repository.TxRunner, moves repository.StockMoveRepository, accountant *StockAccountant, log zerolog.Logger) *StockMoveUseCase {
	return &StockMoveUseCase{txRunner: txRunner, moves: moves, accountant: accountant, log: log}
}

// Create valida la entrada, exige que la operación exista, inserta y contabiliza.
func (uc *StockMoveUseCase) Create(ctx context.Context, in dto.CreateStockMoveRequest) (*dto.StockMoveResponse, error) {
	move, err := NewStockMove(in.ID, in.OperationID, in.ProductID, in.Quantity, in.LocationSource, in.LocationDest)
	if err != nil {
		return nil, err
	}

	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		op, err := repos.Operations.GetByID(ctx, move.OperationID)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, move.OperationID)
		}
		move.CreatedAt = domain.Now()
		if err := repos.StockMoves.Create(ctx, move); err != nil {
			return err
		}
		_, _, err = uc.accountant.Apply(ctx, repos.Products, move.ProductID, move.Quantity, move.CreatedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStockMoveResponse(move), nil
}

// GetByID obtiene un movimiento.
func (uc *StockMoveUseCase) GetByID(ctx context.Context, id string) (*dto.StockMoveResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	move, err := uc.moves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if move == nil {
		return nil, fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
	}
	return ToStockMoveResponse(move), nil
}

// List lista movimientos, opcionalmente por operación o producto.
func (uc *StockMoveUseCase) List(ctx context.Context, in dto.StockMoveListRequest) ([]dto.StockMoveResponse, error) {
	in.DefaultPage()
	filter := repository.StockMoveFilter{Limit: in.Limit, Offset: in.Offset}
	var err error
	if in.OperationID != "" {
		if filter.OperationID, err = domain.ParseID("operation_id", in.OperationID); err != nil {
			return nil, err
		}
	}
	if in.ProductID != "" {
		if filter.ProductID, err = domain.ParseID("product_id", in.ProductID); err != nil {
			return nil, err
		}
	}
	list, err := uc.moves.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMoveResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *ToStockMoveResponse(m))
	}
	return out, nil
}

// Update cambia cantidad o ubicaciones. No vuelve a contabilizar: current_stock no cambia.
func (uc *StockMoveUseCase) Update(ctx context.Context, id string, in dto.UpdateStockMoveRequest) (*dto.StockMoveResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	var updated *entity.StockMove
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		move, err := repos.StockMoves.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if move == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}
		if in.Quantity != nil {
			if *in.Quantity == 0 {
				return fmt.Errorf("%w: quantity no puede ser cero", domain.ErrValidation)
			}
			move.Quantity = *in.Quantity
		}
		if in.LocationSource != nil {
			if move.LocationSource = strings.TrimSpace(*in.LocationSource); move.LocationSource == "" {
				return fmt.Errorf("%w: location_source vacío", domain.ErrValidation)
			}
		}
		if in.LocationDest != nil {
			if move.LocationDest = strings.TrimSpace(*in.LocationDest); move.LocationDest == "" {
				return fmt.Errorf("%w: location_dest vacío", domain.ErrValidation)
			}
		}
		if err := repos.StockMoves.Update(ctx, move); err != nil {
			return err
		}
		updated = move
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStockMoveResponse(updated), nil
}

// Delete borra el movimiento y registra la baja. Por defecto el stock NO se revierte;
// con reverse=true se resta su cantidad en la misma transacción.
func (uc *StockMoveUseCase) Delete(ctx context.Context, id string, reverse bool) error {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		move, err := repos.StockMoves.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if move == nil {
			return fmt.Errorf("%w: movimiento %s", domain.ErrNotFound, id)
		}
		if _, err := repos.StockMoves.Delete(ctx, id); err != nil {
			return err
		}
		now := domain.Now()
		if reverse {
			if _, found, err := uc.accountant.Reverse(ctx, repos.Products, move.ProductID, move.Quantity, now); err != nil {
				return err
			} else if !found {
				uc.log.Warn().Str("stock_move_id", id).Str("product_id", move.ProductID).Msg("reversa sin producto")
			}
		}
		return repos.Changes.Append(ctx, entity.Tombstone(entity.ChangeEntityStockMove, id, now))
	})
}

// NewStockMove arma y valida un movimiento aplicando los valores por defecto. Lo usan
// el CRUD y la sincronización, de modo que ambos caminos aceptan lo mismo.
func NewStockMove(id *string, operationID, productID string, quantity int64, source, dest *string) (*entity.StockMove, error) {
	move := &entity.StockMove{
		Quantity:       quantity,
		LocationSource: entity.DefaultLocationSource,
		LocationDest:   entity.DefaultLocationDest,
	}
	var err error
	if id != nil && strings.TrimSpace(*id) != "" {
		if move.ID, err = domain.ParseID("id", *id); err != nil {
			return nil, err
		}
	} else {
		move.ID = domain.NewID()
	}
	if move.OperationID, err = domain.ParseID("operation_id", operationID); err != nil {
		return nil, err
	}
	if move.ProductID, err = domain.ParseID("product_id", productID); err != nil {
		return nil, err
	}
	if quantity == 0 {
		return nil, fmt.Errorf("%w: quantity no puede ser cero", domain.ErrValidation)
	}
	if source != nil && strings.TrimSpace(*source) != "" {
		move.LocationSource = strings.TrimSpace(*source)
	}
	if dest != nil && strings.TrimSpace(*dest) != "" {
		move.LocationDest = strings.TrimSpace(*dest)
	}
	return move, nil
}

// ToStockMoveResponse convierte la entidad al DTO de salida.
func ToStockMoveResponse(m *entity.StockMove) *dto.StockMoveResponse {
	return &dto.StockMoveResponse{
		ID:             m.ID,
		OperationID:    m.OperationID,
		ProductID:      m.ProductID,
		Quantity:       m.Quantity,
		LocationSource: m.LocationSource,
		LocationDest:   m.LocationDest,
		CreatedAt:      m.CreatedAt,
	}
}
