package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/inventory"
	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

// OperationUseCase casos de uso CRUD para operaciones.
type OperationUseCase struct {
	txRunner repository.TxRunner
	repo     repository.OperationRepository
	moves    repository.StockMoveRepository
}

// NewOperationUseCase construye el caso de uso.
func NewOperationUseCase(txRunner repository.TxRunner, repo repository.OperationRepository, moves repository.StockMoveRepository) *OperationUseCase {
	return &OperationUseCase{txRunner: txRunner, repo: repo, moves: moves}
}

// Create crea una operación; status por defecto draft.
func (uc *OperationUseCase) Create(ctx context.Context, in dto.CreateOperationRequest) (*dto.OperationResponse, error) {
	op, err := NewOperation(in.ID, in.Type, in.Status, in.ReferenceCode, in.CreatedBy)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		now := domain.Now()
		op.CreatedAt, op.LastUpdated = now, now
		return repos.Operations.Create(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return ToOperationResponse(op), nil
}

// GetByID obtiene una operación.
func (uc *OperationUseCase) GetByID(ctx context.Context, id string) (*dto.OperationResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	op, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
	}
	return ToOperationResponse(op), nil
}

// List lista operaciones filtrando por tipo y estado.
func (uc *OperationUseCase) List(ctx context.Context, in dto.OperationListRequest) ([]dto.OperationResponse, error) {
	in.DefaultPage()
	if in.Type != "" && !entity.ValidOperationType(in.Type) {
		return nil, fmt.Errorf("%w: type desconocido %q", domain.ErrValidation, in.Type)
	}
	if in.Status != "" && !entity.ValidOperationStatus(in.Status) {
		return nil, fmt.Errorf("%w: status desconocido %q", domain.ErrValidation, in.Status)
	}
	list, err := uc.repo.List(ctx, repository.OperationFilter{Type: in.Type, Status: in.Status, Limit: in.Limit, Offset: in.Offset})
	if err != nil {
		return nil, err
	}
	out := make([]dto.OperationResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *ToOperationResponse(o))
	}
	return out, nil
}

// ListMoves devuelve los movimientos de una operación existente.
func (uc *OperationUseCase) ListMoves(ctx context.Context, id string) ([]dto.StockMoveResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	op, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
	}
	list, err := uc.moves.List(ctx, repository.StockMoveFilter{OperationID: id})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMoveResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *inventory.ToStockMoveResponse(m))
	}
	return out, nil
}

// Update aplica los campos presentes y actualiza last_updated. El avance de estado no se impone.
func (uc *OperationUseCase) Update(ctx context.Context, id string, in dto.UpdateOperationRequest) (*dto.OperationResponse, error) {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return nil, err
	}
	var updated *entity.Operation
	err = uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		op, err := repos.Operations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if op == nil {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
		}
		if in.Type != nil {
			if !entity.ValidOperationType(*in.Type) {
				return fmt.Errorf("%w: type desconocido %q", domain.ErrValidation, *in.Type)
			}
			op.Type = *in.Type
		}
		if in.Status != nil {
			if !entity.ValidOperationStatus(*in.Status) {
				return fmt.Errorf("%w: status desconocido %q", domain.ErrValidation, *in.Status)
			}
			op.Status = *in.Status
		}
		if in.ReferenceCode != nil {
			op.ReferenceCode = optionalString(in.ReferenceCode)
		}
		op.LastUpdated = domain.Now()
		if err := repos.Operations.Update(ctx, op); err != nil {
			return err
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToOperationResponse(updated), nil
}

// Delete borra la operación y todos sus movimientos en una transacción, registrando
// una baja por cada uno. El stock de los productos no se revierte.
func (uc *OperationUseCase) Delete(ctx context.Context, id string) error {
	id, err := domain.ParseID("id", id)
	if err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		moveIDs, err := repos.StockMoves.DeleteByOperation(ctx, id)
		if err != nil {
			return err
		}
		found, err := repos.Operations.Delete(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, id)
		}
		now := domain.Now()
		entries := make([]entity.ChangeLogEntry, 0, len(moveIDs)+1)
		for _, mid := range moveIDs {
			entries = append(entries, entity.Tombstone(entity.ChangeEntityStockMove, mid, now))
		}
		entries = append(entries, entity.Tombstone(entity.ChangeEntityOperation, id, now))
		return repos.Changes.Append(ctx, entries...)
	})
}

// NewOperation arma y valida una operación nueva. Compartido por el CRUD y la sincronización.
func NewOperation(id *string, opType string, status, referenceCode, createdBy *string) (*entity.Operation, error) {
	op := &entity.Operation{
		Type:          strings.TrimSpace(opType),
		Status:        entity.OperationStatusDraft,
		ReferenceCode: optionalString(referenceCode),
	}
	var err error
	if op.ID, err = idOrNew(id); err != nil {
		return nil, err
	}
	if op.Type == "" {
		return nil, fmt.Errorf("%w: type es obligatorio", domain.ErrValidation)
	}
	if !entity.ValidOperationType(op.Type) {
		return nil, fmt.Errorf("%w: type desconocido %q", domain.ErrValidation, op.Type)
	}
	if status != nil && *status != "" {
		if !entity.ValidOperationStatus(*status) {
			return nil, fmt.Errorf("%w: status desconocido %q", domain.ErrValidation, *status)
		}
		op.Status = *status
	}
	if createdBy != nil && strings.TrimSpace(*createdBy) != "" {
		uid, err := domain.ParseID("created_by", *createdBy)
		if err != nil {
			return nil, err
		}
		op.CreatedBy = &uid
	}
	return op, nil
}

// ToOperationResponse convierte la entidad al DTO de salida.
func ToOperationResponse(o *entity.Operation) *dto.OperationResponse {
	return &dto.OperationResponse{
		ID:            o.ID,
		Type:          o.Type,
		ReferenceCode: o.ReferenceCode,
		Status:        o.Status,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		LastUpdated:   o.LastUpdated,
	}
}
