package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockmaster-api/internal/domain"
	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.OperationRepository = (*OperationRepo)(nil)

const operationColumns = `id, reference_code, type, status, created_by, created_at, last_updated`

// OperationRepo implementación de OperationRepository sobre PostgreSQL.
type OperationRepo struct {
	q Querier
}

// NewOperationRepository construye el adaptador de operaciones. Pasar pool o tx (Querier).
func NewOperationRepository(q Querier) *OperationRepo {
	return &OperationRepo{q: q}
}

func scanOperation(s scanner) (*entity.Operation, error) {
	var o entity.Operation
	if err := s.Scan(&o.ID, &o.ReferenceCode, &o.Type, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.LastUpdated); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create persiste una operación nueva.
func (r *OperationRepo) Create(ctx context.Context, op *entity.Operation) error {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, op.ID, op.ReferenceCode, op.Type, op.Status, op.CreatedBy, op.CreatedAt, op.LastUpdated)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: operación duplicada", domain.ErrConflict)
		}
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// InsertIfAbsent inserta salvo que el id ya exista.
func (r *OperationRepo) InsertIfAbsent(ctx context.Context, op *entity.Operation) (bool, error) {
	query := `
		INSERT INTO operations (` + operationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, op.ID, op.ReferenceCode, op.Type, op.Status, op.CreatedBy, op.CreatedAt, op.LastUpdated)
	if err != nil {
		return false, fmt.Errorf("insert operation if absent: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene una operación por ID.
func (r *OperationRepo) GetByID(ctx context.Context, id string) (*entity.Operation, error) {
	o, err := scanOperation(r.q.QueryRow(ctx, `SELECT `+operationColumns+` FROM operations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get operation: %w", err)
	}
	return o, nil
}

// Update actualiza referencia, tipo y estado.
func (r *OperationRepo) Update(ctx context.Context, op *entity.Operation) error {
	_, err := r.q.Exec(ctx,
		`UPDATE operations SET reference_code = $2, type = $3, status = $4, last_updated = $5 WHERE id = $1`,
		op.ID, op.ReferenceCode, op.Type, op.Status, op.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("update operation: %w", err)
	}
	return nil
}

// Delete elimina la operación; la FK ON DELETE CASCADE cubre movimientos que el caller no haya borrado.
func (r *OperationRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM operations WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete operation: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// List lista operaciones, las más recientes primero.
func (r *OperationRepo) List(ctx context.Context, filter repository.OperationFilter) ([]*entity.Operation, error) {
	query := `SELECT ` + operationColumns + ` FROM operations WHERE TRUE`
	var args []any
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC, id"
	query, args = paginate(query, args, filter.Limit, filter.Offset)
	return r.queryOperations(ctx, query, args...)
}

// ChangedSince operaciones con last_updated >= since (todas si since es nil).
func (r *OperationRepo) ChangedSince(ctx context.Context, since *time.Time) ([]*entity.Operation, error) {
	if since == nil {
		return r.queryOperations(ctx, `SELECT `+operationColumns+` FROM operations ORDER BY last_updated, id`)
	}
	return r.queryOperations(ctx,
		`SELECT `+operationColumns+` FROM operations WHERE last_updated >= $1 ORDER BY last_updated, id`, *since)
}

func (r *OperationRepo) queryOperations(ctx context.Context, query string, args ...any) ([]*entity.Operation, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Operation
	for rows.Next() {
		o, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
