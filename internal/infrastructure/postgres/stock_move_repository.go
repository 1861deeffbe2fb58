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

var _ repository.StockMoveRepository = (*StockMoveRepo)(nil)

const stockMoveColumns = `id, operation_id, product_id, quantity, location_source, location_dest, created_at`

// StockMoveRepo implementación de StockMoveRepository sobre PostgreSQL.
type StockMoveRepo struct {
	q Querier
}

// NewStockMoveRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMoveRepository(q Querier) *StockMoveRepo {
	return &StockMoveRepo{q: q}
}

func scanStockMove(s scanner) (*entity.StockMove, error) {
	var m entity.StockMove
	if err := s.Scan(&m.ID, &m.OperationID, &m.ProductID, &m.Quantity, &m.LocationSource, &m.LocationDest, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta un movimiento. domain.ErrNotFound si la operación no existe.
func (r *StockMoveRepo) Create(ctx context.Context, move *entity.StockMove) error {
	query := `
		INSERT INTO stock_moves (` + stockMoveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		move.ID, move.OperationID, move.ProductID, move.Quantity, move.LocationSource, move.LocationDest, move.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: movimiento duplicado", domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: operación %s", domain.ErrNotFound, move.OperationID)
		}
		return fmt.Errorf("insert stock move: %w", err)
	}
	return nil
}

// InsertIfAbsent inserta salvo que el id ya exista.
func (r *StockMoveRepo) InsertIfAbsent(ctx context.Context, move *entity.StockMove) (bool, error) {
	query := `
		INSERT INTO stock_moves (` + stockMoveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		move.ID, move.OperationID, move.ProductID, move.Quantity, move.LocationSource, move.LocationDest, move.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%w: operación %s", domain.ErrNotFound, move.OperationID)
		}
		return false, fmt.Errorf("insert stock move if absent: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMoveRepo) GetByID(ctx context.Context, id string) (*entity.StockMove, error) {
	m, err := scanStockMove(r.q.QueryRow(ctx, `SELECT `+stockMoveColumns+` FROM stock_moves WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock move: %w", err)
	}
	return m, nil
}

// Update actualiza cantidad y ubicaciones. No recalcula stock.
func (r *StockMoveRepo) Update(ctx context.Context, move *entity.StockMove) error {
	_, err := r.q.Exec(ctx,
		`UPDATE stock_moves SET quantity = $2, location_source = $3, location_dest = $4 WHERE id = $1`,
		move.ID, move.Quantity, move.LocationSource, move.LocationDest,
	)
	if err != nil {
		return fmt.Errorf("update stock move: %w", err)
	}
	return nil
}

// Delete elimina un movimiento; reporta si existía.
func (r *StockMoveRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_moves WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete stock move: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// DeleteByOperation borra los movimientos de la operación y devuelve sus ids.
func (r *StockMoveRepo) DeleteByOperation(ctx context.Context, operationID string) ([]string, error) {
	rows, err := r.q.Query(ctx, `DELETE FROM stock_moves WHERE operation_id = $1 RETURNING id`, operationID)
	if err != nil {
		return nil, fmt.Errorf("delete stock moves by operation: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stock move id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List lista movimientos por fecha de creación.
func (r *StockMoveRepo) List(ctx context.Context, filter repository.StockMoveFilter) ([]*entity.StockMove, error) {
	query := `SELECT ` + stockMoveColumns + ` FROM stock_moves WHERE TRUE`
	var args []any
	if filter.OperationID != "" {
		args = append(args, filter.OperationID)
		query += fmt.Sprintf(" AND operation_id = $%d", len(args))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		query += fmt.Sprintf(" AND product_id = $%d", len(args))
	}
	query += " ORDER BY created_at, id"
	query, args = paginate(query, args, filter.Limit, filter.Offset)
	return r.queryStockMoves(ctx, query, args...)
}

// CreatedSince movimientos con created_at >= since (todos si since es nil).
func (r *StockMoveRepo) CreatedSince(ctx context.Context, since *time.Time) ([]*entity.StockMove, error) {
	if since == nil {
		return r.queryStockMoves(ctx, `SELECT `+stockMoveColumns+` FROM stock_moves ORDER BY created_at, id`)
	}
	return r.queryStockMoves(ctx,
		`SELECT `+stockMoveColumns+` FROM stock_moves WHERE created_at >= $1 ORDER BY created_at, id`, *since)
}

func (r *StockMoveRepo) queryStockMoves(ctx context.Context, query string, args ...any) ([]*entity.StockMove, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMove
	for rows.Next() {
		m, err := scanStockMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
