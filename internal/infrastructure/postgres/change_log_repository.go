package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
	"github.com/jhoicas/stockmaster-api/internal/domain/repository"
)

var _ repository.ChangeLogRepository = (*ChangeLogRepo)(nil)

// ChangeLogRepo log de bajas sobre la tabla change_log.
type ChangeLogRepo struct {
	q Querier
}

// NewChangeLogRepository construye el adaptador del log de cambios.
func NewChangeLogRepository(q Querier) *ChangeLogRepo {
	return &ChangeLogRepo{q: q}
}

// Append inserta las entradas en orden; version la asigna la secuencia.
func (r *ChangeLogRepo) Append(ctx context.Context, entries ...entity.ChangeLogEntry) error {
	for _, e := range entries {
		_, err := r.q.Exec(ctx,
			`INSERT INTO change_log (entity, entity_id, action, changed_at) VALUES ($1, $2, $3, $4)`,
			e.Entity, e.EntityID, e.Action, e.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("append change log: %w", err)
		}
	}
	return nil
}

// Since devuelve las entradas con changed_at >= since.
func (r *ChangeLogRepo) Since(ctx context.Context, since time.Time) ([]entity.ChangeLogEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT version, entity, entity_id, action, changed_at FROM change_log WHERE changed_at >= $1 ORDER BY version`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("list change log: %w", err)
	}
	defer rows.Close()
	var list []entity.ChangeLogEntry
	for rows.Next() {
		var e entity.ChangeLogEntry
		if err := rows.Scan(&e.Version, &e.Entity, &e.EntityID, &e.Action, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan change log: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
