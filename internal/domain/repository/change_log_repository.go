package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockmaster-api/internal/domain/entity"
)

// ChangeLogRepository log append-only de bajas para propagar borrados vía /sync/pull.
type ChangeLogRepository interface {
	Append(ctx context.Context, entries ...entity.ChangeLogEntry) error
	// Since devuelve las entradas con changed_at >= since en orden de versión.
	Since(ctx context.Context, since time.Time) ([]entity.ChangeLogEntry, error)
}
