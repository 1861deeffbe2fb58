package repository

import (
	"context"
	"time"
)

// TxTimeout duración máxima de una transacción de escritura. Los sellos de tiempo se toman
// dentro de la transacción, así una fila nunca se hace visible más de TxTimeout después
// de su last_updated/created_at.
const TxTimeout = 5 * time.Second

// Repositories agrupa los puertos del Ledger Store. Dentro de TxRunner.Run todos
// están atados a la misma transacción.
type Repositories struct {
	Products   ProductRepository
	Operations OperationRepository
	StockMoves StockMoveRepository
	Users      UserRepository
	Changes    ChangeLogRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// Garantiza que un StockMove y su efecto en current_stock se confirman juntos.
// Las implementaciones cancelan la transacción si supera TxTimeout.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
