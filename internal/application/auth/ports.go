package auth

import (
	"context"
	"time"
)

// ConsumeResult resultado de verificar un código contra el almacén.
type ConsumeResult int

const (
	// ConsumeValid código correcto y vigente; la entrada se eliminó.
	ConsumeValid ConsumeResult = iota
	// ConsumeMismatch código incorrecto; la entrada sigue (hasta agotar intentos).
	ConsumeMismatch
	// ConsumeExpired la entrada había vencido; se eliminó.
	ConsumeExpired
	// ConsumeMissing no hay código para ese email.
	ConsumeMissing
)

func (r ConsumeResult) String() string {
	switch r {
	case ConsumeValid:
		return "valid"
	case ConsumeMismatch:
		return "mismatch"
	case ConsumeExpired:
		return "expired"
	default:
		return "missing"
	}
}

// OTPStore almacén de códigos de un solo uso por email, con vencimiento.
type OTPStore interface {
	// Put guarda el código reemplazando cualquier entrada previa del email.
	Put(ctx context.Context, email, code string, ttl time.Duration) error
	// Consume compara y, si corresponde, elimina de forma atómica.
	Consume(ctx context.Context, email, code string) (ConsumeResult, error)
	// PurgeExpired elimina entradas vencidas y devuelve cuántas.
	PurgeExpired(ctx context.Context) (int, error)
}

// CodeSender canal de entrega del código (email).
type CodeSender interface {
	SendCode(ctx context.Context, email, code string, ttl time.Duration) error
}
