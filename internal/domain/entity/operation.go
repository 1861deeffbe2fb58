package entity

import "time"

// Tipos de operación.
const (
	OperationTypeReceipt    = "receipt"
	OperationTypeDelivery   = "delivery"
	OperationTypeInternal   = "internal"
	OperationTypeAdjustment = "adjustment"
)

// Estados de operación: draft → done → synced. El avance es esperado pero no se impone.
const (
	OperationStatusDraft  = "draft"
	OperationStatusDone   = "done"
	OperationStatusSynced = "synced"
)

// Operation agrupa movimientos de stock (recepción, entrega, interno, ajuste).
type Operation struct {
	ID            string
	ReferenceCode *string
	Type          string
	Status        string
	CreatedBy     *string // referencia débil a User
	CreatedAt     time.Time
	LastUpdated   time.Time
}

// ValidOperationType reporta si t es un tipo de operación conocido.
func ValidOperationType(t string) bool {
	switch t {
	case OperationTypeReceipt, OperationTypeDelivery, OperationTypeInternal, OperationTypeAdjustment:
		return true
	}
	return false
}

// ValidOperationStatus reporta si s es un estado conocido.
func ValidOperationStatus(s string) bool {
	switch s {
	case OperationStatusDraft, OperationStatusDone, OperationStatusSynced:
		return true
	}
	return false
}
