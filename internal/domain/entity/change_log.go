package entity

import "time"

// Entidades registradas en el log de cambios.
const (
	ChangeEntityProduct   = "product"
	ChangeEntityOperation = "operation"
	ChangeEntityStockMove = "stock_move"
)

// ChangeActionDeleted única acción registrada hoy: las altas y ediciones viajan por timestamp.
const ChangeActionDeleted = "deleted"

// ChangeLogEntry lápida append-only que permite a /sync/pull propagar bajas.
type ChangeLogEntry struct {
	Version   int64
	Entity    string
	EntityID  string
	Action    string
	ChangedAt time.Time
}

// Tombstone construye una entrada de baja.
func Tombstone(entityName, id string, at time.Time) ChangeLogEntry {
	return ChangeLogEntry{Entity: entityName, EntityID: id, Action: ChangeActionDeleted, ChangedAt: at}
}
