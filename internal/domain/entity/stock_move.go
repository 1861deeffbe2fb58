package entity

import "time"

// Ubicaciones por defecto de un movimiento.
const (
	DefaultLocationSource = "partner"
	DefaultLocationDest   = "warehouse"
)

// StockMove movimiento individual de stock. Quantity es un delta con signo que se suma
// a Product.CurrentStock al crearse. CreatedAt no cambia después de insertado.
type StockMove struct {
	ID             string
	OperationID    string // se borra en cascada con la operación
	ProductID      string // sin cascada; puede apuntar a un producto dado de baja o aún no sincronizado
	Quantity       int64
	LocationSource string
	LocationDest   string
	CreatedAt      time.Time
}
