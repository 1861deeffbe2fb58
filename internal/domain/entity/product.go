package entity

import "time"

// Product representa un producto del inventario.
// CurrentStock solo cambia al registrar StockMoves; puede ser negativo (sobreventa).
// Un producto dado de baja (IsDeleted) sigue existiendo para los movimientos históricos.
type Product struct {
	ID            string
	Name          string
	SKU           string  // único global, incluso entre productos dados de baja
	Category      *string // opcional
	MinStockLevel int
	CurrentStock  int64
	LastUpdated   time.Time
	IsDeleted     bool
}

// BelowMinimum indica si el stock está en o bajo el mínimo configurado.
func (p *Product) BelowMinimum() bool {
	return p.CurrentStock <= int64(p.MinStockLevel)
}

// Oversold indica stock negativo (se vendió más de lo que había).
func (p *Product) Oversold() bool {
	return p.CurrentStock < 0
}
