package dto

import "time"

// CreateStockMoveRequest entrada para registrar un movimiento. Quantity es un delta con signo.
type CreateStockMoveRequest struct {
	ID             *string `json:"id"`
	OperationID    string  `json:"operation_id"`
	ProductID      string  `json:"product_id"`
	Quantity       int64   `json:"quantity"`
	LocationSource *string `json:"location_source"`
	LocationDest   *string `json:"location_dest"`
}

// UpdateStockMoveRequest actualización parcial. No recalcula current_stock.
type UpdateStockMoveRequest struct {
	Quantity       *int64  `json:"quantity"`
	LocationSource *string `json:"location_source"`
	LocationDest   *string `json:"location_dest"`
}

// StockMoveListRequest filtros de listado.
type StockMoveListRequest struct {
	PageRequest
	OperationID string `query:"operation_id"`
	ProductID   string `query:"product_id"`
}

// StockMoveResponse salida de un movimiento.
type StockMoveResponse struct {
	ID             string    `json:"id"`
	OperationID    string    `json:"operation_id"`
	ProductID      string    `json:"product_id"`
	Quantity       int64     `json:"quantity"`
	LocationSource string    `json:"location_source"`
	LocationDest   string    `json:"location_dest"`
	CreatedAt      time.Time `json:"created_at"`
}
