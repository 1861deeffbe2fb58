package dto

import "time"

// SyncPushRequest registros generados offline; cada uno trae su id asignado por el cliente.
type SyncPushRequest struct {
	Products   []PushProduct   `json:"products"`
	Operations []PushOperation `json:"operations"`
	StockMoves []PushStockMove `json:"stock_moves"`
}

// PushProduct producto parcial enviado por un cliente.
type PushProduct struct {
	ID            *string `json:"id"`
	Name          *string `json:"name"`
	SKU           *string `json:"sku"`
	Category      *string `json:"category"`
	MinStockLevel *int    `json:"min_stock_level"`
	CurrentStock  *int64  `json:"current_stock"`
	IsDeleted     *bool   `json:"is_deleted"`
}

// PushOperation operación parcial enviada por un cliente.
type PushOperation struct {
	ID            *string    `json:"id"`
	Type          *string    `json:"type"`
	Status        *string    `json:"status"`
	ReferenceCode *string    `json:"reference_code"`
	CreatedBy     *string    `json:"created_by"`
	CreatedAt     *time.Time `json:"created_at"`
}

// PushStockMove movimiento parcial enviado por un cliente.
type PushStockMove struct {
	ID             *string `json:"id"`
	OperationID    *string `json:"operation_id"`
	ProductID      *string `json:"product_id"`
	Quantity       *int64  `json:"quantity"`
	LocationSource *string `json:"location_source"`
	LocationDest   *string `json:"location_dest"`
}

// SyncedIDs ids por entidad.
type SyncedIDs struct {
	Products   []string `json:"products"`
	Operations []string `json:"operations"`
	StockMoves []string `json:"stock_moves"`
}

// NewSyncedIDs devuelve listas vacías (no null en JSON).
func NewSyncedIDs() SyncedIDs {
	return SyncedIDs{Products: []string{}, Operations: []string{}, StockMoves: []string{}}
}

// SyncPushResponse resultado de un push: solo lo efectivamente insertado.
type SyncPushResponse struct {
	Status string    `json:"status"`
	Synced SyncedIDs `json:"synced"`
}

// SyncPullResponse filas modificadas desde el cursor, bajas y el próximo cursor.
type SyncPullResponse struct {
	Products   []ProductResponse   `json:"products"`
	Operations []OperationResponse `json:"operations"`
	StockMoves []StockMoveResponse `json:"stock_moves"`
	Deleted    SyncedIDs           `json:"deleted"`
	ServerTime time.Time           `json:"server_time"`
}
