package dto

import "time"

// CreateProductRequest entrada para crear un producto. ID opcional (lo asigna el servidor si falta).
type CreateProductRequest struct {
	ID            *string `json:"id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Category      *string `json:"category"`
	MinStockLevel int     `json:"min_stock_level"`
}

// UpdateProductRequest actualización parcial. current_stock no es editable (solo vía movimientos).
type UpdateProductRequest struct {
	Name          *string `json:"name"`
	SKU           *string `json:"sku"`
	Category      *string `json:"category"`
	MinStockLevel *int    `json:"min_stock_level"`
}

// ProductListRequest filtros de listado.
type ProductListRequest struct {
	PageRequest
	Category string `query:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Category      *string   `json:"category"`
	MinStockLevel int       `json:"min_stock_level"`
	CurrentStock  int64     `json:"current_stock"`
	LastUpdated   time.Time `json:"last_updated"`
	IsDeleted     bool      `json:"is_deleted"`
}
