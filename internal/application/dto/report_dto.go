package dto

import "time"

// LowStockItem producto en o bajo su mínimo, con la cantidad sugerida de reposición.
type LowStockItem struct {
	ProductID        string  `json:"product_id"`
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	Category         *string `json:"category"`
	CurrentStock     int64   `json:"current_stock"`
	MinStockLevel    int     `json:"min_stock_level"`
	SuggestedReorder int64   `json:"suggested_reorder"`
	Oversold         bool    `json:"oversold"`
}

// LowStockReport reporte completo.
type LowStockReport struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Items       []LowStockItem `json:"items"`
	Oversold    int            `json:"oversold_count"`
}
