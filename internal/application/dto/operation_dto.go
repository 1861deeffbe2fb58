package dto

import "time"

// CreateOperationRequest entrada para crear una operación. Status por defecto: draft.
type CreateOperationRequest struct {
	ID            *string `json:"id"`
	Type          string  `json:"type"`
	Status        *string `json:"status"`
	ReferenceCode *string `json:"reference_code"`
	CreatedBy     *string `json:"created_by"`
}

// UpdateOperationRequest actualización parcial.
type UpdateOperationRequest struct {
	Type          *string `json:"type"`
	Status        *string `json:"status"`
	ReferenceCode *string `json:"reference_code"`
}

// OperationListRequest filtros de listado.
type OperationListRequest struct {
	PageRequest
	Type   string `query:"type"`
	Status string `query:"status"`
}

// OperationResponse salida de una operación.
type OperationResponse struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	ReferenceCode *string   `json:"reference_code"`
	Status        string    `json:"status"`
	CreatedBy     *string   `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	LastUpdated   time.Time `json:"last_updated"`
}
