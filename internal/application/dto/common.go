package dto

// MaxPageLimit tope de elementos por página.
const MaxPageLimit = 500

// PageRequest paginación para listados. Limit 0 = sin límite (hasta MaxPageLimit si se pide).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza valores negativos y aplica el tope.
func (p *PageRequest) DefaultPage() {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// MessageResponse cuerpo simple con mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse cuerpo del health check.
type StatusResponse struct {
	Status string `json:"status"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
