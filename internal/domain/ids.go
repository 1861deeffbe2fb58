package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID genera un identificador UUID v4.
func NewID() string {
	return uuid.New().String()
}

// ParseID valida raw como UUID y lo devuelve en forma canónica (minúsculas con guiones).
func ParseID(field, raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %s no es un UUID válido", ErrValidation, field)
	}
	return id.String(), nil
}

// Now hora del servidor en UTC, truncada a microsegundos (precisión de TIMESTAMPTZ).
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
