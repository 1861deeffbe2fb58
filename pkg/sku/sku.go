// Package sku normaliza y valida códigos de producto (Stock Keeping Unit).
//
// Dos SKU que solo difieren en espacios exteriores, en mayúsculas/minúsculas o en la
// forma Unicode (por ejemplo "ａ1" de ancho completo frente a "A1") se consideran el
// mismo código.
package sku

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLength longitud máxima aceptada tras normalizar (columna VARCHAR(100)).
const MaxLength = 100

// Normalize aplica NFKC, recorta espacios y pasa a mayúsculas.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(norm.NFKC.String(s)))
}

// Validate comprueba un SKU ya normalizado.
func Validate(s string) error {
	if s == "" {
		return fmt.Errorf("sku: vacío")
	}
	if len([]rune(s)) > MaxLength {
		return fmt.Errorf("sku: supera %d caracteres", MaxLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("sku: contiene caracteres de control")
		}
	}
	return nil
}
