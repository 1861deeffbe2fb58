// Package csvimport lee catálogos de productos en CSV para la carga inicial.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
)

// Columns encabezado esperado (el orden de columnas puede variar).
var Columns = []string{"name", "sku", "category", "min_stock_level"}

// Options opciones de lectura.
type Options struct {
	Latin1 bool // archivo en ISO-8859-1 (exportaciones de Excel en Windows)
	Comma  rune // separador; 0 = ','
}

// ReadProducts lee el CSV con encabezado. name y sku son obligatorios; category y
// min_stock_level pueden faltar o quedar vacíos.
func ReadProducts(r io.Reader, opts Options) ([]dto.CreateProductRequest, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv vacío")
		}
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{"name", "sku"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	var out []dto.CreateProductRequest
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		field := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if field("name") == "" && field("sku") == "" {
			continue
		}
		row := dto.CreateProductRequest{Name: field("name"), SKU: field("sku")}
		if c := field("category"); c != "" {
			row.Category = &c
		}
		if raw := field("min_stock_level"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("línea %d: min_stock_level %q no es entero", line, raw)
			}
			row.MinStockLevel = n
		}
		out = append(out, row)
	}
	return out, nil
}
