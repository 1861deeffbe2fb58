package csvimport_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stockmaster-api/internal/infrastructure/csvimport"
)

func TestReadProducts(t *testing.T) {
	in := "name,sku,category,min_stock_level\n" +
		"Tornillo,TOR-01,Ferretería,10\n" +
		"Cinta, CI-1 ,,\n" +
		",,,\n"
	rows, err := csvimport.ReadProducts(strings.NewReader(in), csvimport.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Tornillo", rows[0].Name)
	require.NotNil(t, rows[0].Category)
	assert.Equal(t, "Ferretería", *rows[0].Category)
	assert.Equal(t, 10, rows[0].MinStockLevel)

	assert.Equal(t, "CI-1", rows[1].SKU)
	assert.Nil(t, rows[1].Category)
	assert.Equal(t, 0, rows[1].MinStockLevel)
}

func TestReadProducts_Latin1YPuntoYComa(t *testing.T) {
	utf8 := "sku;name\nCAF-1;Café molido\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, err := csvimport.ReadProducts(bytes.NewBufferString(encoded), csvimport.Options{Latin1: true, Comma: ';'})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café molido", rows[0].Name)
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := csvimport.ReadProducts(strings.NewReader(""), csvimport.Options{})
	assert.Error(t, err)

	_, err = csvimport.ReadProducts(strings.NewReader("name,category\nA,B\n"), csvimport.Options{})
	assert.ErrorContains(t, err, "sku")

	_, err = csvimport.ReadProducts(strings.NewReader("name,sku,min_stock_level\nA,B,diez\n"), csvimport.Options{})
	assert.ErrorContains(t, err, "línea 2")
}
