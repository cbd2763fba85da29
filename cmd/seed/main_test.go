package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/application/usecase"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/memory"
)

const sampleCSV = `sku,name,category,purchase_price,selling_price,min_stock,initial_stock
CAF-1,Café,Bebidas,3.50,5.00,4,12
TE-1,Té,Bebidas,"1,20",2,,0

AZU-1,Azúcar,Abarrotes,1,1.5,,3
`

func TestReadRows(t *testing.T) {
	rows, err := readRows(strings.NewReader(sampleCSV), false)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "CAF-1", rows[0].product.SKU)
	assert.Equal(t, "Café", rows[0].product.Name)
	assert.Equal(t, 12, rows[0].stock)
	require.NotNil(t, rows[0].product.MinStockLevel)
	assert.Equal(t, 4, *rows[0].product.MinStockLevel)

	assert.Equal(t, "1.2", rows[1].product.PurchasePrice.String())
	assert.Nil(t, rows[1].product.MinStockLevel)
}

func TestReadRows_Latin1(t *testing.T) {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(sampleCSV)
	require.NoError(t, err)

	rows, err := readRows(bytes.NewBufferString(encoded), true)
	require.NoError(t, err)
	assert.Equal(t, "Azúcar", rows[2].product.Name)
}

func TestReadRows_AliasDeColumnas(t *testing.T) {
	rows, err := readRows(strings.NewReader("SKU,Name,Selling_Price,Stock,Min_Stock_Level\nA-1,Agua,1,7,2\n"), false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 7, rows[0].stock)
	require.NotNil(t, rows[0].product.MinStockLevel)
	assert.Equal(t, 2, *rows[0].product.MinStockLevel)
}

func TestReadRows_FaltaColumna(t *testing.T) {
	_, err := readRows(strings.NewReader("sku,name\nA,B\n"), false)
	assert.Error(t, err)
}

func TestSeed_CargaStockYOmiteExistentes(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	productUC := usecase.NewProductUseCase(store.Products(), 10)
	stockUC := inventory.NewStockLedgerUseCase(store, store.StockTransactions(), zerolog.Nop())

	rows, err := readRows(strings.NewReader(sampleCSV), false)
	require.NoError(t, err)

	created, skipped := seed(ctx, productUC, stockUC, rows, zerolog.Nop())
	assert.Equal(t, 3, created)
	assert.Equal(t, 0, skipped)

	p, err := productUC.GetBySKU(ctx, "CAF-1")
	require.NoError(t, err)
	assert.Equal(t, 12, p.CurrentStock)

	ledger, err := stockUC.ListByProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, initialLoadNote, ledger[0].Notes)

	all, err := stockUC.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "TE-1 sin stock no genera movimiento")

	created, skipped = seed(ctx, productUC, stockUC, rows, zerolog.Nop())
	assert.Equal(t, 0, created)
	assert.Equal(t, 3, skipped)
}
