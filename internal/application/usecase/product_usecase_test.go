package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/usecase"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/memory"
)

func newProductUC() *usecase.ProductUseCase {
	return usecase.NewProductUseCase(memory.NewStore().Products(), 0)
}

func createReq(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:          "Café " + sku,
		SKU:           sku,
		Category:      "Bebidas",
		PurchasePrice: decimal.RequireFromString("3.50"),
		SellingPrice:  decimal.RequireFromString("5.00"),
	}
}

func TestProductCreate_Defaults(t *testing.T) {
	uc := newProductUC()
	p, err := uc.Create(context.Background(), createReq("CAF-1"))
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 0, p.CurrentStock)
	assert.Equal(t, 10, p.MinStockLevel, "mínimo por defecto")
	assert.True(t, p.Active)
	assert.True(t, p.LowStock)
}

func TestProductCreate_Errores(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, createReq("CAF-1"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, createReq("CAF-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	req := createReq("CAF-2")
	req.Name = ""
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = createReq("CAF-3")
	req.SellingPrice = decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	neg := -1
	req = createReq("CAF-4")
	req.MinStockLevel = &neg
	_, err = uc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p, err := uc.Create(ctx, createReq("CAF-1"))
	require.NoError(t, err)
	other, err := uc.Create(ctx, createReq("CAF-2"))
	require.NoError(t, err)

	inactive := false
	minLevel := 0
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name:          "Café molido",
		SKU:           "CAF-1",
		PurchasePrice: decimal.RequireFromString("4"),
		SellingPrice:  decimal.RequireFromString("6"),
		MinStockLevel: &minLevel,
		Active:        &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Café molido", updated.Name)
	assert.False(t, updated.Active)
	assert.True(t, updated.LowStock, "stock 0 con mínimo 0 cuenta como bajo")

	active, err := uc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, other.ID, active[0].ID)

	_, err = uc.Update(ctx, p.ID, dto.UpdateProductRequest{
		Name: "x", SKU: "CAF-2",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(ctx, "nope", dto.UpdateProductRequest{Name: "x", SKU: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductSearchYLowStock(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, createReq("CAF-1"))
	require.NoError(t, err)
	req := createReq("TE-1")
	req.Name = "Té verde"
	_, err = uc.Create(ctx, req)
	require.NoError(t, err)

	found, err := uc.Search(ctx, "CAFÉ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "CAF-1", found[0].SKU)

	found, err = uc.Search(ctx, "te-1")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = uc.Search(ctx, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	low, err := uc.ListLowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)
}

func TestProductGetYDelete(t *testing.T) {
	uc := newProductUC()
	ctx := context.Background()
	p, err := uc.Create(ctx, createReq("CAF-1"))
	require.NoError(t, err)

	bySKU, err := uc.GetBySKU(ctx, "CAF-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySKU.ID)

	_, err = uc.GetBySKU(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Delete(ctx, p.ID))
	_, err = uc.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, p.ID), domain.ErrNotFound)
}
