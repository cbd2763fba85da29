package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/internal/infrastructure/memory"
)

func seedProduct(t *testing.T, store *memory.Store, id, sku string, stock int) {
	t.Helper()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID:           id,
		Name:         "Producto " + sku,
		SKU:          sku,
		SellingPrice: decimal.NewFromInt(1),
		CurrentStock: stock,
		Active:       true,
	}))
}

func TestRun_RollbackDescartaCambios(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 5)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(products repository.ProductRepository, txs repository.StockTransactionRepository) error {
		require.NoError(t, products.SetStock(ctx, "p1", 1, time.Now()))
		require.NoError(t, txs.Create(ctx, &entity.StockTransaction{ID: "t1", ProductID: "p1"}))

		// Dentro de la tx se ve el cambio
		p, err := products.GetByID(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, 1, p.CurrentStock)
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.CurrentStock)
	list, err := store.StockTransactions().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRunBilling_RollbackNoConsumeConsecutivo(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	err := store.RunBilling(ctx, func(_ repository.ProductRepository, _ repository.StockTransactionRepository,
		_ repository.BillRepository, seq repository.BillSequenceRepository) error {
		n, err := seq.Next(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		return domain.ErrInsufficientStock
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	n, err := store.BillSequences().Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = store.BillSequences().Next(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.BillSequences().Next(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, n, "cada día reinicia el contador")
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(repository.ProductRepository, repository.StockTransactionRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestProductRepo_SKUUnicoYStockNoNegativo(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 0)
	ctx := context.Background()

	err := store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Error(t, store.Products().SetStock(ctx, "p1", -1, time.Now()))
}

func TestProductRepo_UpdateNoTocaStock(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 7)
	ctx := context.Background()

	err := store.Products().Update(ctx, &entity.Product{ID: "p1", Name: "Nuevo", SKU: "SKU-1", CurrentStock: 999})
	require.NoError(t, err)

	p, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", p.Name)
	assert.Equal(t, 7, p.CurrentStock)
}

func TestProductRepo_DeleteConMovimientosEsConflicto(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", "SKU-1", 0)
	ctx := context.Background()
	require.NoError(t, store.StockTransactions().Create(ctx, &entity.StockTransaction{ID: "t1", ProductID: "p1"}))

	assert.ErrorIs(t, store.Products().Delete(ctx, "p1"), domain.ErrConflict)
	assert.ErrorIs(t, store.Products().Delete(ctx, "nope"), domain.ErrNotFound)
}

func TestBillRepo_DevuelveCopias(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	bill := &entity.Bill{
		ID:         "b1",
		BillNumber: "BILL-20260301-0001",
		BillDate:   time.Now(),
		Items:      []entity.BillItem{{ID: "i1", ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(2)}},
		Status:     entity.BillStatusCompleted,
	}
	require.NoError(t, store.Bills().Create(ctx, bill))
	bill.Items[0].Quantity = 50

	got, err := store.Bills().GetByNumber(ctx, "BILL-20260301-0001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Items[0].Quantity)

	got.Items[0].Quantity = 99
	again, err := store.Bills().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Quantity)

	err = store.Bills().Create(ctx, &entity.Bill{ID: "b2", BillNumber: "BILL-20260301-0001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBillRepo_UpdateStatusSoloDesdeEstadoEsperado(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Bills().Create(ctx, &entity.Bill{
		ID: "b1", BillNumber: "BILL-20260301-0001", BillDate: time.Now(), Status: entity.BillStatusCompleted,
	}))

	require.NoError(t, store.Bills().UpdateStatus(ctx, "b1", entity.BillStatusCompleted, entity.BillStatusCancelled))

	err := store.Bills().UpdateStatus(ctx, "b1", entity.BillStatusCompleted, entity.BillStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = store.Bills().UpdateStatus(ctx, "nope", entity.BillStatusCompleted, entity.BillStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.Bills().GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusCancelled, got.Status)
}
