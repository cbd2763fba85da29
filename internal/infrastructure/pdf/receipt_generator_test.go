package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	g := NewReceiptGenerator("")
	assert.Equal(t, "20.50", g.money(decimal.RequireFromString("20.5")))
	assert.Equal(t, "1,234,567.89", g.money(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "0.00", g.money(decimal.Zero))
}

func TestGenerateBillReceipt(t *testing.T) {
	bill := &entity.Bill{
		ID:            "b-1",
		BillNumber:    "BILL-20240307-0001",
		BillDate:      time.Date(2024, 3, 7, 10, 30, 0, 0, time.Local),
		CustomerName:  "Ana Pérez",
		PaymentMethod: "CASH",
		Status:        entity.BillStatusCompleted,
		Username:      "cajero",
		Tax:           decimal.RequireFromString("1.00"),
		Discount:      decimal.RequireFromString("0.50"),
		Items: []entity.BillItem{
			{ID: "i-1", ProductID: "p-1", ProductName: "Lápiz", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
			{ID: "i-2", ProductID: "p-2", ProductName: "Cuaderno", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}

	out, err := NewReceiptGenerator("Papelería Central").GenerateBillReceipt(context.Background(), bill)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe empezar con la firma PDF")
}
