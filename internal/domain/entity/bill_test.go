package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

func TestBillTotals(t *testing.T) {
	bill := entity.Bill{
		Items: []entity.BillItem{
			{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("5.00")},
			{ProductID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
		Tax:      decimal.RequireFromString("1.00"),
		Discount: decimal.RequireFromString("0.50"),
	}

	assert.True(t, bill.Items[0].LineTotal().Equal(decimal.RequireFromString("10.00")))
	assert.True(t, bill.Subtotal().Equal(decimal.RequireFromString("20.00")))
	assert.True(t, bill.Total().Equal(decimal.RequireFromString("20.50")))
}

func TestBillTotals_SinItems(t *testing.T) {
	bill := entity.Bill{}
	assert.True(t, bill.Subtotal().IsZero())
	assert.True(t, bill.Total().IsZero())
}

func TestProductIsLowStock(t *testing.T) {
	p := entity.Product{CurrentStock: 10, MinStockLevel: 10}
	assert.True(t, p.IsLowStock())
	p.CurrentStock = 11
	assert.False(t, p.IsLowStock())
}
