package entity

import "github.com/shopspring/decimal"

// BillItem representa una línea de la factura. UnitPrice se captura al momento de la venta,
// así los cambios de precio posteriores no alteran facturas históricas.
type BillItem struct {
	ID          string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal = UnitPrice * Quantity.
func (i *BillItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
