package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura de venta.
const (
	BillStatusCompleted = "COMPLETED"
	BillStatusCancelled = "CANCELLED"
)

// Bill representa la cabecera de una factura de venta. Es dueña exclusiva de sus Items.
// Subtotal y Total se calculan siempre a partir de los items, impuesto y descuento.
type Bill struct {
	ID            string
	BillNumber    string
	BillDate      time.Time
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Items         []BillItem
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	PaymentMethod string // CASH, CARD, UPI, etc.
	Status        string
	UserID        string
	Username      string
}

// Subtotal suma los totales de línea.
func (b *Bill) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for i := range b.Items {
		subtotal = subtotal.Add(b.Items[i].LineTotal())
	}
	return subtotal
}

// Total = Subtotal + Tax - Discount.
func (b *Bill) Total() decimal.Decimal {
	return b.Subtotal().Add(b.Tax).Sub(b.Discount)
}
