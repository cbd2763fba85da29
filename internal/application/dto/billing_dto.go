package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBillRequest body para POST /api/bills.
// Tax y Discount son opcionales (0 si no se envían).
type CreateBillRequest struct {
	CustomerName  string            `json:"customer_name" validate:"required,max=200"`
	CustomerPhone string            `json:"customer_phone" validate:"max=50"`
	CustomerEmail string            `json:"customer_email" validate:"omitempty,email"`
	Items         []BillItemRequest `json:"items" validate:"required,min=1,dive"`
	Tax           *decimal.Decimal  `json:"tax"`
	Discount      *decimal.Decimal  `json:"discount"`
	PaymentMethod string            `json:"payment_method" validate:"required,max=50"`
}

// BillItemRequest línea de factura: producto y cantidad. El precio se toma del catálogo.
type BillItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// BillResponse factura con sus líneas y totales calculados.
type BillResponse struct {
	ID            string             `json:"id"`
	BillNumber    string             `json:"bill_number"`
	BillDate      time.Time          `json:"bill_date"`
	CustomerName  string             `json:"customer_name"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Items         []BillItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	UserID        string             `json:"user_id,omitempty"`
	Username      string             `json:"username,omitempty"`
}

// BillItemResponse línea en la respuesta.
type BillItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}
