package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel umbral de stock mínimo cuando el caller no envía uno.
const DefaultMinStockLevel = 10

// Product representa un producto del catálogo con su stock actual.
// CurrentStock solo cambia a través del libro de stock (StockLedgerUseCase).
type Product struct {
	ID            string
	Name          string
	Description   string
	SKU           string // único
	Category      string
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	CurrentStock  int
	MinStockLevel int
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsLowStock indica si el stock actual está en o por debajo del mínimo. Es derivado, nunca se persiste.
func (p *Product) IsLowStock() bool {
	return p.CurrentStock <= p.MinStockLevel
}
