package billing

import (
	"context"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye repos de inventario y facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		billRepo repository.BillRepository,
		seqRepo repository.BillSequenceRepository,
	) error) error
}

// InventoryUseCase interfaz para integrar facturación con el libro de stock.
// ApplyInTx aplica un movimiento usando los repositorios del caller (misma transacción).
// Si retorna error (ej: ErrInsufficientStock), el caller debe hacer rollback.
type InventoryUseCase interface {
	ApplyInTx(
		ctx context.Context,
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		in inventory.ApplyInput,
		now time.Time,
	) (*entity.StockTransaction, error)
}

// ReceiptPDFGenerator genera el comprobante (PDF) de una factura.
type ReceiptPDFGenerator interface {
	GenerateBillReceipt(ctx context.Context, bill *entity.Bill) ([]byte, error)
}
