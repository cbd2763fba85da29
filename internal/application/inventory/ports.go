package inventory

import (
	"context"

	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el cambio de stock y el registro en el libro se confirmen o se descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
	) error) error
}
