package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// StockTransactionRepository puerto del libro de stock. Solo inserción y lectura: el libro es append-only.
type StockTransactionRepository interface {
	Create(ctx context.Context, tx *entity.StockTransaction) error
	List(ctx context.Context) ([]*entity.StockTransaction, error)
	// ListByProduct ordena de la más reciente a la más antigua.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockTransaction, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockTransaction, error)
}
