package memory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

// StockTransactionRepo libro de stock en memoria (append-only).
type StockTransactionRepo struct {
	v view
}

func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	return r.v.do(ctx, func(st *state) error {
		st.transactions = append(st.transactions, *t)
		return nil
	})
}

func (r *StockTransactionRepo) List(ctx context.Context) ([]*entity.StockTransaction, error) {
	return r.newestFirst(ctx, func(*entity.StockTransaction) bool { return true })
}

func (r *StockTransactionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockTransaction, error) {
	return r.newestFirst(ctx, func(t *entity.StockTransaction) bool { return t.ProductID == productID })
}

func (r *StockTransactionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockTransaction, error) {
	return r.newestFirst(ctx, func(t *entity.StockTransaction) bool {
		return !t.TransactionDate.Before(from) && !t.TransactionDate.After(to)
	})
}

// newestFirst recorre en orden inverso de inserción; con fechas iguales gana la última insertada.
func (r *StockTransactionRepo) newestFirst(ctx context.Context, keep func(*entity.StockTransaction) bool) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	err := r.v.do(ctx, func(st *state) error {
		for i := len(st.transactions) - 1; i >= 0; i-- {
			t := st.transactions[i]
			if keep(&t) {
				out = append(out, &t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortByDateDesc(out, func(t *entity.StockTransaction) time.Time { return t.TransactionDate })
	return out, nil
}
