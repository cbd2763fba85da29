package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.StockTransactionRepository = (*StockTransactionRepo)(nil)

const stockTransactionColumns = `id, product_id, type, quantity, previous_stock, new_stock,
	notes, user_id, username, transaction_date`

// StockTransactionRepo implementación del libro de stock (append-only) sobre PostgreSQL.
type StockTransactionRepo struct {
	q Querier
}

// NewStockTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockTransactionRepository(q Querier) *StockTransactionRepo {
	return &StockTransactionRepo{q: q}
}

// Create agrega un registro al libro.
func (r *StockTransactionRepo) Create(ctx context.Context, t *entity.StockTransaction) error {
	query := `
		INSERT INTO stock_transactions (` + stockTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ProductID, t.Type, t.Quantity, t.PreviousStock, t.NewStock,
		t.Notes, nullString(t.UserID), t.Username, t.TransactionDate,
	)
	if err != nil {
		return fmt.Errorf("insert stock transaction: %w", err)
	}
	return nil
}

func (r *StockTransactionRepo) List(ctx context.Context) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTransactionColumns+` FROM stock_transactions
		ORDER BY transaction_date DESC, seq DESC`)
}

// ListByProduct movimientos del producto, el más reciente primero.
func (r *StockTransactionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTransactionColumns+` FROM stock_transactions
		WHERE product_id = $1 ORDER BY transaction_date DESC, seq DESC`, productID)
}

// ListByDateRange movimientos con transaction_date en [from, to].
func (r *StockTransactionRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockTransaction, error) {
	return r.list(ctx, `SELECT `+stockTransactionColumns+` FROM stock_transactions
		WHERE transaction_date BETWEEN $1 AND $2 ORDER BY transaction_date DESC, seq DESC`, from, to)
}

func (r *StockTransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockTransaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransaction
	for rows.Next() {
		var t entity.StockTransaction
		var userID *string
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.PreviousStock, &t.NewStock,
			&t.Notes, &userID, &t.Username, &t.TransactionDate); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		if userID != nil {
			t.UserID = *userID
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		// product_id que no es UUID: no puede tener movimientos
		if isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list stock transactions: %w", err)
	}
	return list, nil
}

// nullString convierte "" en NULL para columnas FK opcionales (user_id).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
