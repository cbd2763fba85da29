package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `id, bill_number, bill_date, customer_name, customer_phone, customer_email,
	tax, discount, payment_method, status, user_id, username`

// BillRepo implementación del puerto BillRepository sobre PostgreSQL (usable con pool o tx).
// subtotal y total se guardan para reportes, pero al leer se recalculan desde los items.
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Create guarda cabecera e items. Debe llamarse dentro de una tx para que sea atómico.
func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.BillNumber, b.BillDate, b.CustomerName, b.CustomerPhone, b.CustomerEmail,
		b.Tax.Round(2), b.Discount.Round(2), b.PaymentMethod, b.Status, nullString(b.UserID), b.Username,
		b.Subtotal().Round(2), b.Total().Round(2),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s ya existe", domain.ErrDuplicate, b.BillNumber)
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	for i := range b.Items {
		item := &b.Items[i]
		_, err := r.q.Exec(ctx, `
			INSERT INTO bill_items (id, bill_id, line_no, product_id, product_name, quantity, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, b.ID, i+1, item.ProductID, item.ProductName, item.Quantity,
			item.UnitPrice.Round(2), item.LineTotal().Round(2),
		)
		if err != nil {
			return fmt.Errorf("insert bill item: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la factura con sus items.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id)
}

// GetByNumber obtiene la factura por número con sus items.
func (r *BillRepo) GetByNumber(ctx context.Context, number string) (*entity.Bill, error) {
	return r.getOne(ctx, `SELECT `+billColumns+` FROM bills WHERE bill_number = $1`, number)
}

func (r *BillRepo) List(ctx context.Context) ([]*entity.Bill, error) {
	return r.list(ctx, `SELECT `+billColumns+` FROM bills ORDER BY bill_date DESC, bill_number DESC`)
}

// ListByDateRange facturas con bill_date en [from, to], la más reciente primero.
func (r *BillRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	return r.list(ctx, `SELECT `+billColumns+` FROM bills
		WHERE bill_date BETWEEN $1 AND $2 ORDER BY bill_date DESC, bill_number DESC`, from, to)
}

// UpdateStatus cambia el estado de la factura (COMPLETED -> CANCELLED) solo si sigue en from.
// El UPDATE toma el lock de la fila: una segunda anulación concurrente espera y luego no encuentra
// la fila en from, así que recibe ErrConflict.
func (r *BillRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE bills SET status = $3 WHERE id = $1 AND status = $2`, id, from, to)
	if err != nil {
		if isInvalidText(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		return fmt.Errorf("update bill status: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var status string
	err = r.q.QueryRow(ctx, `SELECT status FROM bills WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("get bill status: %w", err)
	}
	return fmt.Errorf("%w: la factura %s está %s", domain.ErrConflict, id, status)
}

// Delete borra primero los items y luego la cabecera.
func (r *BillRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM bill_items WHERE bill_id = $1`, id); err != nil {
		return fmt.Errorf("delete bill items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *BillRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Bill, error) {
	b, err := scanBill(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Bill{b}); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BillRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Bill, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	var list []*entity.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		list = append(list, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga los items de todas las facturas con una sola consulta.
func (r *BillRepo) loadItems(ctx context.Context, bills []*entity.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	ids := make([]string, 0, len(bills))
	byID := make(map[string]*entity.Bill, len(bills))
	for _, b := range bills {
		ids = append(ids, b.ID)
		byID[b.ID] = b
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, bill_id, product_id, product_name, quantity, unit_price
		FROM bill_items WHERE bill_id = ANY($1) ORDER BY bill_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list bill items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.BillItem
		var billID string
		if err := rows.Scan(&item.ID, &billID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scan bill item: %w", err)
		}
		if b, ok := byID[billID]; ok {
			b.Items = append(b.Items, item)
		}
	}
	return rows.Err()
}

func scanBill(row pgx.Row) (*entity.Bill, error) {
	var b entity.Bill
	var userID *string
	err := row.Scan(
		&b.ID, &b.BillNumber, &b.BillDate, &b.CustomerName, &b.CustomerPhone, &b.CustomerEmail,
		&b.Tax, &b.Discount, &b.PaymentMethod, &b.Status, &userID, &b.Username,
	)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		b.UserID = *userID
	}
	b.Items = []entity.BillItem{}
	return &b, nil
}
