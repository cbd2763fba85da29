package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.BillSequenceRepository = (*BillSequenceRepo)(nil)

// BillSequenceRepo contador de facturas por día sobre la tabla bill_sequences.
type BillSequenceRepo struct {
	q Querier
}

// NewBillSequenceRepository construye el adaptador. Debe usarse con la tx de la factura.
func NewBillSequenceRepository(q Querier) *BillSequenceRepo {
	return &BillSequenceRepo{q: q}
}

// Next incrementa atómicamente el contador del día. El upsert bloquea la fila del día hasta el commit,
// así dos facturas concurrentes nunca reciben el mismo consecutivo.
func (r *BillSequenceRepo) Next(ctx context.Context, day time.Time) (int, error) {
	var next int
	err := r.q.QueryRow(ctx, `
		INSERT INTO bill_sequences (day, last_value) VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_value = bill_sequences.last_value + 1
		RETURNING last_value`, day,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next bill sequence: %w", err)
	}
	return next, nil
}
