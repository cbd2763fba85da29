package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)
var _ repository.BillSequenceRepository = (*BillSequenceRepo)(nil)

// BillRepo facturas en memoria; los items viven dentro de la factura.
type BillRepo struct {
	v view
}

func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.bills[b.ID]; ok {
			return fmt.Errorf("%w: factura %s ya existe", domain.ErrDuplicate, b.ID)
		}
		for _, other := range st.bills {
			if other.BillNumber == b.BillNumber {
				return fmt.Errorf("%w: factura %s ya existe", domain.ErrDuplicate, b.BillNumber)
			}
		}
		st.bills[b.ID] = copyBill(*b)
		return nil
	})
}

func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	var out *entity.Bill
	err := r.v.do(ctx, func(st *state) error {
		if b, ok := st.bills[id]; ok {
			c := copyBill(b)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *BillRepo) GetByNumber(ctx context.Context, number string) (*entity.Bill, error) {
	var out *entity.Bill
	err := r.v.do(ctx, func(st *state) error {
		for _, b := range st.bills {
			if b.BillNumber == number {
				c := copyBill(b)
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *BillRepo) List(ctx context.Context) ([]*entity.Bill, error) {
	return r.filter(ctx, func(*entity.Bill) bool { return true })
}

func (r *BillRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	return r.filter(ctx, func(b *entity.Bill) bool {
		return !b.BillDate.Before(from) && !b.BillDate.After(to)
	})
}

func (r *BillRepo) UpdateStatus(ctx context.Context, id, from, to string) error {
	return r.v.do(ctx, func(st *state) error {
		b, ok := st.bills[id]
		if !ok {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if b.Status != from {
			return fmt.Errorf("%w: la factura %s está %s", domain.ErrConflict, b.BillNumber, b.Status)
		}
		b.Status = to
		st.bills[id] = b
		return nil
	})
}

func (r *BillRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.bills[id]; !ok {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		delete(st.bills, id)
		return nil
	})
}

func (r *BillRepo) filter(ctx context.Context, keep func(*entity.Bill) bool) ([]*entity.Bill, error) {
	var out []*entity.Bill
	err := r.v.do(ctx, func(st *state) error {
		for _, b := range st.bills {
			c := copyBill(b)
			if keep(&c) {
				out = append(out, &c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].BillDate.Equal(out[j].BillDate) {
			return out[i].BillDate.After(out[j].BillDate)
		}
		return out[i].BillNumber > out[j].BillNumber
	})
	return out, nil
}

// BillSequenceRepo contador de facturas por día en memoria.
type BillSequenceRepo struct {
	v view
}

func (r *BillSequenceRepo) Next(ctx context.Context, day time.Time) (int, error) {
	var next int
	err := r.v.do(ctx, func(st *state) error {
		key := day.Format("2006-01-02")
		st.sequences[key]++
		next = st.sequences[key]
		return nil
	})
	return next, err
}

func sortByDateDesc[T any](list []*T, date func(*T) time.Time) {
	sort.SliceStable(list, func(i, j int) bool {
		return date(list[i]).After(date(list[j]))
	})
}
