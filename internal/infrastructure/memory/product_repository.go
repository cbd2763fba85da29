package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	v view
}

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("%w: producto %s ya existe", domain.ErrDuplicate, p.ID)
		}
		if skuTaken(st, p.SKU, "") {
			return fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, p.SKU)
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate equivale a GetByID: dentro de una transacción el mutex del store ya serializa.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		for _, p := range st.products {
			if p.SKU == sku {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update sobrescribe los campos editables y conserva el stock guardado.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		current, ok := st.products[p.ID]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, p.ID)
		}
		if skuTaken(st, p.SKU, p.ID) {
			return fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, p.SKU)
		}
		updated := *p
		updated.CurrentStock = current.CurrentStock
		updated.CreatedAt = current.CreatedAt
		st.products[p.ID] = updated
		return nil
	})
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int, updatedAt time.Time) error {
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if stock < 0 {
			return fmt.Errorf("%w: stock negativo para %s", domain.ErrInvalidInput, id)
		}
		p.CurrentStock = stock
		p.UpdatedAt = updatedAt
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	return r.filter(ctx, func(*entity.Product) bool { return true }, byName)
}

func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	return r.filter(ctx, func(p *entity.Product) bool { return p.Active }, byName)
}

func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	return r.filter(ctx, func(p *entity.Product) bool { return p.Active && p.IsLowStock() },
		func(a, b *entity.Product) bool {
			if a.CurrentStock != b.CurrentStock {
				return a.CurrentStock < b.CurrentStock
			}
			return a.Name < b.Name
		})
}

// Search compara con case folding Unicode (x/text/cases), igual que ILIKE en PostgreSQL.
func (r *ProductRepo) Search(ctx context.Context, keyword string) ([]*entity.Product, error) {
	fold := cases.Fold()
	needle := fold.String(keyword)
	return r.filter(ctx, func(p *entity.Product) bool {
		return strings.Contains(fold.String(p.Name), needle) || strings.Contains(fold.String(p.SKU), needle)
	}, byName)
}

// Delete falla con domain.ErrConflict si el producto ya tiene movimientos o aparece en facturas.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		for _, t := range st.transactions {
			if t.ProductID == id {
				return fmt.Errorf("%w: el producto %s tiene movimientos o facturas", domain.ErrConflict, id)
			}
		}
		for _, b := range st.bills {
			for _, item := range b.Items {
				if item.ProductID == id {
					return fmt.Errorf("%w: el producto %s tiene movimientos o facturas", domain.ErrConflict, id)
				}
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) filter(ctx context.Context, keep func(*entity.Product) bool, less func(a, b *entity.Product) bool) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, func(st *state) error {
		for _, p := range st.products {
			p := p
			if keep(&p) {
				out = append(out, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func byName(a, b *entity.Product) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.SKU < b.SKU
}

func skuTaken(st *state, sku, exceptID string) bool {
	for _, p := range st.products {
		if p.SKU == sku && p.ID != exceptID {
			return true
		}
	}
	return false
}
