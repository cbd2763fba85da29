package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los Get* devuelven (nil, nil) si no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update sobrescribe los campos editables. No toca CurrentStock.
	Update(ctx context.Context, product *entity.Product) error
	// SetStock es la única vía para cambiar CurrentStock; solo la usa el libro de stock.
	SetStock(ctx context.Context, id string, stock int, updatedAt time.Time) error
	List(ctx context.Context) ([]*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	Search(ctx context.Context, keyword string) ([]*entity.Product, error)
	// Delete devuelve domain.ErrNotFound si el producto no existe.
	Delete(ctx context.Context, id string) error
}
