package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// BillRepository define el puerto de persistencia para Bill y sus items.
type BillRepository interface {
	// Create guarda cabecera e items (en la misma transacción del caller).
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	GetByNumber(ctx context.Context, number string) (*entity.Bill, error)
	// List ordena por fecha de factura descendente.
	List(ctx context.Context) ([]*entity.Bill, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error)
	// UpdateStatus cambia el estado solo si el actual es from; si no, domain.ErrConflict.
	UpdateStatus(ctx context.Context, id, from, to string) error
	// Delete borra primero los items y luego la cabecera.
	Delete(ctx context.Context, id string) error
}

// BillSequenceRepository contador atómico de facturas por día.
type BillSequenceRepository interface {
	// Next incrementa y devuelve el consecutivo del día (1 para el primer uso del día).
	Next(ctx context.Context, day time.Time) (int, error)
}
