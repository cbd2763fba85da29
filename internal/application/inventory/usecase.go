package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

// StockLedgerUseCase aplica movimientos de stock (IN, OUT, ADJUSTMENT) y mantiene el libro de stock.
// Cada movimiento bloquea la fila del producto (SELECT FOR UPDATE), actualiza el stock y agrega
// el registro al libro dentro de la misma transacción.
type StockLedgerUseCase struct {
	txRunner TxRunner
	txRepo   repository.StockTransactionRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewStockLedgerUseCase construye el caso de uso. txRepo se usa solo para lecturas fuera de transacción.
func NewStockLedgerUseCase(txRunner TxRunner, txRepo repository.StockTransactionRepository, log zerolog.Logger) *StockLedgerUseCase {
	return &StockLedgerUseCase{
		txRunner: txRunner,
		txRepo:   txRepo,
		log:      log,
		now:      time.Now,
	}
}

// ApplyInput entrada de un movimiento. Type se normaliza a mayúsculas.
type ApplyInput struct {
	ProductID string
	Quantity  int
	Type      string
	Notes     string
	UserID    string
	Username  string
}

// Apply abre una transacción y aplica el movimiento. Devuelve el registro creado en el libro.
func (uc *StockLedgerUseCase) Apply(ctx context.Context, in ApplyInput) (*entity.StockTransaction, error) {
	var created *entity.StockTransaction
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
	) error {
		var err error
		created, err = uc.ApplyInTx(ctx, productRepo, txRepo, in, now)
		return err
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", in.ProductID).
			Str("type", in.Type).
			Int("quantity", in.Quantity).
			Msg("movimiento de stock rechazado")
		return nil, err
	}
	uc.log.Info().
		Str("product_id", created.ProductID).
		Str("type", created.Type).
		Int("previous_stock", created.PreviousStock).
		Int("new_stock", created.NewStock).
		Msg("movimiento de stock aplicado")
	return created, nil
}

// ApplyInTx aplica el movimiento usando los repositorios proporcionados (misma transacción del caller).
// Implementa billing.InventoryUseCase para que la facturación descuente stock dentro de su propia tx.
func (uc *StockLedgerUseCase) ApplyInTx(
	ctx context.Context,
	productRepo repository.ProductRepository,
	txRepo repository.StockTransactionRepository,
	in ApplyInput,
	now time.Time,
) (*entity.StockTransaction, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	txType := inventory.NormalizeType(in.Type)

	// Bloquea la fila del producto hasta el commit para serializar lectura-validación-escritura
	product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	previous := product.CurrentStock
	next, err := inventory.NextStock(txType, previous, in.Quantity)
	if err != nil {
		if txType == entity.TransactionTypeOUT {
			return nil, fmt.Errorf("%w (producto %s)", err, product.Name)
		}
		return nil, err
	}

	if err := productRepo.SetStock(ctx, product.ID, next, now); err != nil {
		return nil, err
	}
	product.CurrentStock = next

	st := &entity.StockTransaction{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		Type:            txType,
		Quantity:        in.Quantity,
		PreviousStock:   previous,
		NewStock:        next,
		Notes:           in.Notes,
		UserID:          in.UserID,
		Username:        in.Username,
		TransactionDate: now,
	}
	if err := txRepo.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// ListAll devuelve todo el libro de stock.
func (uc *StockLedgerUseCase) ListAll(ctx context.Context) ([]*entity.StockTransaction, error) {
	return uc.txRepo.List(ctx)
}

// ListByProduct devuelve los movimientos de un producto, del más reciente al más antiguo.
func (uc *StockLedgerUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.StockTransaction, error) {
	return uc.txRepo.ListByProduct(ctx, productID)
}

// ListByDateRange devuelve los movimientos con fecha en [from, to].
func (uc *StockLedgerUseCase) ListByDateRange(ctx context.Context, from, to time.Time) ([]*entity.StockTransaction, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}
	return uc.txRepo.ListByDateRange(ctx, from, to)
}
