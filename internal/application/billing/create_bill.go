package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	dombilling "github.com/jhoicas/stock-billing-api/internal/domain/billing"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
	"github.com/jhoicas/stock-billing-api/pkg/validator"
)

// CreateBillUseCase crea una factura y descuenta el inventario en una sola transacción.
type CreateBillUseCase struct {
	txRunner    BillingTxRunner
	inventoryUC InventoryUseCase
	billRepo    repository.BillRepository
	prefix      string
	log         zerolog.Logger
	now         func() time.Time
}

// NewCreateBillUseCase construye el caso de uso. billRepo se usa para lecturas fuera de transacción.
func NewCreateBillUseCase(
	txRunner BillingTxRunner,
	inventoryUC InventoryUseCase,
	billRepo repository.BillRepository,
	prefix string,
	log zerolog.Logger,
) *CreateBillUseCase {
	if prefix == "" {
		prefix = dombilling.DefaultBillPrefix
	}
	return &CreateBillUseCase{
		txRunner:    txRunner,
		inventoryUC: inventoryUC,
		billRepo:    billRepo,
		prefix:      prefix,
		log:         log,
		now:         time.Now,
	}
}

// CreateBill asigna el número del día, descuenta stock (OUT) por cada línea, calcula totales y guarda
// cabecera e items. Todo ocurre en una transacción: si alguna línea falla no se persiste nada.
func (uc *CreateBillUseCase) CreateBill(ctx context.Context, userID, username string, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	tax, err := nonNegative("tax", in.Tax)
	if err != nil {
		return nil, err
	}
	discount, err := nonNegative("discount", in.Discount)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var bill *entity.Bill

	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		billRepo repository.BillRepository,
		seqRepo repository.BillSequenceRepository,
	) error {
		// 1) Consecutivo del día dentro de la tx: si hay rollback no se consume
		seq, err := seqRepo.Next(ctx, dombilling.BillDay(now))
		if err != nil {
			return fmt.Errorf("asignar número de factura: %w", err)
		}
		number := dombilling.FormatBillNumber(uc.prefix, now, seq)

		bill = &entity.Bill{
			ID:            uuid.New().String(),
			BillNumber:    number,
			BillDate:      now,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			CustomerEmail: in.CustomerEmail,
			Items:         make([]entity.BillItem, 0, len(in.Items)),
			Tax:           tax,
			Discount:      discount,
			PaymentMethod: in.PaymentMethod,
			Status:        entity.BillStatusCompleted,
			UserID:        userID,
			Username:      username,
		}

		// 2) Por cada línea: precio de venta vigente y salida de stock (OUT) en la misma tx
		for _, line := range in.Items {
			product, err := productRepo.GetByID(ctx, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
			}
			bill.Items = append(bill.Items, entity.BillItem{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.SellingPrice,
			})
			if _, err := uc.inventoryUC.ApplyInTx(ctx, productRepo, txRepo, inventory.ApplyInput{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Type:      entity.TransactionTypeOUT,
				Notes:     "Bill #" + number,
				UserID:    userID,
				Username:  username,
			}, now); err != nil {
				return err
			}
		}

		// 3) Totales derivados
		if bill.Total().IsNegative() {
			return fmt.Errorf("%w: el descuento supera el subtotal más impuesto", domain.ErrInvalidInput)
		}

		// 4) Cabecera e items
		return billRepo.Create(ctx, bill)
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("customer", in.CustomerName).
			Int("lines", len(in.Items)).
			Msg("factura revertida")
		return nil, err
	}

	uc.log.Info().
		Str("bill_number", bill.BillNumber).
		Str("total", bill.Total().StringFixed(2)).
		Int("lines", len(bill.Items)).
		Msg("factura creada")
	return ToBillResponse(bill), nil
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, field)
	}
	return v.Round(2), nil
}

// ToBillResponse convierte la factura al DTO de salida con sus totales calculados.
func ToBillResponse(b *entity.Bill) *dto.BillResponse {
	resp := &dto.BillResponse{
		ID:            b.ID,
		BillNumber:    b.BillNumber,
		BillDate:      b.BillDate,
		CustomerName:  b.CustomerName,
		CustomerPhone: b.CustomerPhone,
		CustomerEmail: b.CustomerEmail,
		Items:         make([]dto.BillItemResponse, 0, len(b.Items)),
		Subtotal:      b.Subtotal(),
		Tax:           b.Tax,
		Discount:      b.Discount,
		Total:         b.Total(),
		PaymentMethod: b.PaymentMethod,
		Status:        b.Status,
		UserID:        b.UserID,
		Username:      b.Username,
	}
	for i := range b.Items {
		item := &b.Items[i]
		resp.Items = append(resp.Items, dto.BillItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal(),
		})
	}
	return resp
}
