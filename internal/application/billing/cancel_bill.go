package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/application/inventory"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/internal/domain/repository"
)

// Cancel anula una factura COMPLETED y devuelve al stock cada línea con una entrada (IN) en el libro.
// Anular una factura ya anulada retorna domain.ErrConflict.
func (uc *CreateBillUseCase) Cancel(ctx context.Context, id, userID, username string) (*dto.BillResponse, error) {
	now := uc.now()
	var bill *entity.Bill

	err := uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.StockTransactionRepository,
		billRepo repository.BillRepository,
		_ repository.BillSequenceRepository,
	) error {
		var err error
		bill, err = billRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		if bill.Status != entity.BillStatusCompleted {
			return fmt.Errorf("%w: la factura %s está %s", domain.ErrConflict, bill.BillNumber, bill.Status)
		}
		// El cambio de estado va antes de devolver stock: si otra anulación ganó, se corta aquí.
		if err := billRepo.UpdateStatus(ctx, bill.ID, entity.BillStatusCompleted, entity.BillStatusCancelled); err != nil {
			return err
		}
		bill.Status = entity.BillStatusCancelled
		for _, item := range bill.Items {
			if _, err := uc.inventoryUC.ApplyInTx(ctx, productRepo, txRepo, inventory.ApplyInput{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Type:      entity.TransactionTypeIN,
				Notes:     "Bill #" + bill.BillNumber + " cancelled",
				UserID:    userID,
				Username:  username,
			}, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("bill_number", bill.BillNumber).Msg("factura anulada")
	return ToBillResponse(bill), nil
}

// Delete elimina la factura y sus items (primero items, luego cabecera) en una transacción.
// No modifica el stock; para devolver mercancía usar Cancel.
func (uc *CreateBillUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.RunBilling(ctx, func(
		_ repository.ProductRepository,
		_ repository.StockTransactionRepository,
		billRepo repository.BillRepository,
		_ repository.BillSequenceRepository,
	) error {
		bill, err := billRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if bill == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
		}
		return billRepo.Delete(ctx, id)
	})
}
