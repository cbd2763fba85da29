package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	dombilling "github.com/jhoicas/stock-billing-api/internal/domain/billing"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
)

// GetByID obtiene una factura con sus items.
func (uc *CreateBillUseCase) GetByID(ctx context.Context, id string) (*dto.BillResponse, error) {
	bill, err := uc.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, id)
	}
	return ToBillResponse(bill), nil
}

// GetByNumber obtiene una factura por su número (BILL-YYYYMMDD-NNNN).
func (uc *CreateBillUseCase) GetByNumber(ctx context.Context, number string) (*dto.BillResponse, error) {
	if _, _, err := dombilling.ParseBillNumber(number); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	bill, err := uc.billRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, number)
	}
	return ToBillResponse(bill), nil
}

// List devuelve todas las facturas, la más reciente primero.
func (uc *CreateBillUseCase) List(ctx context.Context) ([]dto.BillResponse, error) {
	return toBillResponses(uc.billRepo.List(ctx))
}

// ListByDateRange devuelve las facturas con fecha en [from, to].
func (uc *CreateBillUseCase) ListByDateRange(ctx context.Context, from, to time.Time) ([]dto.BillResponse, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: from debe ser anterior a to", domain.ErrInvalidInput)
	}
	return toBillResponses(uc.billRepo.ListByDateRange(ctx, from, to))
}

func toBillResponses(list []*entity.Bill, err error) ([]dto.BillResponse, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dto.BillResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *ToBillResponse(b))
	}
	return out, nil
}
