package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-billing-api/internal/application/dto"
	"github.com/jhoicas/stock-billing-api/internal/domain"
	"github.com/jhoicas/stock-billing-api/internal/domain/entity"
	"github.com/jhoicas/stock-billing-api/pkg/validator"
)

// ApplyFromRequest adapta el request HTTP de POST /api/stock/update al caso de uso Apply.
// userID y username vienen del token del usuario autenticado.
func (uc *StockLedgerUseCase) ApplyFromRequest(ctx context.Context, userID, username string, in dto.StockUpdateRequest) (*dto.StockTransactionResponse, error) {
	if err := validator.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	st, err := uc.Apply(ctx, ApplyInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Type:      in.Type,
		Notes:     in.Notes,
		UserID:    userID,
		Username:  username,
	})
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(st)
	return &resp, nil
}

// ToTransactionResponse convierte un registro del libro al DTO de salida.
func ToTransactionResponse(st *entity.StockTransaction) dto.StockTransactionResponse {
	return dto.StockTransactionResponse{
		ID:              st.ID,
		ProductID:       st.ProductID,
		Type:            st.Type,
		Quantity:        st.Quantity,
		PreviousStock:   st.PreviousStock,
		NewStock:        st.NewStock,
		Notes:           st.Notes,
		UserID:          st.UserID,
		Username:        st.Username,
		TransactionDate: st.TransactionDate,
	}
}

// ToTransactionResponses convierte una lista de registros del libro.
func ToTransactionResponses(list []*entity.StockTransaction) []dto.StockTransactionResponse {
	out := make([]dto.StockTransactionResponse, 0, len(list))
	for _, st := range list {
		out = append(out, ToTransactionResponse(st))
	}
	return out
}
